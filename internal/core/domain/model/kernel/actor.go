package kernel

import "context"

// SourceUnspecified is recorded when a mutation reaches the core without an
// ambient actor context (background jobs before login, migrations). Audit
// writes must never block on missing context, so this is the fallback, not an
// error.
const SourceUnspecified = "Unspecified"

// Role identifies the business function an actor operates under. Transition
// and hold-release permissions are resolved against these values through the
// policy store.
type Role string

const (
	RoleUnspecified    Role = ""
	RoleOffice         Role = "Office"
	RoleTransportation Role = "Transportation"
	RoleReceiving      Role = "Receiving"
	RoleProduction     Role = "Production"
	RoleSupervisor     Role = "Supervisor"
	RoleQuality        Role = "Quality"
	RoleSystem         Role = "System"
)

// Actor is the ambient request identity consumed by the lifecycle machine,
// execution engine, and audit recorder. It travels on the context.Context of
// the request so every layer attributes mutations to the same actor.
type Actor struct {
	EmpNo         string
	Role          Role
	SiteID        *UUID
	Source        string
	CorrelationID UUID
}

// SystemActor returns the identity used by background jobs and migrations.
// A fresh correlation ID ties together everything one sweep touches.
func SystemActor(source string) Actor {
	return Actor{
		Role:          RoleSystem,
		Source:        source,
		CorrelationID: NewUUID(),
	}
}

type actorContextKey struct{}

// WithActor returns a context carrying the given actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the ambient actor. When the context carries none,
// it returns an anonymous actor with Source set to SourceUnspecified so audit
// attribution degrades instead of failing.
func ActorFromContext(ctx context.Context) Actor {
	if actor, ok := ctx.Value(actorContextKey{}).(Actor); ok {
		return actor
	}
	return Actor{Source: SourceUnspecified, CorrelationID: NewUUID()}
}
