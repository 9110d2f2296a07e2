package commands_test

import (
	"context"
	"time"

	"cylindertrack/internal/core/application/audit"
	"cylindertrack/internal/core/application/usecases/commands"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/order"
	"cylindertrack/internal/core/domain/model/policy"
	"cylindertrack/internal/core/domain/model/route"
	"cylindertrack/internal/core/ports"
	"cylindertrack/internal/pkg/errs"
)

// In-memory repositories and collaborator fakes shared by the handler and
// workflow tests in this package. The fake unit of work satisfies every
// narrow UoW interface the handlers depend on, mirroring how the postgres
// unit of work does.

type fakeOrderRepository struct {
	orders map[kernel.UUID]*order.Order

	lifecycleEvents []order.LifecycleEvent
	promiseEvents   []order.PromiseChangeEvent
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{orders: make(map[kernel.UUID]*order.Order)}
}

func (r *fakeOrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	r.orders[aggregate.ID()] = aggregate
	r.drainEvents(aggregate)
	return nil
}

func (r *fakeOrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	r.orders[aggregate.ID()] = aggregate
	r.drainEvents(aggregate)
	return nil
}

// drainEvents mirrors the persistence contract of the real repository: the
// accumulated event rows are stored and the aggregate is left clean.
func (r *fakeOrderRepository) drainEvents(aggregate *order.Order) {
	r.lifecycleEvents = append(r.lifecycleEvents, aggregate.PendingEvents()...)
	r.promiseEvents = append(r.promiseEvents, aggregate.PendingPromiseEvents()...)
	aggregate.ClearPendingEvents()
}

func (r *fakeOrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	aggregate, ok := r.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderID", id.String())
	}
	return aggregate, nil
}

func (r *fakeOrderRepository) GetByOrderNo(_ context.Context, orderNo string) (*order.Order, error) {
	for _, aggregate := range r.orders {
		if aggregate.OrderNo() == orderNo {
			return aggregate, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderNo", orderNo)
}

func (r *fakeOrderRepository) GetAllWithLegacyStatus(_ context.Context) ([]*order.Order, error) {
	var result []*order.Order
	for _, aggregate := range r.orders {
		if aggregate.LegacyStatus() != "" && aggregate.MigratedAt() == nil {
			result = append(result, aggregate)
		}
	}
	return result, nil
}

func (r *fakeOrderRepository) GetAllInvoiceReady(_ context.Context) ([]*order.Order, error) {
	var result []*order.Order
	for _, aggregate := range r.orders {
		if aggregate.Status() == order.InvoiceReady && aggregate.InvoiceSubmittedAt() == nil {
			result = append(result, aggregate)
		}
	}
	return result, nil
}

func (r *fakeOrderRepository) GetAllCustomerHoldDue(_ context.Context, asOf time.Time) ([]*order.Order, error) {
	var result []*order.Order
	for _, aggregate := range r.orders {
		details := aggregate.CustomerHold()
		if aggregate.HoldOverlay() == order.OnHoldCustomer && details != nil && !details.ReadyRetryUtc.After(asOf) {
			result = append(result, aggregate)
		}
	}
	return result, nil
}

type fakeInstanceRepository struct {
	instances map[kernel.UUID]*route.Instance
}

func newFakeInstanceRepository() *fakeInstanceRepository {
	return &fakeInstanceRepository{instances: make(map[kernel.UUID]*route.Instance)}
}

func (r *fakeInstanceRepository) Add(_ context.Context, instance *route.Instance) error {
	r.instances[instance.ID()] = instance
	return nil
}

func (r *fakeInstanceRepository) Update(_ context.Context, instance *route.Instance) error {
	r.instances[instance.ID()] = instance
	return nil
}

func (r *fakeInstanceRepository) Get(_ context.Context, id kernel.UUID) (*route.Instance, error) {
	instance, ok := r.instances[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("instanceID", id.String())
	}
	return instance, nil
}

func (r *fakeInstanceRepository) GetByOrderLine(_ context.Context, orderLineID kernel.UUID) (*route.Instance, error) {
	for _, instance := range r.instances {
		if instance.OrderLineID().IsEqual(orderLineID) {
			return instance, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderLineID", orderLineID.String())
}

func (r *fakeInstanceRepository) GetAllForOrder(_ context.Context, orderID kernel.UUID) ([]*route.Instance, error) {
	var result []*route.Instance
	for _, instance := range r.instances {
		if instance.OrderID().IsEqual(orderID) {
			result = append(result, instance)
		}
	}
	return result, nil
}

type fakeTemplateRepository struct {
	templates map[kernel.UUID]*route.Template
}

func newFakeTemplateRepository() *fakeTemplateRepository {
	return &fakeTemplateRepository{templates: make(map[kernel.UUID]*route.Template)}
}

func (r *fakeTemplateRepository) Add(_ context.Context, template *route.Template) error {
	r.templates[template.ID()] = template
	return nil
}

func (r *fakeTemplateRepository) Update(_ context.Context, template *route.Template) error {
	r.templates[template.ID()] = template
	return nil
}

func (r *fakeTemplateRepository) Get(_ context.Context, id kernel.UUID) (*route.Template, error) {
	template, ok := r.templates[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("templateID", id.String())
	}
	return template, nil
}

func (r *fakeTemplateRepository) GetActiveByName(_ context.Context, name string) (*route.Template, error) {
	for _, template := range r.templates {
		if template.Name() == name && template.Active() {
			return template, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("templateName", name)
}

type fakeAssignmentRepository struct {
	assignments map[kernel.UUID]*route.Assignment
}

func newFakeAssignmentRepository() *fakeAssignmentRepository {
	return &fakeAssignmentRepository{assignments: make(map[kernel.UUID]*route.Assignment)}
}

func (r *fakeAssignmentRepository) Add(_ context.Context, assignment *route.Assignment) error {
	r.assignments[assignment.ID()] = assignment
	return nil
}

func (r *fakeAssignmentRepository) Update(_ context.Context, assignment *route.Assignment) error {
	r.assignments[assignment.ID()] = assignment
	return nil
}

func (r *fakeAssignmentRepository) Get(_ context.Context, id kernel.UUID) (*route.Assignment, error) {
	assignment, ok := r.assignments[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("assignmentID", id.String())
	}
	return assignment, nil
}

func (r *fakeAssignmentRepository) GetAllActive(_ context.Context) ([]*route.Assignment, error) {
	var result []*route.Assignment
	for _, assignment := range r.assignments {
		if assignment.Active() {
			result = append(result, assignment)
		}
	}
	return result, nil
}

type fakePolicyRepository struct {
	versions map[kernel.UUID]*policy.Version
}

func newFakePolicyRepository() *fakePolicyRepository {
	return &fakePolicyRepository{versions: make(map[kernel.UUID]*policy.Version)}
}

func (r *fakePolicyRepository) Add(_ context.Context, version *policy.Version) error {
	r.versions[version.ID()] = version
	return nil
}

func (r *fakePolicyRepository) Update(_ context.Context, version *policy.Version) error {
	r.versions[version.ID()] = version
	return nil
}

func (r *fakePolicyRepository) Get(_ context.Context, id kernel.UUID) (*policy.Version, error) {
	version, ok := r.versions[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("versionID", id.String())
	}
	return version, nil
}

func (r *fakePolicyRepository) GetActive(_ context.Context) (*policy.Version, error) {
	for _, version := range r.versions {
		if version.IsActive() {
			return version, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("policyVersion", "active")
}

func (r *fakePolicyRepository) GetByVersionNo(_ context.Context, versionNo int) (*policy.Version, error) {
	for _, version := range r.versions {
		if version.VersionNo() == versionNo {
			return version, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("versionNo", "")
}

type fakeAuditRepository struct {
	records       []audit.Record
	notifications []ports.NotificationRecord
}

func (r *fakeAuditRepository) AddRecords(_ context.Context, records []audit.Record) error {
	r.records = append(r.records, records...)
	return nil
}

func (r *fakeAuditRepository) AddNotification(_ context.Context, record ports.NotificationRecord) error {
	r.notifications = append(r.notifications, record)
	return nil
}

// fakeUoW bundles the in-memory repositories behind every unit of work
// interface the command handlers know.
type fakeUoW struct {
	orders      *fakeOrderRepository
	instances   *fakeInstanceRepository
	templates   *fakeTemplateRepository
	assignments *fakeAssignmentRepository
	policies    *fakePolicyRepository
	audits      *fakeAuditRepository

	commits   int
	rollbacks int
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{
		orders:      newFakeOrderRepository(),
		instances:   newFakeInstanceRepository(),
		templates:   newFakeTemplateRepository(),
		assignments: newFakeAssignmentRepository(),
		policies:    newFakePolicyRepository(),
		audits:      &fakeAuditRepository{},
	}
}

func (u *fakeUoW) Begin(_ context.Context) error { return nil }

func (u *fakeUoW) Commit(_ context.Context) error {
	u.commits++
	return nil
}

func (u *fakeUoW) Rollback(_ context.Context) error {
	u.rollbacks++
	return nil
}

func (u *fakeUoW) OrderRepository() ports.OrderRepository                 { return u.orders }
func (u *fakeUoW) RouteInstanceRepository() ports.RouteInstanceRepository { return u.instances }
func (u *fakeUoW) RouteTemplateRepository() ports.RouteTemplateRepository { return u.templates }
func (u *fakeUoW) AssignmentRepository() ports.AssignmentRepository       { return u.assignments }
func (u *fakeUoW) PolicyRepository() ports.PolicyRepository               { return u.policies }
func (u *fakeUoW) AuditRepository() ports.AuditRepository                 { return u.audits }

type fakeOrderUoWFactory struct{ uow *fakeUoW }

func (f fakeOrderUoWFactory) Create() commands.OrderUoW { return f.uow }

type fakeRouteUoWFactory struct{ uow *fakeUoW }

func (f fakeRouteUoWFactory) Create() commands.RouteUoW { return f.uow }

type fakeRoutingUoWFactory struct{ uow *fakeUoW }

func (f fakeRoutingUoWFactory) Create() commands.RoutingUoW { return f.uow }

type fakePolicyUoWFactory struct{ uow *fakeUoW }

func (f fakePolicyUoWFactory) Create() commands.PolicyUoW { return f.uow }

// fakePolicyReader answers decision lookups from a flat map, ignoring scope.
type fakePolicyReader struct {
	values map[string]string
}

func (r fakePolicyReader) ActiveValue(
	_ context.Context, decisionKey string, _, _ *kernel.UUID,
) (string, bool, error) {
	value, ok := r.values[decisionKey]
	return value, ok, nil
}

// fakeCacheInvalidator counts invalidations of the decision value cache.
type fakeCacheInvalidator struct {
	invalidations int
}

func (i *fakeCacheInvalidator) Invalidate(_ context.Context) error {
	i.invalidations++
	return nil
}

type fakeNotifier struct {
	requests []ports.NotificationRequest
}

func (n *fakeNotifier) Notify(_ context.Context, request ports.NotificationRequest) (ports.NotificationReceipt, error) {
	n.requests = append(n.requests, request)
	return ports.NotificationReceipt{
		Channel:          "email",
		RecipientSummary: "customer contact",
		SentAt:           time.Now().UTC(),
	}, nil
}

type fakeDocumentGenerator struct {
	requests []ports.DocumentRequest
}

func (g *fakeDocumentGenerator) Generate(_ context.Context, request ports.DocumentRequest) error {
	g.requests = append(g.requests, request)
	return nil
}

func (g *fakeDocumentGenerator) countOf(kind route.DocumentKind) int {
	count := 0
	for _, request := range g.requests {
		if request.Kind == kind {
			count++
		}
	}
	return count
}

type fakeReferenceData struct{}

func (fakeReferenceData) CustomerExists(_ context.Context, _ kernel.UUID) (bool, error) {
	return true, nil
}
func (fakeReferenceData) SiteExists(_ context.Context, _ kernel.UUID) (bool, error) { return true, nil }
func (fakeReferenceData) ItemExists(_ context.Context, _ kernel.UUID) (bool, error) { return true, nil }
func (fakeReferenceData) ShipViaExists(_ context.Context, _ kernel.UUID) (bool, error) {
	return true, nil
}

type fakeErpStaging struct {
	submissions []ports.InvoiceSubmission
}

func (e *fakeErpStaging) SubmitInvoice(_ context.Context, submission ports.InvoiceSubmission) (ports.InvoiceStagingResult, error) {
	e.submissions = append(e.submissions, submission)
	return ports.InvoiceStagingResult{
		StagingResult:       "Staged",
		ErpInvoiceReference: "ERP-1001",
	}, nil
}
