package commands_test

import (
	"testing"

	"cylindertrack/internal/core/application/usecases/commands"
	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/policy"
	"cylindertrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper functions.
func storeDraftVersion(t *testing.T, uow *fakeUoW, versionNo int, requiredRoles []kernel.Role) *policy.Version {
	t.Helper()
	entry := policy.Entry{
		ID:          kernel.NewUUID(),
		DecisionKey: "lifecycle.advance.roles.PendingOrderEntryValidation",
		ScopeType:   policy.ScopeGlobal,
		Value:       "Office",
	}
	version, err := policy.NewVersion(kernel.NewUUID(), versionNo, "decision values", requiredRoles, []policy.Entry{entry})
	require.NoError(t, err)
	require.NoError(t, uow.policies.Add(t.Context(), version))
	return version
}

func TestActivatePolicyVersionCommandHandler(t *testing.T) {
	t.Run("should activate and drop cached decision values", func(t *testing.T) {
		uow := newFakeUoW()
		cache := &fakeCacheInvalidator{}
		version := storeDraftVersion(t, uow, 1, nil)
		handler := commands.NewActivatePolicyVersionCommandHandler(fakePolicyUoWFactory{uow: uow}, cache)
		cmd, err := commands.NewActivatePolicyVersionCommand(version.ID())
		require.NoError(t, err)

		require.NoError(t, handler.Handle(t.Context(), cmd))

		assert.True(t, version.IsActive())
		assert.Equal(t, 1, uow.commits)
		assert.Equal(t, 1, cache.invalidations,
			"a cached reader must not keep serving the retired version")
	})

	t.Run("should retire the previously active version", func(t *testing.T) {
		uow := newFakeUoW()
		cache := &fakeCacheInvalidator{}
		current := storeDraftVersion(t, uow, 1, nil)
		require.NoError(t, current.Activate())
		next := storeDraftVersion(t, uow, 2, nil)
		handler := commands.NewActivatePolicyVersionCommandHandler(fakePolicyUoWFactory{uow: uow}, cache)
		cmd, err := commands.NewActivatePolicyVersionCommand(next.ID())
		require.NoError(t, err)

		require.NoError(t, handler.Handle(t.Context(), cmd))

		assert.False(t, current.IsActive())
		assert.True(t, next.IsActive())
		assert.Equal(t, 1, cache.invalidations)
	})

	t.Run("should keep the cache untouched when signoffs are outstanding", func(t *testing.T) {
		uow := newFakeUoW()
		cache := &fakeCacheInvalidator{}
		version := storeDraftVersion(t, uow, 1, []kernel.Role{kernel.RoleSupervisor})
		handler := commands.NewActivatePolicyVersionCommandHandler(fakePolicyUoWFactory{uow: uow}, cache)
		cmd, err := commands.NewActivatePolicyVersionCommand(version.ID())
		require.NoError(t, err)

		err = handler.Handle(t.Context(), cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrBlocked)
		assert.False(t, version.IsActive())
		assert.Zero(t, uow.commits)
		assert.Zero(t, cache.invalidations)
	})

	t.Run("should reject activating the already active version", func(t *testing.T) {
		uow := newFakeUoW()
		cache := &fakeCacheInvalidator{}
		version := storeDraftVersion(t, uow, 1, nil)
		require.NoError(t, version.Activate())
		handler := commands.NewActivatePolicyVersionCommandHandler(fakePolicyUoWFactory{uow: uow}, cache)
		cmd, err := commands.NewActivatePolicyVersionCommand(version.ID())
		require.NoError(t, err)

		err = handler.Handle(t.Context(), cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Zero(t, cache.invalidations)
	})

	t.Run("should fail for an unknown version", func(t *testing.T) {
		uow := newFakeUoW()
		cache := &fakeCacheInvalidator{}
		handler := commands.NewActivatePolicyVersionCommandHandler(fakePolicyUoWFactory{uow: uow}, cache)
		cmd, err := commands.NewActivatePolicyVersionCommand(kernel.NewUUID())
		require.NoError(t, err)

		err = handler.Handle(t.Context(), cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Zero(t, cache.invalidations)
	})
}
