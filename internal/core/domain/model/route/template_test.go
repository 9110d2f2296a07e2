package route_test

import (
	"testing"

	"cylindertrack/internal/core/domain/model/kernel"
	"cylindertrack/internal/core/domain/model/route"
	"cylindertrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplate(t *testing.T) {
	t.Run("should create version one with ordered steps", func(t *testing.T) {
		template, err := route.NewTemplate(kernel.NewUUID(), "Hydro Test Line", []route.TemplateStep{
			simpleStep(1, "Prep"),
			simpleStep(2, "HydroTest"),
		})

		require.NoError(t, err)
		assert.Equal(t, 1, template.VersionNo())
		assert.True(t, template.Active())
		assert.False(t, template.Instantiated())
		assert.Len(t, template.Steps(), 2)
	})

	t.Run("should reject an empty name", func(t *testing.T) {
		_, err := route.NewTemplate(kernel.NewUUID(), "", []route.TemplateStep{simpleStep(1, "Prep")})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject a template without steps", func(t *testing.T) {
		_, err := route.NewTemplate(kernel.NewUUID(), "Hydro Test Line", nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject non-contiguous sequences", func(t *testing.T) {
		_, err := route.NewTemplate(kernel.NewUUID(), "Hydro Test Line", []route.TemplateStep{
			simpleStep(1, "Prep"),
			simpleStep(3, "Paint"),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestTemplateRevise(t *testing.T) {
	t.Run("should produce the next version and retire the current one", func(t *testing.T) {
		template := createTemplate(t, simpleStep(1, "Prep"), simpleStep(2, "HydroTest"))

		next, err := template.Revise(kernel.NewUUID(), []route.TemplateStep{
			simpleStep(1, "Prep"),
			simpleStep(2, "HydroTest"),
			simpleStep(3, "Paint"),
		})

		require.NoError(t, err)
		assert.Equal(t, template.VersionNo()+1, next.VersionNo())
		assert.Equal(t, template.Name(), next.Name())
		assert.True(t, next.Active())
		assert.False(t, template.Active())
		assert.Len(t, next.Steps(), 3)
	})

	t.Run("should validate the revised steps", func(t *testing.T) {
		template := createTemplate(t, simpleStep(1, "Prep"))

		_, err := template.Revise(kernel.NewUUID(), nil)

		require.Error(t, err)
		assert.True(t, template.Active())
	})
}

func TestTemplateMarkInstantiated(t *testing.T) {
	t.Run("should freeze the version once a route uses it", func(t *testing.T) {
		template := createTemplate(t, simpleStep(1, "Prep"))

		template.MarkInstantiated()

		assert.True(t, template.Instantiated())
	})
}
