package service

import (
	"testing"

	"image-store/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchVariant(t *testing.T) {
	declared := models.VariantList{
		{Type: models.VariantSquare, Price: 9.99, License: models.LicensePersonal},
		{Type: models.VariantWide, Price: 49.99, License: models.LicenseCommercial},
	}

	t.Run("match returns declared price", func(t *testing.T) {
		// The client-supplied price is ignored.
		got, ok := matchVariant(declared, models.Variant{
			Type:    models.VariantSquare,
			Price:   0.01,
			License: models.LicensePersonal,
		})
		require.True(t, ok)
		assert.Equal(t, 9.99, got.Price)
	})

	t.Run("undeclared type", func(t *testing.T) {
		_, ok := matchVariant(
			models.VariantList{{Type: models.VariantSquare, Price: 9.99, License: models.LicensePersonal}},
			models.Variant{Type: models.VariantWide, License: models.LicensePersonal})
		assert.False(t, ok)
	})

	t.Run("license must match too", func(t *testing.T) {
		_, ok := matchVariant(declared, models.Variant{
			Type:    models.VariantSquare,
			License: models.LicenseCommercial,
		})
		assert.False(t, ok)
	})

	t.Run("empty list", func(t *testing.T) {
		_, ok := matchVariant(nil, models.Variant{Type: models.VariantSquare, License: models.LicensePersonal})
		assert.False(t, ok)
	})
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(999), minorUnits(9.99))
	assert.Equal(t, int64(4999), minorUnits(49.99))
	assert.Equal(t, int64(100), minorUnits(1))
	assert.Equal(t, int64(0), minorUnits(0))

	// Float representation noise must not shave a paisa off.
	assert.Equal(t, int64(1010), minorUnits(10.1))
}

func TestNewBaseEvent(t *testing.T) {
	event := newBaseEvent(models.EventTypeOrderCreated)
	assert.Equal(t, models.EventTypeOrderCreated, event.EventType)
	assert.NotEmpty(t, event.EventID)
	assert.False(t, event.Timestamp.IsZero())

	assert.NotEqual(t, event.EventID, newBaseEvent(models.EventTypeOrderCreated).EventID)
}
