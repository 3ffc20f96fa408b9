package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-store/internal/models"
)

func TestParseWebhookEvent(t *testing.T) {
	t.Run("captured event", func(t *testing.T) {
		body := []byte(`{
			"event": "payment.captured",
			"payload": {
				"payment": {
					"entity": {
						"id": "pay_abc",
						"order_id": "order_xyz",
						"status": "captured"
					}
				}
			}
		}`)

		event, payment, err := parseWebhookEvent(body)
		require.NoError(t, err)
		assert.Equal(t, eventPaymentCaptured, event)
		assert.Equal(t, "pay_abc", payment.ID)
		assert.Equal(t, "order_xyz", payment.OrderID)
	})

	t.Run("failed event", func(t *testing.T) {
		body := []byte(`{
			"event": "payment.failed",
			"payload": {
				"payment": {
					"entity": {
						"id": "pay_abc",
						"order_id": "order_xyz",
						"status": "failed"
					}
				}
			}
		}`)

		event, payment, err := parseWebhookEvent(body)
		require.NoError(t, err)
		assert.Equal(t, eventPaymentFailed, event)
		assert.Equal(t, "order_xyz", payment.OrderID)
	})

	t.Run("unconsumed event type needs no entity", func(t *testing.T) {
		event, _, err := parseWebhookEvent([]byte(`{"event": "refund.created"}`))
		require.NoError(t, err)
		assert.Equal(t, "refund.created", event)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, _, err := parseWebhookEvent([]byte(`{not json`))
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("missing event type", func(t *testing.T) {
		_, _, err := parseWebhookEvent([]byte(`{}`))
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("capture without payment entity", func(t *testing.T) {
		_, _, err := parseWebhookEvent([]byte(`{"event": "payment.captured", "payload": {}}`))
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("capture without order reference", func(t *testing.T) {
		body := []byte(`{
			"event": "payment.captured",
			"payload": {"payment": {"entity": {"id": "pay_abc"}}}
		}`)
		_, _, err := parseWebhookEvent(body)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestTruncateRef(t *testing.T) {
	assert.Equal(t, "42", truncateRef(42))
	assert.Equal(t, "123456", truncateRef(123456))
	assert.Equal(t, "654321", truncateRef(987654321))
}
