package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderConfirmation(t *testing.T) {
	body, err := renderConfirmation(OrderConfirmation{
		OrderRef:    "123456",
		ProductName: "Mountain Sunrise",
		VariantType: "WIDE",
		License:     "commercial",
		Amount:      49.9,
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Thank you for your purchase!")
	assert.Contains(t, body, "Order ID: 123456")
	assert.Contains(t, body, "Product: Mountain Sunrise")
	assert.Contains(t, body, "Version: WIDE")
	assert.Contains(t, body, "License: commercial")
	assert.Contains(t, body, "Price: 49.90")
	assert.Contains(t, body, "Thank you for choosing Image Store!")
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("shop@example.com", "buyer@example.com", "Payment Confirmation - Image Store", "hello"))

	assert.Contains(t, msg, "From: shop@example.com\r\n")
	assert.Contains(t, msg, "To: buyer@example.com\r\n")
	assert.Contains(t, msg, "Subject: Payment Confirmation - Image Store\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	assert.Contains(t, msg, "\r\n\r\nhello")
}
