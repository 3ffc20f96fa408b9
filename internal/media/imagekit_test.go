package media

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"image-store/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestUploadAuthParams(t *testing.T) {
	client := NewClient("pub-key", "priv-key", "https://ik.example.com/store")

	params := client.UploadAuthParams()
	assert.NotEmpty(t, params.Token)
	assert.Greater(t, params.Expire, time.Now().Unix())

	// Signature must be the HMAC-SHA1 hex digest of token+expire under the
	// private key.
	mac := hmac.New(sha1.New, []byte("priv-key"))
	fmt.Fprintf(mac, "%s%d", params.Token, params.Expire)
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), params.Signature)
}

func TestUploadAuthParamsUnique(t *testing.T) {
	client := NewClient("pub-key", "priv-key", "https://ik.example.com")

	first := client.UploadAuthParams()
	second := client.UploadAuthParams()
	assert.NotEqual(t, first.Token, second.Token)
}

func TestVariantURL(t *testing.T) {
	client := NewClient("pub-key", "priv-key", "https://ik.example.com/store/")

	tests := []struct {
		variantType string
		want        string
	}{
		{models.VariantSquare, "https://ik.example.com/store/tr:w-1200,h-1200/photos/cat.jpg"},
		{models.VariantWide, "https://ik.example.com/store/tr:w-1920,h-1080/photos/cat.jpg"},
		{models.VariantPortrait, "https://ik.example.com/store/tr:w-1080,h-1920/photos/cat.jpg"},
		{"BANNER", "https://ik.example.com/store/photos/cat.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.variantType, func(t *testing.T) {
			assert.Equal(t, tt.want, client.VariantURL("/photos/cat.jpg", tt.variantType))
		})
	}
}
