package media

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"image-store/internal/models"

	"github.com/google/uuid"
)

// Upload auth tokens stay valid long enough for the browser widget to
// finish a slow upload.
const uploadTokenTTL = 30 * time.Minute

// Client produces upload auth parameters and display URLs for an
// ImageKit-compatible media CDN.
type Client struct {
	publicKey   string
	privateKey  string
	urlEndpoint string
}

// NewClient creates a media CDN helper.
func NewClient(publicKey, privateKey, urlEndpoint string) *Client {
	return &Client{
		publicKey:   publicKey,
		privateKey:  privateKey,
		urlEndpoint: strings.TrimRight(urlEndpoint, "/"),
	}
}

// AuthParams are consumed by the browser upload widget.
type AuthParams struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

// UploadAuthParams mints a fresh single-use token for a client-side upload.
func (c *Client) UploadAuthParams() AuthParams {
	token := uuid.New().String()
	expire := time.Now().Add(uploadTokenTTL).Unix()
	return AuthParams{
		Token:     token,
		Expire:    expire,
		Signature: c.sign(token, expire),
	}
}

// sign computes the HMAC-SHA1 hex digest of token+expire under the private
// key, the signature shape the CDN expects.
func (c *Client) sign(token string, expire int64) string {
	mac := hmac.New(sha1.New, []byte(c.privateKey))
	fmt.Fprintf(mac, "%s%d", token, expire)
	return hex.EncodeToString(mac.Sum(nil))
}

// PublicKey returns the key the upload widget embeds client-side.
func (c *Client) PublicKey() string {
	return c.publicKey
}

// VariantURL builds a display URL applying the variant's transformation.
// Unknown variant types fall back to the untransformed image.
func (c *Client) VariantURL(imagePath, variantType string) string {
	path := strings.TrimPrefix(imagePath, "/")
	dim, ok := models.VariantDimensions[variantType]
	if !ok {
		return c.urlEndpoint + "/" + path
	}
	return fmt.Sprintf("%s/tr:w-%d,h-%d/%s", c.urlEndpoint, dim.Width, dim.Height, path)
}
