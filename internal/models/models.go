package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Roles assignable to an account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a store account. The password hash never leaves the
// process: it is excluded from JSON and selected only on the login path.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Variant types (size/aspect class of an image rendition)
const (
	VariantSquare   = "SQUARE"
	VariantWide     = "WIDE"
	VariantPortrait = "PORTRAIT"
)

// License classes
const (
	LicensePersonal   = "personal"
	LicenseCommercial = "commercial"
)

// Dimensions holds the pixel size of a variant rendition.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// VariantDimensions maps each variant type to its delivered dimensions.
var VariantDimensions = map[string]Dimensions{
	VariantSquare:   {Width: 1200, Height: 1200},
	VariantWide:     {Width: 1920, Height: 1080},
	VariantPortrait: {Width: 1080, Height: 1920},
}

// Variant is a purchasable rendition of a product: a size/aspect class plus
// a license class, priced individually.
type Variant struct {
	Type    string  `json:"type" binding:"required,oneof=SQUARE WIDE PORTRAIT"`
	Price   float64 `json:"price" binding:"min=0"`
	License string  `json:"license" binding:"required,oneof=personal commercial"`
}

// Value serializes the variant into a JSONB column.
func (v Variant) Value() (driver.Value, error) {
	return json.Marshal(v)
}

// Scan reads the variant back from a JSONB column.
func (v *Variant) Scan(src interface{}) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, v)
	case string:
		return json.Unmarshal([]byte(data), v)
	default:
		return fmt.Errorf("cannot scan %T into Variant", src)
	}
}

// VariantList is the set of variants embedded in a product, stored as a
// single JSONB column. Variants are not independently addressable.
type VariantList []Variant

// Value serializes the list into a JSONB column.
func (vl VariantList) Value() (driver.Value, error) {
	return json.Marshal(vl)
}

// Scan reads the list back from a JSONB column.
func (vl *VariantList) Scan(src interface{}) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, vl)
	case string:
		return json.Unmarshal([]byte(data), vl)
	default:
		return fmt.Errorf("cannot scan %T into VariantList", src)
	}
}

// Product represents a licensed image in the catalog.
type Product struct {
	ID          int64       `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description"`
	ImageURL    string      `db:"image_url" json:"imageUrl"`
	Variants    VariantList `db:"variants" json:"variants"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
)

// Order ties a user, a product and a chosen variant to gateway-side state.
// Variant is a value copy frozen at checkout time, so later price edits to
// the product never alter historical orders.
type Order struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	ProductID        int64     `db:"product_id" json:"product_id"`
	Variant          Variant   `db:"variant" json:"variant"`
	GatewayOrderID   string    `db:"gateway_order_id" json:"gateway_order_id"`
	GatewayPaymentID string    `db:"gateway_payment_id" json:"gateway_payment_id,omitempty"`
	Amount           float64   `db:"amount" json:"amount"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// UserOrder is an order row joined with catalog fields for the orders page.
type UserOrder struct {
	Order
	ProductName     string `db:"product_name" json:"product_name"`
	ProductImageURL string `db:"product_image_url" json:"product_image_url"`
}

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}

// Reconciliation records a gateway payment intent that has no matching
// local order, left for manual follow-up.
type Reconciliation struct {
	ID             int64     `db:"id"`
	GatewayOrderID string    `db:"gateway_order_id"`
	UserID         int64     `db:"user_id"`
	ProductID      int64     `db:"product_id"`
	Amount         float64   `db:"amount"`
	Reason         string    `db:"reason"`
	CreatedAt      time.Time `db:"created_at"`
}
