package domain

import "time"

// Cart is server-owned state referenced by an opaque id. Subtotal is
// computed by the backend; clients must never recompute it locally.
type Cart struct {
	ID        string     `json:"id"`
	Items     []LineItem `json:"items"`
	Subtotal  int64      `json:"subtotal"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at,omitempty"`
}

// LineItem binds a variant to a quantity.
type LineItem struct {
	ID        string `json:"id"`
	VariantID string `json:"variant_id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type Address struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address_1"`
	City        string `json:"city"`
	Province    string `json:"province"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}
