package domain

import "time"

// Product is the backend's catalog shape. Prices live on variants,
// in minor currency units.
type Product struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Handle       string    `json:"handle"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	CollectionID string    `json:"collection_id,omitempty"`
	Images       []Image   `json:"images,omitempty"`
	Options      []Option  `json:"options,omitempty"`
	Variants     []Variant `json:"variants,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Option is a selectable axis (e.g. Color, Size) with its legal values.
type Option struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Values []OptionValue `json:"values,omitempty"`
}

type OptionValue struct {
	ID       string `json:"id"`
	OptionID string `json:"option_id"`
	Value    string `json:"value"`
}

// Variant is one purchasable combination of option values with its own
// price and stock count.
type Variant struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Price             int64         `json:"price"`
	InventoryQuantity int           `json:"inventory_quantity"`
	Options           []OptionValue `json:"options,omitempty"`
}

type Collection struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle"`
}
