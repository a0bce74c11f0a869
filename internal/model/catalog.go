package model

// CatalogItem is a purchasable print product merged into gallery
// responses. Sourced from the external catalog service; never persisted
// by this engine.
type CatalogItem struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	PriceCents int64   `json:"priceCents"`
	Currency   string  `json:"currency"`
	SortOrder  int     `json:"sortOrder"`
	SKU        *string `json:"sku,omitempty"`
}
