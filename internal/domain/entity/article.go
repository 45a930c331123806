package entity

// Article is a sellable inventory item. Price is the selling price referenced
// by invoice positions; Cost and stock levels exist for inventory screens.
type Article struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Cost      float64 `json:"cost"`
	Stock     float64 `json:"stock"`
	MinStock  float64 `json:"minStock"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}
