package models

// Product is an immutable catalog record. The id is assigned by the external
// catalog, not by this service.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	InStock     bool    `json:"in_stock"`
	Weight      int     `json:"weight"`
	Image       string  `json:"image"`
}
