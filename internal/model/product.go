package model

// ProductDto product record owned by the product service. Price is in
// minor currency units.
type ProductDto struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Price          int    `json:"price"`
	ServiceAddress string `json:"serviceAddress,omitempty"`
}
