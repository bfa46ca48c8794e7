package model

// Item is a stock-keeping-unit record. The SKU is the business key and is
// unique across all items; the numeric id is assigned by the store and never
// reused after deletion.
type Item struct {
	ID          int64   `json:"id"`
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	Supplier    string  `json:"supplier"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
}
