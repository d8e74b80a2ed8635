package domain

// Product is a catalog record created by the listing importer and edited by
// the inventory tooling. IDs are creation-instant strings (millisecond
// epoch), matching what the storefront already has on disk.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int      `json:"price"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Category    string   `json:"category"`
}

// Categories offered by the shop. Imports carry the operator-selected
// category verbatim; unrecognized values still import and get the default
// markup.
var Categories = []string{"Laptops", "Phones", "Audio"}

// Review is a customer review shown on the storefront. Date is a display
// string, not a timestamp, because the storefront renders it as-is.
type Review struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Study  string `json:"study"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
	Date   string `json:"date,omitempty"`
}
