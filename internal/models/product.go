package models

// Product is a record from the external product database.
type Product struct {
	// Code is the product barcode (EAN/UPC).
	Code string

	Name string

	// Brand may list several brands separated by commas.
	Brand string

	// Quantity is the packaging description (e.g., "1 L", "500 g").
	Quantity string

	ImageURL string
}
