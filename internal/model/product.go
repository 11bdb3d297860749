package model

// Product is user-maintained master data: a canonical ingredient name with
// category and any barcodes linked to it.
type Product struct {
	ID       string   `json:"id"`
	UserID   string   `json:"user_id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Barcodes []string `json:"barcodes,omitempty"`
}

// BarcodeEntry is one row of the seeded barcode catalog, used to pre-fill
// inventory forms from a scanned code.
type BarcodeEntry struct {
	Barcode           string `json:"barcode"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	DefaultExpiryDays int    `json:"default_expiry_days"`
}
