package models

// ProductCategory enumerates whitelist categories. Only bottles earn deposit
// points at the kiosk; everything else is rejected at scan time.
type ProductCategory string

const (
	CategoryBottle ProductCategory = "bottle"
	CategoryCan    ProductCategory = "can"
	CategorySnack  ProductCategory = "snack"
	CategoryOther  ProductCategory = "other"
)

// Product is a whitelisted item keyed by barcode. Scan logs snapshot the name
// rather than referencing the row, so later edits do not rewrite history.
type Product struct {
	Barcode     string          `db:"barcode" json:"barcode"`
	Name        string          `db:"name" json:"name"`
	Category    ProductCategory `db:"category" json:"category"`
	PointsValue int             `db:"points_value" json:"pointsValue"`
}
