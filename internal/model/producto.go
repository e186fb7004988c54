package model

import "github.com/shopspring/decimal"

// Producto is a catalog entry as the barcode scanner resolves it.
// Exento products carry no tax and are split onto their own receipt.
type Producto struct {
	ID     int64           `json:"id"`
	Codigo string          `json:"codigo"`
	Nombre string          `json:"nombre"`
	Precio decimal.Decimal `json:"precio"`
	Exento bool            `json:"exento"`
	Stock  int             `json:"stock"`
}
