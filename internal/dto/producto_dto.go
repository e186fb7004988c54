package dto

import "github.com/shopspring/decimal"

// ProductoResponse is GET /productos/codigo/:codigo.
type ProductoResponse struct {
	ID     int64           `json:"id"`
	Codigo string          `json:"codigo"`
	Nombre string          `json:"nombre"`
	Precio decimal.Decimal `json:"precio"`
	Exento bool            `json:"exento"`
	Stock  int             `json:"stock"`
}
