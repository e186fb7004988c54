package caja

import "botilleria/internal/model"

// ValidarBoleta rejects a second receipt of the same kind for a sale.
func ValidarBoleta(existentes []model.Boleta, nueva model.Boleta) error {
	for _, b := range existentes {
		if b.VentaID == nueva.VentaID && b.Tipo == nueva.Tipo {
			return ErrBoletaDuplicada
		}
	}
	return nil
}

// FolioAsignado reports whether the sale's receipt of kind tipo has a folio.
func FolioAsignado(boletas []model.Boleta, tipo model.TipoBoleta) bool {
	for _, b := range boletas {
		if b.Tipo == tipo && b.Folio != nil && *b.Folio != "" {
			return true
		}
	}
	return false
}
