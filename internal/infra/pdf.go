package infra

// pdf.go: closing report of a cash session using go-pdf/fpdf.
// A single A4 page with:
//   - Business name, terminal and session period
//   - Opening floats
//   - Collected amounts per payment method and ticket counts
//   - Manual movements (ingresos, egresos, vecina)
//   - Expected vs counted for both drawers, with the classification
//
// The output file is saved to storagePath/cierre_{sesion}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"botilleria/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateCierrePDF writes the closing report of an archived session.
// storagePath is created if needed. Returns the file name relative to it.
func GenerateCierrePDF(c *model.CierreArchivado, negocio, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("cierre_%d.pdf", c.SesionID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30
	labelW := contentW * 0.65
	valueW := contentW - labelW

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(negocio), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("Cierre de caja N° %d  ·  %s", c.SesionID, c.Terminal)), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 6, fmt.Sprintf("%s  a  %s",
		c.AbiertaEn.Format("02/01/2006 15:04"), c.CerradaEn.Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("Apertura: %s  ·  Cierre: %s", c.AbiertaPor, c.CerradaPor)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, tr(title), "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
	}
	row := func(label string, v decimal.Decimal) {
		pdf.CellFormat(labelW, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, Pesos(v), "", 1, "R", false, 0, "")
	}

	section("Fondos iniciales")
	row("Caja local", c.InicialLocal)
	row("Caja vecina", c.InicialVecina)
	pdf.Ln(3)

	section("Cobros")
	row("Efectivo y giros", c.EfectivoYGiros)
	row("Débito", c.Debito)
	row("Crédito", c.Credito)
	row("Transferencia", c.Transferencia)
	row("Exento (informativo)", c.Exento)
	pdf.Ln(3)

	section("Movimientos")
	row("Ingresos", c.Ingresos)
	row("Egresos", c.Egresos)
	row("Vecina", c.MovimientosVecina)
	pdf.Ln(3)

	section("Arqueo")
	row("Esperado local", c.EsperadoLocal)
	row("Contado local", c.ContadoLocal)
	pdf.SetFont("Helvetica", "B", 10)
	row("Diferencia local", c.DiferenciaLocal)
	pdf.SetFont("Helvetica", "", 10)
	row("Esperado vecina", c.EsperadoVecina)
	row("Contado vecina", c.ContadoVecina)
	pdf.SetFont("Helvetica", "B", 10)
	row("Diferencia vecina", c.DiferenciaVecina)

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 8, tr("Caja "+c.Clasificacion), "1", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return fileName, nil
}

// Pesos formats a whole-unit amount as $12.345 (dot thousands separator).
func Pesos(v decimal.Decimal) string {
	s := v.Abs().Round(0).String()
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, s[i])
	}
	if v.Round(0).IsNegative() {
		return "-$" + string(out)
	}
	return "$" + string(out)
}
