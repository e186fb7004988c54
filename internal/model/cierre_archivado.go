package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CierreArchivado is the local, read-only copy of a closed session snapshot
// taken at this terminal. It backs the closing report (PDF + e-mail) and is
// never re-folded: every figure is copied verbatim from the backend.
type CierreArchivado struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	SesionID          int64  `gorm:"uniqueIndex;not null"`
	Terminal          string `gorm:"type:varchar(40);not null"`
	AbiertaEn         time.Time
	CerradaEn         time.Time
	AbiertaPor        string
	CerradaPor        string
	InicialLocal      decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	InicialVecina     decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	EfectivoYGiros    decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	Debito            decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	Credito           decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	Transferencia     decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	Exento            decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	Ingresos          decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	Egresos           decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	MovimientosVecina decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	ContadoLocal      decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	ContadoVecina     decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	EsperadoLocal     decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	EsperadoVecina    decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	DiferenciaLocal   decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	DiferenciaVecina  decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	// Clasificacion: "CUADRADA" | "SOBRANTE" | "FALTANTE" (local drawer)
	Clasificacion string `gorm:"type:varchar(20);not null"`
	// PDFPath is relative to PDF_STORAGE_PATH
	PDFPath        *string `gorm:"column:pdf_path"`
	ReporteEnviado bool    `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (CierreArchivado) TableName() string { return "cierres_archivados" }
