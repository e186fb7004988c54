package repository

import (
	"context"
	"errors"
	"time"

	"botilleria/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CierreRepository interface {
	// Guardar is idempotent on SesionID: archiving the same closing twice keeps one row.
	Guardar(ctx context.Context, c *model.CierreArchivado) error
	BuscarPorSesion(ctx context.Context, sesionID int64) (*model.CierreArchivado, error)
	Listar(ctx context.Context, page, limit int) ([]model.CierreArchivado, int64, error)
	MarcarReporte(ctx context.Context, sesionID int64, pdfPath string, enviado bool) error
	// ListarPendientes returns closings whose report has not been delivered,
	// oldest first, that were closed before antesDe.
	ListarPendientes(ctx context.Context, antesDe time.Time, limit int) ([]model.CierreArchivado, error)
}

type cierreRepo struct{ db *gorm.DB }

func NewCierreRepository(db *gorm.DB) CierreRepository { return &cierreRepo{db: db} }

func (r *cierreRepo) Guardar(ctx context.Context, c *model.CierreArchivado) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "sesion_id"}}, DoNothing: true}).
		Create(c).Error
}

func (r *cierreRepo) BuscarPorSesion(ctx context.Context, sesionID int64) (*model.CierreArchivado, error) {
	var c model.CierreArchivado
	err := r.db.WithContext(ctx).Where("sesion_id = ?", sesionID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *cierreRepo) Listar(ctx context.Context, page, limit int) ([]model.CierreArchivado, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.CierreArchivado{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.CierreArchivado
	err := q.Order("cerrada_en DESC").Offset((page - 1) * limit).Limit(limit).Find(&out).Error
	return out, total, err
}

func (r *cierreRepo) MarcarReporte(ctx context.Context, sesionID int64, pdfPath string, enviado bool) error {
	updates := map[string]any{"reporte_enviado": enviado}
	if pdfPath != "" {
		updates["pdf_path"] = pdfPath
	}
	return r.db.WithContext(ctx).Model(&model.CierreArchivado{}).
		Where("sesion_id = ?", sesionID).
		Updates(updates).Error
}

func (r *cierreRepo) ListarPendientes(ctx context.Context, antesDe time.Time, limit int) ([]model.CierreArchivado, error) {
	var out []model.CierreArchivado
	err := r.db.WithContext(ctx).
		Where("reporte_enviado = ? AND cerrada_en < ?", false, antesDe).
		Order("cerrada_en ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
