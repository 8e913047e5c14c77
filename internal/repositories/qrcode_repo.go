package repositories

import (
	"time"

	"gorm.io/gorm"

	"qrtrack/internal/entities"
)

type QRCodeRepo struct {
	db *gorm.DB
}

func NewQRCodeRepo(db *gorm.DB) *QRCodeRepo {
	return &QRCodeRepo{db: db}
}

func (r *QRCodeRepo) Create(qr *entities.QRCode) error {
	return r.db.Create(qr).Error
}

// GetByID returns an active record; archived rows behave as missing.
func (r *QRCodeRepo) GetByID(id uint) (*entities.QRCode, error) {
	var qr entities.QRCode
	if err := r.db.Where("id = ? AND archived_at IS NULL", id).First(&qr).Error; err != nil {
		return nil, err
	}
	return &qr, nil
}

func (r *QRCodeRepo) GetBySlug(slug string) (*entities.QRCode, error) {
	var qr entities.QRCode
	if err := r.db.Where("slug = ? AND archived_at IS NULL", slug).First(&qr).Error; err != nil {
		return nil, err
	}
	return &qr, nil
}

type QRCodeWithScans struct {
	entities.QRCode
	TotalScans int64
}

// ListActive returns non-archived records newest first, each with its total
// scan count joined in.
func (r *QRCodeRepo) ListActive() ([]QRCodeWithScans, error) {
	var rows []QRCodeWithScans
	err := r.db.Table("qr_codes").
		Select("qr_codes.*, COUNT(scan_events.id) AS total_scans").
		Joins("LEFT JOIN scan_events ON scan_events.qr_code_id = qr_codes.id").
		Where("qr_codes.archived_at IS NULL").
		Group("qr_codes.id").
		Order("qr_codes.created_at DESC").
		Scan(&rows).Error

	return rows, err
}

// Update applies a partial update built from only the fields the caller
// supplied. Values are bound by GORM, never concatenated. Archived rows are
// not updatable.
func (r *QRCodeRepo) Update(id uint, fields map[string]any) (*entities.QRCode, error) {
	res := r.db.Model(&entities.QRCode{}).
		Where("id = ? AND archived_at IS NULL", id).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Archive soft-deletes a record. Archiving twice reports not found, matching
// the lookup semantics above.
func (r *QRCodeRepo) Archive(id uint) error {
	res := r.db.Model(&entities.QRCode{}).
		Where("id = ? AND archived_at IS NULL", id).
		Update("archived_at", time.Now().UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
