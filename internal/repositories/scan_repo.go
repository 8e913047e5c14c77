package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"qrtrack/internal/entities"
)

type ScanRepo struct {
	db *gorm.DB
}

func NewScanRepo(db *gorm.DB) *ScanRepo {
	return &ScanRepo{db: db}
}

func (r *ScanRepo) Create(ctx context.Context, evt *entities.ScanEvent) error {
	return r.db.WithContext(ctx).Create(evt).Error
}

// DateRange is an inclusive calendar-date window. A nil range means all time.
type DateRange struct {
	From time.Time // midnight UTC of the first day
	To   time.Time // midnight UTC of the last day
}

// scope narrows a query to [From, To] by calendar date. The upper bound is
// exclusive at To+24h so the whole last day counts.
func (r *ScanRepo) scope(q *gorm.DB, rng *DateRange) *gorm.DB {
	if rng == nil {
		return q
	}
	return q.Where("scanned_at >= ? AND scanned_at < ?", rng.From, rng.To.AddDate(0, 0, 1))
}

func (r *ScanRepo) CountScans(qrCodeID uint, rng *DateRange) (int64, error) {
	var total int64
	err := r.scope(r.db.Model(&entities.ScanEvent{}).Where("qr_code_id = ?", qrCodeID), rng).
		Count(&total).Error
	return total, err
}

func (r *ScanRepo) CountUnique(qrCodeID uint, rng *DateRange) (int64, error) {
	var unique int64
	err := r.scope(r.db.Model(&entities.ScanEvent{}).Where("qr_code_id = ?", qrCodeID), rng).
		Distinct("ip_hash").
		Count(&unique).Error
	return unique, err
}

type DailyRow struct {
	Date        string
	Scans       int64
	UniqueScans int64
}

// DailySeries returns per-date counts for the 30 most recent dates in range,
// newest first. The caller reverses for chronological presentation; when more
// than 30 dates exist the oldest fall off.
func (r *ScanRepo) DailySeries(qrCodeID uint, rng *DateRange) ([]DailyRow, error) {
	var rows []DailyRow
	err := r.scope(r.db.Model(&entities.ScanEvent{}).Where("qr_code_id = ?", qrCodeID), rng).
		Select("CAST(DATE(scanned_at) AS TEXT) AS date, COUNT(*) AS scans, COUNT(DISTINCT ip_hash) AS unique_scans").
		Group("DATE(scanned_at)").
		Order("date DESC").
		Limit(30).
		Scan(&rows).Error
	return rows, err
}

type BucketRow struct {
	Bucket string
	Count  int64
}

func (r *ScanRepo) DeviceBreakdown(qrCodeID uint, rng *DateRange) ([]BucketRow, error) {
	var rows []BucketRow
	err := r.scope(r.db.Model(&entities.ScanEvent{}).Where("qr_code_id = ?", qrCodeID), rng).
		Select("device_type AS bucket, COUNT(*) AS count").
		Group("device_type").
		Scan(&rows).Error
	return rows, err
}

// BrowserBreakdown keeps the top 10 browsers by count. Ties break on the
// browser name ascending so the result is deterministic.
func (r *ScanRepo) BrowserBreakdown(qrCodeID uint, rng *DateRange) ([]BucketRow, error) {
	var rows []BucketRow
	err := r.scope(r.db.Model(&entities.ScanEvent{}).Where("qr_code_id = ?", qrCodeID), rng).
		Select("browser AS bucket, COUNT(*) AS count").
		Group("browser").
		Order("count DESC, browser ASC").
		Limit(10).
		Scan(&rows).Error
	return rows, err
}
