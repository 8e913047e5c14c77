package entities

import "time"

// ScanEvent is one redirect hit. Rows are append-only and keep only a salted
// hash of the client IP, never the address itself.
type ScanEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QRCodeID   uint      `gorm:"column:qr_code_id;index;not null" json:"qr_code_id"`
	UserAgent  string    `gorm:"column:user_agent;size:512" json:"user_agent"`
	Referrer   string    `gorm:"column:referrer;size:512" json:"referrer"`
	IPHash     string    `gorm:"column:ip_hash;size:64;index;not null" json:"ip_hash"`
	DeviceType string    `gorm:"column:device_type;size:16;not null" json:"device_type"`
	Browser    string    `gorm:"column:browser;size:64;not null" json:"browser"`
	ScannedAt  time.Time `gorm:"column:scanned_at;index;not null" json:"scanned_at"`
}

func (ScanEvent) TableName() string { return "scan_events" }
