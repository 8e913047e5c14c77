package entities

import "time"

// QRCode is a trackable link definition. A row is never physically deleted:
// DELETE sets ArchivedAt, which hides the record from every lookup while
// keeping its scan history joinable.
type QRCode struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Slug           string     `gorm:"column:slug;uniqueIndex;size:16;not null" json:"slug"`
	Name           *string    `gorm:"column:name;size:255" json:"name"`
	DestinationURL string     `gorm:"column:destination_url;size:2048;not null" json:"destination_url"`
	UTMSource      *string    `gorm:"column:utm_source;size:255" json:"utm_source"`
	UTMMedium      *string    `gorm:"column:utm_medium;size:255" json:"utm_medium"`
	UTMCampaign    *string    `gorm:"column:utm_campaign;size:255" json:"utm_campaign"`
	UTMTerm        *string    `gorm:"column:utm_term;size:255" json:"utm_term"`
	UTMContent     *string    `gorm:"column:utm_content;size:255" json:"utm_content"`
	ImpressionTag  *string    `gorm:"column:dcm_impression_tag;type:text" json:"dcm_impression_tag"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	ArchivedAt     *time.Time `gorm:"column:archived_at;index" json:"archived_at,omitempty"`
}

func (QRCode) TableName() string { return "qr_codes" }
