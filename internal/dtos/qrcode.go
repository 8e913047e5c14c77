package dtos

import "qrtrack/internal/entities"

type CreateQRCodeRequest struct {
	Name           string `json:"name"`
	DestinationURL string `json:"destination_url" validate:"required"`
	UTMSource      string `json:"utm_source"`
	UTMMedium      string `json:"utm_medium"`
	UTMCampaign    string `json:"utm_campaign"`
	UTMTerm        string `json:"utm_term"`
	UTMContent     string `json:"utm_content"`
	ImpressionTag  string `json:"dcm_impression_tag"`
}

// UpdateQRCodeRequest distinguishes absent fields (nil, untouched) from
// present-but-empty ones (optional fields are cleared).
type UpdateQRCodeRequest struct {
	Name           *string `json:"name"`
	DestinationURL *string `json:"destination_url"`
	UTMSource      *string `json:"utm_source"`
	UTMMedium      *string `json:"utm_medium"`
	UTMCampaign    *string `json:"utm_campaign"`
	UTMTerm        *string `json:"utm_term"`
	UTMContent     *string `json:"utm_content"`
	ImpressionTag  *string `json:"dcm_impression_tag"`
}

type QRCodeResponse struct {
	entities.QRCode
	RedirectURL string `json:"redirectUrl"`
	QRCodeImage string `json:"qrCodeImage"`
}

type QRCodeListItem struct {
	entities.QRCode
	TotalScans  int64  `json:"totalScans"`
	RedirectURL string `json:"redirectUrl"`
}
