package services

import (
	"context"
	"time"

	"github.com/mileusna/useragent"

	"qrtrack/internal/entities"
	"qrtrack/internal/repositories"
	"qrtrack/internal/utils"
)

// scanWriteTimeout bounds the analytics insert so a stalled write cannot hold
// a connection. The redirect response never waits on it either way.
const scanWriteTimeout = 5 * time.Second

type ScanService struct {
	repo *repositories.ScanRepo
	salt string
}

func NewScanService(repo *repositories.ScanRepo, salt string) *ScanService {
	return &ScanService{repo: repo, salt: salt}
}

// ClassifyUserAgent derives the device category (mobile, tablet or desktop)
// and the browser name, defaulting to Unknown when undetected.
func ClassifyUserAgent(rawUA string) (deviceType, browser string) {
	ua := useragent.Parse(rawUA)

	deviceType = "desktop"
	if ua.Mobile {
		deviceType = "mobile"
	} else if ua.Tablet {
		deviceType = "tablet"
	}

	browser = ua.Name
	if browser == "" {
		browser = "Unknown"
	}

	return deviceType, browser
}

// Record persists one scan. Callers invoke it from a detached goroutine and
// only log the returned error; a failed write loses the event and nothing
// else.
func (s *ScanService) Record(qrCodeID uint, rawUA, referrer, ip string) error {
	deviceType, browser := ClassifyUserAgent(rawUA)

	evt := entities.ScanEvent{
		QRCodeID:   qrCodeID,
		UserAgent:  utils.Truncate(rawUA, 512),
		Referrer:   utils.Truncate(referrer, 512),
		IPHash:     utils.HashIP(ip, s.salt),
		DeviceType: deviceType,
		Browser:    browser,
		ScannedAt:  time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), scanWriteTimeout)
	defer cancel()

	return s.repo.Create(ctx, &evt)
}
