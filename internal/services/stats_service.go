package services

import (
	"qrtrack/internal/dtos"
	"qrtrack/internal/repositories"
)

type StatsService struct {
	scans *repositories.ScanRepo
}

func NewStatsService(scans *repositories.ScanRepo) *StatsService {
	return &StatsService{scans: scans}
}

// GetStats aggregates scan history for one QR code. A nil range means all
// time; otherwise the inclusive calendar-date window applies to every
// sub-query uniformly. Unique counts are distinct IP hashes, a deliberate
// approximation of unique visitors.
func (s *StatsService) GetStats(qrCodeID uint, rng *repositories.DateRange) (*dtos.StatsResponse, error) {
	total, err := s.scans.CountScans(qrCodeID, rng)
	if err != nil {
		return nil, err
	}

	unique, err := s.scans.CountUnique(qrCodeID, rng)
	if err != nil {
		return nil, err
	}

	daily, err := s.scans.DailySeries(qrCodeID, rng)
	if err != nil {
		return nil, err
	}
	// The repo hands back the 30 most recent dates newest first; present
	// them chronologically.
	series := make([]dtos.DailyPoint, 0, len(daily))
	for i := len(daily) - 1; i >= 0; i-- {
		series = append(series, dtos.DailyPoint{
			Date:        daily[i].Date,
			Scans:       daily[i].Scans,
			UniqueScans: daily[i].UniqueScans,
		})
	}

	devices, err := s.scans.DeviceBreakdown(qrCodeID, rng)
	if err != nil {
		return nil, err
	}
	deviceBreakdown := make(map[string]int64, len(devices))
	for _, row := range devices {
		deviceBreakdown[row.Bucket] = row.Count
	}

	browsers, err := s.scans.BrowserBreakdown(qrCodeID, rng)
	if err != nil {
		return nil, err
	}
	browserBreakdown := make(map[string]int64, len(browsers))
	for _, row := range browsers {
		browserBreakdown[row.Bucket] = row.Count
	}

	return &dtos.StatsResponse{
		TotalScans:  total,
		UniqueScans: unique,
		DailySeries: series,
		// Geo-IP lookup is intentionally not implemented; this stays empty.
		TopCountries:     make([]dtos.CountryCount, 0),
		DeviceBreakdown:  deviceBreakdown,
		BrowserBreakdown: browserBreakdown,
	}, nil
}
