package dtos

type DailyPoint struct {
	Date        string `json:"date"`
	Scans       int64  `json:"scans"`
	UniqueScans int64  `json:"unique_scans"`
}

type CountryCount struct {
	Country string `json:"country"`
	Scans   int64  `json:"scans"`
}

type StatsResponse struct {
	TotalScans       int64            `json:"totalScans"`
	UniqueScans      int64            `json:"uniqueScans"`
	DailySeries      []DailyPoint     `json:"dailySeries"`
	TopCountries     []CountryCount   `json:"topCountries"`
	DeviceBreakdown  map[string]int64 `json:"deviceBreakdown"`
	BrowserBreakdown map[string]int64 `json:"browserBreakdown"`
}
