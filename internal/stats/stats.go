package stats

type DaysStat struct {
	Period      string `json:"period"` // "week", "month"
	PerfectDays int    `json:"perfect_days"`
	TotalDays   int    `json:"total_days"`
}

type DailyPercent struct {
	Date    string `json:"date"`
	Percent int    `json:"percent"`
}
