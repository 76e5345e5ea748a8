package model

import "time"

// Season buckets follow the Indian power-market calendar.
type Season string

const (
	SeasonWinter  Season = "winter"
	SeasonSpring  Season = "spring"
	SeasonSummer  Season = "summer"
	SeasonMonsoon Season = "monsoon"
)

// TimeOfDay is a coarse label for an observation's block.
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
	TimeOfDayNight     TimeOfDay = "night"
)

// Observation is one day-ahead-market block as published by the exchange.
// Volumes are in MW, MCPMWh in Rs/MWh and MCPKWh in Rs/kWh.
//
// Date keeps the label exactly as it appeared in the source file; it feeds
// the dataset fingerprint, so it must not be reformatted.
type Observation struct {
	Date      string    `json:"date"`
	Time      time.Time `json:"time"`
	TimeBlock string    `json:"time_block"`

	PurchaseBid float64 `json:"purchase_bid"`
	SellBid     float64 `json:"sell_bid"`
	MCV         float64 `json:"mcv"`
	MCPMWh      float64 `json:"mcp_mwh"`
	MCPKWh      float64 `json:"mcp_kwh"`

	Hour      int       `json:"hour"`
	Minute    int       `json:"minute"`
	DayOfWeek int       `json:"day_of_week"`
	IsWeekend bool      `json:"is_weekend"`
	Season    Season    `json:"season"`
	TimeOfDay TimeOfDay `json:"time_of_day"`
}

// NewObservation fills in the calendar fields derived from t.
func NewObservation(date string, t time.Time, timeBlock string, mcpMWh float64) Observation {
	o := Observation{
		Date:      date,
		Time:      t,
		TimeBlock: timeBlock,
		MCPMWh:    mcpMWh,
		MCPKWh:    mcpMWh / 1000,
	}
	o.Derive()
	return o
}

// Derive recomputes hour, minute, weekday, season and time of day from Time.
func (o *Observation) Derive() {
	o.Hour = o.Time.Hour()
	o.Minute = o.Time.Minute()
	o.DayOfWeek = int(o.Time.Weekday())
	o.IsWeekend = IsWeekend(o.Time)
	o.Season = SeasonOf(o.Time.Month())
	o.TimeOfDay = TimeOfDayOf(o.Hour)
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func SeasonOf(m time.Month) Season {
	switch {
	case m == time.November || m == time.December || m <= time.February:
		return SeasonWinter
	case m <= time.April:
		return SeasonSpring
	case m <= time.June:
		return SeasonSummer
	default:
		return SeasonMonsoon
	}
}

func TimeOfDayOf(hour int) TimeOfDay {
	switch {
	case hour >= 6 && hour < 12:
		return TimeOfDayMorning
	case hour >= 12 && hour < 17:
		return TimeOfDayAfternoon
	case hour >= 17 && hour < 21:
		return TimeOfDayEvening
	default:
		return TimeOfDayNight
	}
}

// Prices extracts the per-kWh clearing price series.
func Prices(history []Observation) []float64 {
	out := make([]float64, len(history))
	for i, o := range history {
		out[i] = o.MCPKWh
	}
	return out
}
