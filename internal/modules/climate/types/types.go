package types

// Station is a weather-observation site. Fields are copied verbatim from the source.
type Station struct {
	Station   string   `json:"station"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Elevation *float64 `json:"elevation"`
}

// DailyValue is one per-date aggregate. Value is nil when every reading for
// the date was missing.
type DailyValue struct {
	Date  string
	Value *float64
}

// DailyAverages maps a YYYY-MM-DD date to the mean reading across stations.
type DailyAverages map[string]*float64

// Coverage is the inclusive [First, Last] span of all measurement dates.
type Coverage struct {
	First string
	Last  string
}

// DateRange selects measurements with From <= date, and date <= To when To is set.
type DateRange struct {
	From string
	To   string
}

// TemperatureStats holds MIN/AVG/MAX of observed temperature over a selection.
// All three are nil when the selection holds no temperature reading.
type TemperatureStats struct {
	Min *float64 `json:"Min Temp"`
	Avg *float64 `json:"Avg Temp"`
	Max *float64 `json:"Max Temp"`
}
