package models

import "time"

// CurrentConditions is one observation fetched for a location. Rows are
// append-only; the latest ObservedAt wins.
type CurrentConditions struct {
	ID          int64     `json:"id,omitempty"`
	LocationID  string    `json:"location_id"`
	Temperature float64   `json:"temp"`
	FeelsLike   float64   `json:"feels_like"`
	Text        string    `json:"text"`
	WindDir     string    `json:"wind_dir"`
	WindSpeed   float64   `json:"wind_speed"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	Visibility  float64   `json:"vis"`
	Cloud       *float64  `json:"cloud"`
	DewPoint    *float64  `json:"dew"`
	ObservedAt  time.Time `json:"obs_time"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// DailyForecast is the forecast for one calendar date, unique per location.
type DailyForecast struct {
	LocationID     string    `json:"location_id"`
	Date           time.Time `json:"date"`
	TextDay        string    `json:"text_day"`
	TextNight      string    `json:"text_night"`
	TempMax        float64   `json:"temp_high"`
	TempMin        float64   `json:"temp_low"`
	WindDirDay     string    `json:"wind_dir_day"`
	WindSpeedDay   float64   `json:"wind_speed_day"`
	WindDirNight   string    `json:"wind_dir_night"`
	WindSpeedNight float64   `json:"wind_speed_night"`
	Humidity       float64   `json:"humidity"`
	Precip         float64   `json:"precip"`
	Pressure       float64   `json:"pressure"`
	Visibility     float64   `json:"vis"`
	UVIndex        float64   `json:"uv_index"`
	Sunrise        string    `json:"sunrise"`
	Sunset         string    `json:"sunset"`
	Moonrise       string    `json:"moonrise"`
	Moonset        string    `json:"moonset"`
	MoonPhase      string    `json:"moon_phase"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// HourlyForecast is the forecast for one hour, unique per location.
type HourlyForecast struct {
	LocationID  string    `json:"location_id"`
	Time        time.Time `json:"time"`
	Text        string    `json:"text"`
	Temperature float64   `json:"temp"`
	FeelsLike   *float64  `json:"feels_like"`
	WindDir     string    `json:"wind_dir"`
	WindSpeed   float64   `json:"wind_speed"`
	Humidity    float64   `json:"humidity"`
	Precip      float64   `json:"precip"`
	Pressure    float64   `json:"pressure"`
	Cloud       *float64  `json:"cloud"`
	DewPoint    *float64  `json:"dew"`
	UVIndex     *float64  `json:"uv_index"`
	Visibility  *float64  `json:"vis"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Overview bundles what a location page needs in one read.
type Overview struct {
	Realtime *CurrentConditions `json:"realtime"`
	Today    *DailyForecast     `json:"today"`
	Tomorrow *DailyForecast     `json:"tomorrow"`
	Hourly   []HourlyForecast   `json:"hourly"`
}
