package qweather

// CodeOK is the business status QWeather reports for a successful call. The
// HTTP status alone does not tell success apart from e.g. an unknown location.
const CodeOK = "200"

// Now is the provider-native current-conditions payload. QWeather encodes
// numbers as strings.
type Now struct {
	ObsTime   string `json:"obsTime"`
	Temp      string `json:"temp"`
	FeelsLike string `json:"feelsLike"`
	Icon      string `json:"icon"`
	Text      string `json:"text"`
	Wind360   string `json:"wind360"`
	WindDir   string `json:"windDir"`
	WindScale string `json:"windScale"`
	WindSpeed string `json:"windSpeed"`
	Humidity  string `json:"humidity"`
	Precip    string `json:"precip"`
	Pressure  string `json:"pressure"`
	Vis       string `json:"vis"`
	Cloud     string `json:"cloud"`
	Dew       string `json:"dew"`
}

// NowResponse is returned by /v7/weather/now.
type NowResponse struct {
	Code       string `json:"code"`
	UpdateTime string `json:"updateTime"`
	Now        *Now   `json:"now"`
}

// Daily is one day of a /v7/weather/{n}d forecast.
type Daily struct {
	FxDate         string `json:"fxDate"`
	Sunrise        string `json:"sunrise"`
	Sunset         string `json:"sunset"`
	Moonrise       string `json:"moonrise"`
	Moonset        string `json:"moonset"`
	MoonPhase      string `json:"moonPhase"`
	TempMax        string `json:"tempMax"`
	TempMin        string `json:"tempMin"`
	TextDay        string `json:"textDay"`
	TextNight      string `json:"textNight"`
	WindDirDay     string `json:"windDirDay"`
	WindSpeedDay   string `json:"windSpeedDay"`
	WindDirNight   string `json:"windDirNight"`
	WindSpeedNight string `json:"windSpeedNight"`
	Humidity       string `json:"humidity"`
	Precip         string `json:"precip"`
	Pressure       string `json:"pressure"`
	Vis            string `json:"vis"`
	Cloud          string `json:"cloud"`
	UvIndex        string `json:"uvIndex"`
}

// DailyResponse is returned by /v7/weather/{n}d.
type DailyResponse struct {
	Code       string  `json:"code"`
	UpdateTime string  `json:"updateTime"`
	Daily      []Daily `json:"daily"`
}

// Hourly is one hour of a /v7/weather/{n}h forecast.
type Hourly struct {
	FxTime    string `json:"fxTime"`
	Temp      string `json:"temp"`
	FeelsLike string `json:"feelsLike"`
	Text      string `json:"text"`
	WindDir   string `json:"windDir"`
	WindSpeed string `json:"windSpeed"`
	Humidity  string `json:"humidity"`
	Pop       string `json:"pop"`
	Precip    string `json:"precip"`
	Pressure  string `json:"pressure"`
	Cloud     string `json:"cloud"`
	Dew       string `json:"dew"`
	UvIndex   string `json:"uvIndex"`
	Vis       string `json:"vis"`
}

// HourlyResponse is returned by /v7/weather/{n}h.
type HourlyResponse struct {
	Code       string   `json:"code"`
	UpdateTime string   `json:"updateTime"`
	Hourly     []Hourly `json:"hourly"`
}

// City is one match of the geo city lookup.
type City struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Adm1    string `json:"adm1"`
	Adm2    string `json:"adm2"`
	Country string `json:"country"`
	Tz      string `json:"tz"`
}

// CityLookupResponse is returned by /v2/city/lookup.
type CityLookupResponse struct {
	Code     string `json:"code"`
	Location []City `json:"location"`
}
