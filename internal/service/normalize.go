package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"weather-pipeline/internal/models"
	"weather-pipeline/pkg/qweather"
)

const (
	providerTimeLayout = "2006-01-02T15:04Z07:00"
	providerDateLayout = "2006-01-02"
)

// fieldParser converts QWeather's string-encoded fields and keeps the first
// failure so a record can be parsed in one pass.
type fieldParser struct {
	op  string
	err error
}

func (p *fieldParser) fail(field, value string) {
	if p.err == nil {
		p.err = &models.ProviderDataError{
			Op:     p.op,
			Reason: fmt.Sprintf("field %s: cannot parse %q", field, value),
		}
	}
}

func (p *fieldParser) float(field, value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		p.fail(field, value)
		return 0
	}
	return v
}

// optFloat returns nil for fields the provider leaves blank.
func (p *fieldParser) optFloat(field, value string) *float64 {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	v := p.float(field, value)
	return &v
}

func (p *fieldParser) timestamp(field, value string) time.Time {
	t, err := time.Parse(providerTimeLayout, value)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, value); err != nil {
			p.fail(field, value)
			return time.Time{}
		}
	}
	return t
}

func (p *fieldParser) date(field, value string) time.Time {
	t, err := time.Parse(providerDateLayout, value)
	if err != nil {
		p.fail(field, value)
		return time.Time{}
	}
	return t
}

func checkCode(op, code string) error {
	if code != qweather.CodeOK {
		return &models.ProviderDataError{Op: op, Code: code, Reason: "provider reported failure"}
	}
	return nil
}

func emptyPayload(op string) error {
	return &models.ProviderDataError{Op: op, Reason: "empty payload"}
}

func normalizeNow(locationID string, resp *qweather.NowResponse, fetchedAt time.Time) (models.CurrentConditions, error) {
	const op = "now"
	if resp == nil {
		return models.CurrentConditions{}, emptyPayload(op)
	}
	if err := checkCode(op, resp.Code); err != nil {
		return models.CurrentConditions{}, err
	}
	if resp.Now == nil {
		return models.CurrentConditions{}, emptyPayload(op)
	}

	n := resp.Now
	p := &fieldParser{op: op}
	rec := models.CurrentConditions{
		LocationID:  locationID,
		Temperature: p.float("temp", n.Temp),
		FeelsLike:   p.float("feelsLike", n.FeelsLike),
		Text:        n.Text,
		WindDir:     n.WindDir,
		WindSpeed:   p.float("windSpeed", n.WindSpeed),
		Humidity:    p.float("humidity", n.Humidity),
		Pressure:    p.float("pressure", n.Pressure),
		Visibility:  p.float("vis", n.Vis),
		Cloud:       p.optFloat("cloud", n.Cloud),
		DewPoint:    p.optFloat("dew", n.Dew),
		ObservedAt:  p.timestamp("obsTime", n.ObsTime),
		FetchedAt:   fetchedAt,
	}
	if p.err != nil {
		return models.CurrentConditions{}, p.err
	}
	return rec, nil
}

func normalizeDaily(locationID string, resp *qweather.DailyResponse, fetchedAt time.Time) ([]models.DailyForecast, error) {
	const op = "daily"
	if resp == nil {
		return nil, emptyPayload(op)
	}
	if err := checkCode(op, resp.Code); err != nil {
		return nil, err
	}
	if len(resp.Daily) == 0 {
		return nil, emptyPayload(op)
	}

	p := &fieldParser{op: op}
	days := make([]models.DailyForecast, 0, len(resp.Daily))
	for _, d := range resp.Daily {
		days = append(days, models.DailyForecast{
			LocationID:     locationID,
			Date:           p.date("fxDate", d.FxDate),
			TextDay:        d.TextDay,
			TextNight:      d.TextNight,
			TempMax:        p.float("tempMax", d.TempMax),
			TempMin:        p.float("tempMin", d.TempMin),
			WindDirDay:     d.WindDirDay,
			WindSpeedDay:   p.float("windSpeedDay", d.WindSpeedDay),
			WindDirNight:   d.WindDirNight,
			WindSpeedNight: p.float("windSpeedNight", d.WindSpeedNight),
			Humidity:       p.float("humidity", d.Humidity),
			Precip:         p.float("precip", d.Precip),
			Pressure:       p.float("pressure", d.Pressure),
			Visibility:     p.float("vis", d.Vis),
			UVIndex:        p.float("uvIndex", d.UvIndex),
			Sunrise:        d.Sunrise,
			Sunset:         d.Sunset,
			Moonrise:       d.Moonrise,
			Moonset:        d.Moonset,
			MoonPhase:      d.MoonPhase,
			FetchedAt:      fetchedAt,
		})
	}
	if p.err != nil {
		return nil, p.err
	}
	return days, nil
}

func normalizeHourly(locationID string, resp *qweather.HourlyResponse, fetchedAt time.Time) ([]models.HourlyForecast, error) {
	const op = "hourly"
	if resp == nil {
		return nil, emptyPayload(op)
	}
	if err := checkCode(op, resp.Code); err != nil {
		return nil, err
	}
	if len(resp.Hourly) == 0 {
		return nil, emptyPayload(op)
	}

	p := &fieldParser{op: op}
	hours := make([]models.HourlyForecast, 0, len(resp.Hourly))
	for _, h := range resp.Hourly {
		hours = append(hours, models.HourlyForecast{
			LocationID:  locationID,
			Time:        startOfHour(p.timestamp("fxTime", h.FxTime)),
			Text:        h.Text,
			Temperature: p.float("temp", h.Temp),
			FeelsLike:   p.optFloat("feelsLike", h.FeelsLike),
			WindDir:     h.WindDir,
			WindSpeed:   p.float("windSpeed", h.WindSpeed),
			Humidity:    p.float("humidity", h.Humidity),
			Precip:      p.float("precip", h.Precip),
			Pressure:    p.float("pressure", h.Pressure),
			Cloud:       p.optFloat("cloud", h.Cloud),
			DewPoint:    p.optFloat("dew", h.Dew),
			UVIndex:     p.optFloat("uvIndex", h.UvIndex),
			Visibility:  p.optFloat("vis", h.Vis),
			FetchedAt:   fetchedAt,
		})
	}
	if p.err != nil {
		return nil, p.err
	}
	return hours, nil
}

// startOfHour drops minutes in t's own zone. time.Truncate works on absolute
// time and would shift hours in zones with a fractional UTC offset.
func startOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// locationFromCity maps a geo lookup match. Unparseable coordinates are left
// empty rather than rejecting the match.
func locationFromCity(c qweather.City) models.Location {
	loc := models.Location{
		LocationID: c.ID,
		Name:       c.Name,
		Country:    c.Country,
		Province:   c.Adm1,
	}
	if lat, err := strconv.ParseFloat(c.Lat, 64); err == nil {
		loc.Latitude = &lat
	}
	if lon, err := strconv.ParseFloat(c.Lon, 64); err == nil {
		loc.Longitude = &lon
	}
	return loc
}
