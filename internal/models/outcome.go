package models

import "time"

// Category names one of the three weather feeds refreshed per location.
type Category string

const (
	CategoryCurrent Category = "current"
	CategoryDaily   Category = "daily"
	CategoryHourly  Category = "hourly"
)

// Categories lists the feeds in the order a refresh visits them.
var Categories = []Category{CategoryCurrent, CategoryDaily, CategoryHourly}

// CategoryStatus is the result of refreshing a single category.
type CategoryStatus string

const (
	StatusSucceeded CategoryStatus = "succeeded"
	StatusFailed    CategoryStatus = "failed"
)

// CategoryOutcome records what happened to one category during a refresh.
type CategoryOutcome struct {
	Category Category       `json:"category"`
	Status   CategoryStatus `json:"status"`
	Rows     int            `json:"rows"`
	Error    string         `json:"error,omitempty"`
}

// RefreshOutcome is the per-category report of a single location refresh.
type RefreshOutcome struct {
	LocationID string            `json:"location_id"`
	Categories []CategoryOutcome `json:"categories"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

// Outcome returns the recorded outcome for c, if the category was reached.
func (o RefreshOutcome) Outcome(c Category) (CategoryOutcome, bool) {
	for _, co := range o.Categories {
		if co.Category == c {
			return co, true
		}
	}
	return CategoryOutcome{}, false
}

// Succeeded reports whether category c was fetched and persisted.
func (o RefreshOutcome) Succeeded(c Category) bool {
	co, ok := o.Outcome(c)
	return ok && co.Status == StatusSucceeded
}

// AllSucceeded is true when every category succeeded.
func (o RefreshOutcome) AllSucceeded() bool {
	for _, c := range Categories {
		if !o.Succeeded(c) {
			return false
		}
	}
	return true
}

// Failed lists the categories that did not succeed.
func (o RefreshOutcome) Failed() []Category {
	var failed []Category
	for _, c := range Categories {
		if !o.Succeeded(c) {
			failed = append(failed, c)
		}
	}
	return failed
}

// LocationResult is one line of a batch report.
type LocationResult struct {
	LocationID string          `json:"location_id"`
	Name       string          `json:"name,omitempty"`
	Success    bool            `json:"success"`
	Error      string          `json:"error,omitempty"`
	Outcome    *RefreshOutcome `json:"outcome,omitempty"`
}

// BatchReport enumerates every location attempted by a batch refresh.
type BatchReport struct {
	RunID        string           `json:"run_id"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   time.Time        `json:"finished_at"`
	UsedDefaults bool             `json:"used_defaults"`
	Results      []LocationResult `json:"results"`
}

// Failures returns the results that did not succeed.
func (r BatchReport) Failures() []LocationResult {
	var failed []LocationResult
	for _, res := range r.Results {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	return failed
}
