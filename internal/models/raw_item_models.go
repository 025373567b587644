package models

import "time"

// RawMediaItem is a single collected headline.
type RawMediaItem struct {
	ID             string    `json:"id"`
	Outlet         string    `json:"outlet"`
	OutletCategory string    `json:"outlet_category,omitempty"`
	Title          string    `json:"title"`
	Lede           string    `json:"lede,omitempty"`
	URL            string    `json:"url,omitempty"`
	PublishedAt    time.Time `json:"published_at"`
	// RespectID is an optional curated pre-label; when set the item skips
	// classification entirely.
	RespectID string `json:"respect_id,omitempty"`
}

// RawPollItem is one published opinion poll. Options and Results are parallel
// slices; a length mismatch is rejected at the ingestion boundary, never
// coerced.
type RawPollItem struct {
	ID             string    `json:"id"`
	Pollster       string    `json:"pollster"`
	Question       string    `json:"question"`
	Options        []string  `json:"options"`
	Results        []float64 `json:"results"`
	FieldworkStart string    `json:"fieldwork_start"`
	FieldworkEnd   string    `json:"fieldwork_end"`
	PublishedAt    time.Time `json:"published_at"`
	URL            string    `json:"url,omitempty"`
	// SampleSize stays float64 so non-integer values survive decoding and can
	// be rejected by the validation gate instead of erroring mid-unmarshal.
	SampleSize float64 `json:"sample_size,omitempty"`
}

// RawMetricItem is one official statistic reading.
type RawMetricItem struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Unit      string  `json:"unit"`
	Latest    float64 `json:"latest"`
	Previous  float64 `json:"previous"`
	Period    string  `json:"period"`
	UpdatedAt string  `json:"updated_at"`
	Source    string  `json:"source,omitempty"`
}
