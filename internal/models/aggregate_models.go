package models

import "time"

// MediaExemplar is one of the highest-weight headlines backing the media
// aggregate, kept for citation in the view model.
type MediaExemplar struct {
	ItemID      string    `json:"item_id"`
	Outlet      string    `json:"outlet"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	RespectID   string    `json:"respect_id"`
	Confidence  float64   `json:"confidence"`
	Tone        string    `json:"tone,omitempty"`
}

// OutletCategoryBreakdown reports the framing split inside one outlet
// category (broadcast, broadsheet, tabloid, wire, online).
type OutletCategoryBreakdown struct {
	Category    string         `json:"category"`
	ItemCount   int            `json:"item_count"`
	VolumeShare float64        `json:"volume_share"`
	Shares      []RespectShare `json:"shares"`
}

// MediaFramingAggregate is the time-windowed media summary for a subject.
type MediaFramingAggregate struct {
	SubjectID   string                    `json:"subject_id"`
	WindowDays  int                       `json:"window_days"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Volume      int                       `json:"volume"`
	Dominant    string                    `json:"dominant"`
	Shares      []RespectShare            `json:"shares"`
	Exemplars   []MediaExemplar           `json:"exemplars,omitempty"`
	TopPhrases  []string                  `json:"top_phrases,omitempty"`
	Categories  []OutletCategoryBreakdown `json:"categories,omitempty"`
	SourceKind  string                    `json:"source_kind,omitempty"`
}

// PollOptionReading is one literal option/percentage pair with the framing
// that option mapped to.
type PollOptionReading struct {
	Label     string  `json:"label"`
	Share     float64 `json:"share"`
	RespectID string  `json:"respect_id"`
}

// PollQuestionBreakdown preserves a poll's literal option splits. The
// option/percentage pairs are always preferred over a collapsed number
// downstream.
type PollQuestionBreakdown struct {
	PollID         string              `json:"poll_id"`
	Pollster       string              `json:"pollster"`
	Question       string              `json:"question"`
	FieldworkStart string              `json:"fieldwork_start"`
	FieldworkEnd   string              `json:"fieldwork_end"`
	SampleSize     int                 `json:"sample_size,omitempty"`
	URL            string              `json:"url,omitempty"`
	Options        []PollOptionReading `json:"options"`
}

// PublicPollingAggregate is the recency-weighted composite of public opinion.
type PublicPollingAggregate struct {
	SubjectID    string                  `json:"subject_id"`
	WindowMonths int                     `json:"window_months"`
	GeneratedAt  time.Time               `json:"generated_at"`
	PollCount    int                     `json:"poll_count"`
	PublicPrior  RespectShare            `json:"public_prior"`
	Shares       []RespectShare          `json:"shares"`
	SplitSummary string                  `json:"split_summary"`
	TrendSummary string                  `json:"trend_summary"`
	Questions    []PollQuestionBreakdown `json:"questions,omitempty"`
}

// FramingReading is one interpretive sentence attaching a metric to a framing.
type FramingReading struct {
	RespectID string `json:"respect_id"`
	Text      string `json:"text"`
}

// MetricReading is one metric with its computed delta and framing readings.
type MetricReading struct {
	ID        string           `json:"id"`
	Label     string           `json:"label"`
	Unit      string           `json:"unit"`
	Latest    float64          `json:"latest"`
	Previous  float64          `json:"previous"`
	Delta     float64          `json:"delta"`
	DeltaPct  float64          `json:"delta_pct"`
	Direction string           `json:"direction"`
	Period    string           `json:"period"`
	Source    string           `json:"source,omitempty"`
	Readings  []FramingReading `json:"readings"`
}

// RealityMetricsAggregate carries the institutional/reality indicators.
type RealityMetricsAggregate struct {
	SubjectID string          `json:"subject_id"`
	UpdatedAt string          `json:"updated_at"`
	Metrics   []MetricReading `json:"metrics"`
}
