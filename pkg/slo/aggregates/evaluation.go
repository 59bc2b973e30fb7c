package aggregates

import (
	"encoding/json"
	"fmt"
	"time"

	er "github.com/mcorbin/corbierror"
	"gopkg.in/yaml.v3"
)

// Window is the index of a lookback period inside SLORecord.Windows.
// Windows are ordered chronologically, longest lookback first.
type Window int

const (
	Window90Days Window = iota
	Window30Days
	Window7Days
	WindowCurrent
)

const WindowCount = 4

var windowNames = [WindowCount]string{"90d", "30d", "7d", "1d"}

var windowDurations = [WindowCount]time.Duration{
	90 * 24 * time.Hour,
	30 * 24 * time.Hour,
	7 * 24 * time.Hour,
	24 * time.Hour,
}

func (w Window) Valid() bool {
	return w >= 0 && w < WindowCount
}

func (w Window) String() string {
	if !w.Valid() {
		return fmt.Sprintf("window(%d)", int(w))
	}
	return windowNames[w]
}

func (w Window) Duration() time.Duration {
	if !w.Valid() {
		return 0
	}
	return windowDurations[w]
}

func (w Window) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("invalid window %d", int(w))
	}
	return []byte(w.String()), nil
}

func (w *Window) UnmarshalText(text []byte) error {
	parsed, err := ParseWindow(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

func ParseWindow(name string) (Window, error) {
	for i, n := range windowNames {
		if n == name {
			return Window(i), nil
		}
	}
	return 0, fmt.Errorf("unknown window %q (expected one of 90d, 30d, 7d, 1d)", name)
}

func Windows() []Window {
	return []Window{Window90Days, Window30Days, Window7Days, WindowCurrent}
}

// SLORecord is the evaluated view of one objective for a single report run.
// A nil window value means no data for that lookback period.
type SLORecord struct {
	ID      string                `json:"id" yaml:"id"`
	Name    string                `json:"name" yaml:"name"`
	Target  *float64              `json:"target" yaml:"target"`
	Windows [WindowCount]*float64 `json:"windows" yaml:"windows"`
	Actions []string              `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// recordPayload is the decoded form of a SLORecord, windows are checked
// before being copied into the fixed size array.
type recordPayload struct {
	ID      string     `json:"id" yaml:"id"`
	Name    string     `json:"name" yaml:"name"`
	Target  *float64   `json:"target" yaml:"target"`
	Windows []*float64 `json:"windows" yaml:"windows"`
	Actions []string   `json:"actions" yaml:"actions"`
}

func (r *SLORecord) fromPayload(payload recordPayload) error {
	if len(payload.Windows) != WindowCount {
		return er.Newf("SLO record %q has %d windows, expected %d", er.BadRequest, true, payload.ID, len(payload.Windows), WindowCount)
	}
	*r = SLORecord{
		ID:      payload.ID,
		Name:    payload.Name,
		Target:  payload.Target,
		Actions: payload.Actions,
	}
	copy(r.Windows[:], payload.Windows)
	return nil
}

func (r *SLORecord) UnmarshalJSON(data []byte) error {
	var payload recordPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	return r.fromPayload(payload)
}

func (r *SLORecord) UnmarshalYAML(value *yaml.Node) error {
	var payload recordPayload
	if err := value.Decode(&payload); err != nil {
		return err
	}
	return r.fromPayload(payload)
}

func (r *SLORecord) Value(w Window) *float64 {
	if !w.Valid() {
		return nil
	}
	return r.Windows[w]
}

type Category string

const (
	CategoryFailing Category = "failing"
	CategoryPassing Category = "passing"
	CategoryNoData  Category = "no-data"
)

type Trend string

const (
	TrendImproving    Trend = "improving"
	TrendDegrading    Trend = "degrading"
	TrendStable       Trend = "stable"
	TrendFluctuating  Trend = "fluctuating"
	TrendInsufficient Trend = "insufficient"
)

type Severity string

const (
	SeverityMet      Severity = "met"
	SeverityNearMiss Severity = "near-miss"
	SeverityMissed   Severity = "missed"
	SeverityUnknown  Severity = "unknown"
)

type Entry struct {
	Record   SLORecord `json:"record"`
	Category Category  `json:"category"`
	Trend    Trend     `json:"trend"`
	Severity Severity  `json:"severity"`
}

type Report struct {
	GeneratedAt      time.Time `json:"generated-at"`
	EvaluationWindow Window    `json:"evaluation-window"`
	Failing          []Entry   `json:"failing"`
	Passing          []Entry   `json:"passing"`
	NoData           []Entry   `json:"no-data"`
	HasBreach        bool      `json:"has-breach"`
}

func (r *Report) Entries() []Entry {
	result := make([]Entry, 0, len(r.Failing)+len(r.Passing)+len(r.NoData))
	result = append(result, r.Failing...)
	result = append(result, r.Passing...)
	result = append(result, r.NoData...)
	return result
}
