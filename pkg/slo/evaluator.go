package slo

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/appclacks/sloreport/pkg/slo/aggregates"
	er "github.com/mcorbin/corbierror"
)

// nearMissRatio is the share of the target above which a missed
// objective is still reported as a near miss.
const nearMissRatio = 0.95

func validValue(v *float64) bool {
	return v != nil && *v >= 0 && !math.IsNaN(*v)
}

// validTarget rejects NaN and targets outside of [0, 100], they are
// handled like a missing target.
func validTarget(t *float64) bool {
	return t != nil && !math.IsNaN(*t) && *t >= 0 && *t <= 100
}

// Categorize decides pass/fail on a single window. The boundary
// value == target passes.
func Categorize(record aggregates.SLORecord, window aggregates.Window) aggregates.Category {
	v := record.Value(window)
	if !validValue(v) || !validTarget(record.Target) {
		return aggregates.CategoryNoData
	}
	if *v < *record.Target {
		return aggregates.CategoryFailing
	}
	return aggregates.CategoryPassing
}

// ClassifyTrend looks at every transition between consecutive valid
// windows, so a dip followed by a recovery is Fluctuating even when the
// first and last values are equal.
func ClassifyTrend(record aggregates.SLORecord, epsilon float64) aggregates.Trend {
	values := make([]float64, 0, aggregates.WindowCount)
	for _, v := range record.Windows {
		if validValue(v) {
			values = append(values, *v)
		}
	}
	if len(values) < 2 {
		return aggregates.TrendInsufficient
	}
	transitions := len(values) - 1
	ups, downs, flats := 0, 0, 0
	for i := 0; i < transitions; i++ {
		diff := values[i+1] - values[i]
		switch {
		case math.Abs(diff) <= epsilon:
			flats++
		case diff > 0:
			ups++
		default:
			downs++
		}
	}
	switch {
	case flats == transitions:
		return aggregates.TrendStable
	case downs == 0 && ups > 0:
		return aggregates.TrendImproving
	case ups == 0 && downs > 0:
		return aggregates.TrendDegrading
	default:
		return aggregates.TrendFluctuating
	}
}

// SeverityOf tiers a value for presentation. It is not used to decide
// pass/fail.
func SeverityOf(value *float64, target *float64) aggregates.Severity {
	if !validValue(value) || !validTarget(target) {
		return aggregates.SeverityUnknown
	}
	switch {
	case *value >= *target:
		return aggregates.SeverityMet
	case *value >= *target*nearMissRatio:
		return aggregates.SeverityNearMiss
	default:
		return aggregates.SeverityMissed
	}
}

// Order returns a stably sorted copy of records: ids listed in priorityIDs
// first, in that list's order, then everything else by name.
func Order(records []aggregates.SLORecord, priorityIDs []string) []aggregates.SLORecord {
	priority := make(map[string]int, len(priorityIDs))
	for i, id := range priorityIDs {
		if _, ok := priority[id]; !ok {
			priority[id] = i
		}
	}
	result := slices.Clone(records)
	slices.SortStableFunc(result, func(a, b aggregates.SLORecord) int {
		pa, aPinned := priority[a.ID]
		pb, bPinned := priority[b.ID]
		switch {
		case aPinned && bPinned && pa != pb:
			return pa - pb
		case aPinned && !bPinned:
			return -1
		case !aPinned && bPinned:
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return result
}

func resolveTarget(record *aggregates.SLORecord, config Config) {
	if override, ok := config.TargetOverrides[record.ID]; ok {
		target := override
		record.Target = &target
		return
	}
	if !validTarget(record.Target) {
		record.Target = nil
	}
	if record.Target == nil && config.MissingTargetPolicy() == MissingTargetZero {
		zero := 0.0
		record.Target = &zero
	}
}

// Evaluate categorizes, classifies and orders records for one report run.
// The input slice is left untouched.
func Evaluate(records []aggregates.SLORecord, config Config) (*aggregates.Report, error) {
	window := config.Window()
	epsilon := config.Epsilon()
	byCategory := map[aggregates.Category][]aggregates.SLORecord{}
	seen := make(map[string]bool, len(records))
	for i := range records {
		record := records[i]
		if record.ID == "" {
			return nil, er.Newf("SLO record %q has no id", er.BadRequest, true, record.Name)
		}
		if seen[record.ID] {
			return nil, er.Newf("SLO record id %q is duplicated", er.BadRequest, true, record.ID)
		}
		seen[record.ID] = true
		resolveTarget(&record, config)
		category := Categorize(record, window)
		byCategory[category] = append(byCategory[category], record)
	}
	toEntries := func(category aggregates.Category) []aggregates.Entry {
		ordered := Order(byCategory[category], config.PriorityIDs)
		result := make([]aggregates.Entry, 0, len(ordered))
		for _, record := range ordered {
			result = append(result, aggregates.Entry{
				Record:   record,
				Category: category,
				Trend:    ClassifyTrend(record, epsilon),
				Severity: SeverityOf(record.Value(window), record.Target),
			})
		}
		return result
	}
	report := &aggregates.Report{
		GeneratedAt:      time.Now().UTC(),
		EvaluationWindow: window,
		Failing:          toEntries(aggregates.CategoryFailing),
		Passing:          toEntries(aggregates.CategoryPassing),
		NoData:           toEntries(aggregates.CategoryNoData),
	}
	report.HasBreach = len(report.Failing) > 0
	return report, nil
}
