package slo_test

import (
	"testing"

	"github.com/appclacks/sloreport/pkg/slo"
	"github.com/appclacks/sloreport/pkg/slo/aggregates"
	er "github.com/mcorbin/corbierror"
	"github.com/stretchr/testify/assert"
)

func TestLoadRecordsYAML(t *testing.T) {
	data := `
records:
  - id: checkout
    name: Checkout availability
    target: 99.5
    windows: [99.7, 99.6, 99.2, null]
    actions: [Pay]
  - id: search
    name: Search
    windows: [null, null, null, null]
`
	records, err := slo.LoadRecords([]byte(data))
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "checkout", records[0].ID)
	assert.Equal(t, "Checkout availability", records[0].Name)
	assert.Equal(t, 99.5, *records[0].Target)
	assert.Equal(t, 99.2, *records[0].Windows[2])
	assert.Nil(t, records[0].Windows[3])
	assert.Equal(t, []string{"Pay"}, records[0].Actions)
	assert.Nil(t, records[1].Target)
}

func TestLoadRecordsJSON(t *testing.T) {
	data := `{"records": [{"id": "a", "name": "A", "target": 90, "windows": [1, 2, 3, 4]}]}`
	records, err := slo.LoadRecords([]byte(data))
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 4.0, *records[0].Windows[3])
}

func TestLoadRecordsErrors(t *testing.T) {
	_, err := slo.LoadRecords([]byte(`records: [{id: a, windows: [1, 2, 3]}]`))
	assert.ErrorContains(t, err, "has 3 windows, expected 4")

	_, err = slo.LoadRecords([]byte(`records: [{id: a, windows: [1, 2, 3, 4, 5]}]`))
	assert.ErrorContains(t, err, "has 5 windows, expected 4")
	corbiError, ok := err.(*er.Error)
	assert.True(t, ok)
	assert.Equal(t, er.BadRequest, corbiError.Type)

	_, err = slo.LoadRecords([]byte(`records: [{id: a}]`))
	assert.ErrorContains(t, err, "has 0 windows, expected 4")

	_, err = slo.LoadRecords([]byte(`records: {`))
	assert.ErrorContains(t, err, "fail to parse records file")
}

func TestLoadRecordsOutOfRangeTarget(t *testing.T) {
	data := `
records:
  - id: a
    name: A
    target: .nan
    windows: [null, null, 99.9, null]
  - id: b
    name: B
    target: 150
    windows: [null, null, 99.9, null]
`
	records, err := slo.LoadRecords([]byte(data))
	assert.NoError(t, err)
	report, err := slo.Evaluate(records, slo.Config{})
	assert.NoError(t, err)
	assert.Empty(t, report.Failing)
	assert.Empty(t, report.Passing)
	assert.Len(t, report.NoData, 2)
	for _, entry := range report.NoData {
		assert.Equal(t, aggregates.CategoryNoData, entry.Category)
		assert.Equal(t, aggregates.SeverityUnknown, entry.Severity)
	}
}
