package http_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apihttp "github.com/appclacks/sloreport/internal/http"
	"github.com/appclacks/sloreport/internal/http/handlers"
	mocks "github.com/appclacks/sloreport/mocks/github.com/appclacks/sloreport/pkg/slo"
	"github.com/appclacks/sloreport/pkg/slo"
	"github.com/appclacks/sloreport/pkg/slo/aggregates"
	er "github.com/mcorbin/corbierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func toJson(t *testing.T, s any) []byte {
	t.Helper()
	result, err := json.Marshal(s)
	assert.NoError(t, err, "fail to marshal to json")
	return result
}

func fromJson(t *testing.T, s any, data []byte) {
	t.Helper()
	err := json.Unmarshal(data, s)
	assert.NoError(t, err, "fail to unmarshal to json data %s", string(data))
}

func ptr(v float64) *float64 {
	return &v
}

type testCase struct {
	url            string
	expectedStatus int
	method         string
	payload        any
	headers        map[string]string
	body           string
}

func newServer(t *testing.T, config apihttp.Configuration, store slo.Store) *apihttp.Server {
	t.Helper()
	service, err := slo.New(slog.Default(), store, slo.Config{}, prometheus.NewRegistry(), nil)
	assert.NoError(t, err)
	server, err := apihttp.NewServer(slog.Default(), config, prometheus.NewRegistry(), handlers.NewBuilder(service))
	assert.NoError(t, err)
	return server
}

func execute(t *testing.T, server *apihttp.Server, c testCase) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if c.payload != nil {
		body = bytes.NewReader(toJson(t, c.payload))
	} else {
		body = bytes.NewReader([]byte(c.body))
	}
	request := httptest.NewRequest(c.method, c.url, body)
	request.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		request.Header.Set(k, v)
	}
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	assert.Equal(t, c.expectedStatus, recorder.Code, "%s %s: %s", c.method, c.url, recorder.Body.String())
	return recorder
}

var config = apihttp.Configuration{Host: "127.0.0.1", Port: 10000}

func TestHealthzAndMetrics(t *testing.T) {
	server := newServer(t, config, mocks.NewMockStore(t))
	execute(t, server, testCase{url: "/healthz", method: http.MethodGet, expectedStatus: http.StatusOK})
	execute(t, server, testCase{url: "/does-not-exist", method: http.MethodGet, expectedStatus: http.StatusNotFound})
	resp := execute(t, server, testCase{url: "/metrics", method: http.MethodGet, expectedStatus: http.StatusOK})
	assert.Contains(t, resp.Body.String(), "http_responses_total")
}

func TestSLOCRUD(t *testing.T) {
	store := mocks.NewMockStore(t)
	server := newServer(t, config, store)

	store.On("CreateSLO", mock.Anything, mock.MatchedBy(func(s aggregates.SLO) bool {
		return s.Name == "checkout" && s.ID != "" && *s.Objective == 99.5
	})).Return(nil).Once()
	resp := execute(t, server, testCase{
		url:            "/api/v1/slo",
		method:         http.MethodPost,
		payload:        handlers.CreateSLOInput{Name: "checkout", Objective: ptr(99.5), Filter: `useraction.name in("Pay")`},
		expectedStatus: http.StatusCreated,
	})
	var created handlers.SLO
	fromJson(t, &created, resp.Body.Bytes())
	assert.Equal(t, "checkout", created.Name)
	assert.NotEmpty(t, created.ID)

	execute(t, server, testCase{
		url:            "/api/v1/slo",
		method:         http.MethodPost,
		payload:        handlers.CreateSLOInput{Objective: ptr(99.5)},
		expectedStatus: http.StatusBadRequest,
	})
	execute(t, server, testCase{
		url:            "/api/v1/slo",
		method:         http.MethodPost,
		payload:        handlers.CreateSLOInput{Name: "search", Filter: `useraction.name like("Pay")`},
		expectedStatus: http.StatusBadRequest,
	})
	execute(t, server, testCase{
		url:            "/api/v1/slo",
		method:         http.MethodPost,
		body:           `{"name": 3}`,
		expectedStatus: http.StatusBadRequest,
	})

	store.On("GetSLOByName", mock.Anything, "checkout").Return(&aggregates.SLO{ID: created.ID, Name: "checkout"}, nil).Once()
	resp = execute(t, server, testCase{url: "/api/v1/slo/checkout", method: http.MethodGet, expectedStatus: http.StatusOK})
	var fetched handlers.SLO
	fromJson(t, &fetched, resp.Body.Bytes())
	assert.Equal(t, created.ID, fetched.ID)

	store.On("GetSLO", mock.Anything, created.ID).Return(&aggregates.SLO{ID: created.ID, Name: "checkout"}, nil).Once()
	execute(t, server, testCase{url: "/api/v1/slo/" + created.ID, method: http.MethodGet, expectedStatus: http.StatusOK})

	store.On("GetSLOByName", mock.Anything, "unknown").Return(nil, er.New("SLO not found", er.NotFound, true)).Once()
	execute(t, server, testCase{url: "/api/v1/slo/unknown", method: http.MethodGet, expectedStatus: http.StatusNotFound})

	store.On("ListSLOs", mock.Anything).Return([]*aggregates.SLO{{ID: created.ID, Name: "checkout"}}, nil).Once()
	resp = execute(t, server, testCase{url: "/api/v1/slo", method: http.MethodGet, expectedStatus: http.StatusOK})
	var list handlers.ListSLOsOutput
	fromJson(t, &list, resp.Body.Bytes())
	assert.Len(t, list.Result, 1)

	execute(t, server, testCase{url: "/api/v1/slo/checkout", method: http.MethodDelete, expectedStatus: http.StatusBadRequest})
	store.On("DeleteSLO", mock.Anything, created.ID).Return(nil).Once()
	execute(t, server, testCase{url: "/api/v1/slo/" + created.ID, method: http.MethodDelete, expectedStatus: http.StatusOK})
}

func TestAddRecord(t *testing.T) {
	store := mocks.NewMockStore(t)
	server := newServer(t, config, store)
	store.On("AddRecord", mock.Anything, aggregates.Record{Name: "checkout", Success: true, Value: 2}).Return(nil).Once()
	execute(t, server, testCase{
		url:            "/api/v1/slo/record",
		method:         http.MethodPost,
		payload:        handlers.Record{Name: "checkout", Success: true, Value: 2},
		expectedStatus: http.StatusOK,
	})
	execute(t, server, testCase{
		url:            "/api/v1/slo/record",
		method:         http.MethodPost,
		payload:        handlers.Record{Name: "checkout", Value: -2},
		expectedStatus: http.StatusBadRequest,
	})
}

func TestEvaluate(t *testing.T) {
	server := newServer(t, config, mocks.NewMockStore(t))
	payload := map[string]any{
		"records": []map[string]any{
			{"id": "a", "name": "checkout", "target": 99, "windows": []any{99.5, 99.2, 98.0, nil}},
			{"id": "b", "name": "search", "target": 90, "windows": []any{nil, nil, 95.0, 96.0}},
		},
	}
	resp := execute(t, server, testCase{
		url:            "/api/v1/slo/report/evaluate",
		method:         http.MethodPost,
		payload:        payload,
		expectedStatus: http.StatusOK,
	})
	var report aggregates.Report
	fromJson(t, &report, resp.Body.Bytes())
	assert.True(t, report.HasBreach)
	assert.Len(t, report.Failing, 1)
	assert.Equal(t, "a", report.Failing[0].Record.ID)
	assert.Equal(t, aggregates.TrendDegrading, report.Failing[0].Trend)
	assert.Len(t, report.Passing, 1)

	resp = execute(t, server, testCase{
		url:            "/api/v1/slo/report/evaluate?format=markdown",
		method:         http.MethodPost,
		payload:        payload,
		expectedStatus: http.StatusOK,
	})
	assert.True(t, strings.HasPrefix(resp.Header().Get("Content-Type"), "text/markdown"))
	assert.Contains(t, resp.Body.String(), "**1 SLO(s) below target.**")

	execute(t, server, testCase{
		url:            "/api/v1/slo/report/evaluate?format=pdf",
		method:         http.MethodPost,
		payload:        payload,
		expectedStatus: http.StatusBadRequest,
	})
	for _, body := range []string{
		`{"records": [{"id": "a", "target": 99, "windows": [99.9, 99.8, 99.7]}]}`,
		`{"records": [{"id": "a", "target": 99, "windows": [99.9, 99.8, 99.7, 99.6, 99.5]}]}`,
	} {
		resp := execute(t, server, testCase{
			url:            "/api/v1/slo/report/evaluate",
			method:         http.MethodPost,
			body:           body,
			expectedStatus: http.StatusBadRequest,
		})
		assert.Contains(t, resp.Body.String(), "expected 4")
	}
	execute(t, server, testCase{
		url:            "/api/v1/slo/report/evaluate",
		method:         http.MethodPost,
		body:           `{"records": [{"id": "a", "windows": [null, null, 99, null]}, {"id": "a", "windows": [null, null, 98, null]}]}`,
		expectedStatus: http.StatusBadRequest,
	})
	execute(t, server, testCase{
		url:            "/api/v1/slo/report/evaluate",
		method:         http.MethodPost,
		body:           `{"records": []}`,
		expectedStatus: http.StatusBadRequest,
	})
	execute(t, server, testCase{
		url:            "/api/v1/slo/report/evaluate",
		method:         http.MethodPost,
		body:           `{"records": [{"name": "no id", "windows": [null, null, null, null]}]}`,
		expectedStatus: http.StatusBadRequest,
	})
}

func TestReport(t *testing.T) {
	store := mocks.NewMockStore(t)
	server := newServer(t, config, store)
	store.On("ListSLOs", mock.Anything).Return([]*aggregates.SLO{{ID: "a", Name: "checkout", Objective: ptr(99)}}, nil)
	store.On("ListAggregatedRecords", mock.Anything, mock.Anything).Return([]*aggregates.SLOSum{
		{Name: "checkout", Success: 999, Failure: 1},
	}, nil)
	resp := execute(t, server, testCase{url: "/api/v1/slo/report", method: http.MethodGet, expectedStatus: http.StatusOK})
	var report aggregates.Report
	fromJson(t, &report, resp.Body.Bytes())
	assert.False(t, report.HasBreach)
	assert.Len(t, report.Passing, 1)
	assert.Equal(t, aggregates.TrendStable, report.Passing[0].Trend)

	resp = execute(t, server, testCase{url: "/api/v1/slo/report?format=markdown", method: http.MethodGet, expectedStatus: http.StatusOK})
	assert.Contains(t, resp.Body.String(), "All SLOs with data are meeting their target.")
}

func TestBasicAuth(t *testing.T) {
	authConfig := config
	authConfig.BasicAuth = apihttp.BasicAuth{Username: "admin", Password: "secret"}
	store := mocks.NewMockStore(t)
	server := newServer(t, authConfig, store)
	execute(t, server, testCase{url: "/api/v1/slo", method: http.MethodGet, expectedStatus: http.StatusUnauthorized})
	execute(t, server, testCase{url: "/healthz", method: http.MethodGet, expectedStatus: http.StatusOK})

	request := httptest.NewRequest(http.MethodGet, "/api/v1/slo", nil)
	request.SetBasicAuth("admin", "secret")
	store.On("ListSLOs", mock.Anything).Return([]*aggregates.SLO{}, nil).Once()
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
