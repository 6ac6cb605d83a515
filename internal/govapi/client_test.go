package govapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSearchAssets(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{"search": q.Get("search"), "type": q.Get("type"), "limit": q.Get("limit")}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"assets":[
			{"id":"a1","name":"customers","type":"table","databaseName":"sales","rowCount":1200,"columnCount":14,"qualityScore":91.5},
			{"id":"a2","name":"customer_audit","type":"table","databaseName":"sales"}
		],"pagination":{"total":2}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	assets, total, err := c.SearchAssets(context.Background(), "customer", "table", 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d (total %d)", len(assets), total)
	}
	if assets[0].Name != "customers" || assets[0].RowCount != 1200 {
		t.Errorf("first asset not decoded: %+v", assets[0])
	}
	want := map[string]string{"search": "customer", "type": "table", "limit": "10"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query param %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestSearchAssetsEmptyIsNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"assets":[],"pagination":{"total":0}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	assets, total, err := c.SearchAssets(context.Background(), "nothing", "", 0)
	if err != nil {
		t.Fatalf("zero results must not be an error, got %v", err)
	}
	if total != 0 || len(assets) != 0 {
		t.Errorf("expected empty result, got %d/%d", len(assets), total)
	}
}

func TestServerErrorIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, _, err := c.SearchAssets(context.Background(), "x", "", 0)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.StatusCode)
	}
}

func TestUnreachableBackendIsAPIError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", WithTimeout(200*time.Millisecond))
	_, err := c.QualityMetrics(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("transport failure should have status 0, got %d", apiErr.StatusCode)
	}
}

func TestAssetColumns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/a1/columns" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[
			{"name":"id","dataType":"bigint","isPrimaryKey":true},
			{"name":"email","dataType":"varchar","isNullable":true,"isPII":true}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	cols, err := c.AssetColumns(context.Background(), "a1")
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(cols))
	}
	if !cols[0].IsPrimaryKey || !cols[1].IsPII {
		t.Errorf("column flags not decoded: %+v", cols)
	}
}

func TestPIIPatterns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pii-discovery/patterns" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"data":[
			{"pii_type_suggestion":"ssn","confidence":0.97,"patterns":[
				{"pattern":"\\d{3}-\\d{2}-\\d{4}","columns":[{"table_name":"employees","column_name":"ssn","database_name":"hr"}]}
			]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	findings, err := c.PIIPatterns(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 1 || findings[0].TypeSuggestion != "ssn" {
		t.Fatalf("findings not decoded: %+v", findings)
	}
	if findings[0].Patterns[0].Columns[0].TableName != "employees" {
		t.Errorf("column location not decoded")
	}
}

func TestQualityMetricsCached(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"overallScore":88.5,"completeness":92,"accuracy":85}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithCacheTTL(time.Minute))
	for i := 0; i < 3; i++ {
		m, err := c.QualityMetrics(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if m.OverallScore != 88.5 {
			t.Errorf("score not decoded, got %v", m.OverallScore)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 backend call with caching, got %d", calls)
	}
}

func TestQualityMetricsCacheDisabled(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"overallScore":70}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithCacheTTL(0))
	for i := 0; i < 2; i++ {
		if _, err := c.QualityMetrics(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 2 {
		t.Errorf("expected 2 backend calls without caching, got %d", calls)
	}
}

func TestPipelineAndCatalogStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/pipelines/stats":
			w.Write([]byte(`{"data":{"active":4,"running":1,"completed":120,"failed":3}}`))
		case "/api/catalog/stats":
			w.Write([]byte(`{"data":{"total":240,"tables":200,"views":30,"databases":10}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ps, err := c.PipelineStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ps.Active != 4 || ps.Failed != 3 {
		t.Errorf("pipeline stats not decoded: %+v", ps)
	}

	cs, err := c.CatalogStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cs.Tables != 200 {
		t.Errorf("catalog stats not decoded: %+v", cs)
	}
}

func TestDataSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[{"name":"warehouse","type":"postgres","status":"connected","host":"db1"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	sources, err := c.DataSources(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 || sources[0].Status != "connected" {
		t.Errorf("data sources not decoded: %+v", sources)
	}
}
