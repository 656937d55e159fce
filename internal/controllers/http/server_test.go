package httpctrl

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opentrack/railtemp/internal/testutil"
)

func TestPOST_simulate_ReturnsAlignedResults(t *testing.T) {
	srv, f := newTestServer()

	rr := doJSONRequest(t, srv.srv.Handler, http.MethodPost, "/v1/simulate", simulateBody(3))
	assertStatus(t, rr, http.StatusOK)

	got := decodeJSON[simulateResponse](t, rr)
	if got.DeviceID != "default" {
		t.Fatalf("expected device_id=default, got %v", got.DeviceID)
	}
	if len(got.Results) != len(f.Result.Results) {
		t.Fatalf("expected %d results, got %d", len(f.Result.Results), len(got.Results))
	}
	if got.Results[0].RailTemperature != f.Result.Results[0].RailTemperature {
		t.Fatalf("expected rail temperature %v, got %v",
			f.Result.Results[0].RailTemperature, got.Results[0].RailTemperature)
	}
	if len(f.Calls) != 1 || len(f.Calls[0]) != 3 {
		t.Fatalf("expected service called once with 3 samples, got %v", f.Calls)
	}
}

func TestPOST_simulate_CarriesSampleErrors(t *testing.T) {
	srv, f := newTestServer()
	f.Result.Errs[1] = errors.New("did not converge")

	rr := doJSONRequest(t, srv.srv.Handler, http.MethodPost, "/v1/simulate", simulateBody(3))
	assertStatus(t, rr, http.StatusOK)

	got := decodeJSON[simulateResponse](t, rr)
	if got.Results[1].Error != "did not converge" {
		t.Fatalf("expected error on result 1, got %q", got.Results[1].Error)
	}
	if got.Results[0].Error != "" || got.Results[2].Error != "" {
		t.Fatal("expected no error on clean results")
	}
}

func TestPOST_simulate_InvalidJSON(t *testing.T) {
	srv, _ := newTestServer()

	r := httptest.NewRequest(http.MethodPost, "/v1/simulate", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rr, r)

	assertStatus(t, rr, http.StatusBadRequest)
	_ = assertErrorResponse(t, rr)
}

func TestPOST_simulate_MissingSamples(t *testing.T) {
	srv, _ := newTestServer()

	rr := doJSONRequest(t, srv.srv.Handler, http.MethodPost, "/v1/simulate", map[string]any{
		"samples": []any{},
	})
	assertStatus(t, rr, http.StatusBadRequest)
	_ = assertErrorResponse(t, rr)
}

func TestPOST_simulate_MissingSampleField(t *testing.T) {
	srv, _ := newTestServer()

	rr := doJSONRequest(t, srv.srv.Handler, http.MethodPost, "/v1/simulate", map[string]any{
		"samples": []map[string]any{
			{"time": "2023-07-14T10:00:00Z", "air_temperature": 25.0},
		},
	})
	assertStatus(t, rr, http.StatusBadRequest)
	_ = assertErrorResponse(t, rr)
}

func TestPOST_simulate_ServiceError(t *testing.T) {
	srv, f := newTestServer()
	f.Err = errors.New("samples not in chronological order")

	rr := doJSONRequest(t, srv.srv.Handler, http.MethodPost, "/v1/simulate", simulateBody(2))
	assertStatus(t, rr, http.StatusUnprocessableEntity)
	_ = assertErrorResponse(t, rr)
}

func TestGET_sections(t *testing.T) {
	srv, _ := newTestServer()

	rr := doJSONRequest(t, srv.srv.Handler, http.MethodGet, "/v1/sections", nil)
	assertStatus(t, rr, http.StatusOK)

	got := decodeJSON[map[string][]string](t, rr)
	names := got["sections"]
	if len(names) == 0 {
		t.Fatal("expected at least one section name")
	}
	found := false
	for _, n := range names {
		if n == "UIC54" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UIC54 in section list, got %v", names)
	}
}

func TestGET_healthz(t *testing.T) {
	srv, _ := newTestServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.srv.Handler.ServeHTTP(rr, req)

	assertStatus(t, rr, http.StatusOK)
	if rr.Body.String() != "ok" {
		t.Fatalf("expected body 'ok', got %s", rr.Body.String())
	}
}

// ---- test helpers ----

func newTestServer() (*Server, *testutil.FakeSimulationService) {
	f := testutil.NewFakeSimulationService()
	deviceID := "default"
	return New(f, ":0", deviceID), f
}

func simulateBody(n int) map[string]any {
	t0 := time.Date(2023, 7, 14, 10, 0, 0, 0, time.UTC)
	samples := make([]map[string]any, n)
	for i := range samples {
		samples[i] = map[string]any{
			"time":             t0.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
			"air_temperature":  25.0,
			"wind_speed":       1.5,
			"solar_irradiance": 700.0,
		}
	}
	return map[string]any{"samples": samples}
}

func doJSONRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == nil {
		r = httptest.NewRequest(method, path, nil)
	} else {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal: %v", err)
		}
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	return rr
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected %d, got %d body=%s", want, rr.Code, rr.Body.String())
	}
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("json.Unmarshal: %v body=%s", err, rr.Body.String())
	}
	return v
}

// Handy when you only care about error responses.
func assertErrorResponse(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeJSON[struct {
		Error string `json:"error"`
	}](t, rr)
	if resp.Error == "" {
		t.Fatalf("expected non-empty error field, got body=%s", rr.Body.String())
	}
	return resp.Error
}
