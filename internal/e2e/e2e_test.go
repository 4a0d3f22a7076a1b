package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"lpbridge/internal/httpapi"
	"lpbridge/internal/solver"
	"lpbridge/internal/solvesvc"
	"lpbridge/pkg/types"
)

func newServer(t *testing.T, defaultBackend string) *httptest.Server {
	t.Helper()
	svc := solvesvc.New(defaultBackend, solver.DefaultOptions())
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return srv
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

// TestE2E_Backends_Solve_Ready walks the whole surface: list backends, check
// readiness, solve a feasible model and read the values back.
func TestE2E_Backends_Solve_Ready(t *testing.T) {
	srv := newServer(t, "gophersat")

	// 1) GET /backends lists the three registered engines
	resp, body := httpGet(t, srv.URL+"/backends")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/backends status=%d body=%s", resp.StatusCode, string(body))
	}
	var backends types.BackendsResponse
	if err := json.Unmarshal(body, &backends); err != nil {
		t.Fatalf("/backends json: %v body=%s", err, string(body))
	}
	if len(backends.Backends) < 3 {
		t.Fatalf("expected at least 3 backends, got %d", len(backends.Backends))
	}

	// 2) /readyz is 200: the pure-Go engines are always available
	resp, body = httpGet(t, srv.URL+"/readyz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/readyz status=%d body=%s", resp.StatusCode, string(body))
	}

	// 3) POST /solve without a backend uses the default
	payload := []byte(`{
		"model": {
			"name": "window",
			"variables": [{"name": "x", "kind": "integer", "lower": 0, "upper": 10}],
			"constraints": [
				{"name": "lo", "terms": {"x": 1}, "constant": -7, "sense": "ge"},
				{"name": "hi", "terms": {"x": 1}, "constant": -8, "sense": "le"}
			]
		}
	}`)
	resp, body = httpPostJSON(t, srv.URL+"/solve", payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/solve status=%d body=%s", resp.StatusCode, string(body))
	}
	var solved types.SolveResponse
	if err := json.Unmarshal(body, &solved); err != nil {
		t.Fatalf("/solve json: %v body=%s", err, string(body))
	}
	if solved.Backend != "gophersat" || solved.Status != "optimal" {
		t.Fatalf("/solve resp=%+v", solved)
	}
	if x := solved.Values["x"]; x < 7 || x > 8 {
		t.Fatalf("/solve x=%v, want within [7,8]", x)
	}

	// 4) /metrics now carries a solve counter for the backend
	resp, body = httpGet(t, srv.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/metrics status=%d", resp.StatusCode)
	}
	if !bytes.Contains(body, []byte("lpbridge_solve_solves_total")) {
		t.Fatalf("/metrics missing solve counter")
	}
}

func TestE2E_Solve_Infeasible(t *testing.T) {
	srv := newServer(t, "gophersat")

	payload := []byte(`{
		"backend": "gini",
		"model": {
			"name": "impossible",
			"variables": [
				{"name": "a", "lower": 0, "upper": 1},
				{"name": "b", "lower": 0, "upper": 1}
			],
			"constraints": [
				{"terms": {"a": 1, "b": 1}, "constant": -3, "sense": "ge"}
			]
		}
	}`)
	resp, body := httpPostJSON(t, srv.URL+"/solve", payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/solve status=%d body=%s", resp.StatusCode, string(body))
	}
	var solved types.SolveResponse
	if err := json.Unmarshal(body, &solved); err != nil {
		t.Fatalf("/solve json: %v", err)
	}
	if solved.Status != "infeasible" || len(solved.Values) != 0 {
		t.Fatalf("resp = %+v", solved)
	}
}

func TestE2E_Solve_UnsupportedFeature_422(t *testing.T) {
	srv := newServer(t, "gophersat")

	// an objective on a pure satisfiability engine is a 422
	payload := []byte(`{
		"backend": "gophersat",
		"model": {
			"variables": [{"name": "x", "lower": 0, "upper": 5}],
			"objective": {"terms": {"x": 1}, "direction": "max"}
		}
	}`)
	resp, body := httpPostJSON(t, srv.URL+"/solve", payload)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	var errResp types.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("error json: %v body=%s", err, string(body))
	}
	if errResp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("error payload = %+v", errResp)
	}
}

func TestE2E_Solve_UnknownBackend(t *testing.T) {
	srv := newServer(t, "gophersat")

	payload := []byte(`{
		"backend": "cplex",
		"model": {"variables": [{"name": "x", "lower": 0, "upper": 1}]}
	}`)
	resp, body := httpPostJSON(t, srv.URL+"/solve", payload)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
}
