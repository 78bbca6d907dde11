package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/ecgflow/config"
	"github.com/skillsenselab/ecgflow/denoise"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultPipeline()
	cfg.Filter.Enabled = false
	runner, err := denoise.NewRunner(cfg)
	if err != nil {
		t.Fatal(err)
	}

	engine := gin.New()
	NewRunService(runner, NewRunStore()).Register(engine)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var parsed map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("response is not JSON: %v\n%s", err, w.Body.String())
		}
	}
	return w, parsed
}

// runBody builds a signal with a guaranteed outlier spike.
func runBody() map[string]any {
	signal := make([]float64, 1200)
	for i := range signal {
		signal[i] = 0.05 * math.Sin(2*math.Pi*float64(i)/200)
	}
	for i := 600; i < 605; i++ {
		signal[i] = 25
	}
	return map[string]any{
		"signal": signal,
		"gaps":   [][2]int{{10, 40}},
	}
}

func errorCodeOf(t *testing.T, parsed map[string]any) string {
	t.Helper()
	errObj, ok := parsed["error"].(map[string]any)
	if !ok {
		t.Fatalf("response has no error object: %v", parsed)
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestRunAPI(t *testing.T) {
	engine := newTestEngine(t)

	w, parsed := doJSON(t, engine, http.MethodPost, "/api/runs", runBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /api/runs = %d: %s", w.Code, w.Body.String())
	}
	data := parsed["data"].(map[string]any)
	runID, _ := data["run_id"].(string)
	if runID == "" {
		t.Fatal("created run has no run_id")
	}
	stages, _ := data["stages"].([]any)
	if len(stages) != 6 {
		t.Errorf("report stages = %d, want 6", len(stages))
	}

	t.Run("list runs", func(t *testing.T) {
		w, parsed := doJSON(t, engine, http.MethodGet, "/api/runs", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		runs := parsed["data"].([]any)
		if len(runs) != 1 {
			t.Fatalf("runs = %d, want 1", len(runs))
		}
		meta := runs[0].(map[string]any)
		if n, _ := meta["final_len"].(float64); n <= 0 {
			t.Errorf("final_len = %v, want > 0", meta["final_len"])
		}
	})

	t.Run("get run", func(t *testing.T) {
		w, parsed := doJSON(t, engine, http.MethodGet, "/api/runs/"+runID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		rep := parsed["data"].(map[string]any)
		if rep["run_id"] != runID {
			t.Errorf("run_id = %v", rep["run_id"])
		}
	})

	t.Run("unknown run is 404", func(t *testing.T) {
		w, parsed := doJSON(t, engine, http.MethodGet, "/api/runs/no-such-run", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d", w.Code)
		}
		if code := errorCodeOf(t, parsed); code != "NOT_FOUND" {
			t.Errorf("code = %q", code)
		}
	})

	t.Run("retained stage array", func(t *testing.T) {
		w, parsed := doJSON(t, engine, http.MethodGet, "/api/runs/"+runID+"/stages/original", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		stage := parsed["data"].(map[string]any)
		if stage["length"] != float64(1200) {
			t.Errorf("length = %v, want 1200", stage["length"])
		}
	})

	t.Run("released stage array is 410", func(t *testing.T) {
		w, parsed := doJSON(t, engine, http.MethodGet, "/api/runs/"+runID+"/stages/no_gaps", nil)
		if w.Code != http.StatusGone {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		if code := errorCodeOf(t, parsed); code != "RELEASED_STAGE" {
			t.Errorf("code = %q", code)
		}
	})

	t.Run("unknown stage is 404", func(t *testing.T) {
		w, _ := doJSON(t, engine, http.MethodGet, "/api/runs/"+runID+"/stages/bogus", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("detections", func(t *testing.T) {
		w, parsed := doJSON(t, engine, http.MethodGet, "/api/runs/"+runID+"/detections", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		detections := parsed["data"].([]any)
		names := map[string]bool{}
		for _, d := range detections {
			names[d.(map[string]any)["name"].(string)] = true
		}
		if !names["outliers"] {
			t.Errorf("detections = %v, want outliers present", names)
		}
	})

	t.Run("projection to original", func(t *testing.T) {
		path := fmt.Sprintf("/api/runs/%s/projections/outliers?target=original", runID)
		w, parsed := doJSON(t, engine, http.MethodGet, path, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		proj := parsed["data"].(map[string]any)
		if proj["target"] != "original" {
			t.Errorf("target = %v", proj["target"])
		}
		if spans, _ := proj["spans"].([]any); len(spans) == 0 {
			t.Error("projection has no spans")
		}
	})

	t.Run("projection to named stage", func(t *testing.T) {
		path := fmt.Sprintf("/api/runs/%s/projections/outliers?target=no_outliers", runID)
		w, _ := doJSON(t, engine, http.MethodGet, path, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown detection is 404", func(t *testing.T) {
		w, _ := doJSON(t, engine, http.MethodGet, "/api/runs/"+runID+"/projections/bogus", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("delete run", func(t *testing.T) {
		w, _ := doJSON(t, engine, http.MethodDelete, "/api/runs/"+runID, nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d", w.Code)
		}
		w, _ = doJSON(t, engine, http.MethodGet, "/api/runs/"+runID, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status after delete = %d", w.Code)
		}
	})
}

func TestCreateRunRejectsBadBody(t *testing.T) {
	engine := newTestEngine(t)

	w, parsed := doJSON(t, engine, http.MethodPost, "/api/runs", map[string]any{"gaps": [][2]int{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if code := errorCodeOf(t, parsed); code != "INVALID_INPUT" {
		t.Errorf("code = %q", code)
	}
}

func TestHealthAndInfo(t *testing.T) {
	engine := newTestEngine(t)

	w, parsed := doJSON(t, engine, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	if parsed["status"] != "ok" {
		t.Errorf("health body = %v", parsed)
	}

	w, parsed = doJSON(t, engine, http.MethodGet, "/info", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("info status = %d", w.Code)
	}
	if v, _ := parsed["version"].(string); v == "" {
		t.Error("info lacks version")
	}
}
