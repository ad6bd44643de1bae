package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testService(t *testing.T, run RunFunc) *Service {
	t.Helper()
	steps := NewSteps(Step{
		ID:          "rename",
		Title:       "Rename files",
		Description: "Match downloaded files against the sheet",
		Fields:      []Field{{Name: "sheet", Label: "Worksheet", Default: "1_Youtube"}},
		Run:         run,
	})
	return &Service{
		Steps:   steps,
		Jobs:    NewManager(),
		State:   LoadState(filepath.Join(t.TempDir(), "wizard.toml")),
		Version: "test",
	}
}

func TestListStepsMergesSavedValues(t *testing.T) {
	svc := testService(t, func(context.Context, map[string]string, func(string)) error { return nil })
	if err := svc.State.Put("rename", map[string]string{"sheet": "2_Images"}); err != nil {
		t.Fatal(err)
	}
	router := NewRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/steps", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Steps []struct {
			ID     string            `json:"id"`
			Values map[string]string `json:"values"`
		} `json:"steps"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Steps) != 1 || resp.Steps[0].Values["sheet"] != "2_Images" {
		t.Errorf("steps = %+v", resp.Steps)
	}
}

func TestRunStepLifecycle(t *testing.T) {
	release := make(chan struct{})
	var gotFields map[string]string
	svc := testService(t, func(_ context.Context, fields map[string]string, log func(string)) error {
		gotFields = fields
		log("working")
		<-release
		return nil
	})
	router := NewRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/steps/rename/run",
		strings.NewReader(`{"fields":{"sheet":"3_Footages"}}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var accepted struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil || accepted.JobID == "" {
		t.Fatalf("bad accept body: %s", w.Body.String())
	}

	// Same step again while running: must be rejected.
	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest(http.MethodPost, "/api/steps/rename/run", nil)
	router.ServeHTTP(w2, req2)
	if w2.Code != http.StatusConflict {
		t.Errorf("concurrent run status = %d", w2.Code)
	}

	close(release)
	job, _ := svc.Jobs.Get(accepted.JobID)
	waitDone(t, svc, accepted.JobID)

	w3 := httptest.NewRecorder()
	req3, _ := http.NewRequest(http.MethodGet, "/api/jobs/"+accepted.JobID, nil)
	router.ServeHTTP(w3, req3)
	if w3.Code != http.StatusOK {
		t.Fatalf("job status = %d", w3.Code)
	}
	var final Job
	if err := json.Unmarshal(w3.Body.Bytes(), &final); err != nil {
		t.Fatal(err)
	}
	if final.Status != StatusDone || len(final.Log) != 1 || final.Log[0] != "working" {
		t.Errorf("final job = %+v (was %+v)", final, job)
	}
	if gotFields["sheet"] != "3_Footages" {
		t.Errorf("posted fields not passed through: %v", gotFields)
	}

	// Fields from the run are persisted for the next listing.
	if got := svc.State.Get(mustStep(svc, "rename"))["sheet"]; got != "3_Footages" {
		t.Errorf("state not persisted: %q", got)
	}
}

func TestJobOutlivesRequest(t *testing.T) {
	release := make(chan struct{})
	ctxErr := make(chan error, 1)
	svc := testService(t, func(ctx context.Context, _ map[string]string, _ func(string)) error {
		<-release
		ctxErr <- ctx.Err()
		return nil
	})
	router := NewRouter(svc)

	reqCtx, cancel := context.WithCancel(context.Background())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/steps/rename/run", nil)
	router.ServeHTTP(w, req.WithContext(reqCtx))
	// The server cancels the request context once the handler returns.
	cancel()
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	close(release)
	if err := <-ctxErr; err != nil {
		t.Errorf("job context canceled after the request returned: %v", err)
	}
	var accepted struct {
		JobID string `json:"job_id"`
	}
	json.Unmarshal(w.Body.Bytes(), &accepted)
	waitDone(t, svc, accepted.JobID)
	if job, _ := svc.Jobs.Get(accepted.JobID); job.Status != StatusDone {
		t.Errorf("job = %+v", job)
	}
}

func TestRunFailureIsReported(t *testing.T) {
	svc := testService(t, func(context.Context, map[string]string, func(string)) error {
		return fmt.Errorf("no csv export found")
	})
	router := NewRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/steps/rename/run", nil)
	router.ServeHTTP(w, req)
	var accepted struct {
		JobID string `json:"job_id"`
	}
	json.Unmarshal(w.Body.Bytes(), &accepted)
	waitDone(t, svc, accepted.JobID)

	job, ok := svc.Jobs.Get(accepted.JobID)
	if !ok || job.Status != StatusFailed || !strings.Contains(job.Error, "no csv export") {
		t.Errorf("job = %+v", job)
	}
}

func TestUnknownStepAndJob(t *testing.T) {
	svc := testService(t, func(context.Context, map[string]string, func(string)) error { return nil })
	router := NewRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/steps/nope/run", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown step status = %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest(http.MethodGet, "/api/jobs/nope", nil)
	router.ServeHTTP(w2, req2)
	if w2.Code != http.StatusNotFound {
		t.Errorf("unknown job status = %d", w2.Code)
	}
}

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wizard.toml")
	step := Step{ID: "titles", Fields: []Field{{Name: "sheet", Default: "1_Youtube"}}}

	s := LoadState(path)
	if got := s.Get(step)["sheet"]; got != "1_Youtube" {
		t.Errorf("default not applied: %q", got)
	}
	if err := s.Put("titles", map[string]string{"sheet": "4_Other"}); err != nil {
		t.Fatal(err)
	}

	again := LoadState(path)
	if got := again.Get(step)["sheet"]; got != "4_Other" {
		t.Errorf("state did not survive reload: %q", got)
	}
}

func mustStep(svc *Service, id string) Step {
	step, ok := svc.Steps.Get(id)
	if !ok {
		panic("missing step " + id)
	}
	return step
}

func waitDone(t *testing.T, svc *Service, jobID string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		job, ok := svc.Jobs.Get(jobID)
		if ok && (job.Status == StatusDone || job.Status == StatusFailed) {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("job %s never finished", jobID)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
