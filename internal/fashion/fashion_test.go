package fashion

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/config"
)

// fakeService simulates the generation API: run queues a job, status
// reports it pending for a configurable number of polls before completing.
type fakeService struct {
	mu           sync.Mutex
	runs         []runRequest
	pollsPerJob  int
	failJobs     map[string]string // job id -> error message
	emptyOutput  bool
	pollsServed  map[string]int
	nextJob      int
	runStatus    int // non-zero overrides the run response code
	statusStatus int
}

func newFakeService() *fakeService {
	return &fakeService{
		failJobs:    make(map[string]string),
		pollsServed: make(map[string]int),
	}
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/run", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.runStatus != 0 {
			w.WriteHeader(f.runStatus)
			return
		}

		body, _ := io.ReadAll(r.Body)
		var req runRequest
		if err := json.Unmarshal(body, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.runs = append(f.runs, req)
		f.nextJob++
		writeJSON(w, runResponse{JobID: fmt.Sprintf("job-%d", f.nextJob)})
	})
	mux.HandleFunc("GET /v1/status/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.statusStatus != 0 {
			w.WriteHeader(f.statusStatus)
			return
		}

		jobID := r.PathValue("id")
		f.pollsServed[jobID]++

		status := JobStatus{JobID: jobID, Status: StatusProcessing}
		switch {
		case f.pollsServed[jobID] <= f.pollsPerJob:
			// still processing
		case f.failJobs[jobID] != "":
			status.Status = StatusFailed
			status.Error = f.failJobs[jobID]
		case f.emptyOutput:
			status.Status = StatusCompleted
		default:
			status.Status = StatusCompleted
			status.Output = []string{"https://cdn.example.com/" + jobID + ".jpg"}
		}
		writeJSON(w, status)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	data, _ := json.Marshal(v)
	w.Write(data)
}

func newTestClient(t *testing.T, f *fakeService) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	c := New(config.FashionConfig{
		BaseURL:         srv.URL,
		APIKey:          "test-key",
		PollInterval:    time.Millisecond,
		PollMaxAttempts: 5,
		PollDeadline:    time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(c.Close)
	return c
}

func TestRunReturnsJobID(t *testing.T) {
	f := newFakeService()
	c := newTestClient(t, f)

	jobID, err := c.Run(context.Background(), ModelBackgroundReplace, map[string]string{"image": "data:x"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if jobID != "job-1" {
		t.Errorf("job id: got %q", jobID)
	}
	if len(f.runs) != 1 || f.runs[0].Model != ModelBackgroundReplace {
		t.Errorf("recorded runs: %+v", f.runs)
	}
}

func TestWaitForOutputPollsUntilComplete(t *testing.T) {
	f := newFakeService()
	f.pollsPerJob = 3
	c := newTestClient(t, f)

	out, err := c.RunAndWait(context.Background(), ModelGarmentCompose, map[string]string{"base": "b", "garment": "g"})
	if err != nil {
		t.Fatalf("RunAndWait: %v", err)
	}
	if out != "https://cdn.example.com/job-1.jpg" {
		t.Errorf("output: got %q", out)
	}
	if f.pollsServed["job-1"] != 4 {
		t.Errorf("polls served: got %d, want 4", f.pollsServed["job-1"])
	}
}

func TestWaitForOutputJobFailure(t *testing.T) {
	f := newFakeService()
	f.failJobs["job-1"] = "model rejected input"
	c := newTestClient(t, f)

	_, err := c.RunAndWait(context.Background(), ModelGarmentCompose, nil)
	if !errors.Is(err, ErrJobFailed) {
		t.Fatalf("want ErrJobFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "model rejected input") {
		t.Errorf("remote message not surfaced: %v", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("job failure must not read as a timeout")
	}
}

func TestWaitForOutputAttemptBudget(t *testing.T) {
	f := newFakeService()
	f.pollsPerJob = 100 // never completes within the attempt cap
	c := newTestClient(t, f)

	_, err := c.RunAndWait(context.Background(), ModelGarmentCompose, nil)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("want ErrTimeout, got %v", err)
	}
	if errors.Is(err, ErrJobFailed) {
		t.Error("timeout must not read as a job failure")
	}
	if f.pollsServed["job-1"] != 5 {
		t.Errorf("polls served: got %d, want the attempt cap of 5", f.pollsServed["job-1"])
	}
}

func TestWaitForOutputEmptyOutput(t *testing.T) {
	f := newFakeService()
	f.emptyOutput = true
	c := newTestClient(t, f)

	_, err := c.RunAndWait(context.Background(), ModelGarmentCompose, nil)
	if !errors.Is(err, ErrNoOutput) {
		t.Fatalf("want ErrNoOutput, got %v", err)
	}
}

func TestRunStatusCodeMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"bad request", http.StatusBadRequest, ErrBadRequest},
		{"server error", http.StatusInternalServerError, ErrServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeService()
			f.runStatus = tt.status
			c := newTestClient(t, f)

			_, err := c.Run(context.Background(), ModelGarmentCompose, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDressUpFixedSlotOrder(t *testing.T) {
	f := newFakeService()
	c := newTestClient(t, f)

	// Garments supplied shoes-first; the pipeline must still compose the
	// top before the shoes.
	result, err := c.DressUp(context.Background(), "base.jpg", map[Slot]string{
		SlotShoes: "shoes.jpg",
		SlotTop:   "top.jpg",
	})
	if err != nil {
		t.Fatalf("DressUp: %v", err)
	}

	if len(f.runs) != 2 {
		t.Fatalf("runs: got %d, want 2", len(f.runs))
	}
	if f.runs[0].Inputs["garment"] != "top.jpg" {
		t.Errorf("first garment: got %q, want top.jpg", f.runs[0].Inputs["garment"])
	}
	if f.runs[1].Inputs["garment"] != "shoes.jpg" {
		t.Errorf("second garment: got %q, want shoes.jpg", f.runs[1].Inputs["garment"])
	}

	wantSlots := []Slot{SlotTop, SlotShoes}
	for i, step := range result.Steps {
		if step.Slot != wantSlots[i] {
			t.Errorf("step %d slot: got %s, want %s", i, step.Slot, wantSlots[i])
		}
	}
}

func TestDressUpChainsOutputs(t *testing.T) {
	f := newFakeService()
	c := newTestClient(t, f)

	result, err := c.DressUp(context.Background(), "base.jpg", map[Slot]string{
		SlotBottom: "pants.jpg",
		SlotTop:    "shirt.jpg",
	})
	if err != nil {
		t.Fatalf("DressUp: %v", err)
	}

	if f.runs[0].Inputs["base"] != "base.jpg" {
		t.Errorf("first base: got %q", f.runs[0].Inputs["base"])
	}
	// Second step builds on the first step's output.
	if f.runs[1].Inputs["base"] != "https://cdn.example.com/job-1.jpg" {
		t.Errorf("second base: got %q", f.runs[1].Inputs["base"])
	}
	if result.Image != "https://cdn.example.com/job-2.jpg" {
		t.Errorf("final image: got %q", result.Image)
	}
}

func TestDressUpSkipsEmptySlots(t *testing.T) {
	f := newFakeService()
	c := newTestClient(t, f)

	result, err := c.DressUp(context.Background(), "base.jpg", map[Slot]string{
		SlotTop:         "shirt.jpg",
		SlotAccessories: "", // explicit empty slot
	})
	if err != nil {
		t.Fatalf("DressUp: %v", err)
	}
	if len(result.Steps) != 1 || result.Steps[0].Slot != SlotTop {
		t.Errorf("steps: %+v", result.Steps)
	}
}

func TestDressUpShortCircuitsOnFailure(t *testing.T) {
	f := newFakeService()
	f.failJobs["job-1"] = "compose error"
	c := newTestClient(t, f)

	_, err := c.DressUp(context.Background(), "base.jpg", map[Slot]string{
		SlotBottom: "pants.jpg",
		SlotTop:    "shirt.jpg",
		SlotShoes:  "shoes.jpg",
	})
	if !errors.Is(err, ErrJobFailed) {
		t.Fatalf("want ErrJobFailed, got %v", err)
	}
	// Only the first (failing) step ran; later slots never queued.
	if len(f.runs) != 1 {
		t.Errorf("runs after failure: got %d, want 1", len(f.runs))
	}
}

func TestDressUpRejectsEmptyRequest(t *testing.T) {
	f := newFakeService()
	c := newTestClient(t, f)

	if _, err := c.DressUp(context.Background(), "", map[Slot]string{SlotTop: "t"}); err == nil {
		t.Error("missing base should error")
	}
	if _, err := c.DressUp(context.Background(), "base.jpg", nil); err == nil {
		t.Error("no garments should error")
	}
}

func TestDataURI(t *testing.T) {
	uri := DataURI([]byte{0xFF, 0xD8})
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Errorf("data uri prefix: %q", uri)
	}
}
