package server

import (
	"sort"
	"sync"
	"time"

	"github.com/skillsenselab/ecgflow/denoise"
	"github.com/skillsenselab/ecgflow/errors"
	"github.com/skillsenselab/ecgflow/pipeline"
)

// storedRun pairs a pipeline result with its report and submission time.
type storedRun struct {
	result    *pipeline.Result
	report    *denoise.Report
	createdAt time.Time
}

// RunStore keeps completed runs in memory, keyed by run ID.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]storedRun
}

// NewRunStore creates an empty store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]storedRun)}
}

// Put stores a completed run.
func (s *RunStore) Put(res *pipeline.Result, rep *denoise.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[res.RunID] = storedRun{result: res, report: rep, createdAt: time.Now()}
}

// Get returns the stored run, or NOT_FOUND.
func (s *RunStore) Get(id string) (*pipeline.Result, *denoise.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, nil, errors.NotFound("run", id)
	}
	return r.result, r.report, nil
}

// RunMeta summarizes a stored run for listings.
type RunMeta struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	ElapsedMs int64     `json:"elapsed_ms"`
	// FinalLen is the sample count of the last committed stage.
	FinalLen int `json:"final_len"`
}

// List returns metadata for every stored run, newest first.
func (s *RunStore) List() []RunMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RunMeta, 0, len(s.runs))
	for id, r := range s.runs {
		meta := RunMeta{
			RunID:     id,
			CreatedAt: r.createdAt,
			ElapsedMs: r.report.ElapsedMs,
		}
		if final := r.result.Final(); final != nil {
			meta.FinalLen = final.Len()
		}
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Delete removes a stored run. Removing an absent run is a no-op.
func (s *RunStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
}
