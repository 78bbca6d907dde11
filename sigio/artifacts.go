package sigio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/skillsenselab/ecgflow/denoise"
	"github.com/skillsenselab/ecgflow/pipeline"
)

// WriteRunArtifacts writes the run's projections and summary into dir.
// Every entry of the report's OnOriginal map becomes <name>_on_orig.json
// and every OnStart entry becomes <name>_on_start.json. When
// writeIntermediates is set, the retained reference and final arrays are
// written too.
func WriteRunArtifacts(dir string, res *pipeline.Result, rep *denoise.Report, writeIntermediates bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, name := range sortedKeys(rep.OnOriginal) {
		path := filepath.Join(dir, name+"_on_orig.json")
		if err := SaveSpans(rep.OnOriginal[name].Spans, path); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(rep.OnStart) {
		if name == denoise.DetectionGaps {
			// Gaps have no image in the start space.
			continue
		}
		path := filepath.Join(dir, name+"_on_start.json")
		if err := SaveSpans(rep.OnStart[name].Spans, path); err != nil {
			return err
		}
	}

	if writeIntermediates {
		for _, stage := range []string{denoise.StageStart, denoise.StageFinal} {
			signal, err := res.StageSignal(stage)
			if err != nil {
				return err
			}
			if err := SaveSignal(signal, filepath.Join(dir, "ecg_"+stage+".json")); err != nil {
				return err
			}
		}
	}

	summary, err := Summary(res, rep)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "summary.json"), data, 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// Summary produces the stage lengths and per-detection fragment counts
// written to summary.json.
func Summary(res *pipeline.Result, rep *denoise.Report) (map[string]any, error) {
	summary := map[string]any{
		"run_id":     rep.RunID,
		"elapsed_ms": rep.ElapsedMs,
	}
	for stage, key := range map[string]string{
		pipeline.OriginalStage: "len_original",
		denoise.StageStart:     "len_start",
		denoise.StageFinal:     "len_final",
	} {
		s, err := res.Stage(stage)
		if err != nil {
			return nil, err
		}
		summary[key] = s.Len()
	}

	summary["gaps_count"] = len(rep.OnOriginal[denoise.DetectionGaps].Spans)
	for _, d := range rep.Detections {
		summary[d.Name+"_count_start"] = len(rep.OnStart[d.Name].Spans)
	}
	return summary, nil
}

func sortedKeys(m map[string]pipeline.Projection) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
