package sigio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/skillsenselab/ecgflow/interval"
)

// LoadSpans reads interval spans from path. JSON files hold pair arrays
// ([[start, end], ...]); other files hold one pair per line, separated by
// commas or whitespace. Inverted pairs are swapped. When length is
// non-negative the result is merged and clamped to [0, length).
func LoadSpans(path string, length int) ([]interval.Span, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spans file: %w", err)
	}

	var spans []interval.Span
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var pairs [][2]int
		if err := json.Unmarshal(data, &pairs); err != nil {
			return nil, fmt.Errorf("parsing spans file %s: %w", path, err)
		}
		for _, p := range pairs {
			spans = append(spans, orient(p[0], p[1]))
		}
	} else {
		spans, err = parseSpanLines(string(data))
		if err != nil {
			return nil, fmt.Errorf("parsing spans file %s: %w", path, err)
		}
	}

	if length >= 0 {
		spans = interval.Normalize(spans, length)
	}
	return spans, nil
}

// parseSpanLines parses "start end" lines, skipping blanks, # comments,
// and lines with fewer than two numbers.
func parseSpanLines(text string) ([]interval.Span, error) {
	var spans []interval.Span
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) < 2 {
			continue
		}
		a, errA := strconv.ParseFloat(fields[0], 64)
		b, errB := strconv.ParseFloat(fields[1], 64)
		if errA != nil || errB != nil {
			continue
		}
		spans = append(spans, orient(int(a), int(b)))
	}
	return spans, nil
}

func orient(a, b int) interval.Span {
	if a > b {
		a, b = b, a
	}
	return interval.Span{Start: a, End: b}
}

// SaveSpans writes spans to path as a JSON pair array, creating parent
// directories as needed.
func SaveSpans(spans []interval.Span, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	pairs := make([][2]int, len(spans))
	for i, s := range spans {
		pairs[i] = [2]int{s.Start, s.End}
	}
	data, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding spans: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing spans file: %w", err)
	}
	return nil
}
