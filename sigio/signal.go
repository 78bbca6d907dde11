package sigio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadSignal reads a signal array from path. Files ending in .json are
// parsed as a JSON number array; anything else is treated as plain text
// with comma or whitespace separated samples, skipping blank lines and
// # comments.
func LoadSignal(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading signal file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var x []float64
		if err := json.Unmarshal(data, &x); err != nil {
			return nil, fmt.Errorf("parsing signal file %s: %w", path, err)
		}
		return x, nil
	}
	return parseSignalText(path, string(data))
}

func parseSignalText(path, text string) ([]float64, error) {
	var x []float64
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, field := range strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing signal file %s line %d: %w", path, i+1, err)
			}
			x = append(x, v)
		}
	}
	return x, nil
}

// SaveSignal writes a signal array to path as a JSON number array,
// creating parent directories as needed.
func SaveSignal(x []float64, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if x == nil {
		x = []float64{}
	}
	data, err := json.Marshal(x)
	if err != nil {
		return fmt.Errorf("encoding signal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing signal file: %w", err)
	}
	return nil
}
