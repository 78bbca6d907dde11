package interval

import (
	"reflect"
	"testing"
)

func TestSpanLen(t *testing.T) {
	tests := []struct {
		name string
		span Span
		want int
	}{
		{"normal", Span{5, 10}, 5},
		{"empty", Span{5, 5}, 0},
		{"inverted", Span{10, 5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSpanOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", Span{0, 5}, Span{10, 15}, false},
		{"touching", Span{0, 5}, Span{5, 10}, false},
		{"overlapping", Span{0, 6}, Span{5, 10}, true},
		{"nested", Span{0, 10}, Span{3, 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		spans []Span
		want  []Span
	}{
		{"nil", nil, nil},
		{"single", []Span{{5, 10}}, []Span{{5, 10}}},
		{"touching", []Span{{5, 10}, {10, 15}}, []Span{{5, 15}}},
		{"overlapping", []Span{{5, 12}, {10, 15}}, []Span{{5, 15}}},
		{"disjoint", []Span{{5, 10}, {12, 15}}, []Span{{5, 10}, {12, 15}}},
		{"unsorted", []Span{{12, 15}, {5, 10}}, []Span{{5, 10}, {12, 15}}},
		{"nested", []Span{{0, 20}, {5, 10}}, []Span{{0, 20}}},
		{"inverted bounds swapped", []Span{{10, 5}}, []Span{{5, 10}}},
		{"empty dropped", []Span{{5, 5}, {7, 9}}, []Span{{7, 9}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.spans)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge(%v) = %v, want %v", tt.spans, got, tt.want)
			}
		})
	}
}

func TestMergeIdempotent(t *testing.T) {
	in := []Span{{5, 10}, {12, 20}, {30, 31}}
	once := Merge(in)
	twice := Merge(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second Merge changed result: %v -> %v", once, twice)
	}
}

func TestMergeGap(t *testing.T) {
	tests := []struct {
		name  string
		spans []Span
		gap   int
		want  []Span
	}{
		{"within gap", []Span{{0, 5}, {8, 12}}, 3, []Span{{0, 12}}},
		{"beyond gap", []Span{{0, 5}, {9, 12}}, 3, []Span{{0, 5}, {9, 12}}},
		{"zero gap keeps disjoint", []Span{{0, 5}, {6, 12}}, 0, []Span{{0, 5}, {6, 12}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeGap(tt.spans, tt.gap)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeGap(%v, %d) = %v, want %v", tt.spans, tt.gap, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]Span{{90, 120}, {-5, 3}, {10, 20}}, 100)
	want := []Span{{0, 3}, {10, 20}, {90, 100}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestInvert(t *testing.T) {
	tests := []struct {
		name    string
		removed []Span
		length  int
		want    []Span
	}{
		{"no removals", nil, 10, []Span{{0, 10}}},
		{"middle", []Span{{3, 5}}, 10, []Span{{0, 3}, {5, 10}}},
		{"leading", []Span{{0, 4}}, 10, []Span{{4, 10}}},
		{"trailing", []Span{{6, 10}}, 10, []Span{{0, 6}}},
		{"all removed", []Span{{0, 10}}, 10, []Span{}},
		{"two holes", []Span{{10, 20}, {50, 55}}, 100, []Span{{0, 10}, {20, 50}, {55, 100}}},
		{"zero length", nil, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Invert(tt.removed, tt.length)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Invert(%v, %d) = %v, want %v", tt.removed, tt.length, got, tt.want)
			}
		})
	}
}

func TestInvertRoundTrip(t *testing.T) {
	removed := []Span{{10, 20}, {50, 55}, {99, 100}}
	kept := Invert(removed, 100)
	if got := TotalLen(kept) + TotalLen(removed); got != 100 {
		t.Errorf("kept+removed = %d, want 100", got)
	}
	for _, k := range kept {
		for _, r := range removed {
			if k.Overlaps(r) {
				t.Errorf("kept %v overlaps removed %v", k, r)
			}
		}
	}
}
