package tui

import (
	"testing"
	"unicode/utf8"
)

func TestRingBuffer_PushAndSlice(t *testing.T) {
	t.Parallel()
	rb := NewRingBuffer(3)
	if rb.Slice() != nil {
		t.Error("expected nil slice for an empty buffer")
	}
	rb.Push(1)
	rb.Push(2)
	rb.Push(3)
	rb.Push(4) // overwrites 1

	got := rb.Slice()
	want := []float64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %f, want %f", i, got[i], want[i])
		}
	}
	if rb.Len() != 3 {
		t.Errorf("Len() = %d, want 3", rb.Len())
	}
	if rb.Last() != 4 {
		t.Errorf("Last() = %f, want 4", rb.Last())
	}
}

func TestRingBuffer_ZeroCapacity(t *testing.T) {
	t.Parallel()
	rb := NewRingBuffer(0)
	rb.Push(7)
	rb.Push(8)
	if rb.Len() != 1 || rb.Last() != 8 {
		t.Errorf("buffer = %v, want [8]", rb.Slice())
	}
}

func TestRenderSparkline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"bounds", []float64{0, 100}, "▁█"},
		{"clamped", []float64{-20, 250}, "▁█"},
		{"middle", []float64{50}, "▄"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RenderSparkline(tt.values)
			if got != tt.want {
				t.Errorf("RenderSparkline(%v) = %q, want %q", tt.values, got, tt.want)
			}
			if utf8.RuneCountInString(got) != len(tt.values) {
				t.Errorf("rune count = %d, want %d", utf8.RuneCountInString(got), len(tt.values))
			}
		})
	}
}
