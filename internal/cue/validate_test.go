package cue

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_OK(t *testing.T) {
	cues := []Cue{
		{Start: 0, End: 2},
		{Start: 2, End: 2},
		{Start: 2, End: 6},
		{Start: 5, End: 7}, // overlap is tolerated
	}
	if err := Validate(cues); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := Validate(nil); err != nil {
		t.Errorf("Validate(nil): %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		cues []Cue
		want error
		at   string
	}{
		{"negative start", []Cue{{Start: -1, End: 1}}, ErrNegativeStart, "cue 0"},
		{"inverted", []Cue{{Start: 0, End: 1}, {Start: 3, End: 2}}, ErrInvertedCue, "cue 1"},
		{"unsorted", []Cue{{Start: 5, End: 6}, {Start: 1, End: 2}}, ErrUnsorted, "cue 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cues)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !strings.HasPrefix(err.Error(), tt.at) {
				t.Errorf("err = %q, want prefix %q", err, tt.at)
			}
		})
	}
}

func TestSilence(t *testing.T) {
	s := Silence(15)
	if s.Start != 15 || s.End != 16 {
		t.Errorf("Silence(15) = %v-%v, want 15-16", s.Start, s.End)
	}
	if s.Identifier != "" || s.Text != "" || s.Style != "" {
		t.Errorf("Silence carries content: %+v", s)
	}
	if !s.IsSilence() {
		t.Error("IsSilence = false for a silence cue")
	}
	if (Cue{Start: 1, End: 2, Text: "hi"}).IsSilence() {
		t.Error("IsSilence = true for a captioned cue")
	}
}

func TestSilence_MillisecondStarts(t *testing.T) {
	for ms := 1; ms < 100_000; ms++ {
		start := float64(ms) / 1000
		if !Silence(start).IsSilence() {
			t.Fatalf("Silence(%v).IsSilence() = false, length %v", start, Silence(start).Length())
		}
	}
	if (Cue{Start: 15, End: 16.5}).IsSilence() {
		t.Error("IsSilence = true for a 1.5s empty cue")
	}
}
