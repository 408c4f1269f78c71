package manifest

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/suykerbuyk/vttseg/internal/cue"
	"github.com/suykerbuyk/vttseg/internal/segment"
)

func testManifest(t *testing.T) Manifest {
	t.Helper()
	in := []cue.Cue{
		{Identifier: "1", Start: 0, End: 2, Text: "one"},
		{Identifier: "2", Start: 3, End: 17, Text: "two"},
		{Identifier: "3", Start: 18, End: 21, Text: "three"},
	}
	segs, err := segment.Split(in, 10)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	return Build("talk.vtt", 10, segs)
}

func TestBuild(t *testing.T) {
	m := testManifest(t)

	if m.Source != "talk.vtt" || m.SegmentLength != 10 {
		t.Errorf("header = %q/%v", m.Source, m.SegmentLength)
	}
	if m.Duration != 24 {
		t.Errorf("Duration = %v, want 24", m.Duration)
	}
	if len(m.Segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(m.Segments))
	}

	second := m.Segments[1]
	if second.Filename != "1.vtt" || second.Start != 10 || second.End != 20 {
		t.Errorf("segment 1 = %+v", second)
	}
	if !second.Cues[0].Repeated || second.Cues[0].Identifier != "2" {
		t.Errorf("segment 1 head = %+v, want repeated cue 2", second.Cues[0])
	}
	if second.Cues[1].Repeated {
		t.Error("segment 1 second cue marked repeated")
	}

	tail := m.Segments[2].Cues
	if len(tail) != 2 || !tail[1].Synthetic {
		t.Errorf("last segment cues = %+v, want synthetic pad", tail)
	}
	if tail[0].Synthetic {
		t.Error("real cue marked synthetic")
	}
}

func TestBuildEmpty(t *testing.T) {
	m := Build("empty.vtt", 10, nil)
	if len(m.Segments) != 0 || m.Duration != 0 {
		t.Errorf("empty manifest = %+v", m)
	}
	data, err := m.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !strings.Contains(string(data), `"segments": []`) {
		t.Errorf("empty segments should encode as [], got:\n%s", data)
	}
}

func TestJSON(t *testing.T) {
	data, err := testManifest(t).JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded Manifest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded.Segments) != 3 {
		t.Errorf("decoded segments = %d", len(decoded.Segments))
	}
	if !strings.Contains(string(data), `"segment_length": 10`) {
		t.Errorf("missing segment_length:\n%s", data)
	}
}

func TestYAML(t *testing.T) {
	data, err := testManifest(t).YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}

	var decoded Manifest
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Segments[2].Cues[1].Synthetic != true {
		t.Errorf("synthetic flag lost in YAML:\n%s", data)
	}
	if !strings.Contains(string(data), "source: talk.vtt") {
		t.Errorf("missing source:\n%s", data)
	}
}

func TestBuild_PadAfterMillisecondEnd(t *testing.T) {
	// (15.001+1)-15.001 is not exactly 1.
	in := []cue.Cue{
		{Start: 0, End: 2, Text: "one"},
		{Start: 3, End: 8, Text: "two"},
		{Start: 9, End: 15.001, Text: "three"},
	}
	segs, err := segment.Split(in, 10)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	m := Build("talk.vtt", 10, segs)

	if len(m.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(m.Segments))
	}
	tail := m.Segments[1].Cues
	if len(tail) != 2 || !tail[1].Synthetic {
		t.Errorf("last segment cues = %+v, want synthetic pad", tail)
	}
}
