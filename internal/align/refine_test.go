package align

import (
	"context"
	"testing"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// S5: no fragments, a silence event starting shortly after the first
// sentence's last token snaps its end forward; the second sentence's
// start is then floored at the first sentence's (snapped) end.
func TestRefineSentencesSnapsToSilence(t *testing.T) {
	asr := &model.AsrResponse{Tokens: []model.AsrToken{
		{StartTime: 1.0, Duration: 0.2, Word: "one"},
		{StartTime: 1.22, Duration: 0.2, Word: "two"}, // ends at 1.42
		{StartTime: 1.45, Duration: 0.2, Word: "three"},
		{StartTime: 1.7, Duration: 0.2, Word: "four"},
	}}
	sentences := []model.SentenceAlign{
		{Id: 0, ScriptRange: &model.ScriptRange{Start: 0, End: 1}},
		{Id: 1, ScriptRange: &model.ScriptRange{Start: 2, End: 3}},
	}
	silences := &model.SilenceTimeline{Events: []model.SilenceEvent{{Start: 1.5, End: 1.7}}}

	refined, err := RefineSentences(context.Background(), sentences, asr, nil, silences, 0.1, 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refined) != 2 {
		t.Fatalf("expected 2 refined sentences, got %d", len(refined))
	}
	if refined[0].End != 1.5 {
		t.Errorf("first sentence End = %v, want 1.5 (snapped to silence start)", refined[0].End)
	}
	if refined[1].Start < refined[0].End {
		t.Errorf("second sentence Start = %v, want >= %v", refined[1].Start, refined[0].End)
	}
}

func TestRefineSentencesMonotonicStarts(t *testing.T) {
	asr := &model.AsrResponse{Tokens: []model.AsrToken{
		{StartTime: 0, Duration: 0.1, Word: "a"},
		{StartTime: 0.1, Duration: 0.1, Word: "b"},
		{StartTime: 0.2, Duration: 0.1, Word: "c"},
	}}
	sentences := []model.SentenceAlign{
		{Id: 0, ScriptRange: &model.ScriptRange{Start: 0, End: 0}},
		{Id: 1, ScriptRange: &model.ScriptRange{Start: 1, End: 1}},
		{Id: 2, ScriptRange: &model.ScriptRange{Start: 2, End: 2}},
	}
	refined, err := RefineSentences(context.Background(), sentences, asr, nil, nil, 0.05, 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(refined); i++ {
		if refined[i].Start < refined[i-1].Start {
			t.Fatalf("starts not non-decreasing: %+v", refined)
		}
		if refined[i].End-refined[i].Start < 0.05-1e-9 {
			t.Errorf("sentence %d tail too short: %+v", i, refined[i])
		}
	}
}

func TestRefineSentencesCancelled(t *testing.T) {
	asr := &model.AsrResponse{Tokens: []model.AsrToken{{StartTime: 0, Duration: 0.1, Word: "a"}}}
	sentences := []model.SentenceAlign{{Id: 0, ScriptRange: &model.ScriptRange{Start: 0, End: 0}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	refined, err := RefineSentences(ctx, sentences, asr, nil, nil, 0.05, 0.2)
	if err != model.ErrCancelled {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if refined != nil {
		t.Fatalf("expected nil result on cancellation, got %v", refined)
	}
}

func TestAssignFragmentsWithinDriftCap(t *testing.T) {
	chunks := []model.ChunkAlignment{
		{ChunkId: "c0", OffsetSec: 0, Intervals: []model.Interval{
			{Xmin: 0, Xmax: 0.5, Text: "hello"},
			{Xmin: 0.5, Xmax: 0.6, Text: "sp"},
			{Xmin: 0.6, Xmax: 1.1, Text: "world"},
		}},
	}
	asr := &model.AsrResponse{Tokens: []model.AsrToken{
		{StartTime: 0.02, Duration: 0.4, Word: "hello"},
		{StartTime: 0.62, Duration: 0.4, Word: "world"},
	}}
	sentences := []model.SentenceAlign{
		{Id: 0, ScriptRange: &model.ScriptRange{Start: 0, End: 0}},
		{Id: 1, ScriptRange: &model.ScriptRange{Start: 1, End: 1}},
	}
	assigned := AssignFragments(chunks, sentences, asr, 1.5)
	if len(assigned) != 2 {
		t.Fatalf("expected 2 fragment assignments, got %d (%v)", len(assigned), assigned)
	}
	if assigned[0].Start != 0 {
		t.Errorf("sentence 0 fragment = %+v, want Start=0", assigned[0])
	}
	if assigned[1].Start != 0.6 {
		t.Errorf("sentence 1 fragment = %+v, want Start=0.6 (silence interval skipped)", assigned[1])
	}
}
