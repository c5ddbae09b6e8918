package service

import (
	"reflect"
	"testing"

	"github.com/quizcraft/backend/internal/dto"
	"github.com/quizcraft/backend/internal/model"
)

// TestSplitModes_EvenCount verifies the default half-and-half split with the
// primary mode block first.
func TestSplitModes_EvenCount(t *testing.T) {
	t.Parallel()

	got := SplitModes(6, "", model.MCModeText, model.MCModeAudio)
	want := []ModeBlock{{Count: 3, Mode: "text"}, {Count: 3, Mode: "audio"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitModes(6) = %v, want %v", got, want)
	}
}

// TestSplitModes_OddCountFavorsPrimary verifies the extra question of an odd
// count lands in the primary block.
func TestSplitModes_OddCountFavorsPrimary(t *testing.T) {
	t.Parallel()

	got := SplitModes(7, "", model.MCModeText, model.MCModeAudio)
	want := []ModeBlock{{Count: 4, Mode: "text"}, {Count: 3, Mode: "audio"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitModes(7) = %v, want %v", got, want)
	}
}

// TestSplitModes_Override verifies an explicit mode yields one block.
func TestSplitModes_Override(t *testing.T) {
	t.Parallel()

	got := SplitModes(5, model.MCModeAudio, model.MCModeText, model.MCModeAudio)
	want := []ModeBlock{{Count: 5, Mode: "audio"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitModes with override = %v, want %v", got, want)
	}

	modes := ExpandModes(got)
	if len(modes) != 5 {
		t.Fatalf("ExpandModes returned %d modes, want 5", len(modes))
	}
	for i, mode := range modes {
		if mode != "audio" {
			t.Errorf("mode %d = %q, want audio", i, mode)
		}
	}
}

// TestSplitModes_SingleQuestion verifies a count of one stays entirely in the
// primary mode.
func TestSplitModes_SingleQuestion(t *testing.T) {
	t.Parallel()

	got := SplitModes(1, "", model.EssayModeText, model.EssayModeVoice)
	want := []ModeBlock{{Count: 1, Mode: "text"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitModes(1) = %v, want %v", got, want)
	}
}

// TestMixedCounts verifies the 60/40 split rounds the multiple-choice share up.
func TestMixedCounts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		total, mc, essay int
	}{
		{1, 1, 0},
		{2, 2, 0},
		{3, 2, 1},
		{5, 3, 2},
		{7, 5, 2},
		{10, 6, 4},
		{20, 12, 8},
	}
	for _, tc := range cases {
		mc, essay := MixedCounts(tc.total)
		if mc != tc.mc || essay != tc.essay {
			t.Errorf("MixedCounts(%d) = (%d, %d), want (%d, %d)", tc.total, mc, essay, tc.mc, tc.essay)
		}
	}
}

// TestInterleaveQuestions verifies the alternating merge order with the
// multiple-choice remainder appended at the end.
func TestInterleaveQuestions(t *testing.T) {
	t.Parallel()

	mc := []dto.GeneratedQuestionDTO{
		{ID: "mc1"}, {ID: "mc2"}, {ID: "mc3"}, {ID: "mc4"}, {ID: "mc5"},
	}
	essay := []dto.GeneratedQuestionDTO{{ID: "es1"}, {ID: "es2"}}

	merged := InterleaveQuestions(mc, essay)
	wantOrder := []string{"mc1", "es1", "mc2", "es2", "mc3", "mc4", "mc5"}
	if len(merged) != len(wantOrder) {
		t.Fatalf("merged length = %d, want %d", len(merged), len(wantOrder))
	}
	for i, want := range wantOrder {
		if merged[i].ID != want {
			t.Errorf("merged[%d] = %q, want %q", i, merged[i].ID, want)
		}
	}
}
