package service

import (
	"math"

	"github.com/quizcraft/backend/internal/dto"
)

// ModeBlock is one contiguous run of questions sharing a delivery mode. A
// generation plan is an ordered list of blocks; reviewers rely on the block
// order for grouping, so it is part of the API contract.
type ModeBlock struct {
	Count int
	Mode  string
}

// SplitModes builds the generation plan for count questions. With no
// override the count splits half-and-half, primary mode first (the extra
// item of an odd count goes to the primary block). An explicit override
// yields a single block.
func SplitModes(count int, override, primaryMode, secondaryMode string) []ModeBlock {
	if override != "" {
		return []ModeBlock{{Count: count, Mode: override}}
	}
	first := count - count/2
	second := count - first
	blocks := []ModeBlock{{Count: first, Mode: primaryMode}}
	if second > 0 {
		blocks = append(blocks, ModeBlock{Count: second, Mode: secondaryMode})
	}
	return blocks
}

// ExpandModes flattens a plan into one mode per question position.
func ExpandModes(blocks []ModeBlock) []string {
	var modes []string
	for _, b := range blocks {
		for i := 0; i < b.Count; i++ {
			modes = append(modes, b.Mode)
		}
	}
	return modes
}

// MixedCounts splits a mixed-set total 60/40 in favor of multiple choice.
func MixedCounts(total int) (mcCount, essayCount int) {
	mcCount = int(math.Ceil(0.6 * float64(total)))
	essayCount = total - mcCount
	return mcCount, essayCount
}

// InterleaveQuestions merges the two generated lists index-by-index
// (mc[0], essay[0], mc[1], essay[1], ...), appending the remainder of the
// longer list. Review UIs depend on this exact ordering.
func InterleaveQuestions(mc, essay []dto.GeneratedQuestionDTO) []dto.GeneratedQuestionDTO {
	merged := make([]dto.GeneratedQuestionDTO, 0, len(mc)+len(essay))
	for i := 0; i < len(mc) || i < len(essay); i++ {
		if i < len(mc) {
			merged = append(merged, mc[i])
		}
		if i < len(essay) {
			merged = append(merged, essay[i])
		}
	}
	return merged
}
