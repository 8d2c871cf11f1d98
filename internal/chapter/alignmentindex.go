package chapter

import (
	"sort"

	"github.com/Encryptabit/AMS-sub006/internal/align"
	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// AlignmentIndex holds the per-sentence fragment assignment for one
// chapter's audio chunks. Fragments lists the assigned fragments ordered
// by start time; fragments that no sentence claimed are not included.
type AlignmentIndex struct {
	Fragments  []model.Fragment
	BySentence map[int]model.Fragment
}

// BuildAlignmentIndex sorts chunks by offset, enumerates their non-silence
// fragments, and assigns one to each sentence via align.AssignFragments.
func BuildAlignmentIndex(chunks []model.ChunkAlignment, sentences []model.SentenceAlign, asr *model.AsrResponse, driftCapSec float64) AlignmentIndex {
	assigned := align.AssignFragments(chunks, sentences, asr, driftCapSec)
	var frags []model.Fragment
	for _, f := range assigned {
		frags = append(frags, f)
	}
	sort.Slice(frags, func(i, j int) bool {
		if frags[i].Start != frags[j].Start {
			return frags[i].Start < frags[j].Start
		}
		if frags[i].ChunkId != frags[j].ChunkId {
			return frags[i].ChunkId < frags[j].ChunkId
		}
		return frags[i].FragmentIndex < frags[j].FragmentIndex
	})
	return AlignmentIndex{Fragments: frags, BySentence: assigned}
}
