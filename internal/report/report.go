// Package report builds the human-readable validation view over a
// HydratedTranscript: sentence status counts and mean paragraph coverage,
// plus the book and script text of every sentence flagged attention or
// unreliable. The per-sentence diff ops are not included.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// Report is the validation summary for one chapter's HydratedTranscript.
type Report struct {
	ChapterId        string
	TotalSentences   int
	OkCount          int
	AttentionCount   int
	UnreliableCount  int
	ParagraphCoverage float64
	Flagged          []FlaggedSentence
}

// FlaggedSentence is one sentence whose status is not "ok", carrying
// enough context to act on without re-reading the full transcript.
type FlaggedSentence struct {
	SentenceId int
	Status     model.Status
	Wer        float64
	MissingRuns int
	BookText   string
	ScriptText string
}

// BuildReport summarizes a HydratedTranscript into a Report.
func BuildReport(chapterId string, t *model.HydratedTranscript) Report {
	r := Report{ChapterId: chapterId, TotalSentences: len(t.Sentences)}

	var coverageSum float64
	for _, p := range t.Paragraphs {
		coverageSum += p.Coverage
	}
	if len(t.Paragraphs) > 0 {
		r.ParagraphCoverage = coverageSum / float64(len(t.Paragraphs))
	}

	for _, s := range t.Sentences {
		switch s.Status {
		case model.StatusOk:
			r.OkCount++
		case model.StatusAttention:
			r.AttentionCount++
		case model.StatusUnreliable:
			r.UnreliableCount++
		}
		if s.Status != model.StatusOk {
			r.Flagged = append(r.Flagged, FlaggedSentence{
				SentenceId:  s.Id,
				Status:      s.Status,
				Wer:         s.Metrics.Wer,
				MissingRuns: s.Metrics.MissingRuns,
				BookText:    s.BookText,
				ScriptText:  s.ScriptText,
			})
		}
	}
	return r
}

// RenderText writes a tab-aligned plain-text rendering of the report,
// suitable for terminal output or a CI log.
func RenderText(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Chapter\t%s\n", r.ChapterId)
	fmt.Fprintf(tw, "Sentences\t%d\n", r.TotalSentences)
	fmt.Fprintf(tw, "Ok\t%d\n", r.OkCount)
	fmt.Fprintf(tw, "Attention\t%d\n", r.AttentionCount)
	fmt.Fprintf(tw, "Unreliable\t%d\n", r.UnreliableCount)
	fmt.Fprintf(tw, "Paragraph coverage\t%.1f%%\n", r.ParagraphCoverage*100)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Flagged) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	ftw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(ftw, "Sentence\tStatus\tWer\tMissing\tBook\tScript\n")
	for _, f := range r.Flagged {
		fmt.Fprintf(ftw, "%d\t%s\t%.2f\t%d\t%s\t%s\n",
			f.SentenceId, f.Status, f.Wer, f.MissingRuns, truncate(f.BookText, 40), truncate(f.ScriptText, 40))
	}
	return ftw.Flush()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max])) + "…"
}
