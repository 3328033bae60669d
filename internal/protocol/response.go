// Package protocol holds the questionnaire response records and the pure
// rendering of those records into analysis corpus text. No I/O happens here.
package protocol

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// MinTranscriptLen is the minimum trimmed transcript length (exclusive) for a
// response to participate in deep analysis. Shorter answers are treated as
// noise ("ok", "sim") and filtered out.
const MinTranscriptLen = 5

// ResponseRecord is one answered question from the questionnaire. Records are
// produced by the recording/transcription flow and consumed read-only here.
type ResponseRecord struct {
	QuestionIndex  int    `json:"question_index"`
	QuestionDomain string `json:"question_domain"`
	QuestionText   string `json:"question_text"`
	TranscriptText string `json:"transcript_text"`
}

// Qualifies reports whether the record's transcript is long enough for
// deep analysis.
func (r ResponseRecord) Qualifies() bool {
	return utf8.RuneCountInString(strings.TrimSpace(r.TranscriptText)) > MinTranscriptLen
}

// Qualifying returns the records with qualifying transcripts, sorted by
// question index ascending. The sort is stable: ties keep input order.
// The input slice is not modified.
func Qualifying(records []ResponseRecord) []ResponseRecord {
	out := make([]ResponseRecord, 0, len(records))
	for _, r := range records {
		if r.Qualifies() {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].QuestionIndex < out[j].QuestionIndex
	})
	return out
}

// Sorted returns a copy of records sorted by question index ascending,
// without filtering. The sort is stable: ties keep input order.
func Sorted(records []ResponseRecord) []ResponseRecord {
	out := make([]ResponseRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].QuestionIndex < out[j].QuestionIndex
	})
	return out
}
