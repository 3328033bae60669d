package protocol

import (
	"fmt"
	"strings"
)

// corpusSeparator visually divides response blocks in the rendered corpus.
const corpusSeparator = "\n\n---\n\n"

// RenderCorpus renders the whole-corpus text block consumed by the
// full-transcript facet analyzers. Records with short transcripts are
// filtered out and the rest ordered by question index.
func RenderCorpus(records []ResponseRecord) string {
	qualifying := Qualifying(records)
	blocks := make([]string, 0, len(qualifying))
	for _, r := range qualifying {
		blocks = append(blocks, fmt.Sprintf("[Domínio: %s]\n[Pergunta %d]: %s\n[Resposta]: %s",
			r.QuestionDomain, r.QuestionIndex, r.QuestionText, r.TranscriptText))
	}
	return strings.Join(blocks, corpusSeparator)
}

// DomainBlock is the per-domain rendering used by quantitative scoring.
type DomainBlock struct {
	Domain string
	Text   string
}

// Domains returns the distinct non-empty question domains in first-seen
// order. No transcript-length filtering is applied here; the domain set
// reflects every answered question.
func Domains(records []ResponseRecord) []string {
	seen := make(map[string]bool, len(records))
	var out []string
	for _, r := range records {
		if r.QuestionDomain == "" || seen[r.QuestionDomain] {
			continue
		}
		seen[r.QuestionDomain] = true
		out = append(out, r.QuestionDomain)
	}
	return out
}

// DomainBlocks groups qualifying transcripts by domain, in first-seen domain
// order. Domains with no qualifying transcript produce no block; their
// absence is not an error.
func DomainBlocks(records []ResponseRecord) []DomainBlock {
	var blocks []DomainBlock
	for _, domain := range Domains(records) {
		var lines []string
		for _, r := range records {
			if r.QuestionDomain != domain || !r.Qualifies() {
				continue
			}
			lines = append(lines, fmt.Sprintf("[P%d]: %s", r.QuestionIndex, r.TranscriptText))
		}
		if len(lines) == 0 {
			continue
		}
		blocks = append(blocks, DomainBlock{Domain: domain, Text: strings.Join(lines, "\n")})
	}
	return blocks
}
