package manual

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"personify/internal/generation"
	"personify/internal/logging"
	"personify/internal/protocol"
)

func domainPrompt(block protocol.DomainBlock) string {
	return fmt.Sprintf(`# Análise de Domínio Específico: %[1]s
Analise as respostas do domínio "%[1]s" e forneça uma análise detalhada. Baseie-se nos padrões, pontos fortes e fracos.

[Respostas do Domínio]
%[2]s

Retorne APENAS um JSON com a seguinte estrutura:
{
  "domain": "%[1]s",
  "summary": "Um resumo conciso da performance e dos padrões neste domínio.",
  "score": X.X,
  "evaluation": "Crítico|Em Desenvolvimento|Sólido|Excepcional"
}`, block.Domain, block.Text)
}

// analyzeDomains grades every domain with qualifying responses, one
// generation call each, concurrently. A failed domain is logged and skipped;
// the remaining analyses keep the domains' first-seen order.
func analyzeDomains(ctx context.Context, client generation.Client, records []protocol.ResponseRecord) []DomainAnalysis {
	blocks := protocol.DomainBlocks(records)
	if len(blocks) == 0 {
		return nil
	}

	// Each goroutine writes only its own slot, so no lock is needed.
	results := make([]*DomainAnalysis, len(blocks))

	// Failures never abort the group, so a derived context would add nothing;
	// only the caller's context cancels in-flight calls.
	var g errgroup.Group
	for i, block := range blocks {
		g.Go(func() error {
			analysis, err := analyzeFacet[DomainAnalysis](ctx, client, domainPrompt(block),
				"domain", "summary", "score", "evaluation")
			if err != nil {
				logging.DomainsError("domain %q analysis failed: %v", block.Domain, err)
				return nil
			}
			// The model occasionally echoes a paraphrased domain name.
			analysis.Domain = block.Domain
			results[i] = &analysis
			return nil
		})
	}
	g.Wait()

	analyses := make([]DomainAnalysis, 0, len(blocks))
	for _, r := range results {
		if r != nil {
			analyses = append(analyses, *r)
		}
	}
	logging.Domains("domain analysis: %d/%d domains graded", len(analyses), len(blocks))
	return analyses
}
