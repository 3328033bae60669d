package manual

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"personify/internal/config"
	"personify/internal/generation"
	"personify/internal/logging"
	"personify/internal/protocol"
)

// Assembler builds personification manuals. It is stateless between calls
// and safe for concurrent use; concurrency toward the generation service is
// bounded by the client itself.
type Assembler struct {
	client       generation.Client
	minResponses int
	protocolSize int
}

// NewAssembler wires an assembler to its generation client.
func NewAssembler(client generation.Client, cfg config.AnalysisConfig) *Assembler {
	min := cfg.MinResponses
	if min <= 0 {
		min = 108
	}
	size := cfg.ProtocolSize
	if size <= 0 {
		size = min
	}
	return &Assembler{
		client:       client,
		minResponses: min,
		protocolSize: size,
	}
}

// Result carries the assembled manual plus the names of facets that fell
// back to their zero value after a failed analysis call.
type Result struct {
	Manual   *PersonificationManual
	Degraded []string
}

// Generate runs the full analysis pipeline over the responses and assembles
// the manual.
//
// The minimum-responses precondition counts qualifying responses (substantive
// transcripts) and is checked before any generation call; below it, an
// *InsufficientDataError is returned. After that, individual
// facet failures never abort the run: the facet degrades to its zero value
// and is reported in Result.Degraded. Only context cancellation stops an
// in-flight assembly.
func (a *Assembler) Generate(ctx context.Context, records []protocol.ResponseRecord) (*Result, error) {
	qualifying := protocol.Qualifying(records)
	if len(qualifying) < a.minResponses {
		return nil, &InsufficientDataError{Required: a.minResponses, Received: len(qualifying)}
	}

	corpus := protocol.RenderCorpus(records)
	logging.Analysis("assembly started: %d responses, %d qualifying, corpus %d bytes",
		len(records), len(qualifying), len(corpus))

	timer := logging.StartTimer(logging.CategoryAnalysis, "facet fan-out")

	manual := &PersonificationManual{}
	facets := []struct {
		name string
		run  func(ctx context.Context) error
	}{
		{"personalityProfile", func(ctx context.Context) error {
			v, err := analyzeFacet[PersonalityProfile](ctx, a.client, personalityProfilePrompt(corpus),
				"communicationStyle", "thinkingPatterns", "emotionalResponse", "socialPosture")
			manual.PersonalityProfile = v
			return err
		}},
		{"beliefSystem", func(ctx context.Context) error {
			v, err := analyzeFacet[BeliefSystem](ctx, a.client, beliefSystemPrompt(corpus),
				"fundamentalValues", "ethicalPrinciples", "worldViews", "personalPhilosophy", "thoughtEvolution")
			manual.BeliefSystem = v
			return err
		}},
		{"knowledgeDomain", func(ctx context.Context) error {
			v, err := analyzeFacet[KnowledgeDomain](ctx, a.client, knowledgeDomainPrompt(corpus),
				"expertiseAreas", "intellectualInterests", "knowledgeGaps", "authorityTopics", "informationSources")
			manual.KnowledgeDomain = v
			return err
		}},
		{"motivationsAndIntentions", func(ctx context.Context) error {
			v, err := analyzeFacet[MotivationsAndIntentions](ctx, a.client, motivationsPrompt(corpus),
				"expressedObjectives", "internalMotivators", "aversionsAndAvoidances")
			manual.MotivationsAndIntentions = v
			return err
		}},
		{"biographicalContext", func(ctx context.Context) error {
			v, err := analyzeFacet[BiographicalContext](ctx, a.client, biographyPrompt(corpus),
				"formativeExperiences", "professionalTrajectory", "keyRelationships")
			manual.BiographicalContext = v
			return err
		}},
		{"linguisticPatterns", func(ctx context.Context) error {
			v, err := analyzeFacet[LinguisticPatterns](ctx, a.client, linguisticPatternsPrompt(corpus),
				"characteristicVocabulary", "semanticFields", "technicalTerms", "textStructure", "stylisticMarkers")
			manual.LinguisticPatterns = v
			return err
		}},
		{"operationalSpecs", func(ctx context.Context) error {
			v, err := analyzeFacet[OperationalSpecs](ctx, a.client, operationalSpecsPrompt(corpus),
				"comunicacionais", "comportamentais", "reacionais")
			manual.OperationalSpecs = v
			return err
		}},
		{"behaviorModel", func(ctx context.Context) error {
			v, err := analyzeFacet[BehaviorModel](ctx, a.client, behaviorModelPrompt(corpus),
				"condensedProfile", "responseGuidelines", "dialogueExamples")
			manual.BehaviorModel = v
			return err
		}},
	}

	// Facet errors degrade instead of aborting, so the group never cancels
	// itself; only the caller's context does. Each goroutine writes disjoint
	// fields of manual and its own failure slot.
	failures := make([]error, len(facets))
	var g errgroup.Group
	for i, facet := range facets {
		g.Go(func() error {
			failures[i] = facet.run(ctx)
			return nil
		})
	}

	var domainAnalyses []DomainAnalysis
	g.Go(func() error {
		domainAnalyses = analyzeDomains(ctx, a.client, records)
		return nil
	})

	g.Wait()
	timer.Stop()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("assembly aborted: %w", err)
	}

	var degraded []string
	for i, err := range failures {
		if err != nil {
			logging.AnalysisWarn("facet %s degraded to defaults: %v", facets[i].name, err)
			degraded = append(degraded, facets[i].name)
		}
	}

	manual.DomainAnalysis = domainAnalyses
	manual.CorpusAnalysis = corpusAnalysis(time.Now())
	manual.ReliabilityAssessment = assessReliability(len(qualifying), a.protocolSize)
	manual.FineTuningDataset = BuildFineTuningDataset(records, manual.BehaviorModel)

	logging.Analysis("assembly finished: %d facets degraded, %d domains, %d dataset examples",
		len(degraded), len(manual.DomainAnalysis), len(manual.FineTuningDataset))
	return &Result{Manual: manual, Degraded: degraded}, nil
}

// corpusAnalysis describes the source material. The corpus always comes from
// a single questionnaire session, so this is metadata, not a model call.
func corpusAnalysis(now time.Time) CorpusAnalysis {
	return CorpusAnalysis{
		DocumentTypes: []string{"Respostas ao Protocolo Clara R."},
		TimeSpan:      fmt.Sprintf("Sessão única em %s", now.Format("02/01/2006")),
		Consistency:   "Geralmente consistente, com algumas respostas curtas ou irrelevantes que foram filtradas para a análise profunda.",
		Gaps: []string{
			"Interações sociais em tempo real",
			"Comunicação não-verbal",
			"Reações a eventos inesperados",
		},
	}
}

// assessReliability grades coverage of the questionnaire: the share of
// qualifying responses against the nominal protocol size maps to a
// confidence tier.
func assessReliability(qualifying, protocolSize int) ReliabilityAssessment {
	coverage := float64(qualifying) / float64(protocolSize)

	var confidence, accuracy string
	switch {
	case coverage < 0.25:
		confidence = "Baixa. Poucas respostas substantivas cobrem o protocolo; os padrões identificados podem não se sustentar."
		accuracy = "Estimada abaixo de 60% para os domínios cobertos."
	case coverage < 0.75:
		confidence = "Moderada. A cobertura parcial do protocolo permite identificar padrões, mas com lacunas relevantes."
		accuracy = "Estimada em 70-85% para os domínios cobertos."
	default:
		confidence = "Alta. A análise é baseada num volume extenso de respostas auto-reflexivas, permitindo a identificação de padrões consistentes."
		accuracy = "Estimada em 92-97% para os domínios cobertos, com base na consistência interna das respostas."
	}

	return ReliabilityAssessment{
		Confidence: confidence,
		AreasForMoreData: []string{
			"Reações a feedback negativo direto",
			"Comportamento em situações de alta pressão não previstas no protocolo",
			"Interações espontâneas fora do contexto de entrevista.",
		},
		ModelAccuracy: accuracy,
	}
}
