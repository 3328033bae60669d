package manual

import (
	"context"
	"encoding/json"
	"fmt"

	"personify/internal/generation"
)

// Facet prompts are kept in Portuguese: the corpus is Portuguese speech and
// mixed-language prompts measurably degrade extraction quality.

func personalityProfilePrompt(corpus string) string {
	return fmt.Sprintf(`Analise as transcrições e extraia um Perfil de Personalidade detalhado e extenso. Forneça exemplos concretos para cada ponto.

[Transcrições]
%s

Retorne APENAS um JSON com a estrutura: {"communicationStyle": {...}, "thinkingPatterns": {...}, "emotionalResponse": {...}, "socialPosture": {...}}`, corpus)
}

func beliefSystemPrompt(corpus string) string {
	return fmt.Sprintf(`Analise as transcrições e extraia o Sistema de Crenças e Valores. Seja profundo na análise.

[Transcrições]
%s

Retorne APENAS um JSON com a estrutura: {"fundamentalValues": [...], "ethicalPrinciples": [...], "worldViews": {...}, "personalPhilosophy": {...}, "thoughtEvolution": {...}}`, corpus)
}

func knowledgeDomainPrompt(corpus string) string {
	return fmt.Sprintf(`Analise as transcrições e identifique o Domínio de Conhecimento do expert.

[Transcrições]
%s

Retorne APENAS um JSON com a estrutura: {"expertiseAreas": [...], "intellectualInterests": [...], "knowledgeGaps": [...], "authorityTopics": [...], "informationSources": [...]}`, corpus)
}

func motivationsPrompt(corpus string) string {
	return fmt.Sprintf(`Analise as transcrições e extraia as Motivações e Intenções.

[Transcrições]
%s

Retorne APENAS um JSON com a estrutura: {"expressedObjectives": {...}, "internalMotivators": {...}, "aversionsAndAvoidances": {...}}`, corpus)
}

func biographyPrompt(corpus string) string {
	return fmt.Sprintf(`Analise as transcrições e extraia o Contexto Biográfico Relevante.

[Transcrições]
%s

Retorne APENAS um JSON com a estrutura: {"formativeExperiences": {...}, "professionalTrajectory": {...}, "keyRelationships": {...}}`, corpus)
}

func linguisticPatternsPrompt(corpus string) string {
	return fmt.Sprintf(`Analise as transcrições e extraia os Padrões Linguísticos Distintivos.

[Transcrições]
%s

Retorne APENAS um JSON com a estrutura: {"characteristicVocabulary": [...], "semanticFields": [...], "technicalTerms": [...], "textStructure": {...}, "stylisticMarkers": {...}}`, corpus)
}

func operationalSpecsPrompt(corpus string) string {
	return fmt.Sprintf(`Analise o texto e extraia parâmetros TÉCNICOS e REPRODUZÍVEIS para um agente de IA. Seja extremamente detalhado.

[Transcrições]
%s

Retorne APENAS um JSON com a estrutura: {"comunicacionais": {...}, "comportamentais": {...}, "reacionais": {...}}`, corpus)
}

func behaviorModelPrompt(corpus string) string {
	return fmt.Sprintf(`# Criação de Modelo de Comportamento
Com base nas transcrições, crie um modelo comportamental.

[Transcrições]
%s

Retorne APENAS um JSON com a seguinte estrutura:
{
  "condensedProfile": "Resumo de 2-3 parágrafos da essência da personalidade.",
  "responseGuidelines": {
    "engagementTopics": ["..."],
    "cautionTopics": ["..."],
    "communicationStyle": ["..."],
    "decisionValues": ["..."]
  },
  "dialogueExamples": [
    {
      "situation": "Uma situação ou pergunta hipotética relevante.",
      "response": "Uma resposta realista e detalhada no estilo da pessoa."
    }
  ]
}`, corpus)
}

// analyzeFacet runs one JSON-mode generation call, validates the required
// top-level keys and decodes the result. A failure at any stage returns the
// zero value; the caller decides how to degrade.
func analyzeFacet[T any](ctx context.Context, client generation.Client, prompt string, keys ...string) (T, error) {
	var result T

	raw, err := client.CompleteJSON(ctx, prompt)
	if err != nil {
		return result, err
	}
	if err := requireKeys(raw, keys...); err != nil {
		return result, &generation.MalformedResponseError{Raw: string(raw), Err: err}
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, &generation.MalformedResponseError{Raw: string(raw), Err: err}
	}
	return result, nil
}
