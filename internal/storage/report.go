package storage

import (
	"fmt"
	"strings"
	"time"

	"personify/internal/manual"
	"personify/internal/protocol"
)

// RenderReport turns the manual into the markdown report that accompanies a
// finished analysis. Headings and labels are Portuguese, matching the corpus
// and the report's audience.
func RenderReport(userEmail string, m *manual.PersonificationManual, records []protocol.ResponseRecord, now time.Time) string {
	userName := userEmail
	if at := strings.Index(userEmail, "@"); at > 0 {
		userName = userEmail[:at]
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# Relatório de Análise Psicológica Avançada - DNA UP Platform\n\n")
	fmt.Fprintf(&b, "## Informações Gerais\n")
	fmt.Fprintf(&b, "- **Usuário**: %s\n", userName)
	fmt.Fprintf(&b, "- **Email**: %s\n", userEmail)
	fmt.Fprintf(&b, "- **Data da Análise**: %s\n", now.Format("02/01/2006 15:04:05"))
	fmt.Fprintf(&b, "- **Total de Respostas**: %d\n", len(records))
	fmt.Fprintf(&b, "- **Protocolo**: Clara R. (108 perguntas)\n\n---\n\n")

	fmt.Fprintf(&b, "## Resumo Executivo\n\n%s\n\n---\n\n",
		fallback(m.BehaviorModel.CondensedProfile, "Análise psicológica baseada nas respostas fornecidas durante o protocolo Clara R."))

	cs := m.PersonalityProfile.CommunicationStyle
	tp := m.PersonalityProfile.ThinkingPatterns
	fmt.Fprintf(&b, "## Perfil de Personalidade\n\n")
	fmt.Fprintf(&b, "### Estilo de Comunicação\n")
	fmt.Fprintf(&b, "- **Formalidade**: %s\n", cs.Formality)
	fmt.Fprintf(&b, "- **Direcionamento**: %s\n", cs.Directness)
	fmt.Fprintf(&b, "- **Nível Técnico**: %s\n", cs.TechnicalLevel)
	fmt.Fprintf(&b, "- **Uso de Humor**: %s\n", cs.HumorUsage.Frequency)
	fmt.Fprintf(&b, "- **Expressões Características**: %s\n\n", strings.Join(cs.CharacteristicExpressions, ", "))
	fmt.Fprintf(&b, "### Padrões de Pensamento\n")
	fmt.Fprintf(&b, "- **Estrutura**: %s\n", tp.Structure)
	fmt.Fprintf(&b, "- **Abordagem**: %s\n", tp.Approach)
	fmt.Fprintf(&b, "- **Abstração**: %s\n", tp.Abstraction)
	fmt.Fprintf(&b, "- **Detalhamento**: %s\n", tp.Detail)
	fmt.Fprintf(&b, "- **Velocidade**: %s\n\n---\n\n", tp.ProcessingSpeed)

	fmt.Fprintf(&b, "## Sistema de Crenças e Valores\n\n")
	fmt.Fprintf(&b, "### Valores Fundamentais\n%s\n", bulletList(m.BeliefSystem.FundamentalValues))
	fmt.Fprintf(&b, "### Princípios Éticos\n%s\n", bulletList(m.BeliefSystem.EthicalPrinciples))
	fmt.Fprintf(&b, "### Visão de Mundo\n")
	fmt.Fprintf(&b, "- **Natureza Humana**: %s\n", m.BeliefSystem.WorldViews.HumanNature)
	fmt.Fprintf(&b, "- **Organizações**: %s\n", m.BeliefSystem.WorldViews.Organizations)
	fmt.Fprintf(&b, "- **Mudança e Progresso**: %s\n\n---\n\n", m.BeliefSystem.WorldViews.ChangeAndProgress)

	fmt.Fprintf(&b, "## Domínio de Conhecimento\n\n")
	fmt.Fprintf(&b, "### Áreas de Expertise\n%s\n", bulletList(m.KnowledgeDomain.ExpertiseAreas))
	fmt.Fprintf(&b, "### Interesses Intelectuais\n%s\n---\n\n", bulletList(m.KnowledgeDomain.IntellectualInterests))

	fmt.Fprintf(&b, "## Padrões Linguísticos\n\n")
	fmt.Fprintf(&b, "### Vocabulário Característico\n%s\n", bulletList(m.LinguisticPatterns.CharacteristicVocabulary))
	fmt.Fprintf(&b, "### Estrutura de Texto\n")
	fmt.Fprintf(&b, "- **Comprimento de Frases**: %s\n", m.LinguisticPatterns.TextStructure.SentenceLength)
	fmt.Fprintf(&b, "- **Estilo de Parágrafo**: %s\n\n---\n\n", m.LinguisticPatterns.TextStructure.ParagraphStyle)

	fmt.Fprintf(&b, "## Análise por Domínio\n\n")
	if len(m.DomainAnalysis) == 0 {
		fmt.Fprintf(&b, "Análise por domínio não disponível.\n")
	}
	for _, d := range m.DomainAnalysis {
		fmt.Fprintf(&b, "### %s\n", d.Domain)
		fmt.Fprintf(&b, "- **Pontuação**: %.1f\n", d.Score)
		fmt.Fprintf(&b, "- **Avaliação**: %s\n", d.Evaluation)
		fmt.Fprintf(&b, "- **Resumo**: %s\n\n", d.Summary)
	}
	fmt.Fprintf(&b, "---\n\n")

	rg := m.BehaviorModel.ResponseGuidelines
	fmt.Fprintf(&b, "## Modelo Comportamental\n\n")
	fmt.Fprintf(&b, "### Diretrizes de Resposta\n")
	fmt.Fprintf(&b, "- **Tópicos de Engajamento**: %s\n", fallback(strings.Join(rg.EngagementTopics, ", "), "Não especificado"))
	fmt.Fprintf(&b, "- **Tópicos de Cautela**: %s\n", fallback(strings.Join(rg.CautionTopics, ", "), "Não especificado"))
	fmt.Fprintf(&b, "- **Estilo de Comunicação**: %s\n\n---\n\n", fallback(strings.Join(rg.CommunicationStyle, ", "), "Não especificado"))

	fmt.Fprintf(&b, "## Dataset de Fine-tuning\n\n")
	fmt.Fprintf(&b, "- **Total de Exemplos**: %d\n", len(m.FineTuningDataset))
	fmt.Fprintf(&b, "- **Formato**: JSONL\n\n---\n\n")

	fmt.Fprintf(&b, "## Confiabilidade da Análise\n\n")
	fmt.Fprintf(&b, "- **Confiança**: %s\n", m.ReliabilityAssessment.Confidence)
	fmt.Fprintf(&b, "- **Precisão Estimada**: %s\n", m.ReliabilityAssessment.ModelAccuracy)
	fmt.Fprintf(&b, "- **Áreas para Mais Dados**: %s\n\n---\n\n", strings.Join(m.ReliabilityAssessment.AreasForMoreData, ", "))

	fmt.Fprintf(&b, "## Respostas Analisadas\n\n")
	for _, r := range protocol.Sorted(records) {
		fmt.Fprintf(&b, "### Pergunta %d: %s\n", r.QuestionIndex, r.QuestionDomain)
		fmt.Fprintf(&b, "**Pergunta**: %s\n", r.QuestionText)
		fmt.Fprintf(&b, "**Resposta**: %s\n\n---\n\n", fallback(r.TranscriptText, "Transcrição não disponível"))
	}

	fmt.Fprintf(&b, "*Relatório gerado automaticamente pelo DNA UP Platform*\n")
	fmt.Fprintf(&b, "*Deep Narrative Analysis - Protocolo Clara R.*\n")

	return b.String()
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "Não disponível.\n"
	}
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return b.String()
}

func fallback(s, alt string) string {
	if strings.TrimSpace(s) == "" {
		return alt
	}
	return s
}
