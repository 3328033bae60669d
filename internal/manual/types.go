// Package manual assembles the personification manual: a structured profile
// of one person, extracted from their questionnaire transcripts by a set of
// concurrent analysis calls against the generation service.
package manual

import "fmt"

// PersonalityProfile captures how the person communicates, thinks, reacts
// and positions themselves socially.
type PersonalityProfile struct {
	CommunicationStyle CommunicationStyle `json:"communicationStyle"`
	ThinkingPatterns   ThinkingPatterns   `json:"thinkingPatterns"`
	EmotionalResponse  EmotionalResponse  `json:"emotionalResponse"`
	SocialPosture      SocialPosture      `json:"socialPosture"`
}

type CommunicationStyle struct {
	Formality                 string     `json:"formality"`
	Directness                string     `json:"directness"`
	TechnicalLevel            string     `json:"technicalLevel"`
	HumorUsage                HumorUsage `json:"humorUsage"`
	CharacteristicExpressions []string   `json:"characteristicExpressions"`
	SyntacticPatterns         []string   `json:"syntacticPatterns"`
}

type HumorUsage struct {
	Frequency string   `json:"frequency"`
	Type      []string `json:"type"`
	Contexts  []string `json:"contexts"`
}

type ThinkingPatterns struct {
	Structure       string `json:"structure"`
	Approach        string `json:"approach"`
	Abstraction     string `json:"abstraction"`
	Detail          string `json:"detail"`
	ProcessingSpeed string `json:"processingSpeed"`
}

type EmotionalResponse struct {
	StrongTriggers       []string `json:"strongTriggers"`
	StressPatterns       []string `json:"stressPatterns"`
	RegulationStrategies []string `json:"regulationStrategies"`
	EnthusiasmTriggers   []string `json:"enthusiasmTriggers"`
}

type SocialPosture struct {
	Orientation            string   `json:"orientation"`
	LeadershipStyle        []string `json:"leadershipStyle"`
	ConflictStyle          []string `json:"conflictStyle"`
	InteractionPreferences []string `json:"interactionPreferences"`
}

// BeliefSystem captures values, ethics, world views and how the person's
// thinking has evolved.
type BeliefSystem struct {
	FundamentalValues  []string           `json:"fundamentalValues"`
	EthicalPrinciples  []string           `json:"ethicalPrinciples"`
	WorldViews         WorldViews         `json:"worldViews"`
	PersonalPhilosophy PersonalPhilosophy `json:"personalPhilosophy"`
	ThoughtEvolution   ThoughtEvolution   `json:"thoughtEvolution"`
}

type WorldViews struct {
	HumanNature       string `json:"humanNature"`
	Organizations     string `json:"organizations"`
	ChangeAndProgress string `json:"changeAndProgress"`
}

type PersonalPhilosophy struct {
	DecisionMaking    string `json:"decisionMaking"`
	RiskAttitude      string `json:"riskAttitude"`
	SuccessDefinition string `json:"successDefinition"`
}

type ThoughtEvolution struct {
	DetectedChanges []string `json:"detectedChanges"`
	PivotalEvents   []string `json:"pivotalEvents"`
}

// KnowledgeDomain maps expertise areas and their boundaries.
type KnowledgeDomain struct {
	ExpertiseAreas        []string `json:"expertiseAreas"`
	IntellectualInterests []string `json:"intellectualInterests"`
	KnowledgeGaps         []string `json:"knowledgeGaps"`
	AuthorityTopics       []string `json:"authorityTopics"`
	InformationSources    []string `json:"informationSources"`
}

// MotivationsAndIntentions captures goals, drives and aversions.
type MotivationsAndIntentions struct {
	ExpressedObjectives    ExpressedObjectives    `json:"expressedObjectives"`
	InternalMotivators     InternalMotivators     `json:"internalMotivators"`
	AversionsAndAvoidances AversionsAndAvoidances `json:"aversionsAndAvoidances"`
}

type ExpressedObjectives struct {
	ShortTermGoals  []string `json:"shortTermGoals"`
	LongTermGoals   []string `json:"longTermGoals"`
	SuccessCriteria string   `json:"successCriteria"`
}

type InternalMotivators struct {
	MeaningAndPurpose   []string `json:"meaningAndPurpose"`
	SatisfactionSources []string `json:"satisfactionSources"`
}

type AversionsAndAvoidances struct {
	AvoidedSituations       []string `json:"avoidedSituations"`
	ResistanceTriggers      []string `json:"resistanceTriggers"`
	ProcrastinationPatterns string   `json:"procrastinationPatterns"`
}

// BiographicalContext captures formative history as expressed in the corpus.
type BiographicalContext struct {
	FormativeExperiences   FormativeExperiences   `json:"formativeExperiences"`
	ProfessionalTrajectory ProfessionalTrajectory `json:"professionalTrajectory"`
	KeyRelationships       KeyRelationships       `json:"keyRelationships"`
}

type FormativeExperiences struct {
	SignificantEvents        []string `json:"significantEvents"`
	InfluentialRelationships []string `json:"influentialRelationships"`
	ChallengesFaced          string   `json:"challengesFaced"`
}

type ProfessionalTrajectory struct {
	MentionedExperiences []string `json:"mentionedExperiences"`
	SignificantProjects  []string `json:"significantProjects"`
	WorkPhilosophy       string   `json:"workPhilosophy"`
}

type KeyRelationships struct {
	RecurringDynamics                string `json:"recurringDynamics"`
	CollaborationAndConflictPatterns string `json:"collaborationAndConflictPatterns"`
}

// LinguisticPatterns captures distinctive vocabulary and style.
type LinguisticPatterns struct {
	CharacteristicVocabulary []string         `json:"characteristicVocabulary"`
	SemanticFields           []string         `json:"semanticFields"`
	TechnicalTerms           []string         `json:"technicalTerms"`
	TextStructure            TextStructure    `json:"textStructure"`
	StylisticMarkers         StylisticMarkers `json:"stylisticMarkers"`
}

type TextStructure struct {
	SentenceLength        string   `json:"sentenceLength"`
	ParagraphStyle        string   `json:"paragraphStyle"`
	ArgumentationPatterns []string `json:"argumentationPatterns"`
}

type StylisticMarkers struct {
	Humor              []string `json:"humor"`
	Formality          []string `json:"formality"`
	AudienceAdaptation []string `json:"audienceAdaptation"`
}

// OperationalSpecs are reproducible parameters for an agent impersonating
// the person. Field names stay in Portuguese to match the downstream
// consumers of the manual.
type OperationalSpecs struct {
	Comunicacionais SpecsComunicacionais `json:"comunicacionais"`
	Comportamentais SpecsComportamentais `json:"comportamentais"`
	Reacionais      SpecsReacionais      `json:"reacionais"`
}

type SpecsComunicacionais struct {
	VocabularioNucleo      []string `json:"vocabularioNucleo"`
	EstruturasFrasais      []string `json:"estruturasFrasais"`
	FormalidadeCasualidade string   `json:"formalidadeCasualidade"`
	UsoDeHumor             string   `json:"usoDeHumor"`
	SequenciasLogicas      string   `json:"sequenciasLogicas"`
}

type SpecsComportamentais struct {
	InicioDesenvolvimentoFim       string `json:"inicioDesenvolvimentoFim"`
	ContextualizacaoVsObjetividade string `json:"contextualizacaoVsObjetividade"`
	EstrategiasDeQualificacao      string `json:"estrategiasDeQualificacao"`
	TendenciasDeExemplificacao     string `json:"tendenciasDeExemplificacao"`
	MecanismosDeRegulacao          string `json:"mecanismosDeRegulacao"`
}

type SpecsReacionais struct {
	GatilhosEmocionais                     string `json:"gatilhosEmocionais"`
	AtivadoresModoTecnicoPessoalFilosofico string `json:"ativadoresModoTecnicoPessoalFilosofico"`
	AssuntosDeEntusiasmo                   string `json:"assuntosDeEntusiasmo"`
	ContextosDeReflexao                    string `json:"contextosDeReflexao"`
}

// DomainAnalysis grades one questionnaire domain.
type DomainAnalysis struct {
	Domain     string  `json:"domain"`
	Score      float64 `json:"score"`
	Evaluation string  `json:"evaluation"`
	Summary    string  `json:"summary"`
}

// Evaluation scale for DomainAnalysis.Evaluation.
const (
	EvaluationCritical    = "Crítico"
	EvaluationDeveloping  = "Em Desenvolvimento"
	EvaluationSolid       = "Sólido"
	EvaluationExceptional = "Excepcional"
)

// BehaviorModel condenses the personality into response guidelines and
// example dialogues.
type BehaviorModel struct {
	CondensedProfile   string             `json:"condensedProfile"`
	ResponseGuidelines ResponseGuidelines `json:"responseGuidelines"`
	DialogueExamples   []DialogueExample  `json:"dialogueExamples"`
}

type ResponseGuidelines struct {
	EngagementTopics   []string `json:"engagementTopics"`
	CautionTopics      []string `json:"cautionTopics"`
	CommunicationStyle []string `json:"communicationStyle"`
	DecisionValues     []string `json:"decisionValues"`
}

type DialogueExample struct {
	Situation string `json:"situation"`
	Response  string `json:"response"`
}

// CorpusAnalysis describes the source material the manual was built from.
type CorpusAnalysis struct {
	DocumentTypes []string `json:"documentTypes"`
	TimeSpan      string   `json:"timeSpan"`
	Consistency   string   `json:"consistency"`
	Gaps          []string `json:"gaps"`
}

// ReliabilityAssessment grades how much the manual can be trusted.
type ReliabilityAssessment struct {
	Confidence       string   `json:"confidence"`
	AreasForMoreData []string `json:"areasForMoreData"`
	ModelAccuracy    string   `json:"modelAccuracy"`
}

// FineTuningExample is one instruction-tuning record.
type FineTuningExample struct {
	Instruction string `json:"instruction"`
	Input       string `json:"input"`
	Output      string `json:"output"`
}

// PersonificationManual is the complete aggregate produced by the assembler.
type PersonificationManual struct {
	CorpusAnalysis           CorpusAnalysis           `json:"corpusAnalysis"`
	PersonalityProfile       PersonalityProfile       `json:"personalityProfile"`
	BeliefSystem             BeliefSystem             `json:"beliefSystem"`
	KnowledgeDomain          KnowledgeDomain          `json:"knowledgeDomain"`
	MotivationsAndIntentions MotivationsAndIntentions `json:"motivationsAndIntentions"`
	BiographicalContext      BiographicalContext      `json:"biographicalContext"`
	LinguisticPatterns       LinguisticPatterns       `json:"linguisticPatterns"`
	BehaviorModel            BehaviorModel            `json:"behaviorModel"`
	OperationalSpecs         OperationalSpecs         `json:"operationalSpecs"`
	DomainAnalysis           []DomainAnalysis         `json:"domainAnalysis"`
	ReliabilityAssessment    ReliabilityAssessment    `json:"reliabilityAssessment"`
	FineTuningDataset        []FineTuningExample      `json:"fineTuningDataset"`
}

// InsufficientDataError reports that too few qualifying responses were
// provided to attempt a full analysis. No generation call is made when this
// is returned.
type InsufficientDataError struct {
	Required int
	Received int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("full analysis requires at least %d responses, received %d", e.Required, e.Received)
}
