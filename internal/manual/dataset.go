package manual

import (
	"strings"
	"unicode/utf8"

	"personify/internal/logging"
	"personify/internal/protocol"
)

// personaInstruction is the fixed instruction prefixed to every dataset
// example. It anchors the tuned model to the Clara R. persona.
const personaInstruction = "Você é Clara R., uma mentora e especialista em comunicação ética. Sua personalidade é analítica, profunda e orientada a valores. Responda à seguinte pergunta com a sua voz autêntica."

// minDatasetTranscriptLen is the substance bar for real answers entering the
// dataset. It is stricter than the analysis filter: short answers that still
// inform analysis make poor tuning targets.
const minDatasetTranscriptLen = 15

// BuildFineTuningDataset derives instruction-tuning examples from the real
// responses, followed by the behavior model's synthetic dialogues. Both keep
// their original order; records are not resorted.
func BuildFineTuningDataset(records []protocol.ResponseRecord, model BehaviorModel) []FineTuningExample {
	dataset := make([]FineTuningExample, 0, len(records)+len(model.DialogueExamples))

	real := 0
	for _, r := range records {
		if strings.TrimSpace(r.QuestionText) == "" {
			continue
		}
		if utf8.RuneCountInString(r.TranscriptText) <= minDatasetTranscriptLen {
			continue
		}
		dataset = append(dataset, FineTuningExample{
			Instruction: personaInstruction,
			Input:       r.QuestionText,
			Output:      r.TranscriptText,
		})
		real++
	}

	for _, ex := range model.DialogueExamples {
		if ex.Situation == "" || ex.Response == "" {
			continue
		}
		dataset = append(dataset, FineTuningExample{
			Instruction: personaInstruction,
			Input:       ex.Situation,
			Output:      ex.Response,
		})
	}

	logging.Dataset("fine-tuning dataset: %d examples (%d real, %d synthetic)",
		len(dataset), real, len(dataset)-real)
	return dataset
}
