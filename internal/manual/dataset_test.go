package manual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personify/internal/protocol"
)

func TestBuildFineTuningDatasetFiltersAndOrders(t *testing.T) {
	records := []protocol.ResponseRecord{
		{QuestionIndex: 3, QuestionText: "Terceira pergunta?", TranscriptText: "Uma resposta longa o suficiente para entrar."},
		{QuestionIndex: 1, QuestionText: "Primeira pergunta?", TranscriptText: "Outra resposta substantiva e completa."},
		{QuestionIndex: 2, QuestionText: "Segunda pergunta?", TranscriptText: "curta"},
		{QuestionIndex: 4, QuestionText: "", TranscriptText: "Resposta sem pergunta associada, deve sair."},
	}
	model := BehaviorModel{
		DialogueExamples: []DialogueExample{
			{Situation: "Situação hipotética?", Response: "Resposta sintética."},
			{Situation: "", Response: "Sem situação, deve sair."},
		},
	}

	dataset := BuildFineTuningDataset(records, model)

	// Real examples keep the input order, even out of question order.
	require.Len(t, dataset, 3)
	assert.Equal(t, "Terceira pergunta?", dataset[0].Input)
	assert.Equal(t, "Primeira pergunta?", dataset[1].Input)
	assert.Equal(t, "Situação hipotética?", dataset[2].Input)
	assert.Equal(t, "Resposta sintética.", dataset[2].Output)
	for _, ex := range dataset {
		assert.Equal(t, personaInstruction, ex.Instruction)
	}
}

func TestBuildFineTuningDatasetEmptyInputs(t *testing.T) {
	dataset := BuildFineTuningDataset(nil, BehaviorModel{})
	assert.Empty(t, dataset)
}

func TestBuildFineTuningDatasetLengthBoundary(t *testing.T) {
	exactly15 := "123456789012345"
	records := []protocol.ResponseRecord{
		{QuestionIndex: 1, QuestionText: "P?", TranscriptText: exactly15},
		{QuestionIndex: 2, QuestionText: "P?", TranscriptText: exactly15 + "6"},
	}

	dataset := BuildFineTuningDataset(records, BehaviorModel{})

	require.Len(t, dataset, 1, "the bar is exclusive: exactly 15 runes is out")
	assert.Equal(t, exactly15+"6", dataset[0].Output)
}
