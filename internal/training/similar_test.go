package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarityIdenticalText(t *testing.T) {
	s := Similarity("Diagnóstico: J00. Repouso de 5 dias.", "Diagnóstico: J00. Repouso de 5 dias.")
	assert.InDelta(t, 1.0, s, 1e-9)
}

func TestSimilarityIgnoresCaseAndPunctuation(t *testing.T) {
	s := Similarity("DIAGNÓSTICO: J00, repouso!", "diagnóstico j00 repouso")
	assert.InDelta(t, 1.0, s, 1e-9)
}

func TestSimilarityDisjointText(t *testing.T) {
	s := Similarity("atestado médico", "laudo radiológico completo")
	assert.Zero(t, s)
}

func TestSimilarityDampsLargeLengthGap(t *testing.T) {
	short := "repouso de cinco dias"
	long := short + " conforme avaliação clínica realizada nesta data pelo médico assistente responsável"
	damped := Similarity(short, long)
	assert.Less(t, damped, Similarity(short, short))
}

func TestFindSimilarPicksBestMatchAboveThreshold(t *testing.T) {
	examples := []Example{
		{RawText: "Atestado: diagnóstico J00, repouso de 5 dias", Corrected: correctedMap("J00")},
		{RawText: "Laudo de exame radiológico sem relação alguma", Corrected: correctedMap("M54.5")},
	}

	best, score, ok := FindSimilar(examples, "Atestado diagnóstico J00 repouso de 5 dias")
	require.True(t, ok)
	assert.Equal(t, "J00", best.Corrected["CID"])
	assert.GreaterOrEqual(t, score, SimilarityThreshold)
}

func TestFindSimilarNoMatchBelowThreshold(t *testing.T) {
	examples := []Example{
		{RawText: "Laudo de exame radiológico sem relação alguma", Corrected: correctedMap("M54.5")},
	}

	_, _, ok := FindSimilar(examples, "texto completamente diferente sobre férias")
	assert.False(t, ok)
}

func TestFindSimilarEmptyHistory(t *testing.T) {
	_, _, ok := FindSimilar(nil, "qualquer texto")
	assert.False(t, ok)
}
