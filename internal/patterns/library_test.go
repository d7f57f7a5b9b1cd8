package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atestado-tools/atestado-reader/constants"
)

const sampleText = "Diagnóstico: J00. Dr. João Silva. Emissão: 15/01/2025. Repouso de 5 dias."

func TestSearchFindsAnchoredCandidates(t *testing.T) {
	lib := Default()

	tests := []struct {
		field constants.Field
		want  string
	}{
		{constants.FieldCID, "J00"},
		{constants.FieldDoctor, "João Silva"},
		{constants.FieldIssueDate, "15/01/2025"},
		{constants.FieldRestDays, "5"},
	}
	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			cands := lib.Search(tt.field, sampleText)
			require.NotEmpty(t, cands)
			assert.Equal(t, tt.want, cands[0].Value)
			assert.Greater(t, cands[0].Confidence, float32(baselineConfidence))
		})
	}
}

func TestSearchOrdersByDescendingConfidence(t *testing.T) {
	lib := Default()
	text := "CID-10: M54.5 informado. Em outra linha aparece 12/03/2024 e a data de emissão: 20/03/2024."

	cands := lib.Search(constants.FieldIssueDate, text)
	require.GreaterOrEqual(t, len(cands), 2)
	for i := 1; i < len(cands); i++ {
		assert.GreaterOrEqual(t, cands[i-1].Confidence, cands[i].Confidence)
	}
	assert.Equal(t, "20/03/2024", cands[0].Value, "anchored date should outrank the stray one")
}

func TestSearchAnchorProximityBoost(t *testing.T) {
	lib := Default()

	near := lib.Search(constants.FieldIssueDate, "data de emissão próxima 15/01/2025")
	far := lib.Search(constants.FieldIssueDate, "uma linha qualquer sem contexto nenhum por aqui antes de 15/01/2025")
	require.NotEmpty(t, near)
	require.NotEmpty(t, far)
	assert.Greater(t, near[0].Confidence, far[0].Confidence)
}

func TestBaselineAlwaysRegisteredForEveryField(t *testing.T) {
	lib := Default()
	for _, f := range constants.AllFields {
		fp, ok := lib.Field(f)
		require.True(t, ok, "field %s missing from library", f)
		assert.NotNil(t, fp.Baseline, "field %s has no anchorless fallback", f)
	}
}

func TestBaselineMatchesWithoutAnchors(t *testing.T) {
	lib := Default()

	c, ok := lib.Baseline(constants.FieldCID, "texto solto J00 sem contexto")
	require.True(t, ok)
	assert.Equal(t, "J00", c.Value)
	assert.Equal(t, float32(baselineConfidence), c.Confidence)

	_, ok = lib.Baseline(constants.FieldCID, "nenhum código aqui")
	assert.False(t, ok)
}

func TestSearchIsRestartable(t *testing.T) {
	lib := Default()
	first := lib.Search(constants.FieldRestDays, sampleText)
	second := lib.Search(constants.FieldRestDays, sampleText)
	assert.Equal(t, first, second)
}

func TestCustomLibraryForSwappedPatterns(t *testing.T) {
	lib := New(FieldPatterns{
		Field:    constants.FieldCID,
		Baseline: cidPatterns.Baseline,
	})
	_, ok := lib.Field(constants.FieldDoctor)
	assert.False(t, ok)

	c, ok := lib.Baseline(constants.FieldCID, "CID J00")
	require.True(t, ok)
	assert.Equal(t, "J00", c.Value)
}
