package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atestado-tools/atestado-reader/constants"
	"github.com/atestado-tools/atestado-reader/internal/model"
)

const sampleText = "Diagnóstico: J00. Dr. João Silva. Emissão: 15/01/2025. Repouso de 5 dias."

// stubModel proposes fixed candidates, standing in for a loaded model.
type stubModel struct {
	cands map[constants.Field]model.Candidate
}

func (s stubModel) ExtractAll(context.Context, string) (map[constants.Field]model.Candidate, bool) {
	if len(s.cands) == 0 {
		return nil, false
	}
	return s.cands, true
}

func (s stubModel) TryExtract(_ context.Context, f constants.Field, _ string) (model.Candidate, bool) {
	c, ok := s.cands[f]
	return c, ok
}

func TestRunScenario(t *testing.T) {
	p := NewPipeline(nil, Config{}, nil, nil, nil)
	rec := p.Run(context.Background(), sampleText)

	cid := rec.Field(constants.FieldCID)
	require.True(t, cid.Resolved())
	assert.Equal(t, "J00", cid.Value)

	doc := rec.Field(constants.FieldDoctor)
	require.True(t, doc.Resolved())
	assert.Equal(t, "João Silva", doc.Value)

	date := rec.Field(constants.FieldIssueDate)
	require.True(t, date.Resolved())
	assert.Equal(t, "15/01/2025", date.Value)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), date.Date)

	days := rec.Field(constants.FieldRestDays)
	require.True(t, days.Resolved())
	assert.Equal(t, 5, days.Days)

	assert.False(t, rec.NeedsReview)
	assert.Equal(t, 4, rec.ResolvedCount())
}

func TestRunCorrectsCIDTypoBeforeMatching(t *testing.T) {
	p := NewPipeline(nil, Config{}, nil, nil, nil)
	typo := "Diagnóstico: J0O. Dr. João Silva. Emissão: 15/01/2025. Repouso de 5 dias."
	rec := p.Run(context.Background(), typo)

	cid := rec.Field(constants.FieldCID)
	require.True(t, cid.Resolved())
	assert.Equal(t, "J00", cid.Value)
}

func TestRunTierPriority(t *testing.T) {
	stub := stubModel{cands: map[constants.Field]model.Candidate{
		constants.FieldCID: {Field: constants.FieldCID, Value: "A09", Confidence: 0.9},
	}}

	withModel := NewPipeline(nil, Config{}, nil, stub, nil)
	rec := withModel.Run(context.Background(), sampleText)
	cid := rec.Field(constants.FieldCID)
	require.True(t, cid.Resolved())
	assert.Equal(t, "A09", cid.Value, "model tier outranks heuristic")
	assert.Equal(t, constants.TierModel, cid.Tier)

	withoutModel := NewPipeline(nil, Config{}, nil, model.Noop{}, nil)
	rec = withoutModel.Run(context.Background(), sampleText)
	cid = rec.Field(constants.FieldCID)
	require.True(t, cid.Resolved())
	assert.Equal(t, "J00", cid.Value, "heuristic tier wins when the model declines")
	assert.Equal(t, constants.TierHeuristic, cid.Tier)
}

func TestRunRejectedModelCandidateFallsThrough(t *testing.T) {
	stub := stubModel{cands: map[constants.Field]model.Candidate{
		constants.FieldRestDays: {Field: constants.FieldRestDays, Value: "400", Confidence: 0.9},
	}}
	p := NewPipeline(nil, Config{}, nil, stub, nil)
	rec := p.Run(context.Background(), sampleText)

	days := rec.Field(constants.FieldRestDays)
	require.True(t, days.Resolved())
	assert.Equal(t, 5, days.Days, "invalid model value must not shadow a valid lower tier")
	assert.NotEqual(t, constants.TierModel, days.Tier)
}

func TestRunGracefulDegradation(t *testing.T) {
	stub := stubModel{cands: map[constants.Field]model.Candidate{
		constants.FieldCID:       {Field: constants.FieldCID, Value: "J00", Confidence: 0.9},
		constants.FieldDoctor:    {Field: constants.FieldDoctor, Value: "João Silva", Confidence: 0.9},
		constants.FieldIssueDate: {Field: constants.FieldIssueDate, Value: "15/01/2025", Confidence: 0.9},
		constants.FieldRestDays:  {Field: constants.FieldRestDays, Value: "5", Confidence: 0.9},
	}}

	withModel := NewPipeline(nil, Config{}, nil, stub, nil).Run(context.Background(), sampleText)
	withoutModel := NewPipeline(nil, Config{}, nil, model.Noop{}, nil).Run(context.Background(), sampleText)

	for _, f := range constants.AllFields {
		require.True(t, withModel.Field(f).Resolved())
		require.True(t, withoutModel.Field(f).Resolved(),
			"removing the model tier must not unresolve %s", f)
		assert.Equal(t, withModel.Field(f).Value, withoutModel.Field(f).Value)
	}
	assert.Equal(t, constants.TierModel, withModel.Field(constants.FieldCID).Tier)
	assert.Equal(t, constants.TierHeuristic, withoutModel.Field(constants.FieldCID).Tier)
}

func TestRunRegexFloorProvenance(t *testing.T) {
	// no anchor keywords at all: only the anchorless baseline can match
	p := NewPipeline(nil, Config{}, nil, nil, nil)
	rec := p.Run(context.Background(), "texto solto J00 sem mais nada")

	cid := rec.Field(constants.FieldCID)
	require.True(t, cid.Resolved())
	assert.Equal(t, "J00", cid.Value)
	assert.Equal(t, constants.TierRegex, cid.Tier)
	assert.True(t, rec.NeedsReview, "low-confidence floor match is flagged for review")
}

func TestRunEmptyInput(t *testing.T) {
	p := NewPipeline(nil, Config{}, nil, nil, nil)
	for _, in := range []string{"", "   \n\t  "} {
		rec := p.Run(context.Background(), in)
		for _, f := range constants.AllFields {
			fr := rec.Field(f)
			assert.False(t, fr.Resolved())
			assert.Equal(t, constants.ReasonEmptyCandidate, fr.Reason)
		}
		assert.True(t, rec.NeedsReview)
	}
}

func TestRunPartialRecordIsNotAFailure(t *testing.T) {
	p := NewPipeline(nil, Config{}, nil, nil, nil)
	rec := p.Run(context.Background(), "Emissão: 15/01/2025 e nada mais legível")

	assert.True(t, rec.Field(constants.FieldIssueDate).Resolved())
	assert.False(t, rec.Field(constants.FieldDoctor).Resolved())
	assert.True(t, rec.NeedsReview)
}

func TestDisplayMap(t *testing.T) {
	p := NewPipeline(nil, Config{}, nil, nil, nil)
	rec := p.Run(context.Background(), sampleText)

	m := rec.DisplayMap()
	assert.Equal(t, "J00", m["CID"])
	assert.Equal(t, "João Silva", m["Médico"])
	assert.Equal(t, "15/01/2025", m["Data de Emissão"])
	assert.Equal(t, "5 dias de repouso", m["Dias de Repouso"])

	empty := p.Run(context.Background(), "")
	assert.Contains(t, empty.DisplayMap()["CID"], "não foi encontrado")
}
