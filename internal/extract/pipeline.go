// Package extract orchestrates the tiered field-extraction pipeline:
// optional model pass, anchored heuristic pass, anchorless regex pass, with
// validation-based arbitration in tier priority order.
package extract

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/atestado-tools/atestado-reader/constants"
	"github.com/atestado-tools/atestado-reader/internal/corrector"
	"github.com/atestado-tools/atestado-reader/internal/model"
	"github.com/atestado-tools/atestado-reader/internal/patterns"
	"github.com/atestado-tools/atestado-reader/internal/validate"
)

// Config holds thresholds and behavior flags for the pipeline.
type Config struct {
	MinConfidence float32       // below this, a resolved record is flagged for review; default 0.60
	ModelTimeout  time.Duration // bound on the model tier attempt; default 20s
}

// Pipeline runs extraction for one document at a time. Library, Model and
// Validator are read-only shared configuration, constructed once.
type Pipeline struct {
	Logger    *slog.Logger
	Cfg       Config
	Library   *patterns.Library
	Model     model.Extractor
	Validator *validate.Validator
}

func NewPipeline(logger *slog.Logger, cfg Config, lib *patterns.Library, m model.Extractor, v *validate.Validator) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.60
	}
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = 20 * time.Second
	}
	if lib == nil {
		lib = patterns.Default()
	}
	if m == nil {
		m = model.Noop{}
	}
	if v == nil {
		v = validate.New()
	}
	return &Pipeline{Logger: logger, Cfg: cfg, Library: lib, Model: m, Validator: v}
}

// candidate pairs a raw value with the tier that proposed it.
type candidate struct {
	value      string
	confidence float32
	tier       constants.Tier
}

// Run extracts all fields from raw OCR text. Empty or unreadable input
// yields an all-Unresolved record, never an error: a certificate with no
// readable text is a valid (if useless) outcome.
func (p *Pipeline) Run(ctx context.Context, rawText string) Record {
	start := time.Now()
	rec := newRecord()

	text := corrector.Clean(rawText)
	if strings.TrimSpace(text) == "" {
		for _, f := range constants.AllFields {
			rec.Fields[f] = FieldResult{State: constants.FieldUnresolved, Reason: constants.ReasonEmptyCandidate}
		}
		rec.NeedsReview = true
		p.Logger.Warn("extract.empty_input", "record_id", rec.ID)
		return rec
	}

	modelCands := p.modelPass(ctx, text)

	for _, f := range constants.AllFields {
		rec.Fields[f] = p.resolveField(f, text, modelCands)
	}

	for _, fr := range rec.Fields {
		if !fr.Resolved() || fr.Confidence < p.Cfg.MinConfidence {
			rec.NeedsReview = true
			break
		}
	}

	p.Logger.Info("extract.ok",
		"record_id", rec.ID,
		"resolved", rec.ResolvedCount(),
		"needs_review", rec.NeedsReview,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec
}

// modelPass queries the model tier once per document, bounded by
// ModelTimeout. A decline or timeout is soft degradation: log and move on.
func (p *Pipeline) modelPass(ctx context.Context, text string) map[constants.Field]model.Candidate {
	mctx, cancel := context.WithTimeout(ctx, p.Cfg.ModelTimeout)
	defer cancel()

	cands, ok := p.Model.ExtractAll(mctx, text)
	if !ok {
		p.Logger.Debug("extract.model_declined")
		return nil
	}
	return cands
}

// resolveField evaluates candidates in tier priority order (model >
// heuristic > regex) and accepts the first that passes validation.
func (p *Pipeline) resolveField(f constants.Field, text string, modelCands map[constants.Field]model.Candidate) FieldResult {
	var cands []candidate

	if mc, ok := modelCands[f]; ok {
		cands = append(cands, candidate{value: mc.Value, confidence: mc.Confidence, tier: constants.TierModel})
	}
	for _, hc := range p.Library.Search(f, text) {
		cands = append(cands, candidate{value: hc.Value, confidence: hc.Confidence, tier: constants.TierHeuristic})
	}
	if bc, ok := p.Library.Baseline(f, text); ok {
		cands = append(cands, candidate{value: bc.Value, confidence: bc.Confidence, tier: constants.TierRegex})
	}

	lastReason := constants.ReasonEmptyCandidate
	for _, c := range cands {
		res := p.Validator.Validate(f, c.value)
		if !res.Accepted {
			lastReason = res.Reason
			p.Logger.Debug("extract.candidate_rejected",
				"field", f, "tier", c.tier, "value", c.value, "reason", res.Reason)
			continue
		}
		return p.finalize(f, res.Value, c)
	}
	return FieldResult{State: constants.FieldUnresolved, Reason: lastReason}
}

// finalize fills the typed value for date/day fields. The validator already
// normalized the value, so these parses cannot fail.
func (p *Pipeline) finalize(f constants.Field, normalized string, c candidate) FieldResult {
	fr := FieldResult{
		State:      constants.FieldResolved,
		Value:      normalized,
		Confidence: c.confidence,
		Tier:       c.tier,
	}
	switch f {
	case constants.FieldIssueDate:
		if d, err := time.Parse("02/01/2006", normalized); err == nil {
			fr.Date = d
		}
	case constants.FieldRestDays:
		if n, err := strconv.Atoi(normalized); err == nil {
			fr.Days = n
		}
	}
	return fr
}
