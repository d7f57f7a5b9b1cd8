// Package model defines the optional neural extraction tier. The pipeline
// depends only on the Extractor capability interface; whether a real model
// client or the always-declining Noop sits behind it is decided once, at
// construction time.
package model

import (
	"context"

	"github.com/atestado-tools/atestado-reader/constants"
)

// Candidate is a field value proposed by the model with its confidence.
type Candidate struct {
	Field      constants.Field
	Value      string
	Confidence float32
}

// Extractor is the capability interface for the model tier. Implementations
// decline (ok=false) rather than fail: an unavailable or timed-out model is
// an expected degraded-mode path, not an error the pipeline should see.
type Extractor interface {
	// ExtractAll proposes candidates for every field it recognized in text.
	ExtractAll(ctx context.Context, text string) (map[constants.Field]Candidate, bool)

	// TryExtract proposes a candidate for a single field.
	TryExtract(ctx context.Context, field constants.Field, text string) (Candidate, bool)
}

// Noop is the Extractor used when the model tier is disabled or cannot be
// built. It always declines.
type Noop struct{}

func (Noop) ExtractAll(context.Context, string) (map[constants.Field]Candidate, bool) {
	return nil, false
}

func (Noop) TryExtract(context.Context, constants.Field, string) (Candidate, bool) {
	return Candidate{}, false
}
