// Package patterns holds the per-field recognition rules used by the
// heuristic and regex extraction tiers. A Library is read-only after
// construction; searches are pure functions of the input text.
package patterns

import (
	"regexp"

	"github.com/atestado-tools/atestado-reader/constants"
)

// Candidate is a raw substring proposed for a field, with the confidence
// assigned by the rule (and anchor proximity) that produced it.
type Candidate struct {
	Value      string
	Confidence float32
}

// Rule is one anchored recognition pattern: a regex whose first capture
// group is the candidate value, contextual anchor keywords that boost
// confidence when found near the match, and a base weight.
type Rule struct {
	Pattern *regexp.Regexp
	Anchors []string
	Weight  float32
}

// FieldPatterns groups the rules for one field. Baseline is the anchorless
// fallback regex: every field has one, so extraction never yields zero
// candidates for a document that contains a matching shape at all.
type FieldPatterns struct {
	Field    constants.Field
	Rules    []Rule
	Baseline *regexp.Regexp
}

// Library maps fields to their patterns.
type Library struct {
	fields map[constants.Field]FieldPatterns
}

// New builds a Library from explicit field patterns. Intended for tests
// that need a swapped pattern set; production code uses Default.
func New(fps ...FieldPatterns) *Library {
	m := make(map[constants.Field]FieldPatterns, len(fps))
	for _, fp := range fps {
		m[fp.Field] = fp
	}
	return &Library{fields: m}
}

// Default returns the built-in pattern set for atestado fields.
func Default() *Library {
	return New(cidPatterns, doctorPatterns, datePatterns, daysPatterns)
}

// Field returns the patterns registered for f.
func (l *Library) Field(f constants.Field) (FieldPatterns, bool) {
	fp, ok := l.fields[f]
	return fp, ok
}

const (
	baselineConfidence = 0.40
	anchorBoost        = 0.15
	maxConfidence      = 0.99
)

var cidPatterns = FieldPatterns{
	Field: constants.FieldCID,
	Rules: []Rule{
		{
			Pattern: regexp.MustCompile(`(?:CID|C\.\s*I\.\s*D\.?)[:\s\-]*(?:10[:\s\-]*)?([A-Z]\d{2,3}(?:\.\d{1,2})?)`),
			Anchors: []string{"cid"},
			Weight:  0.90,
		},
		{
			Pattern: regexp.MustCompile(`(?i:diagn[oó]stico|c[oó]digo)[:\s]*([A-Z]\d{2,3}(?:\.\d{1,2})?)`),
			Anchors: []string{"diagnóstico", "código"},
			Weight:  0.85,
		},
	},
	Baseline: regexp.MustCompile(`\b([A-Z]\d{2,3}(?:\.\d{1,2})?)\b`),
}

const nameShape = `[A-ZÁÉÍÓÚÂÊÔÃÕÇ][A-Za-zÀ-ÿ]+(?:\s+[A-ZÁÉÍÓÚÂÊÔÃÕÇ][A-Za-zÀ-ÿ]+){1,4}`

var doctorPatterns = FieldPatterns{
	Field: constants.FieldDoctor,
	Rules: []Rule{
		{
			Pattern: regexp.MustCompile(`(?:Dr|Dra|DR|DRA|Doutor|Doutora)\.?\s+(` + nameShape + `)`),
			Anchors: []string{"médico", "medico", "assinado"},
			Weight:  0.85,
		},
		{
			Pattern: regexp.MustCompile(`(?i:assinado\s+por|m[eé]dico)[:\s]+(` + nameShape + `)`),
			Anchors: []string{"assinado", "médico"},
			Weight:  0.80,
		},
	},
	Baseline: regexp.MustCompile(`(?:Dr|Dra|Doutor|Doutora)\.?\s+(` + nameShape + `)`),
}

var datePatterns = FieldPatterns{
	Field: constants.FieldIssueDate,
	Rules: []Rule{
		{
			Pattern: regexp.MustCompile(`(?i:data\s+de\s+emiss[aã]o|emitid[oa]\s+em|emiss[aã]o)[:\s]*(\d{2}[/\-]\d{2}[/\-]\d{4})`),
			Anchors: []string{"emissão", "emitido", "emitida"},
			Weight:  0.90,
		},
		{
			Pattern: regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`),
			Anchors: []string{"emissão", "emitido", "data"},
			Weight:  0.50,
		},
	},
	Baseline: regexp.MustCompile(`\b(\d{2}[/\-]\d{2}[/\-]\d{4})\b`),
}

var daysPatterns = FieldPatterns{
	Field: constants.FieldRestDays,
	Rules: []Rule{
		{
			Pattern: regexp.MustCompile(`(?i)(\d{1,3})\s*(?:\([^)]*\)\s*)?dias?\s*(?:de\s+)?(?:repouso|afastamento|afastad[oa])`),
			Anchors: []string{"repouso", "afastamento"},
			Weight:  0.90,
		},
		{
			Pattern: regexp.MustCompile(`(?i)(?:repouso|afastamento)[:\s]*(?:de\s+)?(\d{1,3})\s*dias?`),
			Anchors: []string{"repouso", "afastamento"},
			Weight:  0.85,
		},
	},
	Baseline: regexp.MustCompile(`(?i)\b(\d{1,3})\s*dias?\b`),
}
