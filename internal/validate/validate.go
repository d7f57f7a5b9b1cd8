// Package validate holds the per-field acceptance rules. Validation is
// deterministic and total: malformed input is a rejection, never a panic.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/atestado-tools/atestado-reader/constants"
)

// Result is the outcome of validating one candidate. When Accepted is true,
// Value holds the normalized value ("J00", "João Silva", "15/01/2025", "5").
// Otherwise Reason explains the rejection.
type Result struct {
	Accepted bool
	Value    string
	Reason   constants.Reason
}

func accept(v string) Result {
	return Result{Accepted: true, Value: v}
}

func reject(r constants.Reason) Result {
	return Result{Accepted: false, Reason: r}
}

// Validator applies the field rules. Date bounds are configurable so tests
// and deployments can move the plausibility window.
type Validator struct {
	MinYear int
	MaxYear int
}

// New returns a Validator with the default plausibility window.
func New() *Validator {
	return &Validator{MinYear: 2000, MaxYear: 2026}
}

// Validate applies the rule for field to a raw candidate value.
func (v *Validator) Validate(field constants.Field, raw string) Result {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return reject(constants.ReasonEmptyCandidate)
	}
	switch field {
	case constants.FieldCID:
		return validateCID(raw)
	case constants.FieldDoctor:
		return validateDoctor(raw)
	case constants.FieldIssueDate:
		return v.validateDate(raw)
	case constants.FieldRestDays:
		return validateDays(raw)
	}
	return reject(constants.ReasonShapeMismatch)
}

var reCIDShape = regexp.MustCompile(`^[A-Z]\d{2,3}(?:\.\d{1,2})?$`)

func validateCID(raw string) Result {
	cid := strings.ToUpper(raw)
	if !reCIDShape.MatchString(cid) {
		return reject(constants.ReasonShapeMismatch)
	}
	if !constants.ValidCIDCategory(rune(cid[0])) {
		return reject(constants.ReasonOutOfRange)
	}
	return accept(cid)
}

var (
	reCRMNoise      = regexp.MustCompile(`(?i)\s*CRM.*$`)
	reTrailingDigit = regexp.MustCompile(`\s*\d+.*$`)
)

func validateDoctor(raw string) Result {
	name := reCRMNoise.ReplaceAllString(raw, "")
	name = reTrailingDigit.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if name == "" {
		return reject(constants.ReasonEmptyCandidate)
	}
	words := strings.Fields(name)
	if len(words) < 2 {
		return reject(constants.ReasonShapeMismatch)
	}
	for _, w := range words {
		r := []rune(w)[0]
		if !unicode.IsUpper(r) {
			return reject(constants.ReasonShapeMismatch)
		}
	}
	return accept(strings.Join(words, " "))
}

var dateLayouts = []string{"02/01/2006", "02-01-2006", "2006-01-02"}

func (v *Validator) validateDate(raw string) Result {
	for _, layout := range dateLayouts {
		d, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if d.Year() < v.MinYear || d.Year() > v.MaxYear {
			return reject(constants.ReasonImplausibleDate)
		}
		return accept(d.Format("02/01/2006"))
	}
	return reject(constants.ReasonShapeMismatch)
}

func validateDays(raw string) Result {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return reject(constants.ReasonShapeMismatch)
	}
	if n < 1 || n > 365 {
		return reject(constants.ReasonOutOfRange)
	}
	return accept(strconv.Itoa(n))
}
