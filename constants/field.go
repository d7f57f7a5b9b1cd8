package constants

// Field is the canonical name of an extracted certificate field.
type Field string

// Stable values (used as map keys and in logs).
const (
	FieldCID       Field = "CID"
	FieldDoctor    Field = "Médico"
	FieldIssueDate Field = "DataEmissão"
	FieldRestDays  Field = "DiasRepouso"
)

// AllFields lists every field the pipeline extracts, in display order.
var AllFields = []Field{FieldCID, FieldDoctor, FieldIssueDate, FieldRestDays}

// HistoryKey returns the key used for this field in correction history
// entries and spreadsheet headers.
func (f Field) HistoryKey() string {
	switch f {
	case FieldIssueDate:
		return "Data de Emissão"
	case FieldRestDays:
		return "Dias de Repouso"
	default:
		return string(f)
	}
}

// FieldFromHistoryKey is the inverse of HistoryKey.
func FieldFromHistoryKey(key string) (Field, bool) {
	switch key {
	case "CID":
		return FieldCID, true
	case "Médico":
		return FieldDoctor, true
	case "Data de Emissão":
		return FieldIssueDate, true
	case "Dias de Repouso":
		return FieldRestDays, true
	}
	return "", false
}

// Tier identifies which extraction strategy produced a candidate.
type Tier string

const (
	TierModel     Tier = "model"     // neural/LLM extractor
	TierHeuristic Tier = "heuristic" // anchored contextual patterns
	TierRegex     Tier = "regex"     // anchorless baseline patterns
)

// FieldState is the terminal state of a field after arbitration.
type FieldState string

const (
	FieldResolved   FieldState = "RESOLVED"
	FieldUnresolved FieldState = "UNRESOLVED"
)

// Reason explains why a candidate was rejected by validation.
type Reason string

const (
	ReasonOutOfRange      Reason = "OutOfRange"
	ReasonShapeMismatch   Reason = "ShapeMismatch"
	ReasonImplausibleDate Reason = "ImplausibleDate"
	ReasonEmptyCandidate  Reason = "EmptyCandidate"
)
