package extract

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atestado-tools/atestado-reader/constants"
)

// FieldResult is the outcome for one field after tiered arbitration.
type FieldResult struct {
	State      constants.FieldState
	Value      string // normalized value when resolved
	Date       time.Time
	Days       int
	Confidence float32
	Tier       constants.Tier   // provenance when resolved
	Reason     constants.Reason // last rejection reason when unresolved
}

// Resolved reports whether the field reached a value.
func (fr FieldResult) Resolved() bool {
	return fr.State == constants.FieldResolved
}

// Record is the structured result for one document. Immutable after the
// pipeline returns it; owned by the caller.
type Record struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	Fields      map[constants.Field]FieldResult
	NeedsReview bool
}

func newRecord() Record {
	return Record{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Fields:    make(map[constants.Field]FieldResult, len(constants.AllFields)),
	}
}

// Field returns the result for f (zero FieldResult when absent).
func (r Record) Field(f constants.Field) FieldResult {
	return r.Fields[f]
}

// ResolvedCount returns how many fields reached a value.
func (r Record) ResolvedCount() int {
	n := 0
	for _, fr := range r.Fields {
		if fr.Resolved() {
			n++
		}
	}
	return n
}

// Not-found hints shown to the reviewer, kept from the original tool.
var unresolvedHints = map[constants.Field]string{
	constants.FieldCID:       "CID não foi encontrado. Verifique se o texto está legível ou se segue o padrão CID-10 (ex.: J00, M54.5).",
	constants.FieldDoctor:    "Nome do médico não foi encontrado. Certifique-se de que o prefixo 'Dr.' ou 'Dra.' esteja presente e legível.",
	constants.FieldIssueDate: "Data de emissão não foi encontrada. A imagem pode estar ilegível ou sem a expressão 'emitido em'.",
	constants.FieldRestDays:  "Dias de repouso não foram encontrados. Verifique se a quantidade está indicada de forma numérica no atestado.",
}

// Display formats the field for end users: the value ("5 dias de repouso"
// for rest days) when resolved, the not-found hint otherwise.
func (r Record) Display(f constants.Field) string {
	fr, ok := r.Fields[f]
	if !ok || !fr.Resolved() {
		return unresolvedHints[f]
	}
	if f == constants.FieldRestDays {
		suffix := "dias"
		if fr.Days == 1 {
			suffix = "dia"
		}
		return fmt.Sprintf("%d %s de repouso", fr.Days, suffix)
	}
	return fr.Value
}

// DisplayMap renders every field keyed by its history key, matching the
// corrections history and spreadsheet format.
func (r Record) DisplayMap() map[string]string {
	out := make(map[string]string, len(constants.AllFields))
	for _, f := range constants.AllFields {
		out[f.HistoryKey()] = r.Display(f)
	}
	return out
}
