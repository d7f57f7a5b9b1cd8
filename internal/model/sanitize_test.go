package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFields(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestSanitizeFieldsJSONPassthrough(t *testing.T) {
	raw := []byte(`{"cid":"J00","medico":"João Silva","data_emissao":"15/01/2025","dias_repouso":5,"confidence":0.9}`)

	out, dropped, err := SanitizeFieldsJSON(raw, nil)
	require.NoError(t, err)
	assert.Empty(t, dropped)

	m := decodeFields(t, out)
	assert.Equal(t, "J00", m["cid"])
	assert.Equal(t, "João Silva", m["medico"])
	assert.Equal(t, float64(5), m["dias_repouso"])
}

func TestSanitizeFieldsJSONCoercions(t *testing.T) {
	raw := []byte(`{"cid":" j00 ","dias_repouso":"5 dias"}`)

	out, dropped, err := SanitizeFieldsJSON(raw, nil)
	require.NoError(t, err)
	assert.Contains(t, dropped, "dias_repouso(coerced)")

	m := decodeFields(t, out)
	assert.Equal(t, "J00", m["cid"])
	assert.Equal(t, float64(5), m["dias_repouso"])
}

func TestSanitizeFieldsJSONDropsJunk(t *testing.T) {
	raw := []byte(`{"cid":null,"medico":"  ","dias_repouso":"muitos","observacao":"x"}`)

	out, dropped, err := SanitizeFieldsJSON(raw, nil)
	require.NoError(t, err)
	assert.Contains(t, dropped, "cid(null)")
	assert.Contains(t, dropped, "medico(empty)")
	assert.Contains(t, dropped, "dias_repouso(type)")
	assert.Contains(t, dropped, "observacao(unknown)")

	m := decodeFields(t, out)
	assert.Empty(t, m)
}

func TestSanitizeFieldsJSONRejectsNonObject(t *testing.T) {
	_, _, err := SanitizeFieldsJSON([]byte(`["not","an","object"]`), nil)
	assert.Error(t, err)
}

func TestFieldsSchemaAcceptsSanitizedOutput(t *testing.T) {
	schema := BuildFieldsJSONSchema()

	raw := []byte(`{"cid":"j00","medico":"João Silva","data_emissao":"15/01/2025","dias_repouso":"5 dias","extra":true}`)
	out, _, err := SanitizeFieldsJSON(raw, nil)
	require.NoError(t, err)

	assert.NoError(t, ValidateAgainstSchema(schema, out))
}

func TestFieldsSchemaRejectsBadShapes(t *testing.T) {
	schema := BuildFieldsJSONSchema()

	cases := map[string]string{
		"lowercase cid":     `{"cid":"j00"}`,
		"days out of range": `{"dias_repouso":400}`,
		"unknown key":       `{"diagnostico":"J00"}`,
		"bad date layout":   `{"data_emissao":"2025-01-15"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidateAgainstSchema(schema, []byte(payload)))
		})
	}
}

func TestFieldsSchemaAcceptsPartialPayload(t *testing.T) {
	schema := BuildFieldsJSONSchema()
	assert.NoError(t, ValidateAgainstSchema(schema, []byte(`{"cid":"M54.5"}`)))
	assert.NoError(t, ValidateAgainstSchema(schema, []byte(`{}`)))
}
