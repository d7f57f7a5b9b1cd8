package training

import "encoding/json"

// Template returns a pretty-printed JSON batch-import template with two
// illustrative entries, matching the format ImportBatch consumes.
func Template() ([]byte, error) {
	tpl := []map[string]any{
		{
			"text": "Texto extraído do OCR aqui...",
			"corrected": map[string]string{
				"CID":             "J00",
				"Médico":          "João Silva",
				"Data de Emissão": "15/01/2025",
				"Dias de Repouso": "5 dias de repouso",
			},
		},
		{
			"text": "Outro exemplo de texto...",
			"corrected": map[string]string{
				"CID":             "M54.5",
				"Médico":          "Maria Santos",
				"Data de Emissão": "20/01/2025",
				"Dias de Repouso": "10 dias de repouso",
			},
		},
	}
	return json.MarshalIndent(tpl, "", "  ")
}
