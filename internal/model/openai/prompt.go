package openai

import "strings"

const systemPrompt = `Você extrai campos estruturados de atestados médicos brasileiros a partir de texto de OCR ruidoso.
Responda SOMENTE com um objeto JSON com as chaves opcionais:
- "cid": código CID-10 do diagnóstico (ex.: "J00", "M54.5")
- "medico": nome completo do médico, sem prefixo Dr./Dra. e sem CRM
- "data_emissao": data de emissão no formato DD/MM/YYYY
- "dias_repouso": número inteiro de dias de repouso (1 a 365)
- "confidence": sua confiança geral entre 0 e 1
Omita qualquer chave cujo valor você não encontrar no texto. Não invente valores.`

func buildUserPrompt(ocrText string) string {
	var b strings.Builder
	b.WriteString("Texto do atestado (OCR):\n---\n")
	b.WriteString(ocrText)
	b.WriteString("\n---\nRetorne apenas o JSON.")
	return b.String()
}
