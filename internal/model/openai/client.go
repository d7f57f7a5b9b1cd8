package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atestado-tools/atestado-reader/constants"
	"github.com/atestado-tools/atestado-reader/internal/model"
)

// maxPromptBytes bounds how much OCR text is sent per request.
const maxPromptBytes = 6000

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractAll implements model.Extractor using text-only chat/completions
// with a JSON-schema-constrained response. Every failure path declines
// (false) instead of returning an error: the pipeline treats an unavailable
// model as a degraded mode, not a fault.
func (c *Client) ExtractAll(ctx context.Context, text string) (map[constants.Field]model.Candidate, bool) {
	rid := uuid.New().String()
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	if len(text) > maxPromptBytes {
		text = text[:maxPromptBytes]
	}

	schema := model.BuildFieldsJSONSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildUserPrompt(text)},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	c.logger.Info("model.extract.start",
		"req_id", rid, "model", c.cfg.Model, "text_len", len(text))

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, status, err := model.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil || status < 200 || status >= 300 {
		c.logger.Warn("model.extract.unavailable",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, false
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil || len(cr.Choices) == 0 {
		c.logger.Warn("model.extract.decode_error", "req_id", rid, "error", err)
		return nil, false
	}

	payload := []byte(strings.TrimSpace(cr.Choices[0].Message.Content))
	payload, _, err = model.SanitizeFieldsJSON(payload, c.logger)
	if err != nil {
		c.logger.Warn("model.extract.sanitize_error", "req_id", rid, "error", err)
		return nil, false
	}
	if err := model.ValidateAgainstSchema(schema, payload); err != nil {
		c.logger.Warn("model.extract.schema_mismatch", "req_id", rid, "error", err)
		return nil, false
	}

	var fields struct {
		CID         string  `json:"cid"`
		Medico      string  `json:"medico"`
		DataEmissao string  `json:"data_emissao"`
		DiasRepouso int     `json:"dias_repouso"`
		Confidence  float32 `json:"confidence"`
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		c.logger.Warn("model.extract.decode_error", "req_id", rid, "error", err)
		return nil, false
	}

	conf := fields.Confidence
	if conf <= 0 {
		conf = 0.75
	}
	out := make(map[constants.Field]model.Candidate, 4)
	if fields.CID != "" {
		out[constants.FieldCID] = model.Candidate{Field: constants.FieldCID, Value: fields.CID, Confidence: conf}
	}
	if fields.Medico != "" {
		out[constants.FieldDoctor] = model.Candidate{Field: constants.FieldDoctor, Value: fields.Medico, Confidence: conf}
	}
	if fields.DataEmissao != "" {
		out[constants.FieldIssueDate] = model.Candidate{Field: constants.FieldIssueDate, Value: fields.DataEmissao, Confidence: conf}
	}
	if fields.DiasRepouso > 0 {
		out[constants.FieldRestDays] = model.Candidate{Field: constants.FieldRestDays, Value: strconv.Itoa(fields.DiasRepouso), Confidence: conf}
	}
	if len(out) == 0 {
		return nil, false
	}

	c.logger.Info("model.extract.ok",
		"req_id", rid, "fields", len(out), "confidence", conf,
		"elapsed_ms", time.Since(start).Milliseconds())
	return out, true
}

// TryExtract implements model.Extractor for a single field.
func (c *Client) TryExtract(ctx context.Context, field constants.Field, text string) (model.Candidate, bool) {
	all, ok := c.ExtractAll(ctx, text)
	if !ok {
		return model.Candidate{}, false
	}
	cand, ok := all[field]
	return cand, ok
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
