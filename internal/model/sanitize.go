package model

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// SanitizeFieldsJSON prepares a raw model payload for schema validation:
// drops null/empty values and unknown keys, coerces numeric strings for
// dias_repouso to integers, uppercases the CID. Returns the cleaned JSON and
// the list of keys that were dropped or rewritten.
func SanitizeFieldsJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var dropped []string
	drop := func(k, why string) {
		delete(m, k)
		dropped = append(dropped, k+"("+why+")")
	}

	allowed := map[string]struct{}{
		"cid": {}, "medico": {}, "data_emissao": {}, "dias_repouso": {}, "confidence": {},
	}
	for k := range m {
		if _, ok := allowed[k]; !ok {
			drop(k, "unknown")
		}
	}

	for _, k := range []string{"cid", "medico", "data_emissao"} {
		switch t := m[k].(type) {
		case nil:
			if _, present := m[k]; present {
				drop(k, "null")
			}
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				drop(k, "empty")
			} else {
				m[k] = s
			}
		}
	}
	if v, ok := m["cid"].(string); ok {
		m["cid"] = strings.ToUpper(v)
	}

	// dias_repouso may come back as "5", "5 dias" or 5.0
	switch t := m["dias_repouso"].(type) {
	case float64:
		m["dias_repouso"] = int(t)
	case string:
		s := strings.TrimSpace(t)
		if i := strings.IndexByte(s, ' '); i > 0 {
			s = s[:i]
		}
		if n, err := strconv.Atoi(s); err == nil {
			m["dias_repouso"] = n
			dropped = append(dropped, "dias_repouso(coerced)")
		} else {
			drop("dias_repouso", "type")
		}
	case nil:
		if _, present := m["dias_repouso"]; present {
			drop("dias_repouso", "null")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("model.extract.sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}
