package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"shopdash/internal/repos"
	"shopdash/internal/validate"
)

type SettingsService struct {
	Settings *repos.SettingsRepo
}

func NewSettingsService(settings *repos.SettingsRepo) *SettingsService {
	return &SettingsService{Settings: settings}
}

// Grouped maps category to key to the stored JSON value.
type Grouped map[string]map[string]json.RawMessage

// Get returns all settings grouped by category, or only one category.
func (s *SettingsService) Get(category string) (Grouped, error) {
	if category != "" {
		c, ok := validate.SettingsCategory(category)
		if !ok {
			return nil, invalid("category", "unknown settings category")
		}
		category = c
	}
	rows, err := s.Settings.List(category)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	out := Grouped{}
	for _, r := range rows {
		if out[r.Category] == nil {
			out[r.Category] = map[string]json.RawMessage{}
		}
		v := json.RawMessage(r.Value)
		if !json.Valid(v) {
			// rows written by hand may hold bare text
			v, _ = json.Marshal(r.Value)
		}
		out[r.Category][r.Key] = v
	}
	return out, nil
}

// Update stores every key of values under category in one transaction.
// Values are kept as compact JSON.
func (s *SettingsService) Update(category string, values map[string]json.RawMessage) error {
	c, ok := validate.SettingsCategory(category)
	if !ok {
		return invalid("category", "required: lowercase letters, digits and _")
	}
	if len(values) == 0 {
		return invalid("settings", "required")
	}
	encoded := make(map[string]string, len(values))
	for k, v := range values {
		if !validate.SettingKey(k) {
			return invalid("settings", fmt.Sprintf("bad key %q", k))
		}
		var buf bytes.Buffer
		if len(v) == 0 || json.Compact(&buf, v) != nil {
			return invalid("settings", fmt.Sprintf("value of %q is not JSON", k))
		}
		encoded[k] = buf.String()
	}
	if err := s.Settings.Upsert(c, encoded); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
