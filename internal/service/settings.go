package service

import (
	"context"
	"encoding/json"
	"fmt"

	"indyscope/internal/models"
	"indyscope/internal/store"
)

const settingsKey = "settings"

// SettingsService persists the user policy snapshot across runs. Absent
// or unreadable stored settings fall back to defaults.
type SettingsService struct {
	Store store.Store
}

func (s *SettingsService) Load(ctx context.Context) models.Settings {
	settings := models.DefaultSettings()
	raw, ok := s.Store.Get(ctx, settingsKey)
	if !ok {
		return settings
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return models.DefaultSettings()
	}
	return settings
}

func (s *SettingsService) Save(ctx context.Context, settings models.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return s.Store.Set(ctx, settingsKey, raw)
}
