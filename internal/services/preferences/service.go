// Package preferences persists the display theme and currency.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bobmcallan/cryptodash/internal/common"
	"github.com/bobmcallan/cryptodash/internal/interfaces"
	"github.com/bobmcallan/cryptodash/internal/models"
	"github.com/bobmcallan/cryptodash/internal/notify"
	"github.com/bobmcallan/cryptodash/internal/storage"
	"github.com/bobmcallan/cryptodash/internal/validate"
)

var _ interfaces.PreferencesService = (*Service)(nil)

const msgSaveFailed = "Could not save preferences. Changes are kept for this session only."

// Service implements PreferencesService
type Service struct {
	store    interfaces.KVStore
	notifier interfaces.Notifier
	logger   *common.Logger
	defaults models.Preferences

	mu    sync.RWMutex
	prefs models.Preferences
}

// NewService creates a preferences service. defaultCurrency applies when
// nothing is stored; an unsupported value falls back to usd.
func NewService(store interfaces.KVStore, notifier interfaces.Notifier, logger *common.Logger, defaultCurrency string) *Service {
	defaults := models.DefaultPreferences()
	if c := normalizeCurrency(defaultCurrency); supported(c) {
		defaults.Currency = c
	}
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		defaults: defaults,
		prefs:    defaults,
	}
}

func normalizeCurrency(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

func supported(c string) bool {
	for _, s := range models.SupportedCurrencies {
		if s == c {
			return true
		}
	}
	return false
}

// loadString reads a JSON-encoded string at key. Values written as a bare
// string are accepted as they are.
func (s *Service) loadString(ctx context.Context, key string) (string, bool) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().Err(err).Str("key", key).Msg("Preference unreadable, using default")
		}
		return "", false
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		v = strings.Trim(strings.TrimSpace(string(data)), `"`)
	}
	return v, v != ""
}

// Init loads stored preferences. Unknown values fall back to defaults.
func (s *Service) Init(ctx context.Context) error {
	prefs := s.defaults

	if v, ok := s.loadString(ctx, storage.KeyTheme); ok {
		if t := models.Theme(v); t == models.ThemeDark || t == models.ThemeLight {
			prefs.Theme = t
		} else {
			s.logger.Warn().Str("theme", v).Msg("Unknown stored theme, using default")
		}
	}
	if v, ok := s.loadString(ctx, storage.KeyCurrency); ok {
		if c := normalizeCurrency(v); supported(c) {
			prefs.Currency = c
		} else {
			s.logger.Warn().Str("currency", v).Msg("Unsupported stored currency, using default")
		}
	}

	s.mu.Lock()
	s.prefs = prefs
	s.mu.Unlock()

	s.logger.Debug().Str("theme", string(prefs.Theme)).Str("currency", prefs.Currency).Msg("Preferences loaded")
	return nil
}

func (s *Service) save(ctx context.Context, key, value string) {
	if err := storage.SaveJSON(ctx, s.store, key, value); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to persist preference")
		if s.notifier != nil {
			notify.Error(s.notifier, msgSaveFailed)
		}
	}
}

// Preferences returns the current preferences.
func (s *Service) Preferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

func (s *Service) Theme() models.Theme {
	return s.Preferences().Theme
}

// SetTheme stores theme, which must be dark or light.
func (s *Service) SetTheme(ctx context.Context, theme models.Theme) error {
	if theme != models.ThemeDark && theme != models.ThemeLight {
		return validate.NewValidationError("theme", fmt.Sprintf("Theme must be %s or %s", models.ThemeDark, models.ThemeLight))
	}
	s.mu.Lock()
	s.prefs.Theme = theme
	s.mu.Unlock()

	s.save(ctx, storage.KeyTheme, string(theme))
	return nil
}

// ToggleTheme flips between dark and light and returns the new theme.
func (s *Service) ToggleTheme(ctx context.Context) models.Theme {
	s.mu.Lock()
	next := models.ThemeDark
	if s.prefs.Theme == models.ThemeDark {
		next = models.ThemeLight
	}
	s.prefs.Theme = next
	s.mu.Unlock()

	s.save(ctx, storage.KeyTheme, string(next))
	return next
}

func (s *Service) Currency() string {
	return s.Preferences().Currency
}

// SetCurrency stores the display currency. Codes are case-insensitive.
func (s *Service) SetCurrency(ctx context.Context, currency string) error {
	c := normalizeCurrency(currency)
	if !supported(c) {
		return validate.NewValidationError("currency",
			fmt.Sprintf("Currency must be one of %s", strings.Join(models.SupportedCurrencies, ", ")))
	}
	s.mu.Lock()
	s.prefs.Currency = c
	s.mu.Unlock()

	s.save(ctx, storage.KeyCurrency, c)
	return nil
}
