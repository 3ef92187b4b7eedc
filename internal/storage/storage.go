// Package storage persists whole collections as JSON documents under fixed
// keys of a kv.Store. Every write overwrites the complete collection.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Tiliavir/shiftbase/internal/kv"
	"github.com/Tiliavir/shiftbase/internal/logger"
	"github.com/Tiliavir/shiftbase/internal/model"
)

// Storage keys.
const (
	KeyEntries  = "@shiftbase/entries"
	KeyProjects = "@shiftbase/projects"
	KeySettings = "@shiftbase/settings"
	KeyTheme    = "@shiftbase/theme"
	KeyLanguage = "@shiftbase/language"
	KeyLastSync = "@shiftbase/lastSync"
	KeyVersion  = "@shiftbase/version"
)

// Keys lists every key ClearAll removes.
var Keys = []string{
	KeyEntries, KeyProjects, KeySettings, KeyTheme, KeyLanguage, KeyLastSync, KeyVersion,
}

// ErrInvalidImport is returned when import data has the wrong shape.
var ErrInvalidImport = errors.New("invalid import data")

// ExportDateLayout formats ExportData.ExportDate.
const ExportDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Storage reads and writes the persisted collections.
type Storage struct {
	kv  kv.Store
	now func() time.Time
}

// New wraps store.
func New(store kv.Store) *Storage {
	return &Storage{kv: store, now: time.Now}
}

// KV returns the underlying key-value store.
func (s *Storage) KV() kv.Store { return s.kv }

// load decodes the value at key into out. It reports whether a value was
// decoded; absence and errors leave out untouched. Unparseable values are
// copied to key+".corrupt" before being ignored.
func (s *Storage) load(ctx context.Context, key string, out any) bool {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		logger.Error("storage read failed", "key", key, "err", err)
		return false
	}
	if !found || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		backupKey := key + ".corrupt"
		if setErr := s.kv.Set(ctx, backupKey, raw); setErr != nil {
			logger.Error("backing up corrupt value failed", "key", backupKey, "err", setErr)
		}
		logger.Warn("corrupt JSON ignored", "key", key, "backup", backupKey, "err", err)
		return false
	}
	return true
}

func (s *Storage) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage error marshalling %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		logger.Error("storage write failed", "key", key, "err", err)
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// LoadEntries returns the persisted entries, or an empty slice.
func (s *Storage) LoadEntries(ctx context.Context) []model.Entry {
	var entries []model.Entry
	if !s.load(ctx, KeyEntries, &entries) || entries == nil {
		return []model.Entry{}
	}
	return entries
}

// SaveEntries overwrites the entries collection.
func (s *Storage) SaveEntries(ctx context.Context, entries []model.Entry) error {
	if entries == nil {
		entries = []model.Entry{}
	}
	return s.save(ctx, KeyEntries, entries)
}

// LoadProjects returns the persisted projects, or an empty slice.
func (s *Storage) LoadProjects(ctx context.Context) []model.Project {
	var projects []model.Project
	if !s.load(ctx, KeyProjects, &projects) || projects == nil {
		return []model.Project{}
	}
	return projects
}

// SaveProjects overwrites the projects collection.
func (s *Storage) SaveProjects(ctx context.Context, projects []model.Project) error {
	if projects == nil {
		projects = []model.Project{}
	}
	return s.save(ctx, KeyProjects, projects)
}

// LoadSettings returns the persisted settings, or defaults.
func (s *Storage) LoadSettings(ctx context.Context) model.Settings {
	var settings model.Settings
	if !s.load(ctx, KeySettings, &settings) {
		return model.DefaultSettings(s.now().UnixMilli())
	}
	return settings
}

// SaveSettings overwrites the settings and keeps the theme and language keys
// in step with them.
func (s *Storage) SaveSettings(ctx context.Context, settings model.Settings) error {
	if err := s.save(ctx, KeySettings, settings); err != nil {
		return err
	}
	if err := s.setRaw(ctx, KeyTheme, string(settings.Theme)); err != nil {
		return err
	}
	return s.setRaw(ctx, KeyLanguage, string(settings.Language))
}

func (s *Storage) getRaw(ctx context.Context, key string) (string, bool) {
	v, found, err := s.kv.Get(ctx, key)
	if err != nil {
		logger.Error("storage read failed", "key", key, "err", err)
		return "", false
	}
	return v, found
}

func (s *Storage) setRaw(ctx context.Context, key, value string) error {
	if err := s.kv.Set(ctx, key, value); err != nil {
		logger.Error("storage write failed", "key", key, "err", err)
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Theme returns the stored theme, falling back to the default.
func (s *Storage) Theme(ctx context.Context) model.Theme {
	if v, ok := s.getRaw(ctx, KeyTheme); ok && model.Theme(v).Valid() {
		return model.Theme(v)
	}
	return model.ThemeLight
}

// SetTheme stores the theme key only.
func (s *Storage) SetTheme(ctx context.Context, theme model.Theme) error {
	return s.setRaw(ctx, KeyTheme, string(theme))
}

// Language returns the stored language, falling back to the default.
func (s *Storage) Language(ctx context.Context) model.Language {
	if v, ok := s.getRaw(ctx, KeyLanguage); ok && model.Language(v).Valid() {
		return model.Language(v)
	}
	return model.LanguageEnglish
}

// SetLanguage stores the language key only.
func (s *Storage) SetLanguage(ctx context.Context, lang model.Language) error {
	return s.setRaw(ctx, KeyLanguage, string(lang))
}

// LastSync returns the time of the last successful write in Unix
// milliseconds. ok is false when nothing has been written yet.
func (s *Storage) LastSync(ctx context.Context) (ms int64, ok bool) {
	v, found := s.getRaw(ctx, KeyLastSync)
	if !found {
		return 0, false
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logger.Warn("ignoring malformed lastSync", "value", v)
		return 0, false
	}
	return ms, true
}

// SetLastSync stores ms as the last sync time.
func (s *Storage) SetLastSync(ctx context.Context, ms int64) error {
	return s.setRaw(ctx, KeyLastSync, strconv.FormatInt(ms, 10))
}

// Version returns the stored data version, or "" when unset.
func (s *Storage) Version(ctx context.Context) string {
	v, _ := s.getRaw(ctx, KeyVersion)
	return v
}

// SetVersion stores the data version.
func (s *Storage) SetVersion(ctx context.Context, version string) error {
	return s.setRaw(ctx, KeyVersion, version)
}

// ClearAll removes every key.
func (s *Storage) ClearAll(ctx context.Context) error {
	if err := s.kv.Delete(ctx, Keys...); err != nil {
		logger.Error("clearing storage failed", "err", err)
		return fmt.Errorf("clearing storage: %w", err)
	}
	return nil
}

// ExportData builds an export envelope from the persisted collections.
func (s *Storage) ExportData(ctx context.Context) model.ExportData {
	return NewExport(
		s.LoadEntries(ctx),
		s.LoadProjects(ctx),
		s.LoadSettings(ctx),
		s.now(),
	)
}

// NewExport assembles an export envelope stamped with now.
func NewExport(entries []model.Entry, projects []model.Project, settings model.Settings, now time.Time) model.ExportData {
	if entries == nil {
		entries = []model.Entry{}
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return model.ExportData{
		Entries:    entries,
		Projects:   projects,
		Settings:   settings,
		ExportDate: now.UTC().Format(ExportDateLayout),
		Version:    model.DataVersion,
	}
}

// ParseImport validates the shape of raw export JSON and decodes it.
// entries and projects must be arrays and settings an object.
func ParseImport(raw []byte) (model.ExportData, error) {
	var parts map[string]json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return model.ExportData{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	checks := []struct {
		name string
		open byte
		kind string
	}{
		{"entries", '[', "an array"},
		{"projects", '[', "an array"},
		{"settings", '{', "an object"},
	}
	for _, c := range checks {
		v := bytes.TrimSpace(parts[c.name])
		if len(v) == 0 || v[0] != c.open {
			return model.ExportData{}, fmt.Errorf("%w: %s must be %s", ErrInvalidImport, c.name, c.kind)
		}
	}

	var data model.ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.ExportData{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return data, nil
}

// WriteAll overwrites all three collections.
func (s *Storage) WriteAll(ctx context.Context, entries []model.Entry, projects []model.Project, settings model.Settings) error {
	if err := s.SaveEntries(ctx, entries); err != nil {
		return err
	}
	if err := s.SaveProjects(ctx, projects); err != nil {
		return err
	}
	return s.SaveSettings(ctx, settings)
}
