package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Tiliavir/shiftbase/internal/kv"
	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/storage"
)

func strPtr(s string) *string { return &s }

func sampleEntries() []model.Entry {
	return []model.Entry{
		{
			ID: "e1", Date: "2024-03-04", StartTime: "09:00", EndTime: "17:00",
			Description: "Feature work", ProjectID: strPtr("p1"), Category: model.CategoryWork,
			BreakTime: 30, Hours: 7.5, CreatedAt: 1, UpdatedAt: 2,
		},
		{
			ID: "e2", Date: "2024-03-05", StartTime: "22:00", EndTime: "06:00",
			Description: "Night shift", Category: model.CategoryOvertime,
			Location: "Plant", Notes: "quiet", Hours: 8, CreatedAt: 3, UpdatedAt: 3,
		},
	}
}

func TestLoadDefaultsOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	s := storage.New(kv.NewMemoryStore())

	entries := s.LoadEntries(ctx)
	if entries == nil || len(entries) != 0 {
		t.Errorf("LoadEntries = %#v, want empty non-nil slice", entries)
	}
	if projects := s.LoadProjects(ctx); projects == nil || len(projects) != 0 {
		t.Errorf("LoadProjects = %#v, want empty non-nil slice", projects)
	}

	settings := s.LoadSettings(ctx)
	if settings.Theme != model.ThemeLight || settings.Language != model.LanguageEnglish ||
		settings.DefaultCategory != model.CategoryWork || settings.BackupFrequency != model.BackupWeekly {
		t.Errorf("LoadSettings defaults = %+v", settings)
	}
	if !settings.SoundEnabled || !settings.HapticEnabled || settings.AutoBackup {
		t.Errorf("LoadSettings toggles = %+v", settings)
	}

	if _, ok := s.LastSync(ctx); ok {
		t.Error("LastSync should be unset")
	}
	if v := s.Version(ctx); v != "" {
		t.Errorf("Version = %q, want empty", v)
	}
}

func TestEntriesRoundTripOnDisk(t *testing.T) {
	ctx := context.Background()
	fs, err := kv.NewFileStore(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatal(err)
	}
	s := storage.New(fs)

	want := sampleEntries()
	if err := s.SaveEntries(ctx, want); err != nil {
		t.Fatalf("SaveEntries: %v", err)
	}
	got := storage.New(fs).LoadEntries(ctx)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadEntries = %+v\nwant %+v", got, want)
	}
}

func TestSaveSettingsMirrorsThemeAndLanguage(t *testing.T) {
	ctx := context.Background()
	s := storage.New(kv.NewMemoryStore())

	settings := model.DefaultSettings(10)
	settings.Theme = model.ThemeOnyx
	settings.Language = model.LanguageDutch
	if err := s.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	if got := s.LoadSettings(ctx); got != settings {
		t.Errorf("LoadSettings = %+v, want %+v", got, settings)
	}
	if got := s.Theme(ctx); got != model.ThemeOnyx {
		t.Errorf("Theme = %q", got)
	}
	if got := s.Language(ctx); got != model.LanguageDutch {
		t.Errorf("Language = %q", got)
	}

	if err := s.SetTheme(ctx, model.ThemeDark); err != nil {
		t.Fatal(err)
	}
	if got := s.Theme(ctx); got != model.ThemeDark {
		t.Errorf("Theme after SetTheme = %q", got)
	}
}

func TestCorruptValueIsBackedUpAndIgnored(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	if err := mem.Set(ctx, storage.KeyEntries, "{bad json"); err != nil {
		t.Fatal(err)
	}
	s := storage.New(mem)

	if got := s.LoadEntries(ctx); len(got) != 0 {
		t.Errorf("LoadEntries on corrupt value = %+v, want empty", got)
	}
	backup, found, _ := mem.Get(ctx, storage.KeyEntries+".corrupt")
	if !found || backup != "{bad json" {
		t.Errorf("corrupt backup = %q (found %v)", backup, found)
	}
}

func TestLastSyncAndVersion(t *testing.T) {
	ctx := context.Background()
	s := storage.New(kv.NewMemoryStore())

	if err := s.SetLastSync(ctx, 1709546400000); err != nil {
		t.Fatal(err)
	}
	if ms, ok := s.LastSync(ctx); !ok || ms != 1709546400000 {
		t.Errorf("LastSync = %d, %v", ms, ok)
	}
	if err := s.SetVersion(ctx, model.DataVersion); err != nil {
		t.Fatal(err)
	}
	if v := s.Version(ctx); v != "1.0.0" {
		t.Errorf("Version = %q", v)
	}
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	s := storage.New(mem)

	if err := s.WriteAll(ctx, sampleEntries(), []model.Project{{ID: "p1", Name: "Alpha"}}, model.DefaultSettings(1)); err != nil {
		t.Fatal(err)
	}
	_ = s.SetLastSync(ctx, 5)
	_ = s.SetVersion(ctx, model.DataVersion)

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	for _, k := range storage.Keys {
		if _, found, _ := mem.Get(ctx, k); found {
			t.Errorf("key %s survived ClearAll", k)
		}
	}
}

func TestNewExportEnvelope(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)
	data := storage.NewExport(nil, nil, model.DefaultSettings(1), now)

	if data.ExportDate != "2024-03-05T10:20:30.000Z" {
		t.Errorf("ExportDate = %q", data.ExportDate)
	}
	if data.Version != model.DataVersion {
		t.Errorf("Version = %q", data.Version)
	}
	if data.Entries == nil || data.Projects == nil {
		t.Error("nil collections should become empty slices")
	}
}

func TestParseImportValidation(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"entries":[],"projects":[],"settings":{"theme":"dark"}}`, false},
		{"not json", `{entries`, true},
		{"entries object", `{"entries":{},"projects":[],"settings":{}}`, true},
		{"projects missing", `{"entries":[],"settings":{}}`, true},
		{"settings array", `{"entries":[],"projects":[],"settings":[]}`, true},
		{"settings null", `{"entries":[],"projects":[],"settings":null}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := storage.ParseImport([]byte(tt.raw))
			if tt.wantErr {
				if !errors.Is(err, storage.ErrInvalidImport) {
					t.Errorf("ParseImport error = %v, want ErrInvalidImport", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseImport: %v", err)
			}
		})
	}
}

func TestWriteAllReplacesCollections(t *testing.T) {
	ctx := context.Background()
	s := storage.New(kv.NewMemoryStore())
	if err := s.SaveEntries(ctx, sampleEntries()); err != nil {
		t.Fatal(err)
	}

	raw := `{"entries":[{"id":"x","date":"2024-01-01","startTime":"08:00","endTime":"12:00",
		"description":"Imported","projectId":null,"category":"work","breakTime":0,
		"location":"","notes":"","hours":4,"createdAt":1,"updatedAt":1}],
		"projects":[],"settings":{"theme":"dark","language":"pl","defaultCategory":"work",
		"defaultBreakTime":15,"soundEnabled":false,"hapticEnabled":true,"autoBackup":true,
		"backupFrequency":"daily","createdAt":1,"updatedAt":1},"exportDate":"x","version":"1.0.0"}`

	data, err := storage.ParseImport([]byte(raw))
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}
	if len(data.Entries) != 1 {
		t.Fatalf("parsed %d entries", len(data.Entries))
	}
	if err := s.WriteAll(ctx, data.Entries, data.Projects, data.Settings); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	entries := s.LoadEntries(ctx)
	if len(entries) != 1 || entries[0].ID != "x" || entries[0].Hours != 4 {
		t.Errorf("entries after import = %+v", entries)
	}
	if got := s.LoadSettings(ctx); got.Language != model.LanguagePolish || got.DefaultBreakTime != 15 {
		t.Errorf("settings after import = %+v", got)
	}
	if got := s.Language(ctx); got != model.LanguagePolish {
		t.Errorf("language key after import = %q", got)
	}
}
