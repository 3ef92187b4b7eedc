// Package tracker owns the in-memory entries, projects and settings for the
// lifetime of a process and writes every mutation through to storage.
//
// Mutations update memory first and then persist the whole collection. When
// a write fails the error is returned and memory stays ahead of storage until
// the next successful write.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Tiliavir/shiftbase/internal/backup"
	"github.com/Tiliavir/shiftbase/internal/kv"
	"github.com/Tiliavir/shiftbase/internal/logger"
	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/stats"
	"github.com/Tiliavir/shiftbase/internal/storage"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
)

// ErrNotFound is wrapped by lookups and mutations of unknown IDs.
var ErrNotFound = errors.New("not found")

// Tracker is the store object the CLI works against.
type Tracker struct {
	store   *storage.Storage
	backups *backup.Manager
	now     func() time.Time

	entries  []model.Entry
	projects []model.Project
	settings model.Settings
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithBackups enables automatic backups into m when settings ask for them.
func WithBackups(m *backup.Manager) Option {
	return func(t *Tracker) { t.backups = m }
}

// Open loads all collections from store. The tracker takes ownership of
// store and closes it in Close.
func Open(ctx context.Context, store kv.Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{store: storage.New(store), now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	t.Reload(ctx)

	if t.store.Version(ctx) == "" {
		if err := t.store.SetVersion(ctx, model.DataVersion); err != nil {
			return nil, err
		}
	}
	logger.Debug("tracker opened", "entries", len(t.entries), "projects", len(t.projects))
	return t, nil
}

// Close releases the underlying store.
func (t *Tracker) Close() error {
	return t.store.KV().Close()
}

// Reload replaces memory with what storage currently holds.
func (t *Tracker) Reload(ctx context.Context) {
	t.entries = t.store.LoadEntries(ctx)
	t.projects = t.store.LoadProjects(ctx)
	t.settings = t.store.LoadSettings(ctx)
}

// Storage exposes the persistence layer.
func (t *Tracker) Storage() *storage.Storage { return t.store }

func (t *Tracker) nowMillis() int64 { return timecalc.NowMillis(t.now()) }

// Entries returns a copy of all entries, most recently added first.
func (t *Tracker) Entries() []model.Entry { return slices.Clone(t.entries) }

// Projects returns a copy of all projects, most recently added first.
func (t *Tracker) Projects() []model.Project { return slices.Clone(t.projects) }

// Settings returns the current settings.
func (t *Tracker) Settings() model.Settings { return t.settings }

// LastSync returns the time of the last successful mutation.
func (t *Tracker) LastSync(ctx context.Context) (time.Time, bool) {
	ms, ok := t.store.LastSync(ctx)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// Export builds an export envelope from memory.
func (t *Tracker) Export() model.ExportData {
	return storage.NewExport(t.Entries(), t.Projects(), t.settings, t.now())
}

// committed runs after every successful mutation.
func (t *Tracker) committed(ctx context.Context) {
	if err := t.store.SetLastSync(ctx, t.nowMillis()); err != nil {
		logger.Warn("could not record last sync", "err", err)
	}
	t.autoBackup()
}

func (t *Tracker) autoBackup() {
	if t.backups == nil || !t.settings.AutoBackup {
		return
	}
	latest, ok, err := t.backups.Latest()
	if err != nil {
		logger.Warn("listing backups failed", "err", err)
		return
	}
	var last time.Time
	if ok {
		last = latest.Created
	}
	if !backup.Due(last, t.settings.BackupFrequency, t.now()) {
		return
	}
	path, err := t.backups.Create(t.Export())
	if err != nil {
		logger.Error("automatic backup failed", "err", err)
		return
	}
	logger.Info("automatic backup written", "path", path)
}

// SaveSettings validates and stores s.
func (t *Tracker) SaveSettings(ctx context.Context, s model.Settings) (model.Settings, error) {
	if err := checkSettings(s); err != nil {
		return t.settings, err
	}
	s.CreatedAt = t.settings.CreatedAt
	s.UpdatedAt = t.nowMillis()
	t.settings = s
	if err := t.store.SaveSettings(ctx, s); err != nil {
		return s, err
	}
	t.committed(ctx)
	return s, nil
}

func checkSettings(s model.Settings) error {
	switch {
	case !s.Theme.Valid():
		return fmt.Errorf("unknown theme %q", s.Theme)
	case !s.Language.Valid():
		return fmt.Errorf("unknown language %q", s.Language)
	case !s.DefaultCategory.Valid():
		return fmt.Errorf("unknown category %q", s.DefaultCategory)
	case !s.BackupFrequency.Valid():
		return fmt.Errorf("unknown backup frequency %q", s.BackupFrequency)
	case s.DefaultBreakTime < 0 || s.DefaultBreakTime >= 1440:
		return fmt.Errorf("default break %d must be between 0 and 1439 minutes", s.DefaultBreakTime)
	}
	return nil
}

// SetTheme changes only the theme.
func (t *Tracker) SetTheme(ctx context.Context, theme model.Theme) error {
	s := t.settings
	s.Theme = theme
	_, err := t.SaveSettings(ctx, s)
	return err
}

// SetLanguage changes only the language.
func (t *Tracker) SetLanguage(ctx context.Context, lang model.Language) error {
	s := t.settings
	s.Language = lang
	_, err := t.SaveSettings(ctx, s)
	return err
}

// Import replaces all three collections with data.
func (t *Tracker) Import(ctx context.Context, data model.ExportData) error {
	t.entries = slices.Clone(data.Entries)
	t.projects = slices.Clone(data.Projects)
	t.settings = data.Settings
	if t.entries == nil {
		t.entries = []model.Entry{}
	}
	if t.projects == nil {
		t.projects = []model.Project{}
	}
	if err := t.store.WriteAll(ctx, t.entries, t.projects, t.settings); err != nil {
		return err
	}
	t.committed(ctx)
	logger.Info("data imported", "entries", len(t.entries), "projects", len(t.projects))
	return nil
}

// Reset deletes all stored data and returns memory to defaults.
func (t *Tracker) Reset(ctx context.Context) error {
	t.entries = []model.Entry{}
	t.projects = []model.Project{}
	t.settings = model.DefaultSettings(t.nowMillis())
	if err := t.store.ClearAll(ctx); err != nil {
		return err
	}
	logger.Info("all data cleared")
	return t.store.SetVersion(ctx, model.DataVersion)
}

// refreshProject recomputes the denormalised totals of project id. touch
// also marks the project as just used.
func (t *Tracker) refreshProject(id string, touch bool) bool {
	i := slices.IndexFunc(t.projects, func(p model.Project) bool { return p.ID == id })
	if i < 0 {
		return false
	}
	pt := stats.ProjectStats(t.entries, id)
	t.projects[i].TotalHours = pt.TotalHours
	t.projects[i].EntryCount = pt.EntryCount
	if touch {
		now := t.nowMillis()
		t.projects[i].LastUsed = &now
	}
	return true
}
