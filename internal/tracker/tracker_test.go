package tracker_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Tiliavir/shiftbase/internal/backup"
	"github.com/Tiliavir/shiftbase/internal/kv"
	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/tracker"
	"github.com/Tiliavir/shiftbase/internal/validate"
)

var fixedNow = time.Date(2024, 3, 6, 18, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func openTracker(t *testing.T, store kv.Store, opts ...tracker.Option) *tracker.Tracker {
	t.Helper()
	opts = append([]tracker.Option{tracker.WithClock(clock)}, opts...)
	tr, err := tracker.Open(context.Background(), store, opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return tr
}

func form(date, start, end string, breakMin int) model.EntryForm {
	return model.EntryForm{
		Date: date, StartTime: start, EndTime: end, BreakTime: breakMin,
		Description: "Work block",
	}
}

// failingStore rejects writes while fail is set.
type failingStore struct {
	*kv.MemoryStore
	fail bool
}

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func TestOpenStampsVersion(t *testing.T) {
	mem := kv.NewMemoryStore()
	tr := openTracker(t, mem)
	if v := tr.Storage().Version(context.Background()); v != model.DataVersion {
		t.Errorf("version = %q, want %q", v, model.DataVersion)
	}
	if s := tr.Settings(); s.Theme != model.ThemeLight || s.BackupFrequency != model.BackupWeekly {
		t.Errorf("default settings = %+v", s)
	}
}

func TestAddEntryComputesHours(t *testing.T) {
	ctx := context.Background()
	tr := openTracker(t, kv.NewMemoryStore())

	day, err := tr.AddEntry(ctx, form("2024-03-04", "09:00", "17:00", 30))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	night, err := tr.AddEntry(ctx, form("2024-03-05", "22:00", "06:00", 0))
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	if day.Hours != 7.5 {
		t.Errorf("09:00-17:00 with 30m break = %v, want 7.5", day.Hours)
	}
	if night.Hours != 8 {
		t.Errorf("22:00-06:00 = %v, want 8", night.Hours)
	}
	if day.Category != model.CategoryWork {
		t.Errorf("category defaulted to %q", day.Category)
	}
	if day.Source != model.SourceManual || day.CreatedAt != fixedNow.UnixMilli() {
		t.Errorf("metadata = %+v", day)
	}

	entries := tr.Entries()
	if len(entries) != 2 || entries[0].ID != night.ID {
		t.Errorf("newest entry should come first, got %+v", entries)
	}
	if ms, ok := tr.Storage().LastSync(ctx); !ok || ms != fixedNow.UnixMilli() {
		t.Errorf("lastSync = %d, %v", ms, ok)
	}
}

func TestAddEntryRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	tr := openTracker(t, kv.NewMemoryStore())

	_, err := tr.AddEntry(ctx, form("2024-13-01", "9", "17:00", 0))
	var verr *validate.Error
	if !errors.As(err, &verr) || len(verr.Problems) != 2 {
		t.Errorf("AddEntry invalid = %v", err)
	}

	f := form("2024-03-04", "09:00", "10:00", 0)
	missing := "nope"
	f.ProjectID = &missing
	if _, err := tr.AddEntry(ctx, f); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("AddEntry unknown project = %v, want ErrNotFound", err)
	}
	if len(tr.Entries()) != 0 {
		t.Error("rejected entries must not be stored")
	}
}

func TestProjectTotalsFollowEntries(t *testing.T) {
	ctx := context.Background()
	tr := openTracker(t, kv.NewMemoryStore())

	alpha, err := tr.AddProject(ctx, "Alpha", "")
	if err != nil {
		t.Fatal(err)
	}
	beta, err := tr.AddProject(ctx, "Beta", "#22c55e")
	if err != nil {
		t.Fatal(err)
	}
	if alpha.Color != model.DefaultProjectColor || beta.Color != "#22C55E" {
		t.Errorf("colours = %s, %s", alpha.Color, beta.Color)
	}

	f := form("2024-03-04", "09:00", "17:00", 30)
	f.ProjectID = &alpha.ID
	e, err := tr.AddEntry(ctx, f)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := tr.Project(alpha.ID)
	if p.TotalHours != 7.5 || p.EntryCount != 1 || p.LastUsed == nil || *p.LastUsed != fixedNow.UnixMilli() {
		t.Errorf("alpha after add = %+v", p)
	}

	f.ProjectID = &beta.ID
	f.EndTime = "13:00"
	if _, err := tr.UpdateEntry(ctx, e.ID, f); err != nil {
		t.Fatal(err)
	}
	a, _ := tr.Project(alpha.ID)
	b, _ := tr.Project(beta.ID)
	if a.TotalHours != 0 || a.EntryCount != 0 {
		t.Errorf("alpha after move = %+v", a)
	}
	if b.TotalHours != 3.5 || b.EntryCount != 1 {
		t.Errorf("beta after move = %+v", b)
	}

	if err := tr.DeleteEntry(ctx, e.ID); err != nil {
		t.Fatal(err)
	}
	b, _ = tr.Project(beta.ID)
	if b.TotalHours != 0 || b.EntryCount != 0 {
		t.Errorf("beta after delete = %+v", b)
	}
}

func TestDeleteProjectNullsReferences(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	tr := openTracker(t, mem)

	p, _ := tr.AddProject(ctx, "Alpha", "")
	other, _ := tr.AddProject(ctx, "Other", "")
	for _, pid := range []string{p.ID, p.ID, other.ID} {
		f := form("2024-03-04", "09:00", "10:00", 0)
		id := pid
		f.ProjectID = &id
		if _, err := tr.AddEntry(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	if err := tr.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}

	// Verify against a fresh tracker so the persisted state is checked.
	reopened := openTracker(t, mem)
	var withOther, without int
	for _, e := range reopened.Entries() {
		switch {
		case e.ProjectID == nil:
			without++
		case *e.ProjectID == other.ID:
			withOther++
		default:
			t.Errorf("entry %s still references %s", e.ID, *e.ProjectID)
		}
	}
	if without != 2 || withOther != 1 {
		t.Errorf("without=%d withOther=%d, want 2 and 1", without, withOther)
	}
	if _, err := reopened.Project(p.ID); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("deleted project still found: %v", err)
	}
}

func TestNotFoundMutations(t *testing.T) {
	ctx := context.Background()
	tr := openTracker(t, kv.NewMemoryStore())

	if _, err := tr.UpdateEntry(ctx, "x", form("2024-03-04", "09:00", "10:00", 0)); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("UpdateEntry = %v", err)
	}
	if err := tr.DeleteEntry(ctx, "x"); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("DeleteEntry = %v", err)
	}
	if _, err := tr.UpdateProject(ctx, "x", "Name", ""); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("UpdateProject = %v", err)
	}
	if err := tr.DeleteProject(ctx, "x"); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("DeleteProject = %v", err)
	}
	if _, err := tr.Entry("x"); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("Entry = %v", err)
	}
}

func TestProjectNames(t *testing.T) {
	ctx := context.Background()
	tr := openTracker(t, kv.NewMemoryStore())

	p, _ := tr.AddProject(ctx, "  Client Work ", "")
	if p.Name != "Client Work" {
		t.Errorf("name not trimmed: %q", p.Name)
	}
	if _, err := tr.AddProject(ctx, "client work", ""); !errors.Is(err, tracker.ErrDuplicateProject) {
		t.Errorf("duplicate AddProject = %v", err)
	}
	if got, err := tr.ResolveProject("CLIENT WORK"); err != nil || got.ID != p.ID {
		t.Errorf("ResolveProject by name = %v, %v", got.ID, err)
	}
	if got, err := tr.ResolveProject(p.ID); err != nil || got.ID != p.ID {
		t.Errorf("ResolveProject by id = %v, %v", got.ID, err)
	}

	q, _ := tr.AddProject(ctx, "Internal", "")
	if _, err := tr.UpdateProject(ctx, q.ID, "Client Work", ""); !errors.Is(err, tracker.ErrDuplicateProject) {
		t.Errorf("rename onto existing name = %v", err)
	}
	renamed, err := tr.UpdateProject(ctx, q.ID, "Internal Tools", "#0EA5E9")
	if err != nil || renamed.Name != "Internal Tools" || renamed.Color != "#0EA5E9" {
		t.Errorf("UpdateProject = %+v, %v", renamed, err)
	}
}

func TestFailedWriteLeavesMemoryAhead(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: kv.NewMemoryStore()}
	tr := openTracker(t, store)

	store.fail = true
	e, err := tr.AddEntry(ctx, form("2024-03-04", "09:00", "10:00", 0))
	if err == nil {
		t.Fatal("AddEntry should report the write failure")
	}
	if _, err := tr.Entry(e.ID); err != nil {
		t.Errorf("memory should keep the entry: %v", err)
	}
	if got := openTracker(t, store.MemoryStore).Entries(); len(got) != 0 {
		t.Errorf("storage should not have the entry yet, got %d", len(got))
	}

	store.fail = false
	if _, err := tr.AddEntry(ctx, form("2024-03-05", "09:00", "10:00", 0)); err != nil {
		t.Fatal(err)
	}
	if got := openTracker(t, store.MemoryStore).Entries(); len(got) != 2 {
		t.Errorf("next successful write should persist both entries, got %d", len(got))
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	tr := openTracker(t, kv.NewMemoryStore())

	s := tr.Settings()
	s.DefaultCategory = model.CategoryOvertime
	s.DefaultBreakTime = 45
	if _, err := tr.SaveSettings(ctx, s); err != nil {
		t.Fatal(err)
	}
	e, _ := tr.AddEntry(ctx, form("2024-03-04", "09:00", "10:00", 0))
	if e.Category != model.CategoryOvertime {
		t.Errorf("default category not applied: %q", e.Category)
	}

	bad := tr.Settings()
	bad.Theme = "neon"
	if _, err := tr.SaveSettings(ctx, bad); err == nil {
		t.Error("unknown theme should be rejected")
	}

	if err := tr.SetTheme(ctx, model.ThemeOnyx); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetLanguage(ctx, model.LanguageDutch); err != nil {
		t.Fatal(err)
	}
	if got := tr.Storage().Theme(ctx); got != model.ThemeOnyx {
		t.Errorf("theme key = %q", got)
	}
	if got := tr.Storage().Language(ctx); got != model.LanguageDutch {
		t.Errorf("language key = %q", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openTracker(t, kv.NewMemoryStore())
	p, _ := src.AddProject(ctx, "Alpha", "")
	f := form("2024-03-04", "09:00", "17:00", 30)
	f.ProjectID = &p.ID
	_, _ = src.AddEntry(ctx, f)
	_, _ = src.AddEntry(ctx, form("2024-03-05", "22:00", "06:00", 0))
	data := src.Export()

	dst := openTracker(t, kv.NewMemoryStore())
	if err := dst.Import(ctx, data); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !reflect.DeepEqual(dst.Entries(), src.Entries()) {
		t.Error("entries differ after import")
	}
	if !reflect.DeepEqual(dst.Projects(), src.Projects()) {
		t.Error("projects differ after import")
	}
	if dst.Settings() != src.Settings() {
		t.Error("settings differ after import")
	}
}

func TestUpdateEntryKeepsDanglingProject(t *testing.T) {
	ctx := context.Background()
	tr := openTracker(t, kv.NewMemoryStore())
	gone := "gone"
	imported := model.Entry{
		ID: "e1", Date: "2024-03-04", StartTime: "09:00", EndTime: "17:00",
		Description: "Legacy", ProjectID: &gone, Category: model.CategoryWork,
		Hours: 8, Source: model.SourceManual,
	}
	if err := tr.Import(ctx, model.ExportData{
		Entries:  []model.Entry{imported},
		Settings: model.DefaultSettings(fixedNow.UnixMilli()),
	}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	f := form("2024-03-04", "09:00", "17:00", 0)
	f.Description = "Legacy"
	f.ProjectID = &gone
	f.Notes = "edited"
	e, err := tr.UpdateEntry(ctx, "e1", f)
	if err != nil {
		t.Fatalf("UpdateEntry keeping the missing project: %v", err)
	}
	if e.Notes != "edited" || e.ProjectID == nil || *e.ProjectID != "gone" {
		t.Errorf("entry = %+v", e)
	}

	other := "missing-too"
	f.ProjectID = &other
	if _, err := tr.UpdateEntry(ctx, "e1", f); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("switching to another missing project: err = %v, want ErrNotFound", err)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	tr := openTracker(t, mem)
	_, _ = tr.AddProject(ctx, "Alpha", "")
	_, _ = tr.AddEntry(ctx, form("2024-03-04", "09:00", "10:00", 0))

	if err := tr.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if len(tr.Entries()) != 0 || len(tr.Projects()) != 0 {
		t.Error("memory not cleared")
	}
	if got := openTracker(t, mem); len(got.Entries()) != 0 || len(got.Projects()) != 0 {
		t.Error("storage not cleared")
	}
	if _, ok := tr.LastSync(ctx); ok {
		t.Error("lastSync should be cleared")
	}
}

func TestAutoBackup(t *testing.T) {
	ctx := context.Background()
	mgr := backup.New(t.TempDir(), backup.WithClock(clock))
	tr := openTracker(t, kv.NewMemoryStore(), tracker.WithBackups(mgr))

	_, _ = tr.AddEntry(ctx, form("2024-03-04", "09:00", "10:00", 0))
	if infos, _ := mgr.List(); len(infos) != 0 {
		t.Fatalf("backup written with autoBackup off: %d", len(infos))
	}

	s := tr.Settings()
	s.AutoBackup = true
	s.BackupFrequency = model.BackupDaily
	if _, err := tr.SaveSettings(ctx, s); err != nil {
		t.Fatal(err)
	}
	_, _ = tr.AddEntry(ctx, form("2024-03-05", "09:00", "10:00", 0))

	infos, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 {
		t.Errorf("expected a single backup within one day, got %d", len(infos))
	}
}
