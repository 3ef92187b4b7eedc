package msgraph_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/Tiliavir/shiftbase/internal/kv"
	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/msgraph"
	"github.com/Tiliavir/shiftbase/internal/tracker"
)

func makeEvent(id, subject, start, end string) msgraph.CalendarEvent {
	return msgraph.CalendarEvent{
		ID:          id,
		Subject:     subject,
		Sensitivity: "normal",
		ShowAs:      "busy",
		Start:       msgraph.EventTime{DateTime: start, TimeZone: "UTC"},
		End:         msgraph.EventTime{DateTime: end, TimeZone: "UTC"},
	}
}

func newTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	tr, err := tracker.Open(context.Background(), kv.NewMemoryStore())
	if err != nil {
		t.Fatalf("tracker.Open: %v", err)
	}
	return tr
}

func TestMapEventToEntry(t *testing.T) {
	event := makeEvent("ext-id-1", "Sprint Planning", "2026-02-27T09:00:00.0000000", "2026-02-27T10:30:00.0000000")
	event.BodyPreview = "Agenda attached"
	event.Location.DisplayName = "Zoom"

	f, err := msgraph.MapEventToEntry(event, "UTC")
	if err != nil {
		t.Fatalf("MapEventToEntry: %v", err)
	}
	want := model.EntryForm{
		Date: "2026-02-27", StartTime: "09:00", EndTime: "10:30",
		Description: "Sprint Planning", Category: model.CategoryWork,
		Location: "Zoom", Notes: "Agenda attached",
	}
	if f.Date != want.Date || f.StartTime != want.StartTime || f.EndTime != want.EndTime ||
		f.Description != want.Description || f.Category != want.Category ||
		f.Location != want.Location || f.Notes != want.Notes || f.ProjectID != nil {
		t.Errorf("MapEventToEntry = %+v, want %+v", f, want)
	}
}

func TestMapEventToEntry_OffsetConvertedToZone(t *testing.T) {
	event := makeEvent("ext", "Call", "2026-02-27T08:00:00Z", "2026-02-27T09:00:00Z")
	f, err := msgraph.MapEventToEntry(event, "Europe/Berlin")
	if err != nil {
		t.Fatalf("MapEventToEntry: %v", err)
	}
	if f.StartTime != "09:00" || f.EndTime != "10:00" {
		t.Errorf("times = %s-%s, want 09:00-10:00 in Berlin", f.StartTime, f.EndTime)
	}
}

func TestMapEventToEntry_EmptySubject(t *testing.T) {
	f, err := msgraph.MapEventToEntry(makeEvent("x", "  ", "2026-02-27T09:00:00", "2026-02-27T10:00:00"), "UTC")
	if err != nil {
		t.Fatal(err)
	}
	if f.Description != "(no subject)" {
		t.Errorf("Description = %q", f.Description)
	}
}

func TestSyncEvents_Import(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t)
	events := []msgraph.CalendarEvent{
		makeEvent("evt-1", "Client workshop", "2026-02-27T09:00:00", "2026-02-27T10:30:00"),
	}

	var out bytes.Buffer
	result, err := msgraph.SyncEvents(ctx, tr, events, msgraph.SyncOptions{Project: "Meetings", Out: &out}, "UTC")
	if err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}
	if result.Imported != 1 || result.Skipped != 0 {
		t.Errorf("result = %+v, want 1 imported", result)
	}
	if !strings.Contains(out.String(), "Imported: Client workshop (1h 30m)") {
		t.Errorf("progress output = %q", out.String())
	}

	entries := tr.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.ExternalID != "evt-1" || e.Source != model.SourceOutlook || e.Hours != 1.5 {
		t.Errorf("imported entry = %+v", e)
	}

	p, err := tr.ProjectByName("Meetings")
	if err != nil {
		t.Fatalf("project not created: %v", err)
	}
	if !e.InProject(p.ID) || p.EntryCount != 1 || p.TotalHours != 1.5 {
		t.Errorf("project = %+v, entry project = %v", p, e.ProjectID)
	}
}

func TestSyncEvents_Idempotent(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t)
	events := []msgraph.CalendarEvent{
		makeEvent("evt-1", "Client workshop", "2026-02-27T09:00:00", "2026-02-27T10:30:00"),
	}
	opts := msgraph.SyncOptions{Project: "Meetings"}

	r1, err := msgraph.SyncEvents(ctx, tr, events, opts, "UTC")
	if err != nil || r1.Imported != 1 {
		t.Fatalf("first sync = %+v, %v", r1, err)
	}

	r2, err := msgraph.SyncEvents(ctx, tr, events, opts, "UTC")
	if err != nil {
		t.Fatalf("second SyncEvents: %v", err)
	}
	if r2.Imported != 0 || r2.Skipped != 1 {
		t.Errorf("second sync = %+v, want 0 imported and 1 skipped", r2)
	}
	if n := len(tr.Entries()); n != 1 {
		t.Errorf("entries = %d after 2 syncs, want 1", n)
	}
}

func TestSyncEvents_Update(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t)
	event := makeEvent("evt-1", "Client workshop", "2026-02-27T09:00:00", "2026-02-27T10:30:00")
	opts := msgraph.SyncOptions{Project: "Meetings"}

	if _, err := msgraph.SyncEvents(ctx, tr, []msgraph.CalendarEvent{event}, opts, "UTC"); err != nil {
		t.Fatal(err)
	}

	// The user moves the imported entry to another project between syncs.
	other, _ := tr.AddProject(ctx, "Architecture", "")
	imported := tr.Entries()[0]
	f := imported.Form()
	f.ProjectID = &other.ID
	if _, err := tr.UpdateEntry(ctx, imported.ID, f); err != nil {
		t.Fatal(err)
	}

	event.Subject = "Client workshop (updated)"
	event.End.DateTime = "2026-02-27T11:00:00"
	r2, err := msgraph.SyncEvents(ctx, tr, []msgraph.CalendarEvent{event}, opts, "UTC")
	if err != nil {
		t.Fatal(err)
	}
	if r2.Updated != 1 {
		t.Errorf("Updated = %d, want 1", r2.Updated)
	}

	entries := tr.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Description != "Client workshop (updated)" || e.Hours != 2 {
		t.Errorf("updated entry = %+v", e)
	}
	if !e.InProject(other.ID) {
		t.Error("sync should keep the project the user assigned")
	}
	if e.ID != imported.ID || e.ExternalID != "evt-1" {
		t.Error("update should keep the entry identity")
	}
}

func TestSyncEvents_SkipFiltered(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*msgraph.CalendarEvent)
	}{
		{"cancelled", func(e *msgraph.CalendarEvent) { e.IsCancelled = true }},
		{"all-day", func(e *msgraph.CalendarEvent) { e.IsAllDay = true }},
		{"private", func(e *msgraph.CalendarEvent) { e.Sensitivity = "private" }},
		{"free", func(e *msgraph.CalendarEvent) { e.ShowAs = "free" }},
		{"no end", func(e *msgraph.CalendarEvent) { e.End.DateTime = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTracker(t)
			e := makeEvent("c1", "Filtered", "2026-02-27T09:00:00", "2026-02-27T10:00:00")
			tt.mutate(&e)
			r, err := msgraph.SyncEvents(context.Background(), tr, []msgraph.CalendarEvent{e}, msgraph.SyncOptions{}, "UTC")
			if err != nil {
				t.Fatalf("SyncEvents: %v", err)
			}
			if r.Imported != 0 || r.Filtered != 1 {
				t.Errorf("result = %+v, want 1 filtered", r)
			}
			if len(tr.Entries()) != 0 {
				t.Error("filtered event was stored")
			}
		})
	}
}

func TestSyncEvents_DryRun(t *testing.T) {
	tr := newTracker(t)
	events := []msgraph.CalendarEvent{
		makeEvent("evt-dry", "Sprint retro", "2026-02-27T09:00:00", "2026-02-27T10:00:00"),
	}

	result, err := msgraph.SyncEvents(context.Background(), tr, events, msgraph.SyncOptions{Project: "Meetings", DryRun: true}, "UTC")
	if err != nil {
		t.Fatalf("SyncEvents dry-run: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("dry-run Imported = %d, want 1", result.Imported)
	}
	if len(tr.Entries()) != 0 || len(tr.Projects()) != 0 {
		t.Error("dry-run must not write entries or projects")
	}
}

func TestSyncEvents_ExternalIDPreservesManualEntries(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t)

	manual, err := tr.AddEntry(ctx, model.EntryForm{
		Date: "2026-02-27", StartTime: "09:00", EndTime: "10:00",
		Description: "Meeting", Category: model.CategoryWork,
	})
	if err != nil {
		t.Fatal(err)
	}

	events := []msgraph.CalendarEvent{
		makeEvent("evt-1", "Meeting", "2026-02-27T09:00:00", "2026-02-27T10:00:00"),
	}
	if _, err := msgraph.SyncEvents(ctx, tr, events, msgraph.SyncOptions{}, "UTC"); err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}

	if n := len(tr.Entries()); n != 2 {
		t.Fatalf("entries = %d, want 2 (manual + imported)", n)
	}
	got, err := tr.Entry(manual.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Source != model.SourceManual || got.ExternalID != "" {
		t.Errorf("manual entry changed: %+v", got)
	}
}

func TestFetchRange(t *testing.T) {
	from, to, err := msgraph.FetchRange("2026-02-27", "2026-02-28", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !from.Equal(time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("FetchRange = %v .. %v", from, to)
	}
	if _, _, err := msgraph.FetchRange("2026-02-28", "2026-02-27", time.UTC); err == nil {
		t.Error("reversed range should fail")
	}
}
