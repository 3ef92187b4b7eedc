package msgraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Tiliavir/shiftbase/internal/logger"
	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
	"github.com/Tiliavir/shiftbase/internal/tracker"
	"github.com/Tiliavir/shiftbase/internal/validate"
)

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Filtered int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	DryRun bool
	// Project is the name of the project imported entries are filed under.
	// It is created on first use. Empty leaves entries without a project.
	Project string
	// Out receives one progress line per event. Nil discards them.
	Out io.Writer
}

// EntryStore is the part of the tracker a sync needs.
type EntryStore interface {
	EntryByExternalID(externalID string) (model.Entry, bool)
	AddEntry(ctx context.Context, f model.EntryForm, opts ...tracker.EntryOption) (model.Entry, error)
	UpdateEntry(ctx context.Context, id string, f model.EntryForm) (model.Entry, error)
	ProjectByName(name string) (model.Project, error)
	AddProject(ctx context.Context, name, color string) (model.Project, error)
}

// graphLayouts are tried in order; the zone-less ones are read in the
// zone requested through the Prefer header.
var graphLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05.0000000", false},
	{"2006-01-02T15:04:05", false},
}

func parseGraphTime(dt, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	for _, l := range graphLayouts {
		if l.zoned {
			if t, err := time.Parse(l.layout, dt); err == nil {
				return t.In(loc), nil
			}
			continue
		}
		if t, err := time.ParseInLocation(l.layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised graph time %q", dt)
}

// skipReason names why an event is not imported, or returns "".
func skipReason(event CalendarEvent) string {
	switch {
	case event.IsCancelled:
		return "cancelled"
	case event.IsAllDay:
		return "all-day"
	case event.Sensitivity == "private":
		return "private"
	case event.ShowAs == "free":
		return "free"
	case event.Start.DateTime == "" || event.End.DateTime == "":
		return "no time"
	}
	return ""
}

// noSubject replaces empty event subjects, which would fail validation.
const noSubject = "(no subject)"

// MapEventToEntry converts a Graph CalendarEvent into entry form fields.
// Times are taken in timezone, which should match the Prefer header used
// for the request.
func MapEventToEntry(event CalendarEvent, timezone string) (model.EntryForm, error) {
	startTime, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return model.EntryForm{}, fmt.Errorf("parsing start time: %w", err)
	}
	endTime, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return model.EntryForm{}, fmt.Errorf("parsing end time: %w", err)
	}
	if endTime.Before(startTime) {
		return model.EntryForm{}, fmt.Errorf("event ends before it starts")
	}

	subject := strings.TrimSpace(event.Subject)
	if subject == "" {
		subject = noSubject
	}

	return model.EntryForm{
		Date:        startTime.Format(timecalc.DateLayout),
		StartTime:   startTime.Format(timecalc.ClockLayout),
		EndTime:     endTime.Format(timecalc.ClockLayout),
		Description: timecalc.Truncate(subject, validate.MaxDescription),
		Category:    model.CategoryWork,
		Location:    strings.TrimSpace(event.Location.DisplayName),
		Notes:       strings.TrimSpace(event.BodyPreview),
	}, nil
}

// sameContent reports whether an imported entry already matches the form.
func sameContent(e model.Entry, f model.EntryForm) bool {
	return e.Date == f.Date &&
		e.StartTime == f.StartTime &&
		e.EndTime == f.EndTime &&
		e.Description == f.Description &&
		e.Location == f.Location &&
		e.Notes == f.Notes
}

// resolveProject finds or creates the project named name.
func resolveProject(ctx context.Context, store EntryStore, name string, dryRun bool) (*string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	p, err := store.ProjectByName(name)
	if err == nil {
		return &p.ID, nil
	}
	if !errors.Is(err, tracker.ErrNotFound) {
		return nil, err
	}
	if dryRun {
		return nil, nil
	}
	p, err = store.AddProject(ctx, name, "")
	if err != nil {
		return nil, fmt.Errorf("creating project %q: %w", name, err)
	}
	logger.Info("created project for calendar import", "name", name)
	return &p.ID, nil
}

// SyncEvents imports events into store. Events seen before (matched by their
// Graph ID) are updated when they changed and skipped otherwise; entries not
// created by a sync are never touched.
func SyncEvents(ctx context.Context, store EntryStore, events []CalendarEvent, opts SyncOptions, timezone string) (SyncResult, error) {
	var result SyncResult
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	projectID, err := resolveProject(ctx, store, opts.Project, opts.DryRun)
	if err != nil {
		return result, err
	}

	for _, event := range events {
		if reason := skipReason(event); reason != "" {
			logger.Debug("calendar event filtered", "id", event.ID, "reason", reason)
			result.Filtered++
			continue
		}

		f, err := MapEventToEntry(event, timezone)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}
		hours := timecalc.FormatHours(timecalc.CalculateHours(f.StartTime, f.EndTime, 0))

		if existing, ok := store.EntryByExternalID(event.ID); ok {
			if sameContent(existing, f) {
				fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", f.Description)
				result.Skipped++
				continue
			}
			// Keep whatever project and break the user assigned since the last sync.
			f.ProjectID = existing.ProjectID
			f.BreakTime = existing.BreakTime
			f.Category = existing.Category
			if !opts.DryRun {
				if _, err := store.UpdateEntry(ctx, existing.ID, f); err != nil {
					fmt.Fprintf(out, "  ! Error updating %q: %v\n", f.Description, err)
					result.Errors++
					continue
				}
			}
			fmt.Fprintf(out, "  ↑ Updated:  %s (%s)\n", f.Description, hours)
			result.Updated++
			continue
		}

		f.ProjectID = projectID
		if !opts.DryRun {
			if _, err := store.AddEntry(ctx, f, tracker.FromSource(model.SourceOutlook, event.ID)); err != nil {
				fmt.Fprintf(out, "  ! Error saving %q: %v\n", f.Description, err)
				result.Errors++
				continue
			}
		}
		fmt.Fprintf(out, "  ✓ Imported: %s (%s)\n", f.Description, hours)
		result.Imported++
	}

	logger.Info("calendar sync finished",
		"imported", result.Imported, "updated", result.Updated,
		"skipped", result.Skipped, "filtered", result.Filtered, "errors", result.Errors)
	return result, nil
}

// FetchRange is the calendar window for a sync, [from, to).
func FetchRange(from, to string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(timecalc.DateLayout, from, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q: %w", from, err)
	}
	end, err := time.ParseInLocation(timecalc.DateLayout, to, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q: %w", to, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return start, end.AddDate(0, 0, 1), nil
}
