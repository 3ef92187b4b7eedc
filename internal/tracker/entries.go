package tracker

import (
	"context"
	"fmt"
	"slices"

	"github.com/Tiliavir/shiftbase/internal/logger"
	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/stats"
	"github.com/Tiliavir/shiftbase/internal/timecalc"
	"github.com/Tiliavir/shiftbase/internal/validate"
)

// EntryOption adjusts a new entry before it is stored.
type EntryOption func(*model.Entry)

// FromSource marks an entry as imported from an external calendar.
func FromSource(source, externalID string) EntryOption {
	return func(e *model.Entry) {
		e.Source = source
		e.ExternalID = externalID
	}
}

// Entry returns the entry with the given ID.
func (t *Tracker) Entry(id string) (model.Entry, error) {
	for _, e := range t.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Entry{}, fmt.Errorf("entry %s: %w", id, ErrNotFound)
}

// EntriesByDate returns the entries logged on date.
func (t *Tracker) EntriesByDate(date string) []model.Entry {
	return stats.FilterByDate(t.entries, date)
}

// EntryByExternalID finds an imported entry by its calendar event ID.
func (t *Tracker) EntryByExternalID(externalID string) (model.Entry, bool) {
	if externalID == "" {
		return model.Entry{}, false
	}
	for _, e := range t.entries {
		if e.ExternalID == externalID {
			return e, true
		}
	}
	return model.Entry{}, false
}

// checkForm validates f. A project reference is checked only when it differs
// from prev, the entry's current one.
func (t *Tracker) checkForm(f *model.EntryForm, prev *string) error {
	if f.Category == "" {
		f.Category = t.settings.DefaultCategory
	}
	if err := validate.Entry(*f); err != nil {
		return err
	}
	if f.ProjectID != nil && (prev == nil || *prev != *f.ProjectID) {
		if _, err := t.Project(*f.ProjectID); err != nil {
			return err
		}
	}
	return nil
}

// AddEntry validates f, stores it as the newest entry and refreshes its
// project's totals.
func (t *Tracker) AddEntry(ctx context.Context, f model.EntryForm, opts ...EntryOption) (model.Entry, error) {
	if err := t.checkForm(&f, nil); err != nil {
		return model.Entry{}, err
	}

	now := t.nowMillis()
	e := model.Entry{
		ID:          model.NewID(),
		Date:        f.Date,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		Description: f.Description,
		ProjectID:   f.ProjectID,
		Category:    f.Category,
		BreakTime:   f.BreakTime,
		Location:    f.Location,
		Notes:       f.Notes,
		Hours:       timecalc.CalculateHours(f.StartTime, f.EndTime, f.BreakTime),
		CreatedAt:   now,
		UpdatedAt:   now,
		Source:      model.SourceManual,
	}
	for _, opt := range opts {
		opt(&e)
	}

	t.entries = slices.Insert(t.entries, 0, e)
	if err := t.store.SaveEntries(ctx, t.entries); err != nil {
		return e, err
	}
	if e.ProjectID != nil && t.refreshProject(*e.ProjectID, true) {
		if err := t.store.SaveProjects(ctx, t.projects); err != nil {
			return e, err
		}
	}
	t.committed(ctx)
	logger.Debug("entry added", "id", e.ID, "date", e.Date, "hours", e.Hours)
	return e, nil
}

// UpdateEntry replaces the editable fields of entry id and recomputes its
// hours. Totals of both the previous and the new project are refreshed.
func (t *Tracker) UpdateEntry(ctx context.Context, id string, f model.EntryForm) (model.Entry, error) {
	i := slices.IndexFunc(t.entries, func(e model.Entry) bool { return e.ID == id })
	if i < 0 {
		return model.Entry{}, fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	if err := t.checkForm(&f, t.entries[i].ProjectID); err != nil {
		return model.Entry{}, err
	}

	old := t.entries[i]
	e := old
	e.Date = f.Date
	e.StartTime = f.StartTime
	e.EndTime = f.EndTime
	e.Description = f.Description
	e.ProjectID = f.ProjectID
	e.Category = f.Category
	e.BreakTime = f.BreakTime
	e.Location = f.Location
	e.Notes = f.Notes
	e.Hours = timecalc.CalculateHours(f.StartTime, f.EndTime, f.BreakTime)
	e.UpdatedAt = t.nowMillis()
	t.entries[i] = e

	if err := t.store.SaveEntries(ctx, t.entries); err != nil {
		return e, err
	}

	changed := false
	for _, pid := range []*string{old.ProjectID, e.ProjectID} {
		if pid != nil && t.refreshProject(*pid, false) {
			changed = true
		}
	}
	if changed {
		if err := t.store.SaveProjects(ctx, t.projects); err != nil {
			return e, err
		}
	}
	t.committed(ctx)
	return e, nil
}

// DeleteEntry removes entry id and refreshes its project's totals.
func (t *Tracker) DeleteEntry(ctx context.Context, id string) error {
	i := slices.IndexFunc(t.entries, func(e model.Entry) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	removed := t.entries[i]
	t.entries = slices.Delete(t.entries, i, i+1)

	if err := t.store.SaveEntries(ctx, t.entries); err != nil {
		return err
	}
	if removed.ProjectID != nil && t.refreshProject(*removed.ProjectID, false) {
		if err := t.store.SaveProjects(ctx, t.projects); err != nil {
			return err
		}
	}
	t.committed(ctx)
	logger.Debug("entry deleted", "id", id)
	return nil
}
