package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Tiliavir/shiftbase/internal/logger"
	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/validate"
)

// ErrDuplicateProject is returned when a project name is already taken.
var ErrDuplicateProject = errors.New("project name already exists")

// Project returns the project with the given ID.
func (t *Tracker) Project(id string) (model.Project, error) {
	for _, p := range t.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
}

// ProjectByName finds a project by name, ignoring case and surrounding space.
func (t *Tracker) ProjectByName(name string) (model.Project, error) {
	want := strings.TrimSpace(name)
	for _, p := range t.projects {
		if strings.EqualFold(strings.TrimSpace(p.Name), want) {
			return p, nil
		}
	}
	return model.Project{}, fmt.Errorf("project %q: %w", name, ErrNotFound)
}

// ResolveProject accepts either a project ID or a project name.
func (t *Tracker) ResolveProject(ref string) (model.Project, error) {
	if p, err := t.Project(ref); err == nil {
		return p, nil
	}
	return t.ProjectByName(ref)
}

func (t *Tracker) nameTaken(name, exceptID string) bool {
	p, err := t.ProjectByName(name)
	return err == nil && p.ID != exceptID
}

// AddProject creates a project. An empty colour selects the default.
func (t *Tracker) AddProject(ctx context.Context, name, color string) (model.Project, error) {
	name = strings.TrimSpace(name)
	if err := validate.Project(name, color); err != nil {
		return model.Project{}, err
	}
	if t.nameTaken(name, "") {
		return model.Project{}, fmt.Errorf("%q: %w", name, ErrDuplicateProject)
	}
	if color == "" {
		color = model.DefaultProjectColor
	}

	now := t.nowMillis()
	p := model.Project{
		ID:        model.NewID(),
		Name:      name,
		Color:     strings.ToUpper(color),
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.projects = slices.Insert(t.projects, 0, p)
	if err := t.store.SaveProjects(ctx, t.projects); err != nil {
		return p, err
	}
	t.committed(ctx)
	logger.Debug("project added", "id", p.ID, "name", p.Name)
	return p, nil
}

// UpdateProject renames and recolours project id. An empty colour keeps the
// current one.
func (t *Tracker) UpdateProject(ctx context.Context, id, name, color string) (model.Project, error) {
	i := slices.IndexFunc(t.projects, func(p model.Project) bool { return p.ID == id })
	if i < 0 {
		return model.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	name = strings.TrimSpace(name)
	if err := validate.Project(name, color); err != nil {
		return model.Project{}, err
	}
	if t.nameTaken(name, id) {
		return model.Project{}, fmt.Errorf("%q: %w", name, ErrDuplicateProject)
	}

	p := t.projects[i]
	p.Name = name
	if color != "" {
		p.Color = strings.ToUpper(color)
	}
	p.UpdatedAt = t.nowMillis()
	t.projects[i] = p

	if err := t.store.SaveProjects(ctx, t.projects); err != nil {
		return p, err
	}
	t.committed(ctx)
	return p, nil
}

// DeleteProject removes project id and clears the project reference on
// every entry that pointed at it.
func (t *Tracker) DeleteProject(ctx context.Context, id string) error {
	i := slices.IndexFunc(t.projects, func(p model.Project) bool { return p.ID == id })
	if i < 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	t.projects = slices.Delete(t.projects, i, i+1)

	detached := 0
	for j := range t.entries {
		if t.entries[j].InProject(id) {
			t.entries[j].ProjectID = nil
			detached++
		}
	}

	if err := t.store.SaveProjects(ctx, t.projects); err != nil {
		return err
	}
	if err := t.store.SaveEntries(ctx, t.entries); err != nil {
		return err
	}
	t.committed(ctx)
	logger.Debug("project deleted", "id", id, "detached_entries", detached)
	return nil
}
