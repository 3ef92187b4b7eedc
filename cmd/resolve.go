package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/tracker"
)

var errAmbiguous = errors.New("ambiguous ID prefix")

// byPrefix finds the single item whose ID starts with ref.
func byPrefix[T any](items []T, id func(T) string, ref string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("empty ID: %w", tracker.ErrNotFound)
	}
	var matches []T
	for _, it := range items {
		if id(it) == ref {
			return it, nil
		}
		if strings.HasPrefix(id(it), ref) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s: %w", ref, tracker.ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return zero, fmt.Errorf("%s matches %d items: %w", ref, len(matches), errAmbiguous)
}

func resolveEntry(ref string) (model.Entry, error) {
	e, err := byPrefix(trk.Entries(), func(e model.Entry) string { return e.ID }, ref)
	if err != nil {
		return e, fmt.Errorf("entry %w", err)
	}
	return e, nil
}

// resolveProject accepts a project name, full ID or unique ID prefix.
func resolveProject(ref string) (model.Project, error) {
	if p, err := trk.ResolveProject(ref); err == nil {
		return p, nil
	}
	p, err := byPrefix(trk.Projects(), func(p model.Project) string { return p.ID }, ref)
	if err != nil {
		return p, fmt.Errorf("project %w", err)
	}
	return p, nil
}

// projectRef turns a --project value into an entry's project reference.
// Empty or "none" detaches the entry.
func projectRef(ref string) (*string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.EqualFold(ref, "none") {
		return nil, nil
	}
	p, err := resolveProject(ref)
	if err != nil {
		return nil, err
	}
	return &p.ID, nil
}

// confirm asks a yes/no question unless yes is already set.
func confirm(cmd *cobra.Command, title string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithInput(cmd.InOrStdin()).WithOutput(cmd.OutOrStdout()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
