package cmd

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftbase/internal/model"
	"github.com/Tiliavir/shiftbase/internal/validate"
)

// entryFormValues mirrors model.EntryForm with string fields for huh inputs.
type entryFormValues struct {
	date        string
	start       string
	end         string
	breakTime   string
	description string
	projectID   string
	category    model.Category
	location    string
	notes       string
}

func newEntryFormValues(f model.EntryForm) *entryFormValues {
	v := &entryFormValues{
		date:        f.Date,
		start:       f.StartTime,
		end:         f.EndTime,
		breakTime:   strconv.Itoa(f.BreakTime),
		description: f.Description,
		category:    f.Category,
		location:    f.Location,
		notes:       f.Notes,
	}
	if f.ProjectID != nil {
		v.projectID = *f.ProjectID
	}
	if v.category == "" {
		v.category = model.CategoryWork
	}
	return v
}

func (v *entryFormValues) form() model.EntryForm {
	f := model.EntryForm{
		Date:        strings.TrimSpace(v.date),
		StartTime:   strings.TrimSpace(v.start),
		EndTime:     strings.TrimSpace(v.end),
		Description: v.description,
		Category:    v.category,
		Location:    v.location,
		Notes:       v.notes,
	}
	f.BreakTime, _ = strconv.Atoi(strings.TrimSpace(v.breakTime))
	if v.projectID != "" {
		id := v.projectID
		f.ProjectID = &id
	}
	return f
}

func check(ok func(string) bool, msg string) func(string) error {
	return func(s string) error {
		if !ok(strings.TrimSpace(s)) {
			return errors.New(msg)
		}
		return nil
	}
}

func checkBreak(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !validate.BreakTime(n) {
		return errors.New("break must be 0 to 1439 minutes")
	}
	return nil
}

func formTheme(theme model.Theme) *huh.Theme {
	if theme == model.ThemeLight {
		return huh.ThemeCharm()
	}
	return huh.ThemeDracula()
}

// runEntryForm lets the user edit f interactively.
func runEntryForm(cmd *cobra.Command, f *model.EntryForm) error {
	v := newEntryFormValues(*f)
	lb := labels()

	projectOpts := []huh.Option[string]{huh.NewOption(lb.NoProject, "")}
	for _, p := range trk.Projects() {
		projectOpts = append(projectOpts, huh.NewOption(p.Name, p.ID))
	}
	categoryOpts := make([]huh.Option[model.Category], 0, len(model.Categories))
	for _, c := range model.Categories {
		categoryOpts = append(categoryOpts, huh.NewOption(lb.Category(c), c))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&v.date).
				Validate(check(validate.Date, "invalid date, use YYYY-MM-DD")),
			huh.NewInput().
				Title("Start").
				Description("HH:MM").
				Value(&v.start).
				Validate(check(validate.Time, "invalid time, use HH:MM")),
			huh.NewInput().
				Title("End").
				Description("HH:MM, earlier than start means past midnight").
				Value(&v.end).
				Validate(check(validate.Time, "invalid time, use HH:MM")),
			huh.NewInput().
				Title("Break (min)").
				Value(&v.breakTime).
				Validate(checkBreak),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				CharLimit(validate.MaxDescription).
				Value(&v.description).
				Validate(check(validate.Description, "description must be 1 to 500 characters")),
			huh.NewSelect[string]().
				Title("Project").
				Options(projectOpts...).
				Value(&v.projectID),
			huh.NewSelect[model.Category]().
				Title("Category").
				Options(categoryOpts...).
				Value(&v.category),
			huh.NewInput().
				Title("Location").
				Value(&v.location),
			huh.NewText().
				Title("Notes").
				Value(&v.notes),
		),
	).WithTheme(formTheme(trk.Settings().Theme)).
		WithInput(cmd.InOrStdin()).
		WithOutput(cmd.OutOrStdout())

	if err := form.Run(); err != nil {
		return err
	}
	*f = v.form()
	return nil
}
