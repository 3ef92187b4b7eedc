// Package i18n holds the translated labels for report and overview output.
//
// Messages live in an x/text catalog keyed by their English text; counted
// nouns use CLDR plural rules for the selected language.
package i18n

import (
	"time"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/Tiliavir/shiftbase/internal/model"
)

const (
	entryCount = "%d entries"
	dayCount   = "%d days"
)

var weekdayKeys = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var categoryKeys = map[model.Category]string{
	model.CategoryWork:     "Work",
	model.CategoryOvertime: "Overtime",
	model.CategoryVacation: "Vacation",
}

var tags = map[model.Language]language.Tag{
	model.LanguageEnglish: language.English,
	model.LanguagePolish:  language.Polish,
	model.LanguageDutch:   language.Dutch,
}

var translations = map[language.Tag]map[string]string{
	language.Polish: {
		"Overview":          "Przegląd",
		"Total hours":       "Suma godzin",
		"This week":         "Ten tydzień",
		"This month":        "Ten miesiąc",
		"Average daily":     "Średnio dziennie",
		"Total breaks":      "Suma przerw",
		"Entries":           "Wpisy",
		"This week by day":  "Ten tydzień według dni",
		"Report":            "Raport",
		"By category":       "Według kategorii",
		"By project":        "Według projektu",
		"Timeline":          "Oś czasu",
		"Total":             "Razem",
		"No entries found.": "Brak wpisów.",
		"No projects yet.":  "Brak projektów.",
		"No project":        "Bez projektu",
		"Last saved":        "Ostatni zapis",
		"never":             "nigdy",
		"Work":              "Praca",
		"Overtime":          "Nadgodziny",
		"Vacation":          "Urlop",
		"Sun":               "Nd",
		"Mon":               "Pn",
		"Tue":               "Wt",
		"Wed":               "Śr",
		"Thu":               "Cz",
		"Fri":               "Pt",
		"Sat":               "Sb",
	},
	language.Dutch: {
		"Overview":          "Overzicht",
		"Total hours":       "Totaal uren",
		"This week":         "Deze week",
		"This month":        "Deze maand",
		"Average daily":     "Gemiddeld per dag",
		"Total breaks":      "Totaal pauzes",
		"Entries":           "Registraties",
		"This week by day":  "Deze week per dag",
		"Report":            "Rapport",
		"By category":       "Per categorie",
		"By project":        "Per project",
		"Timeline":          "Tijdlijn",
		"Total":             "Totaal",
		"No entries found.": "Geen registraties gevonden.",
		"No projects yet.":  "Nog geen projecten.",
		"No project":        "Geen project",
		"Last saved":        "Laatst opgeslagen",
		"never":             "nooit",
		"Work":              "Werk",
		"Overtime":          "Overuren",
		"Vacation":          "Vakantie",
		"Sun":               "zo",
		"Mon":               "ma",
		"Tue":               "di",
		"Wed":               "wo",
		"Thu":               "do",
		"Fri":               "vr",
		"Sat":               "za",
	},
}

var cat = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			must(b.SetString(tag, key, msg))
		}
	}

	must(b.Set(language.English, entryCount, plural.Selectf(1, "%d",
		"one", "%[1]d entry",
		"other", "%[1]d entries")))
	must(b.Set(language.Polish, entryCount, plural.Selectf(1, "%d",
		"one", "%[1]d wpis",
		"few", "%[1]d wpisy",
		"many", "%[1]d wpisów",
		"other", "%[1]d wpisu")))
	must(b.Set(language.Dutch, entryCount, plural.Selectf(1, "%d",
		"one", "%[1]d registratie",
		"other", "%[1]d registraties")))

	must(b.Set(language.English, dayCount, plural.Selectf(1, "%d",
		"one", "%[1]d day",
		"other", "%[1]d days")))
	must(b.Set(language.Polish, dayCount, plural.Selectf(1, "%d",
		"one", "%[1]d dzień",
		"other", "%[1]d dni")))
	must(b.Set(language.Dutch, dayCount, plural.Selectf(1, "%d",
		"one", "%[1]d dag",
		"other", "%[1]d dagen")))
	return b
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Labels are the translated strings used by the CLI output.
type Labels struct {
	OverviewTitle string
	TotalHours    string
	ThisWeek      string
	ThisMonth     string
	AverageDaily  string
	TotalBreaks   string
	Entries       string
	WeeklyChart   string
	ReportTitle   string
	ByCategory    string
	ByProject     string
	Timeline      string
	Total         string
	NoEntries     string
	NoProjects    string
	NoProject     string
	LastSync      string
	Never         string

	Categories map[model.Category]string
	// Weekdays are short day names indexed by time.Weekday.
	Weekdays [7]string

	p *message.Printer
}

// For returns the labels for lang, falling back to English.
func For(lang model.Language) Labels {
	tag, ok := tags[lang]
	if !ok {
		tag = language.English
	}
	p := message.NewPrinter(tag, message.Catalog(cat))
	l := Labels{
		OverviewTitle: p.Sprintf("Overview"),
		TotalHours:    p.Sprintf("Total hours"),
		ThisWeek:      p.Sprintf("This week"),
		ThisMonth:     p.Sprintf("This month"),
		AverageDaily:  p.Sprintf("Average daily"),
		TotalBreaks:   p.Sprintf("Total breaks"),
		Entries:       p.Sprintf("Entries"),
		WeeklyChart:   p.Sprintf("This week by day"),
		ReportTitle:   p.Sprintf("Report"),
		ByCategory:    p.Sprintf("By category"),
		ByProject:     p.Sprintf("By project"),
		Timeline:      p.Sprintf("Timeline"),
		Total:         p.Sprintf("Total"),
		NoEntries:     p.Sprintf("No entries found."),
		NoProjects:    p.Sprintf("No projects yet."),
		NoProject:     p.Sprintf("No project"),
		LastSync:      p.Sprintf("Last saved"),
		Never:         p.Sprintf("never"),
		Categories:    make(map[model.Category]string, len(categoryKeys)),
		p:             p,
	}
	for c, key := range categoryKeys {
		l.Categories[c] = p.Sprintf(key)
	}
	for d, key := range weekdayKeys {
		l.Weekdays[d] = p.Sprintf(key)
	}
	return l
}

// Category returns the translated category name, or the raw value for
// categories it does not know.
func (l Labels) Category(c model.Category) string {
	if name, ok := l.Categories[c]; ok {
		return name
	}
	return string(c)
}

// Weekday returns the short translated day name.
func (l Labels) Weekday(d time.Weekday) string {
	return l.Weekdays[d]
}

// EntryCount renders n followed by the matching plural of "entry".
func (l Labels) EntryCount(n int) string {
	return l.p.Sprintf(entryCount, n)
}

// DayCount renders n followed by the matching plural of "day".
func (l Labels) DayCount(n int) string {
	return l.p.Sprintf(dayCount, n)
}
