package model

// Theme selects the colour scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
	ThemeOnyx  Theme = "onyx"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight || t == ThemeOnyx
}

// Language selects the UI language.
type Language string

const (
	LanguagePolish  Language = "pl"
	LanguageEnglish Language = "en"
	LanguageDutch   Language = "nl"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == LanguagePolish || l == LanguageEnglish || l == LanguageDutch
}

// BackupFrequency controls how often automatic backups are written.
type BackupFrequency string

const (
	BackupDaily   BackupFrequency = "daily"
	BackupWeekly  BackupFrequency = "weekly"
	BackupMonthly BackupFrequency = "monthly"
)

// Valid reports whether f is a known frequency.
func (f BackupFrequency) Valid() bool {
	return f == BackupDaily || f == BackupWeekly || f == BackupMonthly
}

// Settings holds user preferences.
type Settings struct {
	Theme            Theme           `json:"theme"`
	Language         Language        `json:"language"`
	DefaultCategory  Category        `json:"defaultCategory"`
	DefaultBreakTime int             `json:"defaultBreakTime"`
	SoundEnabled     bool            `json:"soundEnabled"`
	HapticEnabled    bool            `json:"hapticEnabled"`
	AutoBackup       bool            `json:"autoBackup"`
	BackupFrequency  BackupFrequency `json:"backupFrequency"`
	CreatedAt        int64           `json:"createdAt"`
	UpdatedAt        int64           `json:"updatedAt"`
}

// DefaultSettings returns the settings used before the user changes anything.
// now is a Unix timestamp in milliseconds.
func DefaultSettings(now int64) Settings {
	return Settings{
		Theme:            ThemeLight,
		Language:         LanguageEnglish,
		DefaultCategory:  CategoryWork,
		DefaultBreakTime: 0,
		SoundEnabled:     true,
		HapticEnabled:    true,
		AutoBackup:       false,
		BackupFrequency:  BackupWeekly,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
