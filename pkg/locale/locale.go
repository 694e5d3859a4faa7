// Package locale holds the language-dependent pieces of the dashboard:
// plural forms of the overdue unit, name collation and completion phrases.
package locale

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// Forms are the three plural shapes of a unit word.
// Languages with fewer shapes repeat a form (English: day, days, days).
type Forms struct {
	One  string
	Few  string
	Many string
}

// Locale bundles the language tag with its phrasing.
type Locale struct {
	Tag            language.Tag
	Days           Forms
	CompletedLabel string
	OverdueFormat  string // receives the "N unit" phrase
	DateLayout     string
}

var (
	English = Locale{
		Tag:            language.English,
		Days:           Forms{One: "day", Few: "days", Many: "days"},
		CompletedLabel: "Completed",
		OverdueFormat:  "(overdue by %s)",
		DateLayout:     "2006-01-02",
	}
	Russian = Locale{
		Tag:            language.Russian,
		Days:           Forms{One: "день", Few: "дня", Many: "дней"},
		CompletedLabel: "Выполнено",
		OverdueFormat:  "(просрочено на %s)",
		DateLayout:     "02.01.2006",
	}
)

// Lookup resolves a BCP 47 name to one of the known locales.
func Lookup(name string) (Locale, error) {
	tag, err := language.Parse(strings.TrimSpace(name))
	if err != nil {
		return Locale{}, fmt.Errorf("parse locale %q: %w", name, err)
	}
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return English, nil
	case "ru":
		return Russian, nil
	default:
		return Locale{}, fmt.Errorf("unsupported locale %q", name)
	}
}

// Unit picks the plural form of the day unit for n using CLDR cardinal rules.
func (l Locale) Unit(n int) string {
	if n < 0 {
		n = -n
	}
	switch plural.Cardinal.MatchPlural(l.Tag, n, 0, 0, 0, 0) {
	case plural.One:
		return l.Days.One
	case plural.Few:
		return l.Days.Few
	default:
		return l.Days.Many
	}
}

// DaysPhrase renders "N unit".
func (l Locale) DaysPhrase(n int) string {
	return fmt.Sprintf("%d %s", n, l.Unit(n))
}

// OverduePhrase renders the overdue fragment appended to a completion result.
func (l Locale) OverduePhrase(days int) string {
	return fmt.Sprintf(l.OverdueFormat, l.DaysPhrase(days))
}

// FormatDate renders a date in the locale's layout.
func (l Locale) FormatDate(t time.Time) string {
	return t.Format(l.DateLayout)
}

// Collator returns a fresh collator for the locale. Collators keep internal
// buffers, so callers must not share one between goroutines.
func (l Locale) Collator() *collate.Collator {
	return collate.New(l.Tag)
}

// Fold lowercases s with full Unicode case folding. Diacritics are left intact.
func (l Locale) Fold(s string) string {
	return cases.Fold().String(s)
}

var matcher = language.NewMatcher([]language.Tag{language.Russian, language.English})

// Negotiate picks a locale for an Accept-Language header, returning fallback
// when the header is empty, malformed or matches nothing known.
func Negotiate(header string, fallback Locale) Locale {
	if strings.TrimSpace(header) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	if index == 0 {
		return Russian
	}
	return English
}

// Supported lists every locale the service can render.
func Supported() []Locale {
	return []Locale{English, Russian}
}
