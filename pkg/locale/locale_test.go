package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestRussianUnitCoversEveryPluralBranch(t *testing.T) {
	cases := map[int]string{
		1:  "день",
		2:  "дня",
		5:  "дней",
		11: "дней",
		21: "день",
		25: "дней",
	}
	for n, want := range cases {
		assert.Equal(t, want, Russian.Unit(n), "n=%d", n)
	}
}

func TestEnglishUnit(t *testing.T) {
	assert.Equal(t, "day", English.Unit(1))
	assert.Equal(t, "days", English.Unit(2))
	assert.Equal(t, "days", English.Unit(5))
	assert.Equal(t, "days", English.Unit(11))
	assert.Equal(t, "days", English.Unit(21))
	assert.Equal(t, "days", English.Unit(25))
}

func TestOverduePhrase(t *testing.T) {
	assert.Equal(t, "(overdue by 5 days)", English.OverduePhrase(5))
	assert.Equal(t, "(просрочено на 21 день)", Russian.OverduePhrase(21))
}

func TestLookup(t *testing.T) {
	loc, err := Lookup("ru-RU")
	require.NoError(t, err)
	assert.Equal(t, Russian.CompletedLabel, loc.CompletedLabel)

	loc, err = Lookup("en")
	require.NoError(t, err)
	assert.Equal(t, English.DateLayout, loc.DateLayout)

	_, err = Lookup("de")
	assert.Error(t, err)
}

func TestCollatorOrdersCyrillic(t *testing.T) {
	c := Russian.Collator()
	assert.Negative(t, c.CompareString("Анна", "Боб"))
	assert.Positive(t, c.CompareString("Ёжик", "Дмитрий"))
}

func TestFormatDate(t *testing.T) {
	day := time.Date(2025, time.March, 1, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-01", English.FormatDate(day))
	assert.Equal(t, "01.03.2025", Russian.FormatDate(day))
}

func TestFoldKeepsDiacritics(t *testing.T) {
	assert.Equal(t, "анна", English.Fold("АННА"))
	assert.NotEqual(t, "ежик", Russian.Fold("Ёжик"))
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		header string
		want   language.Tag
	}{
		{"", language.English},
		{"ru-RU,ru;q=0.9,en;q=0.8", language.Russian},
		{"en-GB", language.English},
		{"de-DE", language.English},
		{";;;", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, Negotiate(tt.header, English).Tag)
		})
	}
	assert.Equal(t, language.Russian, Negotiate("", Russian).Tag)
}
