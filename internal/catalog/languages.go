package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultLanguage is preselected on every new draft.
const DefaultLanguage = "English"

// Language is one selectable interface language, shown by its own name.
type Language struct {
	Country string `json:"country"`
	Tag     string `json:"tag"`
	Name    string `json:"name"`
}

var languageTags = []struct {
	country string
	tag     language.Tag
}{
	{"US", language.English},
	{"BD", language.Bengali},
	{"IN", language.Hindi},
	{"PK", language.Urdu},
	{"FR", language.French},
	{"DE", language.German},
	{"ES", language.Spanish},
	{"CN", language.Chinese},
	{"JP", language.Japanese},
	{"RU", language.Russian},
	{"SA", language.Arabic},
}

func defaultLanguages() []Language {
	out := make([]Language, 0, len(languageTags))
	for _, l := range languageTags {
		out = append(out, Language{
			Country: l.country,
			Tag:     l.tag.String(),
			Name:    cases.Title(l.tag).String(display.Self.Name(l.tag)),
		})
	}
	return out
}

// Languages returns the selectable languages in display order.
func (c *Catalog) Languages() []Language {
	out := make([]Language, len(c.languages))
	copy(out, c.languages)
	return out
}

// Language finds a language by its display name or BCP-47 tag.
func (c *Catalog) Language(nameOrTag string) (Language, bool) {
	for _, l := range c.languages {
		if l.Name == nameOrTag || strings.EqualFold(l.Tag, nameOrTag) {
			return l, true
		}
	}
	return Language{}, false
}
