package schema

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules   = ruleset()
	titler  = cases.Title(language.English, cases.NoLower)
	acronym = make(map[string]struct{})
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Identifiers that should keep their casing when pascalized.
	for _, w := range []string{"ID", "SQL", "HTTP", "URL", "API", "UUID", "DTO", "JSON", "JWT"} {
		acronym[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// Singular returns the singular form of the given word.
func Singular(s string) string { return rules.Singularize(s) }

// Plural returns the plural form of the given word.
func Plural(s string) string { return rules.Pluralize(s) }

// Snake converts the given identifier to snake_case.
func Snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put a underscore if the current letter is uppercase and the
		// previous one is lowercase or the next one is lowercase.
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(rune(s[i-1])) ||
			i+1 < len(s) && unicode.IsLower(rune(s[i+1]))) {
			if s[j:i] != "" {
				b.WriteString(strings.ToLower(s[j:i]))
				b.WriteByte('_')
			}
			j = i
		}
	}
	b.WriteString(strings.ToLower(s[j:]))
	return b.String()
}

// Pascal converts the given snake_case identifier to PascalCase.
func Pascal(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	for i, w := range words {
		if upper := strings.ToUpper(w); len(acronym) > 0 {
			if _, ok := acronym[upper]; ok {
				words[i] = upper
				continue
			}
		}
		words[i] = titler.String(w)
	}
	return strings.Join(words, "")
}

// Camel converts the given snake_case identifier to camelCase.
func Camel(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	if len(words) == 0 {
		return s
	}
	out := strings.ToLower(words[0])
	if len(words) > 1 {
		out += Pascal(strings.Join(words[1:], "_"))
	}
	return out
}

func isSeparator(r rune) bool { return r == '_' || r == '-' || unicode.IsSpace(r) }
