// Package i18n holds the UI strings and the language lookup.
package i18n

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// EnvLang overrides language detection on native builds.
const EnvLang = "GUESSNOTE_LANG"

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Translator looks keys up in one language, falling back to English.
type Translator struct {
	lang  string
	table map[string]string
}

// New returns a translator for lang. Unknown languages use English.
func New(lang string) *Translator {
	lang = Normalize(lang)
	return &Translator{lang: lang, table: dictionaries[lang]}
}

// Lang returns the language code in use.
func (t *Translator) Lang() string {
	return t.lang
}

// T returns the text for key with {name} placeholders replaced from vars.
// Missing keys fall back to English, then vars["fallback"], then the key.
func (t *Translator) T(key string, vars map[string]any) string {
	raw, ok := t.table[key]
	if !ok {
		raw, ok = dictionaries["en"][key]
	}
	if !ok {
		if fb, found := vars["fallback"]; found && fb != nil {
			raw = fmt.Sprint(fb)
		} else {
			raw = key
		}
	}
	return Format(raw, vars)
}

// Keys returns every key known in English.
func Keys() []string {
	keys := make([]string, 0, len(dictionaries["en"]))
	for k := range dictionaries["en"] {
		keys = append(keys, k)
	}
	return keys
}

// Format replaces {name} with vars[name]. Missing or nil vars become "".
func Format(s string, vars map[string]any) string {
	if vars == nil {
		return s
	}
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		v, ok := vars[m[1:len(m)-1]]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
}

// Normalize maps a requested code onto a supported language, or "en".
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := dictionaries[lang]; ok {
		return lang
	}
	return "en"
}

// Detect picks the language: an explicit query value wins when it is
// supported, then the browser or locale language by prefix, then English.
func Detect(query, locale string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if _, ok := dictionaries[q]; ok {
		return q
	}

	loc := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(loc, "es"):
		return "es"
	case strings.HasPrefix(loc, "pt"):
		return "pt"
	}
	return "en"
}

// DetectEnv picks the language for native builds from GUESSNOTE_LANG and
// then LANG (e.g. "es_AR.UTF-8").
func DetectEnv(flag string) string {
	if flag != "" {
		return Detect(flag, "")
	}
	return Detect(os.Getenv(EnvLang), os.Getenv("LANG"))
}
