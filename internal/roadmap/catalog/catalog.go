// Package catalog holds the static domain/language/framework tables used to label profiles,
// pick documentation links and list the options a learner can choose from.
package catalog

import (
	_ "embed"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// None is the sentinel for "no language" / "no framework".
const None = "none"

type Entry struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
	Icon  string `yaml:"icon,omitempty"`
	Docs  string `yaml:"docs,omitempty"`
}

type Catalog struct {
	DefaultDocURL      string              `yaml:"default_doc_url"`
	Domains            []Entry             `yaml:"domains"`
	Languages          []Entry             `yaml:"languages"`
	Frameworks         []Entry             `yaml:"frameworks"`
	DomainLanguages    map[string][]string `yaml:"domain_languages"`
	LanguageFrameworks map[string][]string `yaml:"language_frameworks"`

	domains    map[string]Entry
	languages  map[string]Entry
	frameworks map[string]Entry
}

// Parse decodes a catalog document and checks its cross references.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, zerr.Wrap(err, "failed to parse catalog")
	}
	if strings.TrimSpace(c.DefaultDocURL) == "" {
		return nil, zerr.New("catalog default_doc_url is required")
	}
	c.domains = index(c.Domains)
	c.languages = index(c.Languages)
	c.frameworks = index(c.Frameworks)

	for domain, langs := range c.DomainLanguages {
		for _, l := range langs {
			if _, ok := c.languages[l]; !ok {
				return nil, zerr.With(zerr.With(zerr.New("catalog references unknown language"), "domain", domain), "language", l)
			}
		}
	}
	for lang, fws := range c.LanguageFrameworks {
		for _, f := range fws {
			if _, ok := c.frameworks[f]; !ok {
				return nil, zerr.With(zerr.With(zerr.New("catalog references unknown framework"), "language", lang), "framework", f)
			}
		}
	}
	return &c, nil
}

func index(entries []Entry) map[string]Entry {
	out := make(map[string]Entry, len(entries))
	for _, e := range entries {
		out[e.Code] = e
	}
	return out
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog. A malformed embedded document is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embedded)
		if err != nil {
			panic(err)
		}
		defaultCat = c
	})
	return defaultCat
}

func (c *Catalog) DomainLabel(code string) string {
	if e, ok := c.domains[code]; ok {
		return e.Label
	}
	return capitalize(code)
}

func (c *Catalog) LanguageLabel(code string) string {
	if e, ok := c.languages[code]; ok {
		return e.Label
	}
	return capitalize(code)
}

func (c *Catalog) FrameworkLabel(code string) string {
	if e, ok := c.frameworks[code]; ok {
		return e.Label
	}
	return capitalize(code)
}

func (c *Catalog) LanguageDocURL(code string) string {
	if e, ok := c.languages[code]; ok && e.Docs != "" {
		return e.Docs
	}
	return c.DefaultDocURL
}

func (c *Catalog) FrameworkDocURL(code string) string {
	if e, ok := c.frameworks[code]; ok && e.Docs != "" {
		return e.Docs
	}
	return c.DefaultDocURL
}

// AvailableLanguages lists the languages offered for a domain; unknown domains get every language.
func (c *Catalog) AvailableLanguages(domain string) []Entry {
	codes, ok := c.DomainLanguages[domain]
	if !ok {
		return append([]Entry(nil), c.Languages...)
	}
	return c.pick(c.Languages, codes)
}

// AvailableFrameworks lists the frameworks offered for a language; unknown languages get every framework.
func (c *Catalog) AvailableFrameworks(language string) []Entry {
	codes, ok := c.LanguageFrameworks[language]
	if !ok {
		return append([]Entry(nil), c.Frameworks...)
	}
	return c.pick(c.Frameworks, codes)
}

// pick keeps catalog order rather than the order of codes.
func (c *Catalog) pick(all []Entry, codes []string) []Entry {
	want := make(map[string]bool, len(codes))
	for _, code := range codes {
		want[code] = true
	}
	out := make([]Entry, 0, len(codes))
	for _, e := range all {
		if want[e.Code] {
			out = append(out, e)
		}
	}
	return out
}

func (c *Catalog) IsDomain(code string) bool {
	_, ok := c.domains[code]
	return ok
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
