package rules

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// CatalogBundle is one language's worth of catalog data: message templates
// keyed by message key and display names keyed by property name.
type CatalogBundle struct {
	Messages     map[string]string `yaml:"messages"`
	DisplayNames map[string]string `yaml:"displayNames"`
}

// Catalog is a LocalizationStrategy backed by per-language bundles. The
// locale requested at construction is matched against the available
// languages with BCP 47 semantics, so "en-US" selects an "en" bundle when
// no exact match exists.
type Catalog struct {
	bundle CatalogBundle
	lang   string
}

// ErrEmptyCatalog indicates catalog data with no language bundles.
var ErrEmptyCatalog = errors.New("rules: catalog contains no language bundles")

// NewCatalog selects the bundle best matching locale. Unparsable or
// unmatched locales fall back to the matcher's first language, keeping the
// catalog usable with a sensible default. Every message template in every
// bundle is validated here, so a typo in catalog data fails the load instead
// of a later validation run.
func NewCatalog(locale string, bundles map[string]CatalogBundle) (*Catalog, error) {
	if len(bundles) == 0 {
		return nil, ErrEmptyCatalog
	}

	langs := make([]string, 0, len(bundles))
	for lang := range bundles {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	tags := make([]language.Tag, len(langs))
	for i, lang := range langs {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("rules: invalid catalog language %q: %w", lang, err)
		}
		tags[i] = tag

		for key, tmpl := range bundles[lang].Messages {
			if err := validateTemplate(tmpl); err != nil {
				return nil, fmt.Errorf("rules: invalid catalog template for key %q in language %q: %w", key, lang, err)
			}
		}
	}

	matcher := language.NewMatcher(tags)
	requested, err := language.Parse(locale)
	if err != nil {
		requested = tags[0]
	}
	_, index, _ := matcher.Match(requested)

	return &Catalog{bundle: bundles[langs[index]], lang: langs[index]}, nil
}

// ParseCatalog builds a catalog from YAML data mapping language codes to
// bundles:
//
//	en:
//	  messages:
//	    required: "${$displayName} is mandatory."
//	  displayNames:
//	    firstName: "First name"
func ParseCatalog(locale string, data []byte) (*Catalog, error) {
	var bundles map[string]CatalogBundle
	if err := yaml.Unmarshal(data, &bundles); err != nil {
		return nil, fmt.Errorf("rules: cannot parse catalog: %w", err)
	}
	return NewCatalog(locale, bundles)
}

// LoadCatalog reads a YAML catalog file from disk.
func LoadCatalog(locale, path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: cannot read catalog file: %w", err)
	}
	return ParseCatalog(locale, data)
}

// Language returns the matched bundle's language code.
func (c *Catalog) Language() string {
	return c.lang
}

// Message returns the localized template for key, or fallback.
func (c *Catalog) Message(key, fallback string) string {
	if tmpl, ok := c.bundle.Messages[key]; ok && tmpl != "" {
		return tmpl
	}
	return fallback
}

// DisplayName returns the localized display name for a property.
func (c *Catalog) DisplayName(propertyName string) (string, bool) {
	name, ok := c.bundle.DisplayNames[propertyName]
	return name, ok && name != ""
}
