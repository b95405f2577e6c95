// Package i18n holds the user-visible messages of the demo form.
//
// Catalogs are embedded YAML files, one per locale, registered in a
// golang.org/x/text catalog owned by the Catalog value (not the process-wide
// default catalog). Japanese is the base locale.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every key must be defined in.
const BaseLocale = "ja"

// Message keys.
const (
	KeyNotInteger  = "input.not_integer"
	KeyPlaceholder = "input.placeholder"
	KeySignIn      = "header.sign_in"
	KeySignOut     = "header.sign_out"
	KeyCounter     = "counter.title"
	KeyGreeting    = "user.greeting"
	KeyHelp        = "help.keys"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog is a set of localized messages.
type Catalog struct {
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
}

// Load returns the embedded catalog.
func Load() (*Catalog, error) {
	return LoadFromFS(embeddedLocales)
}

// MustLoad is like Load but panics on error. The embedded catalog is
// covered by tests, so failure means a broken build.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFromFS loads every locales/*.yaml file of fsys.
// Each locale must define exactly the keys of the base locale.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	files := make(map[string]localeFile, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var f localeFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		f.Locale = strings.TrimSpace(f.Locale)
		if f.Locale == "" {
			return nil, fmt.Errorf("%s: locale is required", path)
		}
		if _, dup := files[f.Locale]; dup {
			return nil, fmt.Errorf("%s: locale %q defined twice", path, f.Locale)
		}
		files[f.Locale] = f
	}

	base, ok := files[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}

	baseTag := language.MustParse(BaseLocale)
	c := &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(baseTag)),
		tags:    []language.Tag{baseTag},
	}

	locales := make([]string, 0, len(files))
	for locale := range files {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		f := files[locale]
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", locale, err)
		}
		for key := range base.Messages {
			if _, ok := f.Messages[key]; !ok {
				return nil, fmt.Errorf("locale %s: missing key %q", locale, key)
			}
		}
		for key, msg := range f.Messages {
			if _, ok := base.Messages[key]; !ok {
				return nil, fmt.Errorf("locale %s: key %q not in base locale", locale, key)
			}
			if err := c.builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("locale %s: set %q: %w", locale, key, err)
			}
		}
		if locale != BaseLocale {
			c.tags = append(c.tags, tag)
		}
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Locales returns the loaded locales, base first.
func (c *Catalog) Locales() []string {
	out := make([]string, len(c.tags))
	for i, tag := range c.tags {
		out[i] = tag.String()
	}
	return out
}

// Printer returns a printer for the best match of locale.
// Unknown or empty locales fall back to the base locale.
func (c *Catalog) Printer(locale string) *Printer {
	tag := c.tags[0]
	if locale != "" {
		if desired, err := language.Parse(locale); err == nil {
			_, idx, conf := c.matcher.Match(desired)
			if conf != language.No {
				tag = c.tags[idx]
			}
		}
	}
	return &Printer{
		tag: tag,
		p:   message.NewPrinter(tag, message.Catalog(c.builder)),
	}
}

// Printer formats messages for one locale.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// Locale returns the locale the printer formats for.
func (p *Printer) Locale() string {
	return p.tag.String()
}

// Sprintf formats the message for key.
func (p *Printer) Sprintf(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}
