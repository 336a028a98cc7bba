// Package props provides string-keyed property sources for the ioc container.
//
// Sources are read-only. Files and bundled resources use the dotenv /
// key=value syntax understood by github.com/joho/godotenv.
package props

import (
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Source looks up a property by name.
type Source interface {
	Lookup(name string) (string, bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(name string) (string, bool)

// Lookup implements Source.
func (f SourceFunc) Lookup(name string) (string, bool) {
	return f(name)
}

// Map is an in-memory Source.
type Map map[string]string

// Lookup implements Source. A nil Map has no properties.
func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Env returns a Source backed by the process environment.
// With a non-empty prefix, property "db.host" maps to PREFIX_DB_HOST.
func Env(prefix string) Source {
	return SourceFunc(func(name string) (string, bool) {
		return os.LookupEnv(envKey(prefix, name))
	})
}

func envKey(prefix, name string) string {
	key := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(name))
	if prefix == "" {
		return key
	}
	return strings.ToUpper(prefix) + "_" + key
}

// Load reads one or more property files. Keys in later files replace those
// in earlier ones. With no paths it reads ".env".
func Load(paths ...string) (Map, error) {
	m, err := godotenv.Read(paths...)
	if err != nil {
		name := ".env"
		if len(paths) > 0 {
			name = strings.Join(paths, ", ")
		}
		return nil, errors.Wrapf(err, "loading properties from %s", name)
	}
	return Map(m), nil
}

// Parse reads properties from r, e.g. a bundled resource opened from an
// embed.FS.
func Parse(r io.Reader) (Map, error) {
	m, err := godotenv.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing properties")
	}
	return Map(m), nil
}

// Chain returns a Source that asks each source in turn; the first hit wins.
// Nil sources are skipped.
func Chain(sources ...Source) Source {
	return SourceFunc(func(name string) (string, bool) {
		for _, s := range sources {
			if s == nil {
				continue
			}
			if v, ok := s.Lookup(name); ok {
				return v, true
			}
		}
		return "", false
	})
}
