package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	toml "github.com/pelletier/go-toml/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/unkn0wn-root/actionrun/internal/jsonutil"
)

type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceUser    Source = "user"
)

type Definition struct {
	Key      string
	Metadata Metadata
	Theme    Theme
	Source   Source
	Path     string
}

// Catalog lists the built-in themes first, then user themes ordered by key.
type Catalog struct {
	defs *orderedmap.OrderedMap[string, Definition]
}

func (c Catalog) All() []Definition {
	if c.defs == nil {
		return nil
	}
	out := make([]Definition, 0, c.defs.Len())
	for pair := c.defs.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

func (c Catalog) Keys() []string {
	defs := c.All()
	keys := make([]string, len(defs))
	for i, def := range defs {
		keys[i] = def.Key
	}
	return keys
}

func (c Catalog) Get(key string) (Definition, bool) {
	if c.defs == nil {
		return Definition{}, false
	}
	return c.defs.Get(key)
}

// Resolve picks key from the catalog, falling back to the default theme.
func (c Catalog) Resolve(key string) Theme {
	if def, ok := c.Get(strings.ToLower(strings.TrimSpace(key))); ok {
		return def.Theme
	}
	return DefaultTheme()
}

func builtins() []Definition {
	return []Definition{
		{Key: "default", Metadata: Metadata{Name: "Default"}, Theme: DefaultTheme(), Source: SourceBuiltin},
		{Key: "mono", Metadata: Metadata{Name: "Mono"}, Theme: Monochrome(), Source: SourceBuiltin},
	}
}

// LoadCatalog reads every .toml and .json theme in dirs on top of the default
// theme. Broken files are skipped and reported in the joined error; the
// returned catalog is always usable.
func LoadCatalog(dirs []string) (Catalog, error) {
	cat := Catalog{defs: orderedmap.New[string, Definition]()}
	for _, def := range builtins() {
		cat.defs.Set(def.Key, def)
	}

	var (
		user []Definition
		errs error
	)
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("themes: read directory %q: %w", dir, err))
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			def, ok, err := loadUserTheme(path)
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("themes: load %q: %w", path, err))
				continue
			}
			if !ok {
				continue
			}
			def.Key = uniqueKey(def.Key, cat.defs, user)
			user = append(user, def)
		}
	}

	sort.SliceStable(user, func(i, j int) bool { return user[i].Key < user[j].Key })
	for _, def := range user {
		cat.defs.Set(def.Key, def)
	}
	return cat, errs
}

// loadUserTheme reports ok=false for files that are not themes.
func loadUserTheme(path string) (Definition, bool, error) {
	var decode func([]byte, any) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		decode = toml.Unmarshal
	case ".json":
		decode = jsonutil.Strict.Unmarshal
	default:
		return Definition{}, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, false, err
	}
	var spec ThemeSpec
	if err := decode(data, &spec); err != nil {
		return Definition{}, false, err
	}
	th, err := ApplySpec(DefaultTheme(), spec)
	if err != nil {
		return Definition{}, false, err
	}

	var meta Metadata
	if spec.Metadata != nil {
		meta = *spec.Metadata
	}
	key := slugify(meta.Name)
	if key == "" {
		key = slugify(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	if key == "" {
		key = "theme"
	}
	return Definition{Key: key, Metadata: meta, Theme: th, Source: SourceUser, Path: path}, true, nil
}

func uniqueKey(key string, taken *orderedmap.OrderedMap[string, Definition], pending []Definition) string {
	used := func(k string) bool {
		if _, ok := taken.Get(k); ok {
			return true
		}
		for _, def := range pending {
			if def.Key == k {
				return true
			}
		}
		return false
	}
	if !used(key) {
		return key
	}
	for n := 1; ; n++ {
		if candidate := key + "-" + strconv.Itoa(n); !used(candidate) {
			return candidate
		}
	}
}

func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && (r == '-' || r == '_' || unicode.IsSpace(r)):
			b.WriteRune('-')
			dash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
