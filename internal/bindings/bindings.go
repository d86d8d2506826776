package bindings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/unkn0wn-root/actionrun/internal/jsonutil"
)

// Format identifies the serialization format for shortcut configs.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Source describes where the bindings config was loaded from.
type Source struct {
	Path   string
	Format Format
}

// ActionID uniquely identifies a shortcut action.
type ActionID string

const (
	ActionInvoke       ActionID = "invoke"
	ActionNextField    ActionID = "next_field"
	ActionPrevField    ActionID = "prev_field"
	ActionCopyResponse ActionID = "copy_response"
	ActionToggleHelp   ActionID = "toggle_help"
	ActionQuit         ActionID = "quit"
)

type definition struct {
	id          ActionID
	description string
	defaults    []string
}

var definitions = []definition{
	{id: ActionInvoke, description: "invoke", defaults: []string{"ctrl+r", "f5"}},
	{id: ActionNextField, description: "next", defaults: []string{"tab"}},
	{id: ActionPrevField, description: "prev", defaults: []string{"shift+tab"}},
	{id: ActionCopyResponse, description: "copy", defaults: []string{"ctrl+y"}},
	{id: ActionToggleHelp, description: "help", defaults: []string{"f1"}},
	{id: ActionQuit, description: "quit", defaults: []string{"ctrl+c", "ctrl+q"}},
}

var definitionLookup = func() map[ActionID]definition {
	out := make(map[ActionID]definition, len(definitions))
	for _, def := range definitions {
		out[def.id] = def
	}
	return out
}()

// Binding is one resolved shortcut.
type Binding struct {
	Action ActionID
	Key    string
}

// Map stores runtime shortcut bindings and lookup helpers.
type Map struct {
	keys    map[string]ActionID
	actions map[ActionID][]string
}

// Load attempts to read bindings from bindings.toml/json in dir. Missing files fall back to defaults.
func Load(dir string) (*Map, Source, error) {
	candidates := []Source{
		{Path: filepath.Join(dir, "bindings.toml"), Format: FormatTOML},
		{Path: filepath.Join(dir, "bindings.json"), Format: FormatJSON},
	}

	var accumulated error
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate.Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			accumulated = errors.Join(
				accumulated,
				fmt.Errorf("read bindings %q: %w", candidate.Path, err),
			)
			continue
		}

		overrides, err := parseConfig(data, candidate.Format)
		if err != nil {
			return nil, Source{}, fmt.Errorf("parse bindings %q: %w", candidate.Path, err)
		}
		built, err := buildMap(overrides)
		if err != nil {
			return nil, Source{}, fmt.Errorf("apply bindings %q: %w", candidate.Path, err)
		}
		return built, candidate, nil
	}

	if accumulated != nil {
		return nil, Source{}, accumulated
	}

	built, err := buildMap(nil)
	if err != nil {
		return nil, Source{}, err
	}
	return built, Source{Path: candidates[0].Path, Format: FormatTOML}, nil
}

// DefaultMap builds the built-in bindings without consulting disk.
func DefaultMap() *Map {
	m, err := buildMap(nil)
	if err != nil {
		panic(err)
	}
	return m
}

// Match returns the action bound to a key as reported by bubbletea.
func (m *Map) Match(key string) (Binding, bool) {
	if m == nil {
		return Binding{}, false
	}
	normalized := NormalizeKeyString(key)
	id, ok := m.keys[normalized]
	if !ok {
		return Binding{}, false
	}
	return Binding{Action: id, Key: normalized}, true
}

// Keys returns a copy of every key bound to action.
func (m *Map) Keys(action ActionID) []string {
	if m == nil {
		return nil
	}
	keys := m.actions[action]
	if len(keys) == 0 {
		return nil
	}
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Hint renders "key description" for the help line, empty when unbound.
func (m *Map) Hint(action ActionID) string {
	keys := m.Keys(action)
	if len(keys) == 0 {
		return ""
	}
	return keys[0] + " " + definitionLookup[action].description
}

type configFile struct {
	Bindings map[string][]string `json:"bindings" toml:"bindings"`
}

func parseConfig(data []byte, format Format) (map[ActionID][]string, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var payload configFile
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := jsonutil.API.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	if len(payload.Bindings) == 0 {
		return nil, nil
	}

	overrides := make(map[ActionID][]string, len(payload.Bindings))
	for key, specs := range payload.Bindings {
		id := ActionID(key)
		if _, ok := definitionLookup[id]; !ok {
			return nil, fmt.Errorf("unknown action %q", key)
		}
		steps := make([]string, 0, len(specs))
		for _, spec := range specs {
			step, err := normalizeStep(spec)
			if err != nil {
				return nil, fmt.Errorf("action %q: %w", key, err)
			}
			steps = append(steps, step)
		}
		overrides[id] = steps
	}
	return overrides, nil
}

func buildMap(overrides map[ActionID][]string) (*Map, error) {
	byAction := make(map[ActionID][]string, len(definitions))
	for _, def := range definitions {
		byAction[def.id] = append([]string(nil), def.defaults...)
	}
	for id, keys := range overrides {
		byAction[id] = append([]string(nil), keys...)
	}

	keys := make(map[string]ActionID)
	actions := make(map[ActionID][]string, len(byAction))
	for _, id := range actionIDs() {
		seen := make(map[string]struct{})
		for _, key := range byAction[id] {
			if _, ok := seen[key]; ok {
				return nil, fmt.Errorf("action %s: duplicate binding %q", id, key)
			}
			seen[key] = struct{}{}
			if existing, ok := keys[key]; ok {
				return nil, fmt.Errorf(
					"binding %q assigned to both %s and %s",
					key,
					existing,
					id,
				)
			}
			keys[key] = id
			actions[id] = append(actions[id], key)
		}
	}
	if len(actions[ActionQuit]) == 0 {
		return nil, errors.New("quit must keep at least one binding")
	}
	return &Map{keys: keys, actions: actions}, nil
}

func normalizeStep(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty key step")
	}
	if strings.ContainsAny(raw, " \t") {
		return "", fmt.Errorf("binding %q must be a single key", raw)
	}
	if raw == "?" {
		raw = "shift+/"
	}

	runes := []rune(raw)
	if len(runes) == 1 {
		r := runes[0]
		if unicode.IsLetter(r) && unicode.IsUpper(r) {
			return "shift+" + strings.ToLower(raw), nil
		}
		return strings.ToLower(raw), nil
	}

	if !strings.Contains(raw, "+") {
		return strings.ToLower(raw), nil
	}

	parts := strings.Split(raw, "+")
	var keyParts []string
	modSet := make(map[string]struct{})
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lower := strings.ToLower(part)
		switch lower {
		case "ctrl", "control":
			modSet["ctrl"] = struct{}{}
		case "alt", "option":
			modSet["alt"] = struct{}{}
		case "shift":
			modSet["shift"] = struct{}{}
		case "cmd", "command", "meta":
			modSet["cmd"] = struct{}{}
		default:
			keyParts = append(keyParts, lower)
		}
	}
	if len(keyParts) == 0 {
		return "", fmt.Errorf("binding %q missing key", raw)
	}
	key := strings.Join(keyParts, "+")
	mods := orderedModifiers(modSet)
	if len(mods) == 0 {
		return key, nil
	}
	return strings.Join(append(mods, key), "+"), nil
}

func orderedModifiers(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	order := []string{"ctrl", "alt", "shift", "cmd"}
	out := make([]string, 0, len(set))
	for _, mod := range order {
		if _, ok := set[mod]; ok {
			out = append(out, mod)
		}
	}
	return out
}

// NormalizeKeyString converts runtime key strings into canonical form for lookup.
func NormalizeKeyString(raw string) string {
	if raw == " " {
		return "space"
	}
	normalized, err := normalizeStep(raw)
	if err != nil {
		return ""
	}
	return normalized
}

// KnownActions returns the sorted list of action identifiers.
func KnownActions() []ActionID {
	return actionIDs()
}

func actionIDs() []ActionID {
	ids := make([]ActionID, 0, len(definitions))
	for _, def := range definitions {
		ids = append(ids, def.id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
