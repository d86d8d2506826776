package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestLoadCatalogIncludesBuiltinsAndUserThemes(t *testing.T) {
	dir := t.TempDir()

	tomlContent := []byte(`
highlight = "monokai"

[metadata]
name = "Oceanic"
author = "QA"

[styles.header]
foreground = "#ddeeff"
`)
	if err := os.WriteFile(filepath.Join(dir, "oceanic.toml"), tomlContent, 0o644); err != nil {
		t.Fatalf("write toml theme: %v", err)
	}

	jsonContent := []byte(`{
  "metadata": {"name": "Oceanic", "author": "QA"},
  "styles": {"success": {"foreground": "#00ff00", "bold": true}}
}`)
	if err := os.WriteFile(filepath.Join(dir, "sunset.json"), jsonContent, 0o644); err != nil {
		t.Fatalf("write json theme: %v", err)
	}

	catalog, err := LoadCatalog([]string{dir})
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}

	keys := catalog.Keys()
	if len(keys) < 2 || keys[0] != "default" || keys[1] != "mono" {
		t.Fatalf("expected builtins first, got %v", keys)
	}

	oceanic, ok := catalog.Get("oceanic")
	if !ok {
		t.Fatalf("expected oceanic theme to load")
	}
	if oceanic.Metadata.Author != "QA" {
		t.Fatalf("expected author QA, got %q", oceanic.Metadata.Author)
	}
	if oceanic.Theme.HighlightStyle != "monokai" {
		t.Fatalf("expected highlight override, got %q", oceanic.Theme.HighlightStyle)
	}
	if got := oceanic.Theme.Header.GetForeground(); got != lipgloss.Color("#ddeeff") {
		t.Fatalf("expected header foreground override, got %v", got)
	}

	duplicate, ok := catalog.Get("oceanic-1")
	if !ok {
		t.Fatalf("expected duplicate slug to be uniquified")
	}
	if !duplicate.Theme.Success.GetBold() {
		t.Fatalf("expected JSON style override")
	}
}

func TestLoadCatalogRejectsUnknownJSONFields(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"colours":{}}`), 0o644); err != nil {
		t.Fatalf("write theme: %v", err)
	}
	catalog, err := LoadCatalog([]string{dir})
	if err == nil {
		t.Fatalf("expected error for unknown field")
	}
	if _, ok := catalog.Get("default"); !ok {
		t.Fatalf("expected builtins despite bad user theme")
	}
}

func TestLoadCatalogHandlesMissingDirectory(t *testing.T) {
	catalog, err := LoadCatalog([]string{"/nonexistent/path"})
	if err != nil {
		t.Fatalf("LoadCatalog should not error on missing directories: %v", err)
	}
	if len(catalog.All()) != 2 {
		t.Fatalf("expected only builtin themes, got %d", len(catalog.All()))
	}
	if catalog.Resolve("missing").HighlightStyle != DefaultTheme().HighlightStyle {
		t.Fatalf("expected unknown key to resolve to default")
	}
	if catalog.Resolve("mono").HighlightStyle != "" {
		t.Fatalf("expected mono theme without highlighting")
	}
}
