package catalog

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/actionrun/internal/errdef"
	"github.com/unkn0wn-root/actionrun/internal/jsonutil"
)

// Load reads a catalog from a .json, .yaml or .yml file. A missing file is an
// empty catalog, not an error.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeFilesystem, err, "read catalog %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes {"name": "url"} or {"name": {"url": ...}} keeping key order.
func ParseJSON(data []byte) (*Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return New(), nil
	}
	if !jsonutil.Valid(trimmed) || trimmed[0] != '{' {
		return nil, errdef.New(errdef.CodeCatalog, "catalog must be a JSON object")
	}

	om := orderedmap.New[string, Action]()
	if err := om.UnmarshalJSON(trimmed); err != nil {
		return nil, errdef.Wrap(errdef.CodeCatalog, err, "decode catalog")
	}
	return build(om)
}

func ParseYAML(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errdef.Wrap(errdef.CodeCatalog, err, "decode catalog")
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return New(), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errdef.New(errdef.CodeCatalog, "catalog must be a mapping")
	}

	om := orderedmap.New[string, Action]()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		var action Action
		if err := val.Decode(&action); err != nil {
			return nil, errdef.Wrap(errdef.CodeCatalog, err, "decode action %q", key.Value)
		}
		om.Set(key.Value, action)
	}
	return build(om)
}

func build(om *orderedmap.OrderedMap[string, Action]) (*Catalog, error) {
	actions := make([]Action, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		name := strings.TrimSpace(pair.Key)
		if name == "" {
			return nil, errdef.New(errdef.CodeCatalog, "action name must not be empty")
		}
		a := pair.Value
		a.Name = name
		a.URL = strings.TrimSpace(a.URL)
		if a.URL == "" {
			return nil, errdef.New(errdef.CodeCatalog, "action %q has no url", name)
		}
		actions = append(actions, a)
	}
	return New(actions...), nil
}

type actionFields Action

// UnmarshalJSON accepts either a bare URL string or a descriptor object.
func (a *Action) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var url string
		if err := jsonutil.API.Unmarshal(trimmed, &url); err != nil {
			return err
		}
		*a = Action{URL: url}
		return nil
	}
	var fields actionFields
	if err := jsonutil.API.Unmarshal(trimmed, &fields); err != nil {
		return err
	}
	*a = Action(fields)
	return nil
}

func (a *Action) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*a = Action{URL: node.Value}
		return nil
	}
	var fields actionFields
	if err := node.Decode(&fields); err != nil {
		return err
	}
	*a = Action(fields)
	return nil
}
