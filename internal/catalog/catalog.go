// Package catalog holds the immutable set of backend actions a session can
// invoke. Only names matter to the controller; the descriptor is for the
// transport.
package catalog

import (
	"net/http"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type Action struct {
	Name        string `json:"-"                     yaml:"-"`
	URL         string `json:"url"                   yaml:"url"`
	Method      string `json:"method,omitempty"      yaml:"method,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// EffectiveMethod is the upper-cased method, POST when unset.
func (a Action) EffectiveMethod() string {
	m := strings.ToUpper(strings.TrimSpace(a.Method))
	if m == "" {
		return http.MethodPost
	}
	return m
}

// Catalog keeps actions in the order they were defined.
type Catalog struct {
	actions *orderedmap.OrderedMap[string, Action]
}

// New builds a catalog; a later action with the same name replaces the
// earlier one but keeps its position.
func New(actions ...Action) *Catalog {
	om := orderedmap.New[string, Action]()
	for _, a := range actions {
		om.Set(a.Name, a)
	}
	return &Catalog{actions: om}
}

func (c *Catalog) Len() int {
	if c == nil || c.actions == nil {
		return 0
	}
	return c.actions.Len()
}

func (c *Catalog) Empty() bool {
	return c.Len() == 0
}

func (c *Catalog) Names() []string {
	if c.Len() == 0 {
		return nil
	}
	names := make([]string, 0, c.actions.Len())
	for pair := c.actions.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func (c *Catalog) Lookup(name string) (Action, bool) {
	if c.Len() == 0 {
		return Action{}, false
	}
	return c.actions.Get(name)
}

func (c *Catalog) Actions() []Action {
	if c.Len() == 0 {
		return nil
	}
	out := make([]Action, 0, c.actions.Len())
	for pair := c.actions.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}
