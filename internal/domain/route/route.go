// Package route declares the navigation section of the copyright assistant
// as static data for an external router.
package route

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRoute is returned by Validate.
var ErrInvalidRoute = errors.New("invalid route")

// LayoutComponent is the placeholder the router swaps for the shared layout.
const LayoutComponent = "LAYOUT"

// View is a deferred view reference. Load is only called by the router when
// the page is first visited; it yields the module path to import.
type View struct {
	name string
	load func() string
}

// Layout returns the layout placeholder view.
func Layout() View {
	return View{name: LayoutComponent, load: func() string { return LayoutComponent }}
}

// Lazy returns a view whose module is resolved on first navigation.
func Lazy(module string) View {
	return View{name: module, load: func() string { return module }}
}

// Load resolves the view. A zero View resolves to "".
func (v View) Load() string {
	if v.load == nil {
		return ""
	}
	return v.load()
}

// String names the view without loading it.
func (v View) String() string { return v.name }

// MarshalYAML renders the view by name.
func (v View) MarshalYAML() (any, error) { return v.name, nil }

// Meta is the display metadata of a node.
type Meta struct {
	OrderNo int    `yaml:"orderNo,omitempty" json:"orderNo,omitempty"`
	Icon    string `yaml:"icon" json:"icon"`
	Title   string `yaml:"title" json:"title"`
}

// Node is one navigable entry. Child paths are relative to the parent.
type Node struct {
	Path      string `yaml:"path" json:"path"`
	Name      string `yaml:"name" json:"name"`
	Component View   `yaml:"component" json:"-"`
	Redirect  string `yaml:"redirect,omitempty" json:"redirect,omitempty"`
	Meta      Meta   `yaml:"meta" json:"meta"`
	Children  []Node `yaml:"children,omitempty" json:"children,omitempty"`
}

// Copyright returns the copyright assistant section: a generator page and a
// history list under /copyright.
func Copyright() Node {
	return Node{
		Path:      "/copyright",
		Name:      "Copyright",
		Component: Layout(),
		Redirect:  "/copyright/generator",
		Meta: Meta{
			OrderNo: 15,
			Icon:    "ant-design:file-protect-outlined",
			Title:   "基础智能体",
		},
		Children: []Node{
			{
				Path:      "generator",
				Name:      "CopyrightGenerator",
				Component: Lazy("/@/views/copyright/generator/index.vue"),
				Meta: Meta{
					Title: "软著生成助手",
					Icon:  "ant-design:code-outlined",
				},
			},
			{
				Path:      "list",
				Name:      "CopyrightList",
				Component: Lazy("/@/views/copyright/list/index.vue"),
				Meta: Meta{
					Title: "生成记录",
					Icon:  "ant-design:history-outlined",
				},
			},
		},
	}
}

// Resolve joins a child path onto its parent. Absolute child paths are kept.
func Resolve(parent, child string) string {
	if strings.HasPrefix(child, "/") {
		return path.Clean(child)
	}
	return path.Join("/", parent, child)
}

// Validate checks that the redirect points at the first child and that every
// name in the tree is unique.
func (n Node) Validate() error {
	if len(n.Children) > 0 && n.Redirect != "" {
		first := Resolve(n.Path, n.Children[0].Path)
		if n.Redirect != first {
			return fmt.Errorf("%w: %s redirects to %q, first child resolves to %q", ErrInvalidRoute, n.Name, n.Redirect, first)
		}
	}
	seen := map[string]bool{}
	return n.walk("", func(full string, node Node) error {
		if node.Name == "" {
			return fmt.Errorf("%w: %s has no name", ErrInvalidRoute, full)
		}
		if seen[node.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidRoute, node.Name)
		}
		seen[node.Name] = true
		return nil
	})
}

// Paths returns the resolved path of every node, depth first.
func (n Node) Paths() []string {
	var out []string
	_ = n.walk("", func(full string, _ Node) error {
		out = append(out, full)
		return nil
	})
	return out
}

func (n Node) walk(parent string, fn func(full string, node Node) error) error {
	full := Resolve(parent, n.Path)
	if err := fn(full, n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.walk(full, fn); err != nil {
			return err
		}
	}
	return nil
}

// YAML renders the tree for inspection.
func (n Node) YAML() ([]byte, error) {
	return yaml.Marshal(n)
}
