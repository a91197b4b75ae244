// Package tasktemplate loads reusable task skeletons from
// ~/.cleo/templates/*.toml and fills their {{variable}} placeholders,
// backing tasks add --template (spec.md §4.F).
//
// Grounded on the deleted cmd/bd/template.go's variable-substitution
// templating (TemplateSubgraph/CloneOptions.Vars and its
// {{variable}} regex), adapted from Beads' label-tagged issue
// subgraphs stored in the database to CLEO's flat per-user TOML files,
// since CLEO has no daemon or shared store to keep a template epic in.
package tasktemplate

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/cleohq/cleo/internal/paths"
)

// Template is one named task skeleton.
type Template struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Priority    string   `toml:"priority"`
	Size        string   `toml:"size"`
	Type        string   `toml:"type"`
	Labels      []string `toml:"labels"`
	Acceptance  []string `toml:"acceptance"`
}

// variablePattern matches {{variable}} placeholders (same shape as the
// deleted cmd/bd/template.go's).
var variablePattern = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)

// Dir returns the directory templates are loaded from: "templates"
// under the resolved CLEO home (spec.md §4.F: "~/.cleo/templates/*.toml").
func Dir() (string, error) {
	home, err := paths.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "templates"), nil
}

// Load reads name.toml from dir.
func Load(dir, name string) (*Template, error) {
	path := filepath.Join(dir, name+".toml")
	var t Template
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("tasktemplate: loading %s: %w", path, err)
	}
	return &t, nil
}

// Render returns a copy of t with every {{key}} placeholder in its
// Title, Description, Labels and Acceptance replaced by vars[key];
// Priority, Size and Type are copied unchanged. A placeholder with no matching
// var is left as-is, so a missing substitution is visible in the
// created task instead of silently vanishing.
func (t *Template) Render(vars map[string]string) *Template {
	substitute := func(s string) string {
		return variablePattern.ReplaceAllStringFunc(s, func(match string) string {
			key := match[2 : len(match)-2]
			if v, ok := vars[key]; ok {
				return v
			}
			return match
		})
	}

	out := &Template{
		Title:       substitute(t.Title),
		Description: substitute(t.Description),
		Priority:    t.Priority,
		Size:        t.Size,
		Type:        t.Type,
	}
	if t.Labels != nil {
		out.Labels = make([]string, len(t.Labels))
		for i, l := range t.Labels {
			out.Labels[i] = substitute(l)
		}
	}
	if t.Acceptance != nil {
		out.Acceptance = make([]string, len(t.Acceptance))
		for i, a := range t.Acceptance {
			out.Acceptance[i] = substitute(a)
		}
	}
	return out
}
