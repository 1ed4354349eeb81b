package project

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/raphi011/funcwiz/internal/storage"
)

// FunctionFile describes the bindings of one function.
const FunctionFile = "function.json"

// Binding is one entry of function.json "bindings".
type Binding struct {
	Type      string   `json:"type"`
	Direction string   `json:"direction"`
	Name      string   `json:"name"`
	AuthLevel string   `json:"authLevel,omitempty"`
	Methods   []string `json:"methods,omitempty"`
	Route     string   `json:"route,omitempty"`
	Schedule  string   `json:"schedule,omitempty"`
}

// Function is a function discovered in a project directory.
type Function struct {
	Name     string    `json:"name" yaml:"name"`
	Dir      string    `json:"dir" yaml:"dir"`
	Bindings []Binding `json:"bindings" yaml:"-"`
}

// Trigger returns the function's trigger binding.
func (f Function) Trigger() (Binding, bool) {
	for _, b := range f.Bindings {
		if strings.HasSuffix(b.Type, "Trigger") && b.Direction != "out" {
			return b, true
		}
	}
	return Binding{}, false
}

// IsHTTP reports whether the function is triggered over HTTP.
func (f Function) IsHTTP() bool {
	b, ok := f.Trigger()
	return ok && b.Type == "httpTrigger"
}

// ListFunctions returns the functions defined by <dir>/*/function.json,
// sorted by name.
func ListFunctions(dir string) ([]Function, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*", FunctionFile))
	if err != nil {
		return nil, err
	}

	var fns []Function
	for _, m := range matches {
		var doc struct {
			Bindings []Binding `json:"bindings"`
		}
		if err := storage.LoadJSON(m, &doc); err != nil {
			return nil, fmt.Errorf("read %s: %w", m, err)
		}
		fnDir := filepath.Dir(m)
		fns = append(fns, Function{
			Name:     filepath.Base(fnDir),
			Dir:      fnDir,
			Bindings: doc.Bindings,
		})
	}

	slices.SortFunc(fns, func(a, b Function) int { return strings.Compare(a.Name, b.Name) })
	return fns, nil
}

// HasFunction reports whether a function directory named name exists.
// Names compare case-insensitively, as the host does.
func HasFunction(dir, name string) (bool, error) {
	fns, err := ListFunctions(dir)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(fns, func(f Function) bool {
		return strings.EqualFold(f.Name, name)
	}), nil
}
