package object

import "fmt"

// Module is a named namespace IMPORT_NAME/IMPORT_FROM/IMPORT_STAR
// resolve against. Locating and compiling source for an import is out
// of scope here; a Module is always pre-built by the embedder (an
// adapted standard-library package, or a host-provided one) and handed
// to the evaluator's module registry before a program runs.
type Module struct {
	Name string
	Dict map[string]Value
}

func (m *Module) Type() string   { return "module" }
func (m *Module) String() string { return fmt.Sprintf("<module '%s'>", m.Name) }

// Get retrieves a name from the module's namespace.
func (m *Module) Get(name string) (Value, bool) {
	v, ok := m.Dict[name]
	return v, ok
}

// NewModule builds an empty module ready for Dict entries.
func NewModule(name string) *Module {
	return &Module{Name: name, Dict: map[string]Value{}}
}
