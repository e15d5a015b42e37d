package netlist

import (
	"strings"

	"github.com/google/uuid"
)

// Design is the single structure the Hierarchy Driver mutates: every
// IR-mutating operation happens on one Design owned by the driver.
type Design struct {
	Modules     map[string]*Module
	ModuleOrder []string
	Alloc       *IDAllocator
}

// NewDesign creates an empty design with a fresh IDAllocator.
func NewDesign() *Design {
	return &Design{
		Modules: make(map[string]*Module),
		Alloc:   NewIDAllocator(),
	}
}

// AddModule registers a newly created module in traversal order.
func (d *Design) AddModule(m *Module) {
	d.Modules[m.Name] = m
	d.ModuleOrder = append(d.ModuleOrder, m.Name)
}

// IDAllocator issues fresh cell/process identities. Built on
// github.com/google/uuid rather than a hand-rolled counter so identities
// stay unique even if two Design values built by separate elaboration runs
// are later merged, e.g. by an equivalence-checking flow.
type IDAllocator struct{}

func NewIDAllocator() *IDAllocator { return &IDAllocator{} }

// NewCellID returns a fresh cell identity.
func (a *IDAllocator) NewCellID() string {
	return "$cell$" + uuid.NewString()
}

// NewProcessID returns a fresh process identity.
func (a *IDAllocator) NewProcessID() string {
	return "$proc$" + uuid.NewString()
}

// EscapeID implements this "wire names derive from
// escape_id(hierarchical_path)": every non-empty SystemVerilog identifier
// is prefixed with `\`, whether or not it contains characters that would be
// ambiguous in the downstream IR's plain-identifier syntax, matching the
// conventional RTLIL escaping rule this system's netlist emulates.
func EscapeID(path string) string {
	if path == "" {
		return path
	}
	if isSimpleID(path) {
		return "\\" + path
	}
	return "\\" + strings.NewReplacer(" ", "_", "\t", "_").Replace(path)
}

func isSimpleID(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		case r == '.' || r == '[' || r == ']':
			// hierarchical separators and bit-select brackets are allowed
			// through unescaped, matching how the front end already
			// delimits hierarchical paths.
		default:
			return false
		}
	}
	return true
}

// NetID derives the net_id for a hierarchical path the way this
// invariant describes: "a wire is always referenced by net_id(symbol)
// derived from the symbol's hierarchical path."
func NetID(hierarchicalPath string) string {
	return EscapeID(strings.TrimPrefix(hierarchicalPath, "."))
}
