// Package schema validates the elaborator's own config and its emitted
// netlist structural summaries against embedded CUE schemas, the same
// "crash early, crash loud" contract guard the reference internal/validator
// package builds for its Go/policy-engine boundary — here guarding the
// config file format and standing in for this "IR structural
// check" on the Hierarchy Driver's output.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

//go:embed netlist_schema.cue
var netlistSchemaFS embed.FS

//go:embed config_schema.cue
var configSchemaFS embed.FS

// Validator holds the compiled schemas for one process lifetime; unlike
// internal/irbuilder.Builder it is not scoped per elaboration run, since it
// carries no design-specific state.
type Validator struct {
	ctx          *cue.Context
	configSchema cue.Value
	moduleSchema cue.Value
}

// New compiles both embedded schemas.
func New() (*Validator, error) {
	ctx := cuecontext.New()

	configBytes, err := configSchemaFS.ReadFile("config_schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded config schema: %w", err)
	}
	configSchema := ctx.CompileBytes(configBytes)
	if configSchema.Err() != nil {
		return nil, fmt.Errorf("compiling config schema: %w", configSchema.Err())
	}

	moduleBytes, err := netlistSchemaFS.ReadFile("netlist_schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded netlist schema: %w", err)
	}
	moduleSchema := ctx.CompileBytes(moduleBytes)
	if moduleSchema.Err() != nil {
		return nil, fmt.Errorf("compiling netlist schema: %w", moduleSchema.Err())
	}

	return &Validator{ctx: ctx, configSchema: configSchema, moduleSchema: moduleSchema}, nil
}

// ValidateConfig checks configJSON, the marshaled shape of
// internal/config.Config, against #Config.
func (v *Validator) ValidateConfig(configJSON []byte) error {
	return v.validateAgainst(configJSON, "#Config")
}

// ValidateModuleSummary checks a Module's structural summary against
// #ModuleSummary; internal/hierarchy calls this once per populated module
// before recursing into its children.
func (v *Validator) ValidateModuleSummary(m *netlist.Module) error {
	data, err := json.Marshal(BuildModuleSummary(m))
	if err != nil {
		return fmt.Errorf("marshaling module summary: %w", err)
	}
	return v.validateAgainst(data, "#ModuleSummary")
}

func (v *Validator) validateAgainst(jsonBytes []byte, defPath string) error {
	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return fmt.Errorf("compiling data as CUE: %w", dataValue.Err())
	}

	var def cue.Value
	switch defPath {
	case "#Config":
		def = v.configSchema.LookupPath(cue.ParsePath(defPath))
	case "#ModuleSummary":
		def = v.moduleSchema.LookupPath(cue.ParsePath(defPath))
	}
	if def.Err() != nil {
		return fmt.Errorf("looking up %s definition: %w", defPath, def.Err())
	}

	unified := def.Unify(dataValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// PortSummary is one port's structural facts.
type PortSummary struct {
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Direction string `json:"direction"`
}

// ModuleSummary is the structural fact set #ModuleSummary checks: enough
// to catch a mis-populated module (a port with zero width, an unresolved
// direction) without re-deriving the whole netlist inside CUE.
type ModuleSummary struct {
	Name      string        `json:"name"`
	Wires     int           `json:"wires"`
	Cells     int           `json:"cells"`
	Processes int           `json:"processes"`
	Ports     []PortSummary `json:"ports"`
}

// BuildModuleSummary reads m's structural facts off its populated fields.
func BuildModuleSummary(m *netlist.Module) ModuleSummary {
	s := ModuleSummary{
		Name:      m.Name,
		Wires:     len(m.Wires),
		Cells:     len(m.Cells),
		Processes: len(m.Processes),
	}
	for _, w := range m.WireOrder {
		if !w.IsPort {
			continue
		}
		dir := "input"
		switch w.Direction {
		case svast.PortOutput:
			dir = "output"
		case svast.PortInOut:
			dir = "inout"
		}
		s.Ports = append(s.Ports, PortSummary{Name: w.ID, Width: w.Width, Direction: dir})
	}
	return s
}
