// Package lintpolicy runs a post-elaboration policy pass over a JSON
// summary of the built design, mirroring the reference internal/policy
// engine almost line for line but re-targeted at netlist process facts
// instead of VHDL entity/signal facts. Its embedded rego rules are an
// always_comb-should-have-no-latch check (possible_latch) and a sync-kind
// consistency check (unbalanced_sync_kinds), expressed declaratively instead
// of as ad hoc Go conditionals. The Ignorable diagnostics (unique/priority
// ignored, always→implicit-event conversion) are not checked here.
package lintpolicy

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/open-policy-agent/opa/rego"

	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
)

//go:embed rules.rego
var rulesFS embed.FS

// Engine evaluates the embedded rego rules against one elaborated design.
type Engine struct {
	queries map[string]rego.PreparedEvalQuery
}

// Violation is one rule failure.
type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Process  string `json:"process"`
	Message  string `json:"message"`
}

// Summary is the aggregate violation tally.
type Summary struct {
	TotalViolations int `json:"total_violations"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
}

// Result is one Evaluate call's output.
type Result struct {
	Violations []Violation
	Summary    Summary
}

// ProcessFact is one process's structural facts, as seen from the netlist
// rather than the AST.
type ProcessFact struct {
	Name          string   `json:"name"`
	SyncKinds     []string `json:"sync_kinds"`
	ImplicitEvent bool     `json:"implicit_event"`
	ActionCount   int      `json:"action_count"`
	SwitchCount   int      `json:"switch_count"`
}

// Input is the data structure passed to OPA.
type Input struct {
	Module    string        `json:"module"`
	Processes []ProcessFact `json:"processes"`
}

// MarshalJSON guarantees SyncKinds serializes as an empty array rather than
// null for a nil slice, since a JSON null (rather than an empty array)
// fails count() against it inside the embedded rego rules.
func (p ProcessFact) MarshalJSON() ([]byte, error) {
	type alias ProcessFact
	a := alias(p)
	if a.SyncKinds == nil {
		a.SyncKinds = []string{}
	}
	return json.Marshal(a)
}

// New loads the embedded rego rules and prepares both queries this
// package's Evaluate needs.
func New() (*Engine, error) {
	content, err := rulesFS.ReadFile("rules.rego")
	if err != nil {
		return nil, fmt.Errorf("reading embedded rules.rego: %w", err)
	}
	module := rego.Module("rules.rego", string(content))

	violations, err := rego.New(module, rego.Query("data.svelab.lint.all_violations")).PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("preparing violations query: %w", err)
	}
	summary, err := rego.New(module, rego.Query("data.svelab.lint.summary")).PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("preparing summary query: %w", err)
	}

	return &Engine{queries: map[string]rego.PreparedEvalQuery{
		"violations": violations,
		"summary":    summary,
	}}, nil
}

// BuildInput reads m's processes into lint facts: each process's sync
// rule kinds, whether it carries the single implicit-event sync
// always_comb produces, and the shape of its root case.
func BuildInput(m *netlist.Module) Input {
	in := Input{Module: m.Name}
	for _, p := range m.Processes {
		kinds := make([]string, len(p.Syncs))
		implicit := len(p.Syncs) == 1
		for i, s := range p.Syncs {
			kinds[i] = s.Kind.String()
			if s.Kind != netlist.SyncAlways {
				implicit = false
			}
		}
		fact := ProcessFact{
			Name:          p.Name,
			SyncKinds:     kinds,
			ImplicitEvent: implicit,
		}
		if p.RootCase != nil {
			fact.ActionCount = len(p.RootCase.Actions)
			fact.SwitchCount = len(p.RootCase.Switches)
		}
		in.Processes = append(in.Processes, fact)
	}
	return in
}

// Evaluate runs the rules against input.
func (e *Engine) Evaluate(input Input) (*Result, error) {
	ctx := context.Background()

	inputMap, err := toMap(input)
	if err != nil {
		return nil, fmt.Errorf("converting input: %w", err)
	}

	result := &Result{}

	rs, err := e.queries["violations"].Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating violations: %w", err)
	}
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		if list, ok := rs[0].Expressions[0].Value.([]interface{}); ok {
			for _, v := range list {
				vmap, ok := v.(map[string]interface{})
				if !ok {
					continue
				}
				result.Violations = append(result.Violations, Violation{
					Rule:     getString(vmap, "rule"),
					Severity: getString(vmap, "severity"),
					Process:  getString(vmap, "process"),
					Message:  getString(vmap, "message"),
				})
			}
		}
	}

	rs, err = e.queries["summary"].Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating summary: %w", err)
	}
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		if smap, ok := rs[0].Expressions[0].Value.(map[string]interface{}); ok {
			result.Summary = Summary{
				TotalViolations: getInt(smap, "total_violations"),
				Errors:          getInt(smap, "errors"),
				Warnings:        getInt(smap, "warnings"),
				Info:            getInt(smap, "info"),
			}
		}
	}

	return result, nil
}

func toMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	err = json.Unmarshal(data, &result)
	return result, err
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(m map[string]interface{}, key string) int {
	if v, ok := m[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case json.Number:
			i, _ := n.Int64()
			return int(i)
		}
	}
	return 0
}
