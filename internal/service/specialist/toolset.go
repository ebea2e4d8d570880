package specialist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pulsebit/pulsebot/internal/core"
)

// ToolFunc executes one tool call. Arguments arrive as the raw JSON the
// model produced; malformed arguments are the handler's error to report.
type ToolFunc func(ctx context.Context, args json.RawMessage) (string, error)

type ToolDef struct {
	Spec core.Tool
	Run  ToolFunc
}

// Toolset is the fixed, closed set of tools one specialist may call.
// There is no runtime registration; the set is built at construction and
// defines the specialist's entire reach into stored data.
type Toolset struct {
	order []string
	defs  map[string]ToolDef
}

func NewToolset(defs ...ToolDef) *Toolset {
	ts := &Toolset{defs: make(map[string]ToolDef, len(defs))}
	for _, d := range defs {
		name := d.Spec.Function.Name
		if _, ok := ts.defs[name]; ok {
			continue
		}
		ts.order = append(ts.order, name)
		ts.defs[name] = d
	}
	return ts
}

// Tools returns the specs in declaration order for the provider payload.
func (t *Toolset) Tools() []core.Tool {
	out := make([]core.Tool, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.defs[name].Spec)
	}
	return out
}

func (t *Toolset) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

func (t *Toolset) Call(ctx context.Context, name, args string) (string, error) {
	def, ok := t.defs[name]
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	return def.Run(ctx, json.RawMessage(args))
}

func def(name, description, schema string, run ToolFunc) ToolDef {
	return ToolDef{
		Spec: core.Tool{
			Type: "function",
			Function: core.Function{
				Name:        name,
				Description: description,
				Parameters:  json.RawMessage(schema),
			},
		},
		Run: run,
	}
}

const (
	emptySchema = `{"type":"object","properties":{}}`
	daysSchema  = `{"type":"object","properties":{"days":{"type":"integer","description":"Trailing days to cover","minimum":1,"maximum":90}}}`
)

type daysArgs struct {
	Days int `json:"days"`
}

// parseDays tolerates absent or malformed arguments by falling back to the
// default window, since a wrong window is more useful than a refusal.
func parseDays(args json.RawMessage, fallback int) int {
	var a daysArgs
	if len(args) > 0 {
		_ = json.Unmarshal(args, &a)
	}
	if a.Days < 1 || a.Days > 90 {
		return fallback
	}
	return a.Days
}
