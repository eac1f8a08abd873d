package knowledge

import (
	"fmt"
	"sort"

	"github.com/archsketch/engine/graph"
)

// Warning kinds emitted by the validator.
const (
	WarningConflict    = "conflict"
	WarningAntipattern = "antipattern"
)

// Warning flags a knowledge-base violation in a graph. Validation never
// fails a graph outright; warnings are advisory output.
type Warning struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Detail   string `json:"detail,omitempty"`
}

// Suggestion proposes a component the graph is missing.
type Suggestion struct {
	// Kind is currently always "mandatory".
	Kind string `json:"kind"`

	// For is the component type whose dependency is unmet.
	For graph.ComponentType `json:"for"`

	// Missing is the required component type that is absent.
	Missing graph.ComponentType `json:"missing"`

	Message string `json:"message"`
}

// Validator checks a graph against the knowledge base.
type Validator struct {
	base Base
}

// NewValidator creates a validator over the given base.
func NewValidator(base Base) *Validator {
	return &Validator{base: base}
}

// Validate returns conflict and antipattern warnings plus mandatory
// dependency suggestions. Conflicts are deduplicated per unordered type
// pair. A failing antipattern detector is treated as "not detected".
func (v *Validator) Validate(g *graph.Graph) ([]Warning, []Suggestion) {
	var warnings []Warning
	var suggestions []Suggestion

	present := presentTypes(g)

	seenPair := make(map[string]struct{})
	for _, t := range present {
		for _, conflicting := range v.base.ConflictsWith(t) {
			if !g.HasType(conflicting) {
				continue
			}
			key := pairKey(t, conflicting)
			if _, ok := seenPair[key]; ok {
				continue
			}
			seenPair[key] = struct{}{}
			warnings = append(warnings, Warning{
				Kind:     WarningConflict,
				Severity: "high",
				Message:  fmt.Sprintf("%s와(과) %s은(는) 함께 구성할 수 없습니다", t, conflicting),
				Detail:   key,
			})
		}
	}

	for _, ap := range v.base.Antipatterns() {
		detected, err := ap.Detect(g)
		if err != nil || !detected {
			continue
		}
		warnings = append(warnings, Warning{
			Kind:     WarningAntipattern,
			Severity: "high",
			Message:  ap.Description,
			Detail:   ap.ID,
		})
	}

	for _, t := range present {
		for _, dep := range v.base.MandatoryDeps(t) {
			if g.HasType(dep) {
				continue
			}
			suggestions = append(suggestions, Suggestion{
				Kind:    "mandatory",
				For:     t,
				Missing: dep,
				Message: fmt.Sprintf("%s 구성에는 %s이(가) 필요합니다", t, dep),
			})
		}
	}

	return warnings, suggestions
}

// presentTypes returns the distinct component types of the graph in
// insertion order of first occurrence.
func presentTypes(g *graph.Graph) []graph.ComponentType {
	var out []graph.ComponentType
	seen := make(map[graph.ComponentType]struct{})
	for i := range g.Nodes {
		t := g.Nodes[i].Type
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// pairKey builds an order-independent key for a type pair.
func pairKey(a, b graph.ComponentType) string {
	s := []string{string(a), string(b)}
	sort.Strings(s)
	return s[0] + "|" + s[1]
}
