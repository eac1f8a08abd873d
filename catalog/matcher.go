package catalog

import (
	"strings"

	"github.com/archsketch/engine/graph"
	"github.com/archsketch/engine/pattern"
	"github.com/archsketch/engine/specerr"
)

// Confidence tiers. A confidence is a fixed score indicating how a result
// was derived, not a statistical probability.
const (
	// ConfidenceTemplate is assigned to keyword and direct-id template matches.
	ConfidenceTemplate = 0.8

	// ConfidenceDetected is assigned to graphs synthesized from component detection.
	ConfidenceDetected = 0.5

	// ConfidenceFallback is assigned to the soft-failure fallback result.
	ConfidenceFallback = 0.3

	// ConfidenceExact is assigned to pure reads of an existing graph.
	ConfidenceExact = 1.0
)

// MatchResult carries both a success flag and a best-effort payload.
// Even a failed match returns a usable graph; IsFallback distinguishes
// "best guess" from "confident result".
type MatchResult struct {
	Success    bool
	Graph      *graph.Graph
	TemplateID string
	Confidence float64
	Err        *specerr.Error
	IsFallback bool
}

// Options toggles the matcher tiers. The zero value disables everything;
// use DefaultOptions for the standard behavior.
type Options struct {
	UseTemplates          bool
	UseComponentDetection bool
}

// DefaultOptions enables all matcher tiers.
func DefaultOptions() Options {
	return Options{UseTemplates: true, UseComponentDetection: true}
}

// Matcher resolves a prompt to a graph through four tiers, returning on the
// first hit: template keyword match, template id substring match, a graph
// synthesized from component detection, and the fallback template.
type Matcher struct {
	catalog  *Catalog
	detector *pattern.Detector
}

// NewMatcher creates a matcher over the catalog and detector.
func NewMatcher(catalog *Catalog, detector *pattern.Detector) *Matcher {
	return &Matcher{catalog: catalog, detector: detector}
}

// Match resolves the prompt with all tiers enabled.
func (m *Matcher) Match(prompt string) MatchResult {
	return m.MatchWith(prompt, DefaultOptions())
}

// MatchWith resolves the prompt with the given tier toggles.
func (m *Matcher) MatchWith(prompt string, opts Options) MatchResult {
	normalized := strings.ToLower(strings.TrimSpace(prompt))

	if opts.UseTemplates {
		// Tier 1: template keyword match.
		for _, t := range m.catalog.All() {
			for _, kw := range t.Keywords {
				if strings.Contains(normalized, strings.ToLower(kw)) {
					return MatchResult{
						Success:    true,
						Graph:      t.Graph(),
						TemplateID: t.ID,
						Confidence: ConfidenceTemplate,
					}
				}
			}
		}

		// Tier 2: template id as a prompt substring.
		for _, t := range m.catalog.All() {
			if strings.Contains(normalized, t.ID) {
				return MatchResult{
					Success:    true,
					Graph:      t.Graph(),
					TemplateID: t.ID,
					Confidence: ConfidenceTemplate,
				}
			}
		}
	}

	// Tier 3: synthesize a graph from detected components.
	if opts.UseComponentDetection {
		if detected := m.detector.DetectTypes(prompt); len(detected) > 0 {
			return MatchResult{
				Success:    true,
				Graph:      buildDetectedGraph(detected),
				Confidence: ConfidenceDetected,
			}
		}
	}

	// Tier 4: soft failure. The caller still receives a renderable graph.
	fallback := m.catalog.Fallback()
	return MatchResult{
		Success:    false,
		Graph:      fallback.Graph(),
		TemplateID: fallback.ID,
		Confidence: ConfidenceFallback,
		IsFallback: true,
		Err: specerr.New("match", specerr.CodeNotRecognized,
			"요청을 인식하지 못해 기본 구성을 제안합니다 (input not recognized, suggesting a default layout)").
			WithCause(specerr.ErrNotRecognized),
	}
}

// buildDetectedGraph turns detected rules into a linear topology: one node
// per detected type with stable numeric-suffix IDs, a user node prepended
// when none was detected, and pairwise request edges in detection order.
func buildDetectedGraph(detected []pattern.Rule) *graph.Graph {
	g := graph.New()

	hasUser := false
	for _, r := range detected {
		if r.Type == graph.TypeUser {
			hasUser = true
			break
		}
	}
	if !hasUser {
		g.AddNode(graph.Component{
			ID:    graph.SequentialNodeID(graph.TypeUser, 1),
			Type:  graph.TypeUser,
			Label: "사용자",
			Tier:  graph.TierExternal,
		})
	}

	for _, r := range detected {
		g.AddNode(graph.Component{
			ID:    graph.SequentialNodeID(r.Type, 1),
			Type:  r.Type,
			Label: r.Label,
		})
	}

	for i := 0; i+1 < len(g.Nodes); i++ {
		g.Connect(g.Nodes[i].ID, g.Nodes[i+1].ID, graph.FlowRequest, "")
	}
	return g
}
