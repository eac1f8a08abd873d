// Package builder turns a classified command plus the current graph into a
// new graph and an ordered modification log, one handler per command kind.
package builder

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/archsketch/engine/catalog"
	"github.com/archsketch/engine/command"
	"github.com/archsketch/engine/graph"
	"github.com/archsketch/engine/knowledge"
	"github.com/archsketch/engine/pattern"
	"github.com/archsketch/engine/specerr"
)

var (
	afterPhrase  = regexp.MustCompile(`(?i)뒤에|다음에|\bafter\b|behind`)
	beforePhrase = regexp.MustCompile(`(?i)앞에|\bbefore\b|in\s*front\s*of`)
	quotedText   = regexp.MustCompile(`['"“”‘’]([^'"“”‘’]+)['"“”‘’]`)
)

// Confidence for a successfully executed mutating command. Failures use
// catalog.ConfidenceFallback, pure reads use catalog.ConfidenceExact.
const confidenceApplied = 0.8

// Builder executes spec-building commands. All handlers are pure with
// respect to their inputs: the current graph is never mutated, a clone is.
type Builder struct {
	detector  *pattern.Detector
	matcher   *catalog.Matcher
	validator *knowledge.Validator
}

// New creates a builder.
func New(detector *pattern.Detector, matcher *catalog.Matcher, validator *knowledge.Validator) *Builder {
	return &Builder{detector: detector, matcher: matcher, validator: validator}
}

// Build dispatches the command to its handler with default matcher options.
func (b *Builder) Build(kind command.Kind, current *graph.Graph, prompt string) Result {
	return b.BuildWith(kind, current, prompt, catalog.DefaultOptions())
}

// BuildWith dispatches the command to its handler. Every kind except create
// requires a current graph; that precondition is hard, surfaced with
// confidence 0 and a message shown to the user verbatim.
func (b *Builder) BuildWith(kind command.Kind, current *graph.Graph, prompt string, opts catalog.Options) Result {
	if kind != command.KindCreate && current == nil {
		return Result{
			Success:     false,
			Confidence:  0,
			CommandKind: kind,
			Err: specerr.New(string(kind), specerr.CodePrecondition,
				"먼저 아키텍처를 생성해주세요 (create an architecture first)").
				WithCause(specerr.ErrNoCurrentGraph),
		}
	}

	switch kind {
	case command.KindCreate:
		return b.create(prompt, opts)
	case command.KindAdd:
		return b.add(current, prompt)
	case command.KindRemove:
		return b.remove(current, prompt)
	case command.KindModify:
		return b.modify(current, prompt)
	case command.KindConnect:
		return b.connect(current, prompt)
	case command.KindDisconnect:
		return b.disconnect(current, prompt)
	case command.KindQuery:
		return b.query(current)
	default:
		return Result{
			Success:     false,
			Confidence:  0,
			CommandKind: kind,
			Err: specerr.New(string(kind), specerr.CodeInvalidOperation,
				fmt.Sprintf("지원하지 않는 명령입니다: %s", kind)),
		}
	}
}

func (b *Builder) create(prompt string, opts catalog.Options) Result {
	m := b.matcher.MatchWith(prompt, opts)
	res := Result{
		Success:      m.Success,
		Graph:        m.Graph,
		TemplateUsed: m.TemplateID,
		Confidence:   m.Confidence,
		Err:          m.Err,
		IsFallback:   m.IsFallback,
		CommandKind:  command.KindCreate,
	}
	if m.Success {
		res.Warnings, res.Suggestions = b.validator.Validate(res.Graph)
	}
	return res
}

func (b *Builder) add(current *graph.Graph, prompt string) Result {
	detected := b.detector.DetectTypes(prompt)
	if len(detected) == 0 {
		return Result{
			Success:     false,
			Graph:       current,
			Confidence:  catalog.ConfidenceFallback,
			CommandKind: command.KindAdd,
			Err: specerr.New("add", specerr.CodeNotRecognized,
				"추가할 구성요소를 인식하지 못했습니다 (component not recognized)").
				WithCause(specerr.ErrNotRecognized),
		}
	}

	g := current.Clone()
	var mods []Modification

	// Resolve the insertion point. A position phrase anchors on the
	// detected type named next to the phrase in the prompt, provided a
	// node of that type already exists; that type is the anchor, not a
	// new node. Without a phrase the anchor is the last existing node.
	connectBefore := beforePhrase.MatchString(prompt) && !afterPhrase.MatchString(prompt)
	positional := connectBefore || afterPhrase.MatchString(prompt)

	var anchorID string
	toAdd := detected
	if positional {
		if i, id, ok := positionalAnchor(g, detected, prompt); ok {
			anchorID = id
			toAdd = append(append([]pattern.Rule(nil), detected[:i]...), detected[i+1:]...)
		}
	}
	if anchorID == "" && len(g.Nodes) > 0 {
		anchorID = g.Nodes[len(g.Nodes)-1].ID
	}

	if len(toAdd) == 0 {
		// Every detected type was consumed as an anchor; nothing to add.
		return Result{
			Success:     false,
			Graph:       current,
			Confidence:  catalog.ConfidenceFallback,
			CommandKind: command.KindAdd,
			Err: specerr.New("add", specerr.CodeNotRecognized,
				"추가할 구성요소를 인식하지 못했습니다 (component not recognized)").
				WithCause(specerr.ErrNotRecognized),
		}
	}

	for _, r := range toAdd {
		id := graph.NewNodeID(r.Type)
		g.AddNode(graph.Component{ID: id, Type: r.Type, Label: r.Label})
		mods = append(mods, Modification{Kind: ModAddNode, NodeID: id, NodeType: r.Type})

		if anchorID == "" {
			continue
		}
		src, dst := anchorID, id
		if connectBefore {
			src, dst = id, anchorID
		}
		if g.Connect(src, dst, graph.FlowRequest, "") {
			mods = append(mods, Modification{Kind: ModAddConnection, Source: src, Target: dst})
		}
	}

	return b.mutated(command.KindAdd, g, mods)
}

// positionalAnchor picks the detected type the position phrase refers to,
// among types already present in the graph. Korean postpositional phrases
// ("X 뒤에", "X 앞에") follow the anchor mention, English prepositions
// ("after X", "behind X", "in front of X") precede it, so the anchor is
// the nearest present mention on the grammatical side of the phrase. The
// opposite side is kept as a fallback for prompts that bend the grammar.
// Returns the index of the anchor rule in detected, the anchor node ID,
// and whether an anchor was resolved.
func positionalAnchor(g *graph.Graph, detected []pattern.Rule, prompt string) (int, string, bool) {
	span, korean := phraseSpan(prompt)
	if span == nil {
		return 0, "", false
	}

	bestIdx, bestDist := -1, 0
	fallIdx, fallDist := -1, 0
	var bestID, fallID string
	for i, r := range detected {
		n := g.FirstNodeByType(r.Type)
		if n == nil {
			continue
		}
		loc := r.FindIndex(prompt)
		if loc == nil {
			continue
		}
		precedes := loc[1] <= span[0]
		var dist int
		if precedes {
			dist = span[0] - loc[1]
		} else {
			dist = loc[0] - span[1]
			if dist < 0 {
				dist = 0
			}
		}
		if precedes == korean {
			if bestIdx < 0 || dist < bestDist {
				bestIdx, bestDist, bestID = i, dist, n.ID
			}
		} else if fallIdx < 0 || dist < fallDist {
			fallIdx, fallDist, fallID = i, dist, n.ID
		}
	}
	if bestIdx >= 0 {
		return bestIdx, bestID, true
	}
	if fallIdx >= 0 {
		return fallIdx, fallID, true
	}
	return 0, "", false
}

// phraseSpan locates the position phrase and reports whether it is a Korean
// postposition, judged by the first byte of the matched text.
func phraseSpan(prompt string) ([]int, bool) {
	loc := afterPhrase.FindStringIndex(prompt)
	if loc == nil {
		loc = beforePhrase.FindStringIndex(prompt)
	}
	if loc == nil {
		return nil, false
	}
	return loc, prompt[loc[0]] >= utf8.RuneSelf
}

func (b *Builder) remove(current *graph.Graph, prompt string) Result {
	detected := b.detector.DetectTypes(prompt)

	var targets []string
	g := current.Clone()
	for _, r := range detected {
		targets = append(targets, g.NodesByType(r.Type)...)
	}
	if len(targets) == 0 {
		return Result{
			Success:     false,
			Graph:       current,
			Confidence:  catalog.ConfidenceFallback,
			CommandKind: command.KindRemove,
			Err: specerr.New("remove", specerr.CodeNotFound,
				"삭제할 구성요소를 찾을 수 없습니다 (no matching component in the architecture)"),
		}
	}

	var mods []Modification
	for _, id := range targets {
		n := g.NodeByID(id)
		if n == nil {
			continue
		}
		nodeType := n.Type
		for _, c := range g.Connections {
			if c.Source == id || c.Target == id {
				mods = append(mods, Modification{Kind: ModRemoveConnection, Source: c.Source, Target: c.Target})
			}
		}
		g.RemoveNode(id)
		mods = append(mods, Modification{Kind: ModRemoveNode, NodeID: id, NodeType: nodeType})
	}

	return b.mutated(command.KindRemove, g, mods)
}

func (b *Builder) modify(current *graph.Graph, prompt string) Result {
	detected := b.detector.DetectTypes(prompt)

	g := current.Clone()
	var mods []Modification
	newLabel := ""
	if m := quotedText.FindStringSubmatch(prompt); m != nil {
		newLabel = m[1]
	}

	for _, r := range detected {
		n := g.FirstNodeByType(r.Type)
		if n == nil {
			continue
		}
		// Only display fields change; type and id are immutable.
		if newLabel != "" {
			n.Label = newLabel
		} else {
			n.Description = prompt
		}
		mods = append(mods, Modification{Kind: ModModifyNode, NodeID: n.ID, NodeType: n.Type, Detail: n.Label})
	}

	if len(mods) == 0 {
		return Result{
			Success:     false,
			Graph:       current,
			Confidence:  catalog.ConfidenceFallback,
			CommandKind: command.KindModify,
			Err: specerr.New("modify", specerr.CodeNotFound,
				"수정할 구성요소를 찾을 수 없습니다 (no matching component in the architecture)"),
		}
	}

	return b.mutated(command.KindModify, g, mods)
}

func (b *Builder) connect(current *graph.Graph, prompt string) Result {
	src, dst, errRes := b.resolvePair(command.KindConnect, current, prompt)
	if errRes != nil {
		return *errRes
	}

	g := current.Clone()
	var mods []Modification
	// Idempotent: an existing connection between the pair is success with
	// an unchanged graph, not a duplicate edge.
	if g.Connect(src, dst, graph.FlowRequest, "") {
		mods = append(mods, Modification{Kind: ModAddConnection, Source: src, Target: dst})
	}
	return b.mutated(command.KindConnect, g, mods)
}

func (b *Builder) disconnect(current *graph.Graph, prompt string) Result {
	src, dst, errRes := b.resolvePair(command.KindDisconnect, current, prompt)
	if errRes != nil {
		return *errRes
	}

	g := current.Clone()
	var mods []Modification
	for _, c := range g.Connections {
		if (c.Source == src && c.Target == dst) || (c.Source == dst && c.Target == src) {
			mods = append(mods, Modification{Kind: ModRemoveConnection, Source: c.Source, Target: c.Target})
		}
	}
	g.Disconnect(src, dst)
	return b.mutated(command.KindDisconnect, g, mods)
}

func (b *Builder) query(current *graph.Graph) Result {
	return Result{
		Success:     true,
		Graph:       current.Clone(),
		Confidence:  catalog.ConfidenceExact,
		CommandKind: command.KindQuery,
	}
}

// resolvePair resolves the first node of each of the first two distinct
// detected types. Both endpoints must exist in the graph.
func (b *Builder) resolvePair(kind command.Kind, current *graph.Graph, prompt string) (src, dst string, errRes *Result) {
	detected := b.detector.DetectTypes(prompt)
	if len(detected) < 2 {
		return "", "", &Result{
			Success:     false,
			Graph:       current,
			Confidence:  catalog.ConfidenceFallback,
			CommandKind: kind,
			Err: specerr.New(string(kind), specerr.CodeNotRecognized,
				"연결 대상 두 개를 인식하지 못했습니다 (need two distinct components)").
				WithCause(specerr.ErrNotRecognized),
		}
	}

	a := current.FirstNodeByType(detected[0].Type)
	z := current.FirstNodeByType(detected[1].Type)
	if a == nil || z == nil {
		missing := detected[0].Type
		if a != nil {
			missing = detected[1].Type
		}
		return "", "", &Result{
			Success:     false,
			Graph:       current,
			Confidence:  catalog.ConfidenceFallback,
			CommandKind: kind,
			Err: specerr.New(string(kind), specerr.CodeNotFound,
				fmt.Sprintf("%s 구성요소를 찾을 수 없습니다 (component not in the architecture)", missing)),
		}
	}
	return a.ID, z.ID, nil
}

// mutated finalizes a successful mutating result: it attaches the
// modification log and the knowledge validator's output.
func (b *Builder) mutated(kind command.Kind, g *graph.Graph, mods []Modification) Result {
	res := Result{
		Success:       true,
		Graph:         g,
		Confidence:    confidenceApplied,
		CommandKind:   kind,
		Modifications: mods,
	}
	res.Warnings, res.Suggestions = b.validator.Validate(g)
	return res
}
