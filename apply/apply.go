package apply

import (
	"fmt"
	"strings"

	"github.com/archsketch/engine/graph"
)

// Apply executes the operations strictly in input order against a deep copy
// of g. Execution is best-effort: a failing operation is recorded in the
// result's Errors and skipped, and the remaining operations still run.
func Apply(g *graph.Graph, ops []Operation) Result {
	out := g.Clone()
	if out == nil {
		out = graph.New()
	}

	result := Result{
		Graph:   out,
		IDRemap: make(map[string]string),
	}

	for i, op := range ops {
		var err error
		switch op.Type {
		case OpReplace:
			err = applyReplace(out, op, result.IDRemap)
		case OpAdd:
			err = applyAdd(out, op)
		case OpRemove:
			err = applyRemove(out, op)
		case OpModify:
			err = applyModify(out, op)
		case OpConnect:
			err = applyConnect(out, op)
		case OpDisconnect:
			err = applyDisconnect(out, op)
		default:
			err = fmt.Errorf("unknown operation type %q", op.Type)
		}

		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("op[%d] %s: %v", i, op.Type, err))
			continue
		}
		result.AppliedOps++
	}

	return result
}

// resolveNode locates a node by reference: exact id first, then first node
// of a matching type, then substring of id or type.
func resolveNode(g *graph.Graph, ref string) *graph.Component {
	if ref == "" {
		return nil
	}
	if n := g.NodeByID(ref); n != nil {
		return n
	}
	if n := g.FirstNodeByType(graph.ComponentType(ref)); n != nil {
		return n
	}
	lower := strings.ToLower(ref)
	for i := range g.Nodes {
		if strings.Contains(strings.ToLower(g.Nodes[i].ID), lower) ||
			strings.Contains(strings.ToLower(string(g.Nodes[i].Type)), lower) {
			return &g.Nodes[i]
		}
	}
	return nil
}

func applyReplace(g *graph.Graph, op Operation, remap map[string]string) error {
	if op.NewType == "" {
		return fmt.Errorf("newType is required")
	}
	target := resolveNode(g, op.Target)
	if target == nil {
		return fmt.Errorf("target %q not found", op.Target)
	}

	oldID := target.ID
	newID := graph.NewNodeID(op.NewType)

	label := op.Label
	if label == "" {
		label = target.Label
	}
	tier := op.Tier
	if tier == "" {
		tier = target.Tier
	}
	description := op.Description
	if description == "" {
		description = target.Description
	}

	*target = graph.Component{
		ID:          newID,
		Type:        op.NewType,
		Label:       label,
		Tier:        tier,
		Description: description,
	}

	if op.preserve() {
		for i := range g.Connections {
			if g.Connections[i].Source == oldID {
				g.Connections[i].Source = newID
			}
			if g.Connections[i].Target == oldID {
				g.Connections[i].Target = newID
			}
		}
	} else {
		kept := g.Connections[:0]
		for _, c := range g.Connections {
			if c.Source == oldID || c.Target == oldID {
				continue
			}
			kept = append(kept, c)
		}
		g.Connections = kept
	}

	remap[oldID] = newID
	return nil
}

func applyAdd(g *graph.Graph, op Operation) error {
	if op.TargetType == "" {
		return fmt.Errorf("targetType is required")
	}

	// Resolve placement references before mutating anything, so a bad
	// reference fails the operation without leaving a half-placed node.
	var anchorA, anchorB *graph.Component
	switch {
	case len(op.BetweenNodes) == 2:
		anchorA = resolveNode(g, op.BetweenNodes[0])
		anchorB = resolveNode(g, op.BetweenNodes[1])
		if anchorA == nil || anchorB == nil {
			return fmt.Errorf("betweenNodes %v not found", op.BetweenNodes)
		}
	case op.AfterNode != "":
		anchorA = resolveNode(g, op.AfterNode)
		if anchorA == nil {
			return fmt.Errorf("afterNode %q not found", op.AfterNode)
		}
	case op.BeforeNode != "":
		anchorB = resolveNode(g, op.BeforeNode)
		if anchorB == nil {
			return fmt.Errorf("beforeNode %q not found", op.BeforeNode)
		}
	}

	// Capture the anchor ids now: AddNode may reallocate the node slice.
	var anchorAID, anchorBID string
	if anchorA != nil {
		anchorAID = anchorA.ID
	}
	if anchorB != nil {
		anchorBID = anchorB.ID
	}

	label := op.Label
	if label == "" {
		label = string(op.TargetType)
	}
	node := graph.Component{
		ID:          graph.NewNodeID(op.TargetType),
		Type:        op.TargetType,
		Label:       label,
		Tier:        op.Tier,
		Description: op.Description,
	}
	g.AddNode(node)

	switch {
	case len(op.BetweenNodes) == 2:
		// Splice the new node into the direct edge, when one exists.
		kept := g.Connections[:0]
		for _, c := range g.Connections {
			if c.Source == anchorAID && c.Target == anchorBID {
				continue
			}
			kept = append(kept, c)
		}
		g.Connections = kept
		g.Connect(anchorAID, node.ID, op.FlowType, "")
		g.Connect(node.ID, anchorBID, op.FlowType, "")

	case op.AfterNode != "":
		g.Connect(anchorAID, node.ID, op.FlowType, "")

	case op.BeforeNode != "":
		g.Connect(node.ID, anchorBID, op.FlowType, "")
	}

	return nil
}

func applyRemove(g *graph.Graph, op Operation) error {
	target := resolveNode(g, op.Target)
	if target == nil {
		return fmt.Errorf("target %q not found", op.Target)
	}
	g.RemoveNode(target.ID)
	return nil
}

func applyModify(g *graph.Graph, op Operation) error {
	target := resolveNode(g, op.Target)
	if target == nil {
		return fmt.Errorf("target %q not found", op.Target)
	}
	// Merge only the provided fields; type and id are immutable here.
	if op.Label != "" {
		target.Label = op.Label
	}
	if op.Description != "" {
		target.Description = op.Description
	}
	if op.Tier != "" {
		target.Tier = op.Tier
	}
	return nil
}

func applyConnect(g *graph.Graph, op Operation) error {
	src := resolveNode(g, op.Source)
	dst := resolveNode(g, op.Target)
	if src == nil {
		return fmt.Errorf("source %q not found", op.Source)
	}
	if dst == nil {
		return fmt.Errorf("target %q not found", op.Target)
	}
	// Connect is a no-op when any edge between the pair already exists.
	g.Connect(src.ID, dst.ID, op.FlowType, op.Label)
	return nil
}

func applyDisconnect(g *graph.Graph, op Operation) error {
	src := resolveNode(g, op.Source)
	dst := resolveNode(g, op.Target)

	var removed int
	if src != nil && dst != nil {
		kept := g.Connections[:0]
		for _, c := range g.Connections {
			if c.Source == src.ID && c.Target == dst.ID {
				removed++
				continue
			}
			kept = append(kept, c)
		}
		g.Connections = kept
	} else {
		// Resolution failed; fall back to a direct substring match on raw
		// connection ids.
		srcRef := strings.ToLower(op.Source)
		dstRef := strings.ToLower(op.Target)
		kept := g.Connections[:0]
		for _, c := range g.Connections {
			if srcRef != "" && dstRef != "" &&
				strings.Contains(strings.ToLower(c.Source), srcRef) &&
				strings.Contains(strings.ToLower(c.Target), dstRef) {
				removed++
				continue
			}
			kept = append(kept, c)
		}
		g.Connections = kept
	}

	if removed == 0 {
		return fmt.Errorf("no connection between %q and %q", op.Source, op.Target)
	}
	return nil
}
