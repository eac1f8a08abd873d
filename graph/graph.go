package graph

// Component is a single typed element of an infrastructure topology.
// IDs are assigned at creation and never reused. Type is immutable after
// creation; a type change is modeled as a replace operation that allocates
// a fresh ID.
type Component struct {
	// ID uniquely identifies the component within a graph.
	ID string `json:"id" yaml:"id"`

	// Type is the infrastructure kind of the component.
	Type ComponentType `json:"type" yaml:"type"`

	// Label is the display name shown to the user.
	Label string `json:"label" yaml:"label"`

	// Tier optionally places the component into a network zone.
	Tier Tier `json:"tier,omitempty" yaml:"tier,omitempty"`

	// Description optionally carries free-form notes.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Connection is a directed edge between two components.
// Multiple edges between the same ordered pair are permitted when they are
// distinguishable by FlowType or Label.
type Connection struct {
	Source   string   `json:"source" yaml:"source"`
	Target   string   `json:"target" yaml:"target"`
	FlowType FlowType `json:"flowType,omitempty" yaml:"flowType,omitempty"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
}

// Graph is an infrastructure topology: an ordered node list plus an ordered
// edge list. Node insertion order is significant; path-building heuristics
// treat the last node as the current end of the chain. Connections should
// reference existing node IDs, but dangling references are tolerated and
// filterable rather than fatal.
type Graph struct {
	Nodes       []Component  `json:"nodes" yaml:"nodes"`
	Connections []Connection `json:"connections" yaml:"connections"`
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// Clone returns a deep copy of the graph. Mutating the copy never affects
// the original.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	out := &Graph{
		Nodes:       make([]Component, len(g.Nodes)),
		Connections: make([]Connection, len(g.Connections)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Connections, g.Connections)
	return out
}

// NodeByID returns a pointer to the node with the given ID, or nil.
// The pointer aliases the graph's backing slice.
func (g *Graph) NodeByID(id string) *Component {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// FirstNodeByType returns a pointer to the first node of the given type in
// insertion order, or nil.
func (g *Graph) FirstNodeByType(t ComponentType) *Component {
	for i := range g.Nodes {
		if g.Nodes[i].Type == t {
			return &g.Nodes[i]
		}
	}
	return nil
}

// NodesByType returns the IDs of all nodes of the given type in insertion order.
func (g *Graph) NodesByType(t ComponentType) []string {
	var ids []string
	for i := range g.Nodes {
		if g.Nodes[i].Type == t {
			ids = append(ids, g.Nodes[i].ID)
		}
	}
	return ids
}

// HasType returns true if at least one node of the given type exists.
func (g *Graph) HasType(t ComponentType) bool {
	return g.FirstNodeByType(t) != nil
}

// TypeCounts returns the number of nodes per component type.
func (g *Graph) TypeCounts() map[ComponentType]int {
	counts := make(map[ComponentType]int, len(g.Nodes))
	for i := range g.Nodes {
		counts[g.Nodes[i].Type]++
	}
	return counts
}

// AddNode appends a node to the graph.
func (g *Graph) AddNode(c Component) {
	g.Nodes = append(g.Nodes, c)
}

// RemoveNode deletes the node with the given ID and every connection touching
// it. Returns true if a node was removed.
func (g *Graph) RemoveNode(id string) bool {
	idx := -1
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	g.Nodes = append(g.Nodes[:idx], g.Nodes[idx+1:]...)

	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if c.Source != id && c.Target != id {
			kept = append(kept, c)
		}
	}
	g.Connections = kept
	return true
}

// HasConnection returns true if any connection with the given source and
// target exists, regardless of flow type or label.
func (g *Graph) HasConnection(source, target string) bool {
	for _, c := range g.Connections {
		if c.Source == source && c.Target == target {
			return true
		}
	}
	return false
}

// Connect appends a directed connection. The call is idempotent on the
// (source, target) pair: if any edge between the pair already exists the
// graph is left unchanged and false is returned. Flow type and label are
// deliberately ignored by the duplicate check.
func (g *Graph) Connect(source, target string, flow FlowType, label string) bool {
	if g.HasConnection(source, target) {
		return false
	}
	g.Connections = append(g.Connections, Connection{
		Source:   source,
		Target:   target,
		FlowType: flow,
		Label:    label,
	})
	return true
}

// Disconnect removes every connection between the two nodes in either
// direction. Returns the number of connections removed.
func (g *Graph) Disconnect(a, b string) int {
	removed := 0
	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if (c.Source == a && c.Target == b) || (c.Source == b && c.Target == a) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	g.Connections = kept
	return removed
}

// SanitizeConnections drops connections whose source or target does not
// reference an existing node. Dangling references are a tolerated input
// condition, not an error.
func (g *Graph) SanitizeConnections() int {
	ids := make(map[string]struct{}, len(g.Nodes))
	for i := range g.Nodes {
		ids[g.Nodes[i].ID] = struct{}{}
	}
	dropped := 0
	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if _, ok := ids[c.Source]; !ok {
			dropped++
			continue
		}
		if _, ok := ids[c.Target]; !ok {
			dropped++
			continue
		}
		kept = append(kept, c)
	}
	g.Connections = kept
	return dropped
}

// NodeIDSet returns the set of node IDs in the graph.
func (g *Graph) NodeIDSet() map[string]struct{} {
	ids := make(map[string]struct{}, len(g.Nodes))
	for i := range g.Nodes {
		ids[g.Nodes[i].ID] = struct{}{}
	}
	return ids
}
