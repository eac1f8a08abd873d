// Package apply executes externally supplied operation lists against a
// graph. It is the landing point for LLM-proposed edits and is independent
// of the natural-language parsing pipeline.
package apply

import "github.com/archsketch/engine/graph"

// OpType tags an operation in the diff union.
type OpType string

const (
	OpReplace    OpType = "replace"
	OpAdd        OpType = "add"
	OpRemove     OpType = "remove"
	OpModify     OpType = "modify"
	OpConnect    OpType = "connect"
	OpDisconnect OpType = "disconnect"
)

// IsValid returns true for known operation types.
func (t OpType) IsValid() bool {
	switch t {
	case OpReplace, OpAdd, OpRemove, OpModify, OpConnect, OpDisconnect:
		return true
	default:
		return false
	}
}

// Operation is one element of a diff. The Type field selects which of the
// remaining fields are meaningful; unknown or missing fields for the chosen
// type surface as per-operation errors, never as a batch failure.
type Operation struct {
	Type OpType `json:"type" yaml:"type"`

	// Target is the node reference for replace, remove, and modify, and the
	// edge head for connect and disconnect. References resolve by exact id,
	// then by type, then by substring of id or type.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Source is the edge tail for connect and disconnect.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// NewType is the replacement component type for replace.
	NewType graph.ComponentType `json:"newType,omitempty" yaml:"newType,omitempty"`

	// TargetType is the component type to create for add.
	TargetType graph.ComponentType `json:"targetType,omitempty" yaml:"targetType,omitempty"`

	Label       string         `json:"label,omitempty" yaml:"label,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Tier        graph.Tier     `json:"tier,omitempty" yaml:"tier,omitempty"`
	FlowType    graph.FlowType `json:"flowType,omitempty" yaml:"flowType,omitempty"`

	// PreserveConnections controls whether replace rewires the old node's
	// connections to the new id. Defaults to true when nil.
	PreserveConnections *bool `json:"preserveConnections,omitempty" yaml:"preserveConnections,omitempty"`

	// Placement hints for add. BetweenNodes takes priority, then AfterNode,
	// then BeforeNode.
	AfterNode    string   `json:"afterNode,omitempty" yaml:"afterNode,omitempty"`
	BeforeNode   string   `json:"beforeNode,omitempty" yaml:"beforeNode,omitempty"`
	BetweenNodes []string `json:"betweenNodes,omitempty" yaml:"betweenNodes,omitempty"`
}

// preserve reports the effective PreserveConnections value.
func (o Operation) preserve() bool {
	return o.PreserveConnections == nil || *o.PreserveConnections
}

// Result carries the mutated graph together with per-operation errors.
// One bad operation never aborts the batch.
type Result struct {
	// Graph is the mutated deep copy of the input graph.
	Graph *graph.Graph `json:"spec"`

	// AppliedOps counts the operations that executed successfully.
	AppliedOps int `json:"appliedOps"`

	// Errors holds one message per failed operation, in input order.
	Errors []string `json:"errors"`

	// IDRemap maps old node ids to their replacements.
	IDRemap map[string]string `json:"idRemap"`
}
