package builder

import (
	"github.com/archsketch/engine/command"
	"github.com/archsketch/engine/graph"
	"github.com/archsketch/engine/knowledge"
	"github.com/archsketch/engine/specerr"
)

// ModKind tags a single atomic graph modification.
type ModKind string

const (
	ModAddNode          ModKind = "add-node"
	ModRemoveNode       ModKind = "remove-node"
	ModAddConnection    ModKind = "add-connection"
	ModRemoveConnection ModKind = "remove-connection"
	ModModifyNode       ModKind = "modify-node"
)

// Modification is one entry of the ordered modification log a handler
// produces alongside the new graph.
type Modification struct {
	Kind     ModKind             `json:"kind"`
	NodeID   string              `json:"nodeId,omitempty"`
	NodeType graph.ComponentType `json:"nodeType,omitempty"`
	Source   string              `json:"source,omitempty"`
	Target   string              `json:"target,omitempty"`
	Detail   string              `json:"detail,omitempty"`
}

// Result is the outcome of building a spec from one command. It carries
// both a success flag and a best-effort payload: even failed builds return
// a usable graph so the caller always has something to render.
type Result struct {
	Success       bool
	Graph         *graph.Graph
	TemplateUsed  string
	Confidence    float64
	Err           *specerr.Error
	IsFallback    bool
	CommandKind   command.Kind
	Modifications []Modification
	Warnings      []knowledge.Warning
	Suggestions   []knowledge.Suggestion
}
