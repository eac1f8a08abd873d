package engine

import "github.com/archsketch/engine/graph"

// HistoryLimit bounds the conversation history; the oldest exchange is
// evicted when the limit is exceeded.
const HistoryLimit = 10

// Exchange is one prior (prompt, result) pair.
type Exchange struct {
	Prompt string      `json:"prompt"`
	Result ParseResult `json:"result"`
}

// Conversation is the caller-owned pipeline context: a bounded history of
// exchanges plus the current graph. The engine never mutates it; callers
// call Record after each parse, atomically relative to that parse, so the
// conversation is never left partially updated.
type Conversation struct {
	history []Exchange
	current *graph.Graph
}

// NewConversation returns an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// Record appends the exchange, evicts beyond HistoryLimit, and, when the
// parse produced a graph, replaces the current graph with it.
func (c *Conversation) Record(prompt string, result ParseResult) {
	c.history = append(c.history, Exchange{Prompt: prompt, Result: result})
	if len(c.history) > HistoryLimit {
		c.history = c.history[len(c.history)-HistoryLimit:]
	}
	if result.Success && result.Spec != nil {
		c.current = result.Spec
	}
}

// History returns a copy of the recorded exchanges, oldest first.
func (c *Conversation) History() []Exchange {
	out := make([]Exchange, len(c.history))
	copy(out, c.history)
	return out
}

// CurrentGraph returns the graph produced by the most recent successful
// parse, or nil.
func (c *Conversation) CurrentGraph() *graph.Graph {
	return c.current
}

// Len returns the number of recorded exchanges.
func (c *Conversation) Len() int {
	return len(c.history)
}
