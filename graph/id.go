package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// NewNodeID allocates a fresh node ID embedding the component type, e.g.
// "firewall-3f2a91c4". IDs are never reused; uniqueness comes from the
// random suffix rather than from graph state.
func NewNodeID(t ComponentType) string {
	return fmt.Sprintf("%s-%s", t, uuid.NewString()[:8])
}

// SequentialNodeID builds a stable numeric-suffix ID, e.g. "web-server-1".
// Used where reproducible IDs matter, such as graphs synthesized from
// component detection.
func SequentialNodeID(t ComponentType, n int) string {
	return fmt.Sprintf("%s-%d", t, n)
}
