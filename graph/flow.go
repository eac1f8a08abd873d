package graph

import "fmt"

// FlowType describes the traffic semantics of a connection.
type FlowType string

const (
	FlowRequest     FlowType = "request"
	FlowResponse    FlowType = "response"
	FlowSync        FlowType = "sync"
	FlowBlocked     FlowType = "blocked"
	FlowEncrypted   FlowType = "encrypted"
	FlowWANLink     FlowType = "wan-link"
	FlowWireless    FlowType = "wireless"
	FlowTunnel      FlowType = "tunnel"
	FlowData        FlowType = "data"
	FlowReplication FlowType = "replication"
)

// IsValid returns true if the flow type is one of the known values.
// The empty flow type is valid; it means the flow semantics are unspecified.
func (f FlowType) IsValid() bool {
	switch f {
	case "", FlowRequest, FlowResponse, FlowSync, FlowBlocked, FlowEncrypted,
		FlowWANLink, FlowWireless, FlowTunnel, FlowData, FlowReplication:
		return true
	default:
		return false
	}
}

// String returns the string representation of the flow type.
func (f FlowType) String() string {
	return string(f)
}

// Tier places a component into a network zone.
type Tier string

const (
	TierExternal   Tier = "external"
	TierDMZ        Tier = "dmz"
	TierInternal   Tier = "internal"
	TierData       Tier = "data"
	TierManagement Tier = "management"
)

// IsValid returns true if the tier is one of the known zones.
// The empty tier is valid; it means the component is unzoned.
func (t Tier) IsValid() bool {
	switch t {
	case "", TierExternal, TierDMZ, TierInternal, TierData, TierManagement:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tier.
func (t Tier) String() string {
	return string(t)
}

// ParseTier parses a string into a Tier.
// Returns an error for unknown zone names; the empty string parses to the unzoned tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid tier: %s", s)
	}
	return t, nil
}
