// Package knowledge provides the read-only design-knowledge base consumed by
// the validator and the change risk assessor: conflicting component pairs,
// mandatory dependency rules, and antipattern detectors over a graph.
//
// The tables are a versioned artifact. Additions are backward-compatible;
// removals and renames are breaking.
package knowledge

import "github.com/archsketch/engine/graph"

// Base is the read-only knowledge interface. Implementations must be safe
// for concurrent reads; the engine never writes through it.
type Base interface {
	// Version returns the artifact version string.
	Version() string

	// ConflictsWith returns the component types that conflict with t.
	ConflictsWith(t graph.ComponentType) []graph.ComponentType

	// MandatoryDeps returns the component types that t requires to be
	// present for a sound design.
	MandatoryDeps(t graph.ComponentType) []graph.ComponentType

	// Antipatterns returns all registered antipattern detectors.
	Antipatterns() []Antipattern
}

// StaticBase is an immutable in-memory Base built from curated tables or a
// loaded artifact.
type StaticBase struct {
	version      string
	conflicts    map[graph.ComponentType][]graph.ComponentType
	mandatory    map[graph.ComponentType][]graph.ComponentType
	antipatterns []Antipattern
}

// NewStaticBase builds a StaticBase. Conflict pairs are registered
// symmetrically: each pair entry makes both directions queryable.
func NewStaticBase(version string, conflictPairs [][2]graph.ComponentType,
	mandatory map[graph.ComponentType][]graph.ComponentType,
	antipatterns []Antipattern) *StaticBase {

	conflicts := make(map[graph.ComponentType][]graph.ComponentType)
	for _, p := range conflictPairs {
		conflicts[p[0]] = append(conflicts[p[0]], p[1])
		conflicts[p[1]] = append(conflicts[p[1]], p[0])
	}

	m := make(map[graph.ComponentType][]graph.ComponentType, len(mandatory))
	for t, deps := range mandatory {
		m[t] = append([]graph.ComponentType(nil), deps...)
	}

	return &StaticBase{
		version:      version,
		conflicts:    conflicts,
		mandatory:    m,
		antipatterns: antipatterns,
	}
}

// Version returns the artifact version string.
func (b *StaticBase) Version() string {
	return b.version
}

// ConflictsWith returns the types conflicting with t.
func (b *StaticBase) ConflictsWith(t graph.ComponentType) []graph.ComponentType {
	return b.conflicts[t]
}

// MandatoryDeps returns the types t requires.
func (b *StaticBase) MandatoryDeps(t graph.ComponentType) []graph.ComponentType {
	return b.mandatory[t]
}

// Antipatterns returns the registered detectors.
func (b *StaticBase) Antipatterns() []Antipattern {
	return b.antipatterns
}

// Default returns the built-in knowledge base.
func Default() *StaticBase {
	return NewStaticBase(
		"1.0.0",
		[][2]graph.ComponentType{
			// Legacy FTP transfers bypass DLP content inspection.
			{graph.TypeFTPServer, graph.TypeDLP},
			// Wireless segments must not carry PLC control traffic.
			{graph.TypeWirelessAP, graph.TypePLC},
			// PLCs and direct internet presence never belong in one design.
			{graph.TypeInternet, graph.TypePLC},
		},
		map[graph.ComponentType][]graph.ComponentType{
			graph.TypeDBServer:  {graph.TypeBackup},
			graph.TypeWebServer: {graph.TypeFirewall},
			graph.TypeSSO:       {graph.TypeLDAPAD},
			graph.TypeMFA:       {graph.TypeSSO},
			graph.TypeSCADA:     {graph.TypeHistorian},
		},
		DefaultAntipatterns(),
	)
}
