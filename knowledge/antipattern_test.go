package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsketch/engine/graph"
)

func TestDefaultAntipatterns_ExposedDataStore(t *testing.T) {
	ap := findAntipattern(t, "exposed-data-store")

	g := graphOf(graph.TypeInternet, graph.TypeDBServer)
	g.Connect("internet-1", "db-server-2", graph.FlowRequest, "")

	detected, err := ap.Detect(g)
	require.NoError(t, err)
	assert.True(t, detected)

	// Reversed edge direction still counts as exposure.
	g2 := graphOf(graph.TypeDBServer, graph.TypeInternet)
	g2.Connect("db-server-1", "internet-2", graph.FlowData, "")
	detected, err = ap.Detect(g2)
	require.NoError(t, err)
	assert.True(t, detected)

	// No direct edge, no detection.
	detected, err = ap.Detect(graphOf(graph.TypeInternet, graph.TypeDBServer))
	require.NoError(t, err)
	assert.False(t, detected)
}

func TestDefaultAntipatterns_MissingPerimeter(t *testing.T) {
	ap := findAntipattern(t, "missing-perimeter")

	detected, err := ap.Detect(graphOf(graph.TypeInternet, graph.TypeWebServer))
	require.NoError(t, err)
	assert.True(t, detected)

	detected, err = ap.Detect(graphOf(graph.TypeInternet, graph.TypeWAF, graph.TypeWebServer))
	require.NoError(t, err)
	assert.False(t, detected, "WAF alone satisfies the perimeter")
}

func TestDefaultAntipatterns_UnsegmentedNetwork(t *testing.T) {
	ap := findAntipattern(t, "unsegmented-network")

	flat := graph.New()
	for i := 0; i < 8; i++ {
		flat.AddNode(graph.Component{
			ID:   graph.SequentialNodeID(graph.TypeAppServer, i+1),
			Type: graph.TypeAppServer,
			Tier: graph.TierInternal,
		})
	}
	detected, err := ap.Detect(flat)
	require.NoError(t, err)
	assert.True(t, detected)

	// A second tier clears the detection.
	flat.Nodes[0].Tier = graph.TierDMZ
	detected, err = ap.Detect(flat)
	require.NoError(t, err)
	assert.False(t, detected)

	// Small graphs are exempt regardless of tiers.
	detected, err = ap.Detect(graphOf(graph.TypeWebServer, graph.TypeDBServer))
	require.NoError(t, err)
	assert.False(t, detected)
}

func TestDefaultAntipatterns_SingleWebTier(t *testing.T) {
	ap := findAntipattern(t, "single-web-tier")

	detected, err := ap.Detect(graphOf(graph.TypeLoadBalancer, graph.TypeWebServer))
	require.NoError(t, err)
	assert.True(t, detected)

	detected, err = ap.Detect(graphOf(graph.TypeLoadBalancer, graph.TypeWebServer, graph.TypeWebServer))
	require.NoError(t, err)
	assert.False(t, detected, "two web servers behind the balancer are fine")
}

func TestCompileAntipattern_RejectsNonBool(t *testing.T) {
	_, err := CompileAntipattern("bad", "비불리언", "", `nodes + 1`)
	assert.Error(t, err)
}

func TestCompileAntipattern_RejectsSyntaxError(t *testing.T) {
	_, err := CompileAntipattern("bad", "문법 오류", "", `nodes >=`)
	assert.Error(t, err)
}

func TestAntipattern_DanglingEdgesIgnored(t *testing.T) {
	ap := findAntipattern(t, "exposed-data-store")

	g := graphOf(graph.TypeInternet, graph.TypeDBServer)
	g.Connections = append(g.Connections, graph.Connection{Source: "internet-1", Target: "ghost"})

	detected, err := ap.Detect(g)
	require.NoError(t, err)
	assert.False(t, detected)
}

func TestAntipattern_NilDetector(t *testing.T) {
	detected, err := Antipattern{ID: "noop"}.Detect(graphOf(graph.TypeWebServer))
	require.NoError(t, err)
	assert.False(t, detected)
}

func findAntipattern(t *testing.T, id string) Antipattern {
	t.Helper()
	for _, ap := range DefaultAntipatterns() {
		if ap.ID == id {
			return ap
		}
	}
	t.Fatalf("antipattern %q not registered", id)
	return Antipattern{}
}
