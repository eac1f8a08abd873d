package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsketch/engine/graph"
	"github.com/archsketch/engine/pattern"
	"github.com/archsketch/engine/specerr"
)

func newMatcher() *Matcher {
	return NewMatcher(Default(), pattern.NewDetector(pattern.Default(), pattern.DefaultCacheSize))
}

func TestMatch_TemplateKeyword(t *testing.T) {
	m := newMatcher()

	tests := []struct {
		name   string
		prompt string
		wantID string
	}{
		{"korean secure web", "보안 웹 아키텍처 만들어줘", "secure-web"},
		{"korean three tier", "3티어 웹 서비스 만들어줘", "three-tier-web"},
		{"english three tier", "design a three tier web app", "three-tier-web"},
		{"dmz", "망분리 구성으로 그려줘", "dmz-architecture"},
		{"microservices", "msa 구조로 설계해줘", "microservices"},
		{"zero trust", "제로 트러스트로 만들어줘", "zero-trust"},
		{"ot", "scada 제어망 구성해줘", "ot-network"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.Match(tt.prompt)
			require.True(t, res.Success)
			assert.Equal(t, tt.wantID, res.TemplateID)
			assert.Equal(t, ConfidenceTemplate, res.Confidence)
			assert.False(t, res.IsFallback)
			assert.NotEmpty(t, res.Graph.Nodes)
		})
	}
}

func TestMatch_TemplateIDSubstring(t *testing.T) {
	m := newMatcher()

	// "secure-web" misses every keyword (they all use a space or Korean)
	// but hits the id-substring tier.
	res := m.Match("use the secure-web layout")

	require.True(t, res.Success)
	assert.Equal(t, "secure-web", res.TemplateID)
	assert.Equal(t, ConfidenceTemplate, res.Confidence)
}

func TestMatch_ComponentDetection(t *testing.T) {
	m := newMatcher()

	res := m.Match("WAF 로드밸런서 웹서버")

	require.True(t, res.Success)
	assert.Empty(t, res.TemplateID)
	assert.Equal(t, ConfidenceDetected, res.Confidence)

	g := res.Graph
	require.Len(t, g.Nodes, 4, "user node should be prepended")
	assert.Equal(t, graph.TypeUser, g.Nodes[0].Type)
	assert.Equal(t, graph.TypeWAF, g.Nodes[1].Type)
	assert.Equal(t, graph.TypeLoadBalancer, g.Nodes[2].Type)
	assert.Equal(t, graph.TypeWebServer, g.Nodes[3].Type)

	require.Len(t, g.Connections, 3)
	for i, c := range g.Connections {
		assert.Equal(t, g.Nodes[i].ID, c.Source)
		assert.Equal(t, g.Nodes[i+1].ID, c.Target)
		assert.Equal(t, graph.FlowRequest, c.FlowType)
	}
}

func TestMatch_DetectionSkipsUserPrependWhenPresent(t *testing.T) {
	m := newMatcher()

	res := m.Match("사용자 웹서버")
	require.True(t, res.Success)

	users := res.Graph.NodesByType(graph.TypeUser)
	assert.Len(t, users, 1, "detected user must not be duplicated")
}

func TestMatch_Fallback(t *testing.T) {
	m := newMatcher()

	res := m.Match("안녕하세요")

	assert.False(t, res.Success)
	assert.True(t, res.IsFallback)
	assert.Equal(t, "basic-web", res.TemplateID)
	assert.Equal(t, ConfidenceFallback, res.Confidence)
	require.NotNil(t, res.Err)
	assert.Equal(t, specerr.CodeNotRecognized, res.Err.Code)
	assert.ErrorIs(t, res.Err, specerr.ErrNotRecognized)
	assert.NotEmpty(t, res.Graph.Nodes, "fallback still carries a renderable graph")
}

func TestMatchWith_TierToggles(t *testing.T) {
	m := newMatcher()

	// Templates off: a template prompt with a detectable component falls
	// through to the detection tier.
	res := m.MatchWith("보안 웹 방화벽", Options{UseComponentDetection: true})
	require.True(t, res.Success)
	assert.Equal(t, ConfidenceDetected, res.Confidence)
	assert.True(t, res.Graph.HasType(graph.TypeFirewall))

	// Everything off: straight to fallback.
	res = m.MatchWith("보안 웹 방화벽", Options{})
	assert.False(t, res.Success)
	assert.True(t, res.IsFallback)
}

func TestTemplate_GraphReturnsCopy(t *testing.T) {
	c := Default()
	tpl, ok := c.Get("three-tier-web")
	require.True(t, ok)

	g1 := tpl.Graph()
	g1.Nodes[0].Label = "변경됨"
	g1.Connections = nil

	g2 := tpl.Graph()
	assert.Equal(t, "사용자", g2.Nodes[0].Label)
	assert.NotEmpty(t, g2.Connections)
}

func TestCatalog_FallbackExists(t *testing.T) {
	c := Default()
	require.NotNil(t, c.Fallback())
	assert.Equal(t, "basic-web", c.Fallback().ID)
	assert.NotEmpty(t, c.All())
}
