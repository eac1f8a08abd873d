package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsketch/engine/catalog"
	"github.com/archsketch/engine/command"
	"github.com/archsketch/engine/graph"
	"github.com/archsketch/engine/knowledge"
	"github.com/archsketch/engine/pattern"
	"github.com/archsketch/engine/specerr"
)

func newBuilder() *Builder {
	detector := pattern.NewDetector(pattern.Default(), pattern.DefaultCacheSize)
	return New(detector, catalog.NewMatcher(catalog.Default(), detector), knowledge.NewValidator(knowledge.Default()))
}

func current() *graph.Graph {
	return &graph.Graph{
		Nodes: []graph.Component{
			{ID: "user-1", Type: graph.TypeUser, Label: "사용자"},
			{ID: "firewall-1", Type: graph.TypeFirewall, Label: "방화벽"},
			{ID: "web-server-1", Type: graph.TypeWebServer, Label: "웹 서버 1"},
			{ID: "web-server-2", Type: graph.TypeWebServer, Label: "웹 서버 2"},
			{ID: "db-server-1", Type: graph.TypeDBServer, Label: "데이터베이스"},
		},
		Connections: []graph.Connection{
			{Source: "user-1", Target: "firewall-1", FlowType: graph.FlowRequest},
			{Source: "firewall-1", Target: "web-server-1", FlowType: graph.FlowRequest},
			{Source: "firewall-1", Target: "web-server-2", FlowType: graph.FlowRequest},
			{Source: "web-server-1", Target: "db-server-1", FlowType: graph.FlowRequest},
		},
	}
}

func TestBuild_MutationsRequireCurrentGraph(t *testing.T) {
	b := newBuilder()

	for _, kind := range []command.Kind{
		command.KindAdd, command.KindRemove, command.KindModify,
		command.KindConnect, command.KindDisconnect, command.KindQuery,
	} {
		res := b.Build(kind, nil, "아무거나")
		assert.False(t, res.Success, string(kind))
		assert.Zero(t, res.Confidence, string(kind))
		require.NotNil(t, res.Err, string(kind))
		assert.Equal(t, specerr.CodePrecondition, res.Err.Code, string(kind))
	}
}

func TestBuild_CreateFromTemplate(t *testing.T) {
	b := newBuilder()

	res := b.Build(command.KindCreate, nil, "3티어 웹 아키텍처 만들어줘")

	require.True(t, res.Success)
	assert.Equal(t, "three-tier-web", res.TemplateUsed)
	assert.Equal(t, catalog.ConfidenceTemplate, res.Confidence)
	assert.Equal(t, command.KindCreate, res.CommandKind)

	// The template lacks backup and firewall, so the validator speaks up.
	var missing []graph.ComponentType
	for _, s := range res.Suggestions {
		missing = append(missing, s.Missing)
	}
	assert.Contains(t, missing, graph.TypeBackup)
	assert.Contains(t, missing, graph.TypeFirewall)
}

func TestBuild_CreateFallback(t *testing.T) {
	b := newBuilder()

	res := b.Build(command.KindCreate, nil, "안녕하세요")

	assert.False(t, res.Success)
	assert.True(t, res.IsFallback)
	assert.Equal(t, catalog.ConfidenceFallback, res.Confidence)
	assert.NotNil(t, res.Graph, "fallback graph is still returned")
	assert.Empty(t, res.Warnings, "failed results are not validated")
}

func TestBuild_AddConnectsToLastNode(t *testing.T) {
	b := newBuilder()
	g := current()

	res := b.Build(command.KindAdd, g, "캐시 추가해줘")

	require.True(t, res.Success)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)
	assert.Len(t, g.Nodes, 5, "input graph untouched")

	cache := res.Graph.FirstNodeByType(graph.TypeCache)
	require.NotNil(t, cache)
	assert.True(t, res.Graph.HasConnection("db-server-1", cache.ID), "anchored to the last existing node")

	require.Len(t, res.Modifications, 2)
	assert.Equal(t, ModAddNode, res.Modifications[0].Kind)
	assert.Equal(t, graph.TypeCache, res.Modifications[0].NodeType)
	assert.Equal(t, ModAddConnection, res.Modifications[1].Kind)
}

func TestBuild_AddBeforeAnchor(t *testing.T) {
	b := newBuilder()

	res := b.Build(command.KindAdd, current(), "웹서버 앞에 WAF 추가해줘")

	require.True(t, res.Success)
	waf := res.Graph.FirstNodeByType(graph.TypeWAF)
	require.NotNil(t, waf)
	assert.True(t, res.Graph.HasConnection(waf.ID, "web-server-1"))
	assert.Len(t, res.Graph.NodesByType(graph.TypeWebServer), 2, "anchor type is not re-added")
}

func TestBuild_AddAfterAnchor(t *testing.T) {
	b := newBuilder()

	res := b.Build(command.KindAdd, current(), "db 뒤에 백업 추가해줘")

	require.True(t, res.Success)
	backup := res.Graph.FirstNodeByType(graph.TypeBackup)
	require.NotNil(t, backup)
	assert.True(t, res.Graph.HasConnection("db-server-1", backup.ID))
}

func TestBuild_AddAnchorNamedByPhraseNotRegistryOrder(t *testing.T) {
	b := newBuilder()

	// Both the firewall and the web server exist already. The phrase names
	// the web server as the anchor, so a second firewall must be added even
	// though the firewall rule is consulted first in the registry.
	res := b.Build(command.KindAdd, current(), "웹서버 뒤에 방화벽 추가해줘")

	require.True(t, res.Success)
	firewalls := res.Graph.NodesByType(graph.TypeFirewall)
	require.Len(t, firewalls, 2, "a new firewall is added, not a new web server")
	assert.Len(t, res.Graph.NodesByType(graph.TypeWebServer), 2)

	require.Len(t, res.Modifications, 2)
	assert.Equal(t, ModAddNode, res.Modifications[0].Kind)
	assert.Equal(t, graph.TypeFirewall, res.Modifications[0].NodeType)
	assert.True(t, res.Graph.HasConnection("web-server-1", res.Modifications[0].NodeID))
}

func TestBuild_AddEnglishPositionPhrase(t *testing.T) {
	b := newBuilder()

	// English prepositions put the anchor after the phrase.
	res := b.Build(command.KindAdd, current(), "add a second firewall after the web server")

	require.True(t, res.Success)
	require.Len(t, res.Graph.NodesByType(graph.TypeFirewall), 2)
	assert.Len(t, res.Graph.NodesByType(graph.TypeWebServer), 2)
	assert.Equal(t, graph.TypeFirewall, res.Modifications[0].NodeType)
	assert.True(t, res.Graph.HasConnection("web-server-1", res.Modifications[0].NodeID))
}

func TestBuild_AddUnrecognizedComponent(t *testing.T) {
	b := newBuilder()
	g := current()

	res := b.Build(command.KindAdd, g, "그거 추가해줘")

	assert.False(t, res.Success)
	assert.Equal(t, catalog.ConfidenceFallback, res.Confidence)
	require.NotNil(t, res.Err)
	assert.Equal(t, specerr.CodeNotRecognized, res.Err.Code)
	assert.Same(t, g, res.Graph, "current graph is returned unchanged")
}

func TestBuild_RemoveAllInstances(t *testing.T) {
	b := newBuilder()

	res := b.Build(command.KindRemove, current(), "웹서버 삭제해줘")

	require.True(t, res.Success)
	assert.False(t, res.Graph.HasType(graph.TypeWebServer))

	var removedNodes, removedConns int
	for _, m := range res.Modifications {
		switch m.Kind {
		case ModRemoveNode:
			removedNodes++
			assert.Equal(t, graph.TypeWebServer, m.NodeType)
		case ModRemoveConnection:
			removedConns++
		}
	}
	assert.Equal(t, 2, removedNodes)
	assert.Equal(t, 3, removedConns)
}

func TestBuild_RemoveNotFound(t *testing.T) {
	b := newBuilder()

	// Recognized type that is not in the graph.
	res := b.Build(command.KindRemove, current(), "허니팟 삭제해줘")

	assert.False(t, res.Success)
	assert.Equal(t, catalog.ConfidenceFallback, res.Confidence)
	require.NotNil(t, res.Err)
	assert.Equal(t, specerr.CodeNotFound, res.Err.Code)

	// No recognizable type at all.
	res = b.Build(command.KindRemove, current(), "그거 삭제해줘")

	assert.False(t, res.Success)
	assert.Equal(t, catalog.ConfidenceFallback, res.Confidence)
	require.NotNil(t, res.Err)
	assert.Equal(t, specerr.CodeNotFound, res.Err.Code)
}

func TestBuild_ModifyLabelFromQuotedText(t *testing.T) {
	b := newBuilder()

	res := b.Build(command.KindModify, current(), "웹서버 이름을 '메인 웹'으로 변경해줘")

	require.True(t, res.Success)
	n := res.Graph.NodeByID("web-server-1")
	require.NotNil(t, n)
	assert.Equal(t, "메인 웹", n.Label)
	assert.Equal(t, graph.TypeWebServer, n.Type, "type never changes")

	require.Len(t, res.Modifications, 1)
	assert.Equal(t, ModModifyNode, res.Modifications[0].Kind)
	assert.Equal(t, "web-server-1", res.Modifications[0].NodeID)
}

func TestBuild_ModifyWithoutQuotesSetsDescription(t *testing.T) {
	b := newBuilder()
	prompt := "db 서버 설명 변경해줘"

	res := b.Build(command.KindModify, current(), prompt)

	require.True(t, res.Success)
	n := res.Graph.NodeByID("db-server-1")
	require.NotNil(t, n)
	assert.Equal(t, prompt, n.Description)
	assert.Equal(t, "데이터베이스", n.Label, "label untouched without quoted text")
}

func TestBuild_Connect(t *testing.T) {
	b := newBuilder()

	res := b.Build(command.KindConnect, current(), "웹서버와 데이터베이스를 연결해줘")

	require.True(t, res.Success)
	// The pair already has an edge: idempotent success with no modification.
	assert.Empty(t, res.Modifications)
	assert.Len(t, res.Graph.Connections, 4)

	res = b.Build(command.KindConnect, current(), "사용자와 데이터베이스를 연결해줘")
	require.True(t, res.Success)
	require.Len(t, res.Modifications, 1)
	assert.Equal(t, ModAddConnection, res.Modifications[0].Kind)
	assert.True(t, res.Graph.HasConnection("user-1", "db-server-1"))
}

func TestBuild_ConnectNeedsTwoComponents(t *testing.T) {
	b := newBuilder()

	res := b.Build(command.KindConnect, current(), "웹서버 연결해줘")

	assert.False(t, res.Success)
	require.NotNil(t, res.Err)
	assert.Equal(t, specerr.CodeNotRecognized, res.Err.Code)
}

func TestBuild_ConnectMissingEndpoint(t *testing.T) {
	b := newBuilder()

	res := b.Build(command.KindConnect, current(), "웹서버와 허니팟을 연결해줘")

	assert.False(t, res.Success)
	require.NotNil(t, res.Err)
	assert.Equal(t, specerr.CodeNotFound, res.Err.Code)
	assert.Contains(t, res.Err.Message, "honeypot")
}

func TestBuild_Disconnect(t *testing.T) {
	b := newBuilder()

	res := b.Build(command.KindDisconnect, current(), "웹서버와 데이터베이스 연결 해제해줘")

	require.True(t, res.Success)
	assert.False(t, res.Graph.HasConnection("web-server-1", "db-server-1"))
	require.Len(t, res.Modifications, 1)
	assert.Equal(t, ModRemoveConnection, res.Modifications[0].Kind)
}

func TestBuild_QueryClonesCurrent(t *testing.T) {
	b := newBuilder()
	g := current()

	res := b.Build(command.KindQuery, g, "현재 구성 보여줘")

	require.True(t, res.Success)
	assert.Equal(t, catalog.ConfidenceExact, res.Confidence)
	assert.Empty(t, res.Modifications)

	res.Graph.Nodes[0].Label = "변경"
	assert.Equal(t, "사용자", g.Nodes[0].Label)
}

func TestBuild_ErrorsCarrySentinelCauses(t *testing.T) {
	b := newBuilder()

	res := b.Build(command.KindAdd, nil, "캐시 추가해줘")
	require.NotNil(t, res.Err)
	assert.ErrorIs(t, res.Err, specerr.ErrNoCurrentGraph)

	res = b.Build(command.KindAdd, current(), "그거 추가해줘")
	require.NotNil(t, res.Err)
	assert.ErrorIs(t, res.Err, specerr.ErrNotRecognized)

	res = b.Build(command.KindConnect, current(), "연결해줘")
	require.NotNil(t, res.Err)
	assert.ErrorIs(t, res.Err, specerr.ErrNotRecognized)
}
