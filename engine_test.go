package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsketch/engine/apply"
	"github.com/archsketch/engine/command"
	"github.com/archsketch/engine/graph"
	"github.com/archsketch/engine/risk"
)

func TestParse_CreateFromTemplate(t *testing.T) {
	e := New()

	res := e.Parse(context.Background(), ParseRequest{Prompt: "보안 웹 아키텍처 만들어줘"})

	require.True(t, res.Success)
	assert.Equal(t, command.KindCreate, res.CommandType)
	assert.Equal(t, "secure-web", res.TemplateUsed)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)
	require.NotNil(t, res.Spec)
	assert.True(t, res.Spec.HasType(graph.TypeFirewall))
	assert.True(t, res.Spec.HasType(graph.TypeWAF))
}

func TestParse_CreateFromDetectedComponents(t *testing.T) {
	e := New()

	res := e.Parse(context.Background(), ParseRequest{Prompt: "WAF 로드밸런서 웹서버"})

	require.True(t, res.Success)
	assert.InDelta(t, 0.5, res.Confidence, 1e-9)
	assert.Empty(t, res.TemplateUsed)
	require.NotNil(t, res.Spec)
	assert.Len(t, res.Spec.Nodes, 4, "user plus three detected components")
	assert.True(t, res.Spec.HasType(graph.TypeUser))
}

func TestParse_FallbackOnUnrecognizedInput(t *testing.T) {
	e := New()

	res := e.Parse(context.Background(), ParseRequest{Prompt: "안녕하세요"})

	assert.False(t, res.Success)
	assert.True(t, res.IsFallback)
	assert.InDelta(t, 0.3, res.Confidence, 1e-9)
	assert.NotEmpty(t, res.Error)
	require.NotNil(t, res.Spec, "fallback still renders")
}

func TestParse_MutationWithoutGraphFails(t *testing.T) {
	e := New()

	res := e.Parse(context.Background(), ParseRequest{Prompt: "방화벽 추가해줘"})

	assert.False(t, res.Success)
	assert.Equal(t, command.KindAdd, res.CommandType)
	assert.Zero(t, res.Confidence)
	assert.NotEmpty(t, res.Error)
}

func TestParse_FullConversationFlow(t *testing.T) {
	e := New()
	ctx := context.Background()
	conv := NewConversation()

	created := e.Parse(ctx, ParseRequest{Prompt: "3티어 웹 아키텍처 만들어줘"})
	conv.Record("3티어 웹 아키텍처 만들어줘", created)
	require.NotNil(t, conv.CurrentGraph())

	added := e.Parse(ctx, ParseRequest{
		Prompt:      "캐시 추가해줘",
		CurrentSpec: conv.CurrentGraph(),
	})
	conv.Record("캐시 추가해줘", added)

	require.True(t, added.Success)
	assert.Equal(t, command.KindAdd, added.CommandType)
	assert.True(t, conv.CurrentGraph().HasType(graph.TypeCache))
	assert.Equal(t, 2, conv.Len())

	queried := e.Parse(ctx, ParseRequest{
		Prompt:      "현재 구성 보여줘",
		CurrentSpec: conv.CurrentGraph(),
	})
	require.True(t, queried.Success)
	assert.Equal(t, command.KindQuery, queried.CommandType)
	assert.InDelta(t, 1.0, queried.Confidence, 1e-9)
}

func TestParse_OptionsDisableTemplates(t *testing.T) {
	e := New()
	off := false

	res := e.Parse(context.Background(), ParseRequest{
		Prompt:  "보안 웹 방화벽 구성해줘",
		Options: &ParseOptions{UseTemplates: &off},
	})

	require.True(t, res.Success)
	assert.Empty(t, res.TemplateUsed, "template tier skipped")
	assert.InDelta(t, 0.5, res.Confidence, 1e-9)
}

func TestApplyOperations(t *testing.T) {
	e := New()
	created := e.Parse(context.Background(), ParseRequest{Prompt: "3티어 웹 만들어줘"})
	require.True(t, created.Success)

	res := e.ApplyOperations(context.Background(), created.Spec, []apply.Operation{
		{Type: apply.OpAdd, TargetType: graph.TypeCache, AfterNode: "app-server-1"},
		{Type: apply.OpRemove, Target: "ghost-9"},
	})

	assert.Equal(t, 1, res.AppliedOps)
	assert.Len(t, res.Errors, 1)
	assert.True(t, res.Graph.HasType(graph.TypeCache))
	assert.False(t, created.Spec.HasType(graph.TypeCache), "input untouched")
}

func TestAssessChange(t *testing.T) {
	e := New()
	created := e.Parse(context.Background(), ParseRequest{Prompt: "보안 웹 만들어줘"})
	require.True(t, created.Success)

	after := created.Spec.Clone()
	after.RemoveNode("firewall-1")

	assessment := e.AssessChange(context.Background(), created.Spec, after)

	assert.Equal(t, risk.LevelHigh, assessment.Level)
	assert.Equal(t, risk.RecommendReview, assessment.Recommendation)

	same := e.AssessChange(context.Background(), created.Spec, created.Spec.Clone())
	assert.Equal(t, risk.LevelLow, same.Level)
	assert.Equal(t, risk.RecommendAutoApply, same.Recommendation)
}

func TestNew_OptionOverrides(t *testing.T) {
	e := New(WithCacheSize(8))

	res := e.Parse(context.Background(), ParseRequest{Prompt: "웹서버 만들어줘"})
	require.True(t, res.Success)

	e.Parse(context.Background(), ParseRequest{Prompt: "웹서버 만들어줘"})
	hits, _, _ := e.Detector().Cache().Stats()
	assert.Positive(t, hits, "repeated prompt should hit the detector cache")
}
