package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/revops-cli/internal/config"
	"github.com/sells-group/revops-cli/internal/model"
	"github.com/sells-group/revops-cli/pkg/anthropic"
)

type stubAnthropicClient struct {
	lastReq anthropic.MessageRequest
	resp    *anthropic.MessageResponse
	err     error
}

func (s *stubAnthropicClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

func testInput() Input {
	return Input{
		Role:            "ae",
		PeriodLabel:     "FY2026 Q3",
		QuotaTarget:     500_000,
		QuotaAttainment: 40,
		Commit:          120_000,
		BestCase:        200_000,
		AtRiskDeals: []model.ScoredDeal{
			{
				Deal: model.Deal{Name: "Acme Renewal", Amount: 120_000, Stage: "Proposal"},
				RiskReasons: []model.Signal{
					{Category: model.CategoryNoExecSponsor, Label: "No executive sponsor identified"},
				},
			},
			{
				Deal: model.Deal{Name: "Beta Expansion", Amount: 300_000, Stage: "Negotiation"},
				RiskReasons: []model.Signal{
					{Category: model.CategoryStalling, Label: "Deal stalling in stage"},
				},
			},
		},
		HotAccounts: []model.ScoredAccount{
			{Account: model.Account{Name: "Grand Hyatt"}, Score: 90, Tier: model.TierHot},
		},
		ColdAccounts: []model.Account{
			{Name: "Dormant Corp", DaysSinceActivity: 120},
		},
	}
}

func TestAnthropicGenerator_Generate(t *testing.T) {
	client := &stubAnthropicClient{resp: &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: "  Call the Acme CFO this week.  "}},
	}}
	gen := NewAnthropicGenerator(client, config.AnthropicConfig{
		Model: "claude-haiku-4-5-20251001", MaxTokens: 1024,
	})

	text, err := gen.Generate(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, "Call the Acme CFO this week.", text)
	assert.Equal(t, "claude-haiku-4-5-20251001", client.lastReq.Model)
	require.Len(t, client.lastReq.Messages, 1)
	assert.Contains(t, client.lastReq.Messages[0].Content, "Acme Renewal")
	assert.Contains(t, client.lastReq.Messages[0].Content, "Dormant Corp")
}

func TestAnthropicGenerator_EmptyResponseIsError(t *testing.T) {
	client := &stubAnthropicClient{resp: &anthropic.MessageResponse{}}
	gen := NewAnthropicGenerator(client, config.AnthropicConfig{Model: "m", MaxTokens: 64})

	_, err := gen.Generate(context.Background(), testInput())
	assert.Error(t, err)
}

func TestWithFallback_PassesThroughOnSuccess(t *testing.T) {
	client := &stubAnthropicClient{resp: &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: "primary output"}},
	}}
	gen := WithFallback(NewAnthropicGenerator(client, config.AnthropicConfig{Model: "m", MaxTokens: 64}))

	text, err := gen.Generate(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, "primary output", text)
}

func TestWithFallback_RuleBasedOnError(t *testing.T) {
	client := &stubAnthropicClient{err: errors.New("rate limited")}
	gen := WithFallback(NewAnthropicGenerator(client, config.AnthropicConfig{Model: "m", MaxTokens: 64}))

	text, err := gen.Generate(context.Background(), testInput())

	require.NoError(t, err, "fallback never surfaces the primary's error")
	assert.Contains(t, text, "Beta Expansion", "largest at-risk deal leads")
	assert.Contains(t, text, "40% of quota")
	assert.Contains(t, text, "Grand Hyatt")
}

func TestWithFallback_NilPrimary(t *testing.T) {
	gen := WithFallback(nil)

	text, err := gen.Generate(context.Background(), Input{})
	require.NoError(t, err)
	assert.Contains(t, text, "healthy")
}
