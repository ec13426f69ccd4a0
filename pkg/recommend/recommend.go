// Package recommend produces short next-best-action guidance for a dashboard
// view. The primary generator calls the Anthropic API; every call site wraps
// it with WithFallback so a deterministic rule-based summary stands in
// whenever the API is unavailable.
package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/revops-cli/internal/config"
	"github.com/sells-group/revops-cli/internal/model"
	"github.com/sells-group/revops-cli/pkg/anthropic"
)

// Input carries the scored dashboard facts a recommendation draws from.
type Input struct {
	Role        string
	PeriodLabel string

	QuotaTarget     float64
	QuotaAttainment float64
	Commit          float64
	BestCase        float64

	AtRiskDeals  []model.ScoredDeal
	HotAccounts  []model.ScoredAccount
	ColdAccounts []model.Account
}

// Generator produces guidance text for a dashboard view.
type Generator interface {
	Generate(ctx context.Context, in Input) (string, error)
}

// AnthropicGenerator implements Generator on the Anthropic messages API.
type AnthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicGenerator builds a generator from config. The API key is read
// by the caller when constructing the client.
func NewAnthropicGenerator(client anthropic.Client, cfg config.AnthropicConfig) *AnthropicGenerator {
	return &AnthropicGenerator{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

const systemPrompt = `You are a revenue operations advisor. Given a summary of
a seller's pipeline, at-risk deals, and account priorities, respond with 2-4
short, specific next actions. Plain sentences, no headings, no preamble.`

func (g *AnthropicGenerator) Generate(ctx context.Context, in Input) (string, error) {
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System: []anthropic.SystemBlock{
			{Text: systemPrompt, CacheControl: &anthropic.CacheControl{TTL: "5m"}},
		},
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(in)},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "recommend: generate")
	}
	resp.Usage.LogCost(g.model, "recommend")

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", eris.New("recommend: empty response")
	}
	return text, nil
}

func buildPrompt(in Input) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Role: %s. Period: %s.\n", in.Role, in.PeriodLabel)
	fmt.Fprintf(&sb, "Quota attainment: %.0f%% of $%.0f. Commit $%.0f, best case $%.0f.\n",
		in.QuotaAttainment, in.QuotaTarget, in.Commit, in.BestCase)

	if len(in.AtRiskDeals) > 0 {
		sb.WriteString("At-risk deals:\n")
		for _, d := range in.AtRiskDeals {
			reasons := make([]string, 0, len(d.RiskReasons))
			for _, r := range d.RiskReasons {
				reasons = append(reasons, r.Label)
			}
			fmt.Fprintf(&sb, "- %s ($%.0f, stage %s): %s\n",
				d.Name, d.Amount, d.Stage, strings.Join(reasons, ", "))
		}
	}
	if len(in.HotAccounts) > 0 {
		sb.WriteString("Hot accounts:\n")
		for _, a := range in.HotAccounts {
			fmt.Fprintf(&sb, "- %s (score %.0f)\n", a.Name, a.Score)
		}
	}
	if len(in.ColdAccounts) > 0 {
		sb.WriteString("Cold accounts (no recent activity):\n")
		for _, a := range in.ColdAccounts {
			fmt.Fprintf(&sb, "- %s (%d days since activity)\n", a.Name, a.DaysSinceActivity)
		}
	}
	return sb.String()
}

// fallbackGenerator wraps a primary generator and substitutes a rule-based
// summary when the primary fails. It never returns an error.
type fallbackGenerator struct {
	primary Generator
}

// WithFallback wraps gen so callers always get usable guidance. A nil gen
// yields the rule-based output directly.
func WithFallback(gen Generator) Generator {
	return &fallbackGenerator{primary: gen}
}

func (f *fallbackGenerator) Generate(ctx context.Context, in Input) (string, error) {
	if f.primary != nil {
		text, err := f.primary.Generate(ctx, in)
		if err == nil {
			return text, nil
		}
		zap.L().Warn("recommendation generator failed, using rule-based fallback",
			zap.Error(err))
	}
	return ruleBased(in), nil
}

// ruleBased builds deterministic guidance from the highest-leverage facts:
// the largest at-risk deal, then quota gap, then account touches.
func ruleBased(in Input) string {
	var lines []string

	if len(in.AtRiskDeals) > 0 {
		top := in.AtRiskDeals[0]
		for _, d := range in.AtRiskDeals[1:] {
			if d.Amount > top.Amount {
				top = d
			}
		}
		label := "risk flags"
		if len(top.RiskReasons) > 0 {
			label = top.RiskReasons[0].Label
		}
		lines = append(lines, fmt.Sprintf(
			"Address %s on %s ($%.0f), your largest at-risk deal.",
			label, top.Name, top.Amount))
	}

	if in.QuotaTarget > 0 && in.QuotaAttainment < 100 {
		gap := in.QuotaTarget * (100 - in.QuotaAttainment) / 100
		lines = append(lines, fmt.Sprintf(
			"You are at %.0f%% of quota for %s; $%.0f still to close.",
			in.QuotaAttainment, in.PeriodLabel, gap))
	}

	if len(in.HotAccounts) > 0 {
		lines = append(lines, fmt.Sprintf(
			"Prioritize outreach to %s, your top-scored account.",
			in.HotAccounts[0].Name))
	}
	if len(in.ColdAccounts) > 0 {
		lines = append(lines, fmt.Sprintf(
			"Re-engage %d account(s) with no recent activity, starting with %s.",
			len(in.ColdAccounts), in.ColdAccounts[0].Name))
	}

	if len(lines) == 0 {
		return "Pipeline is healthy. Keep working your open deals toward close."
	}
	return strings.Join(lines, " ")
}
