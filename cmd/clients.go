package main

import (
	"os"
	"time"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"

	"github.com/sells-group/revops-cli/internal/config"
	"github.com/sells-group/revops-cli/internal/dashboard"
	"github.com/sells-group/revops-cli/internal/fetch"
	"github.com/sells-group/revops-cli/internal/model"
	"github.com/sells-group/revops-cli/internal/period"
	"github.com/sells-group/revops-cli/internal/quota"
	"github.com/sells-group/revops-cli/pkg/anthropic"
	"github.com/sells-group/revops-cli/pkg/recommend"
	"github.com/sells-group/revops-cli/pkg/salesforce"
)

// newSalesforceClient authenticates with JWT credentials from config.
func newSalesforceClient(cfg *config.Config) (salesforce.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (REVOPS_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := gosf.Init(gosf.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return salesforce.NewClient(sf, salesforce.WithRateLimit(cfg.Salesforce.RateLimit)), nil
}

// newEngine wires the dashboard engine from config. The recommendation
// generator is only attached when an API key is configured; the rule-based
// fallback covers the rest.
func newEngine(cfg *config.Config) (*dashboard.Engine, error) {
	client, err := newSalesforceClient(cfg)
	if err != nil {
		return nil, err
	}

	var gen recommend.Generator
	if cfg.Anthropic.Key != "" {
		gen = recommend.NewAnthropicGenerator(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
	}

	var quotaSrc quota.Source
	if cfg.Quota.Source == quota.SourceNativeField || cfg.Quota.Source == quota.SourceExternalObject {
		quotaSrc = quota.NewSalesforceSource(client)
	}

	return dashboard.NewEngine(cfg, fetch.NewFetcher(client), quotaSrc, gen, nil), nil
}

// resolvePeriod turns the period flags into a concrete date range.
func resolvePeriod(token, start, end string) model.Period {
	return period.Resolve(token, start, end, time.Now(), cfg.Fiscal.StartMonth)
}
