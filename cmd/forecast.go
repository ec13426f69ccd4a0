package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/revops-cli/internal/fetch"
	"github.com/sells-group/revops-cli/internal/forecast"
	"github.com/sells-group/revops-cli/internal/period"
	"github.com/sells-group/revops-cli/internal/quota"
)

var (
	forecastUser   string
	forecastPeriod string
	forecastStart  string
	forecastEnd    string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Aggregate open pipeline into forecast tiers for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newSalesforceClient(cfg)
		if err != nil {
			return err
		}
		fetcher := fetch.NewFetcher(client)
		p := resolvePeriod(forecastPeriod, forecastStart, forecastEnd)

		open, err := fetcher.Deals(cmd.Context(), fetch.PipelinePlan(p))
		if err != nil {
			return eris.Wrap(err, "fetch pipeline")
		}
		wins, err := fetcher.Deals(cmd.Context(), fetch.WinsPlan(p))
		if err != nil {
			return eris.Wrap(err, "fetch wins")
		}

		var closedWon float64
		for _, d := range wins {
			closedWon += d.Amount
		}

		var quotaSrc quota.Source
		if cfg.Quota.Source == quota.SourceNativeField || cfg.Quota.Source == quota.SourceExternalObject {
			quotaSrc = quota.NewSalesforceSource(client)
		}
		quotas := quota.NewResolver(quotaSrc).Resolve(cmd.Context(), cfg.Quota, []string{forecastUser}, p)

		summary := forecast.NewAggregator(cfg.Forecast).Aggregate(open, closedWon, quotas.Total, p)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	forecastCmd.Flags().StringVar(&forecastUser, "user", "", "Salesforce user ID the quota resolves against")
	forecastCmd.Flags().StringVar(&forecastPeriod, "period", period.TokenThisQuarter, "period token")
	forecastCmd.Flags().StringVar(&forecastStart, "start", "", "custom period start (YYYY-MM-DD)")
	forecastCmd.Flags().StringVar(&forecastEnd, "end", "", "custom period end (YYYY-MM-DD)")
	rootCmd.AddCommand(forecastCmd)
}
