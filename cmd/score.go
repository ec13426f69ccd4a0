package main

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/revops-cli/internal/fetch"
	"github.com/sells-group/revops-cli/internal/grouper"
	"github.com/sells-group/revops-cli/internal/period"
	"github.com/sells-group/revops-cli/internal/priority"
	"github.com/sells-group/revops-cli/internal/risk"
)

var (
	scorePeriod string
	scoreStart  string
	scoreEnd    string
	scoreGroup  bool
	scoreAtRisk bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score accounts or deals",
}

var scoreAccountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Score the account book by priority tier",
	Long: `Fetches the account book and prints priority-scored accounts,
highest first. With --group, related accounts (shared brand families like
"Park Hyatt" and "Grand Hyatt") collapse into one row per group led by the
highest-scoring member.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newSalesforceClient(cfg)
		if err != nil {
			return err
		}

		accounts, err := fetch.NewFetcher(client).Accounts(cmd.Context(), fetch.AccountsPlan())
		if err != nil {
			return eris.Wrap(err, "fetch accounts")
		}

		scored := priority.ScoreAccounts(accounts)
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if scoreGroup {
			return enc.Encode(grouper.GroupAccounts(scored))
		}
		return enc.Encode(scored)
	},
}

var scoreDealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "Score open deals for qualification risk",
	Long: `Fetches open deals closing in the period and prints their
qualification scores and risk reasons. With --at-risk, only deals carrying
at least one risk reason are printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newSalesforceClient(cfg)
		if err != nil {
			return err
		}

		p := resolvePeriod(scorePeriod, scoreStart, scoreEnd)
		deals, err := fetch.NewFetcher(client).Deals(cmd.Context(), fetch.PipelinePlan(p))
		if err != nil {
			return eris.Wrap(err, "fetch deals")
		}

		scored := risk.NewScorer(cfg.Scoring).ScoreDeals(deals)
		if scoreAtRisk {
			scored = risk.AtRisk(scored)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(scored)
	},
}

func init() {
	scoreAccountsCmd.Flags().BoolVar(&scoreGroup, "group", false, "collapse brand families into groups")
	scoreDealsCmd.Flags().StringVar(&scorePeriod, "period", period.TokenThisQuarter, "period token")
	scoreDealsCmd.Flags().StringVar(&scoreStart, "start", "", "custom period start (YYYY-MM-DD)")
	scoreDealsCmd.Flags().StringVar(&scoreEnd, "end", "", "custom period end (YYYY-MM-DD)")
	scoreDealsCmd.Flags().BoolVar(&scoreAtRisk, "at-risk", false, "print only deals with risk reasons")
	scoreCmd.AddCommand(scoreAccountsCmd, scoreDealsCmd)
	rootCmd.AddCommand(scoreCmd)
}
