package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/revops-cli/internal/dashboard"
	"github.com/sells-group/revops-cli/internal/period"
)

var (
	dashRole   string
	dashUser   string
	dashPeriod string
	dashStart  string
	dashEnd    string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render a role-specific dashboard view",
	Long: `Fetches pipeline, wins, losses, and account data for the period,
scores and groups it, and prints the assembled view as JSON.

Roles: ae, am, csm, leader, exec.

Period accepts tokens like thisMonth, thisQuarter, thisFiscalQuarter,
last90days, or custom with --start/--end (YYYY-MM-DD).

Examples:
  dashboard --role ae --user 005XX0000012345
  dashboard --role exec --period thisFiscalQuarter
  dashboard --role leader --period custom --start 2026-07-01 --end 2026-09-30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		role, ok := dashboard.ParseRole(dashRole)
		if !ok {
			return eris.Errorf("unknown role %q (want ae, am, csm, leader, or exec)", dashRole)
		}

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		p := resolvePeriod(dashPeriod, dashStart, dashEnd)
		zap.L().Info("building dashboard",
			zap.String("role", string(role)),
			zap.String("period", p.Label),
		)

		view, err := engine.Build(cmd.Context(), role, dashUser, p)
		if err != nil {
			return eris.Wrap(err, "build dashboard")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashRole, "role", "ae", "view role: ae, am, csm, leader, exec")
	dashboardCmd.Flags().StringVar(&dashUser, "user", "", "Salesforce user ID the quota resolves against")
	dashboardCmd.Flags().StringVar(&dashPeriod, "period", period.TokenThisQuarter, "period token")
	dashboardCmd.Flags().StringVar(&dashStart, "start", "", "custom period start (YYYY-MM-DD)")
	dashboardCmd.Flags().StringVar(&dashEnd, "end", "", "custom period end (YYYY-MM-DD)")
	rootCmd.AddCommand(dashboardCmd)
}
