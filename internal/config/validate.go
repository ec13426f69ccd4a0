package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// quotaSources are the accepted quota.source values.
var quotaSources = map[string]bool{
	"native-field":    true,
	"external-object": true,
	"manual":          true,
	"none":            true,
}

// Validate checks that the quota, forecast, and scoring sections are
// internally consistent.
func (c *Config) Validate() error {
	var errs []string

	if !quotaSources[c.Quota.Source] {
		errs = append(errs, fmt.Sprintf("quota.source must be one of native-field, external-object, manual, none; got %q", c.Quota.Source))
	}
	if c.Quota.Source == "native-field" && c.Quota.NativeField == "" {
		errs = append(errs, "quota.native_field is required when quota.source is native-field")
	}
	if c.Quota.DefaultAmount < 0 {
		errs = append(errs, "quota.default_amount must be >= 0")
	}

	if c.Forecast.Method != "probability" && c.Forecast.Method != "category" {
		errs = append(errs, fmt.Sprintf("forecast.method must be probability or category; got %q", c.Forecast.Method))
	}
	if c.Forecast.CommitThreshold < 0 || c.Forecast.CommitThreshold > 100 {
		errs = append(errs, "forecast.commit_threshold must be between 0 and 100")
	}
	if c.Forecast.BestCaseThreshold < 0 || c.Forecast.BestCaseThreshold > 100 {
		errs = append(errs, "forecast.best_case_threshold must be between 0 and 100")
	}
	if c.Forecast.BestCaseThreshold > c.Forecast.CommitThreshold {
		errs = append(errs, "forecast.best_case_threshold must be <= forecast.commit_threshold")
	}

	if c.Fiscal.StartMonth < 0 || c.Fiscal.StartMonth > 11 {
		errs = append(errs, "fiscal.start_month must be between 0 and 11")
	}

	if c.Scoring.CorroborationBonus < 0 {
		errs = append(errs, "scoring.corroboration_bonus must be >= 0")
	}
	if c.Scoring.CorroborationCap < 0 {
		errs = append(errs, "scoring.corroboration_cap must be >= 0")
	}
	if c.Scoring.StallingDays <= 0 {
		errs = append(errs, "scoring.stalling_days must be > 0")
	}
	if c.Scoring.StallingCriticalDays < c.Scoring.StallingDays {
		errs = append(errs, "scoring.stalling_critical_days must be >= scoring.stalling_days")
	}
	for label, scale := range c.Scoring.ConfidenceScale {
		if scale < 0 || scale > 100 {
			errs = append(errs, fmt.Sprintf("scoring.confidence_scale.%s must be between 0 and 100", label))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
