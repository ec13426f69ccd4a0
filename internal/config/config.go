// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Fiscal     FiscalConfig     `yaml:"fiscal" mapstructure:"fiscal"`
	Quota      QuotaConfig      `yaml:"quota" mapstructure:"quota"`
	Forecast   ForecastConfig   `yaml:"forecast" mapstructure:"forecast"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID  string  `yaml:"client_id" mapstructure:"client_id"`
	Username  string  `yaml:"username" mapstructure:"username"`
	KeyPath   string  `yaml:"key_path" mapstructure:"key_path"`
	LoginURL  string  `yaml:"login_url" mapstructure:"login_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// StoreConfig configures the watchlist persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// FiscalConfig configures fiscal calendar arithmetic.
type FiscalConfig struct {
	// StartMonth is the zero-based month index the fiscal year starts on
	// (1 = February).
	StartMonth int `yaml:"start_month" mapstructure:"start_month"`
}

// QuotaConfig configures how per-subject quota amounts are resolved.
// ManualAmounts entries always override the primary source's value when
// present and positive, unless the source itself is manual or none.
type QuotaConfig struct {
	// Source is one of native-field, external-object, manual, none.
	Source string `yaml:"source" mapstructure:"source"`
	// NativeField is the custom quota field on the subject record when
	// Source is native-field.
	NativeField string `yaml:"native_field" mapstructure:"native_field"`
	// ManualAmounts maps subject ID to a quota amount.
	ManualAmounts map[string]float64 `yaml:"manual_amounts" mapstructure:"manual_amounts"`
	// DefaultAmount is the fallback when a manual lookup misses.
	DefaultAmount float64 `yaml:"default_amount" mapstructure:"default_amount"`
}

// ForecastConfig configures pipeline bucketing and field-name mappings.
type ForecastConfig struct {
	// Method is probability or category.
	Method string `yaml:"method" mapstructure:"method"`
	// CommitThreshold and BestCaseThreshold are probability cutoffs (percent).
	CommitThreshold   float64 `yaml:"commit_threshold" mapstructure:"commit_threshold"`
	BestCaseThreshold float64 `yaml:"best_case_threshold" mapstructure:"best_case_threshold"`
	// AmountField and CategoryField let orgs remap non-standard field names.
	AmountField   string `yaml:"amount_field" mapstructure:"amount_field"`
	CategoryField string `yaml:"category_field" mapstructure:"category_field"`
	// StageOrder lists recognized stages in display order. Unrecognized
	// stages sort alphabetically after these.
	StageOrder []string `yaml:"stage_order" mapstructure:"stage_order"`
}

// ScoringConfig holds the tuned scoring constants. The corroboration bonus
// and confidence scale look empirically tuned rather than load-bearing, so
// they stay configurable instead of hard-coded.
type ScoringConfig struct {
	// CorroborationBonus is added per additional co-occurring signal on the
	// same entity during fusion; CorroborationCap bounds the total bonus.
	CorroborationBonus float64 `yaml:"corroboration_bonus" mapstructure:"corroboration_bonus"`
	CorroborationCap   float64 `yaml:"corroboration_cap" mapstructure:"corroboration_cap"`

	// ConfidenceScale maps a source confidence label to the common 0-100
	// scale used during fusion.
	ConfidenceScale map[string]float64 `yaml:"confidence_scale" mapstructure:"confidence_scale"`

	// StallingDays and StallingCriticalDays bound the universal stalling
	// check on days-in-stage.
	StallingDays         int `yaml:"stalling_days" mapstructure:"stalling_days"`
	StallingCriticalDays int `yaml:"stalling_critical_days" mapstructure:"stalling_critical_days"`

	// ColdAccountDays is the staleness cutoff for cold-account detection.
	ColdAccountDays int `yaml:"cold_account_days" mapstructure:"cold_account_days"`
}

// AnthropicConfig holds settings for the recommendation generator.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("REVOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "revops.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.rate_limit", 5.0)
	v.SetDefault("fiscal.start_month", 1) // February
	v.SetDefault("quota.source", "none")
	v.SetDefault("quota.default_amount", 0)
	v.SetDefault("forecast.method", "probability")
	v.SetDefault("forecast.commit_threshold", 70)
	v.SetDefault("forecast.best_case_threshold", 50)
	v.SetDefault("forecast.amount_field", "Amount")
	v.SetDefault("forecast.category_field", "ForecastCategoryName")
	v.SetDefault("forecast.stage_order", []string{
		"Prospecting", "Qualification", "Discovery", "Proposal",
		"Negotiation", "Closed Won", "Closed Lost",
	})
	v.SetDefault("scoring.corroboration_bonus", 3)
	v.SetDefault("scoring.corroboration_cap", 15)
	v.SetDefault("scoring.confidence_scale", map[string]float64{
		"high": 85, "medium": 65, "low": 45,
	})
	v.SetDefault("scoring.stalling_days", 30)
	v.SetDefault("scoring.stalling_critical_days", 60)
	v.SetDefault("scoring.cold_account_days", 90)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
