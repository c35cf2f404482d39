package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/fathom-mcp/internal/config"
)

// configFlags holds the command line overrides for internal/config.
// Flags take precedence over the config file and the environment.
type configFlags struct {
	debug          bool
	configFile     string
	baseURL        string
	timezone       string
	summaryTimeout time.Duration
	httpTimeout    time.Duration
	noElicitation  bool
}

func (f *configFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&f.configFile, "config", "", "Config file (YAML or TOML). Can also use FATHOM_MCP_CONFIG env var.")
	pf.StringVar(&f.baseURL, "base-url", "", "Fathom API root. Can also use FATHOM_API_BASE_URL env var.")
	pf.StringVar(&f.timezone, "timezone", "", "IANA timezone for date filters and display times. Can also use FATHOM_TIMEZONE env var.")
	pf.DurationVar(&f.summaryTimeout, "summary-timeout", 0, "Timeout for summary requests. Can also use FATHOM_SUMMARY_TIMEOUT env var.")
	pf.DurationVar(&f.httpTimeout, "http-timeout", 0, "Optional timeout for every Fathom HTTP request, unset by default. Can also use FATHOM_HTTP_TIMEOUT env var.")
	pf.BoolVar(&f.noElicitation, "no-elicitation", false, "Do not attach the follow-up prompt to search results. Can also use FATHOM_ELICITATION=false.")
}

// load resolves the configuration and applies the flags that were set
// explicitly on cmd.
func (f *configFlags) load(cmd *cobra.Command) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if f.configFile != "" {
		cfg, err = config.LoadFile(f.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if flags.Changed("timezone") {
		cfg.Timezone = f.timezone
	}
	if flags.Changed("summary-timeout") {
		cfg.SummaryTimeout = f.summaryTimeout
	}
	if flags.Changed("http-timeout") {
		cfg.HTTPTimeout = f.httpTimeout
	}
	if flags.Changed("no-elicitation") {
		cfg.IncludeElicitation = !f.noElicitation
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
