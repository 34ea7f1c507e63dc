package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Display the current nullslot configuration.

Examples:
  nullslot config            # Show all config
  nullslot config --path     # Show config file path
  nullslot config --json     # Output as JSON`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoSession: "true"},
	RunE:        runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().Bool("path", false, "show config file path")
	configCmd.Flags().Bool("json", false, "output as JSON")
}

func runConfig(cmd *cobra.Command, args []string) error {
	a := current
	showPath, _ := cmd.Flags().GetBool("path")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if showPath {
		if file := a.viper.ConfigFileUsed(); file != "" {
			a.printer.Info("Config file: %s", file)
		} else {
			a.printer.Info("No config file found (using defaults)")
		}
		return nil
	}

	cfg := a.cfg

	if jsonOutput {
		enc := json.NewEncoder(a.printer.Out())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	a.printer.Header("Current Configuration")
	table := a.printer.NewTable([]string{"KEY", "VALUE"})
	table.AddRow([]string{"api.base_url", cfg.API.BaseURL})
	table.AddRow([]string{"api.graphql_path", cfg.API.GraphQLPath})
	table.AddRow([]string{"api.timeout", cfg.API.Timeout.String()})
	table.AddRow([]string{"store.backend", cfg.Store.Backend})
	if cfg.Store.Backend == "redis" {
		table.AddRow([]string{"store.redis.addr", cfg.Store.Redis.Addr})
		table.AddRow([]string{"store.redis.db", fmt.Sprintf("%d", cfg.Store.Redis.DB)})
		table.AddRow([]string{"store.redis.prefix", cfg.Store.Redis.Prefix})
	} else {
		table.AddRow([]string{"store.path", cfg.Store.Path})
	}
	table.AddRow([]string{"callback.listen_addr", cfg.Callback.ListenAddr})
	table.AddRow([]string{"workspace.cache_ttl", cfg.Workspace.CacheTTL.String()})
	table.AddRow([]string{"workspace.cache_size", fmt.Sprintf("%d", cfg.Workspace.CacheSize)})
	table.AddRow([]string{"logging.level", cfg.Logging.Level})
	table.AddRow([]string{"logging.format", cfg.Logging.Format})
	table.AddRow([]string{"output.colors", fmt.Sprintf("%v", cfg.Output.Colors)})
	table.AddRow([]string{"telemetry.enabled", fmt.Sprintf("%v", cfg.Telemetry.Enabled)})
	if cfg.Telemetry.Enabled {
		table.AddRow([]string{"telemetry.endpoint", cfg.Telemetry.Endpoint})
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(a.printer.Out())
	a.printer.Info("SSO login URL: %s", cfg.SSOLoginURL())
	a.printer.PrintHints("config")
	return nil
}
