package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/machq/internal/config"
	"github.com/oakwood-commons/machq/internal/formatter"
	"github.com/oakwood-commons/machq/internal/source"
	"github.com/oakwood-commons/machq/pkg/core"
	"github.com/oakwood-commons/machq/pkg/logger"
)

func newVersionCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print machq version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadMergedConfig(resolveConfigPath(o.configFile))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cliVersionString(cfg))
			return nil
		},
	}
}

func newConfigCmd(o *rootOptions) *cobra.Command {
	var output string
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage machq configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show the merged configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadMergedConfig(resolveConfigPath(o.configFile))
			if err != nil {
				return err
			}
			return printConfig(cmd, cfg, output)
		},
	}
	getCmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml|json")

	defaultsCmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the built-in default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(config.DefaultConfigYAML())
			return err
		},
	}

	themesCmd := &cobra.Command{
		Use:     "themes",
		Aliases: []string{"theme"},
		Short:   "List available themes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadMergedConfig(resolveConfigPath(o.configFile))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Available themes (default: %s):\n", cfg.UI.Theme.Default)
			for _, name := range cfg.ThemeNames() {
				fmt.Fprintf(out, " - %s\n", name)
			}
			return nil
		},
	}

	configCmd.AddCommand(getCmd, defaultsCmd, themesCmd)
	return configCmd
}

func printConfig(cmd *cobra.Command, cfg config.Config, output string) error {
	switch output {
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	default:
		return fmt.Errorf("invalid output for config: %s (use yaml|json)", output)
	}
}

type generateOptions struct {
	records int
	seed    uint64
	format  string
	out     string
	table   string
}

// newGenerateCmd writes a synthetic inventory that the file and sqlite
// sources can read back.
func newGenerateCmd() *cobra.Command {
	g := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic machine inventory",
		Example: `  machq generate --records 200 --seed 7 --out machines.db
  machq generate --format yaml > inventory.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.run(cmd)
		},
	}
	f := cmd.Flags()
	f.IntVar(&g.records, "records", source.DefaultCount, "number of records")
	f.Uint64Var(&g.seed, "seed", 0, "generator seed (0 = random)")
	f.StringVar(&g.format, "format", "", "sqlite|json|yaml (default: sqlite for .db/.sqlite paths, else json)")
	f.StringVar(&g.out, "out", "", "output path (default stdout; required for sqlite)")
	f.StringVar(&g.table, "table", source.DefaultTable, "SQLite table name")
	return cmd
}

func (g *generateOptions) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	format := g.format
	if format == "" {
		format = "json"
		if g.out != "" && sourceKindForPath(g.out) == source.KindSQLite {
			format = "sqlite"
		}
	}

	records, err := core.LoadRecords(ctx, source.Config{Kind: source.KindSynthetic, Count: g.records, Seed: g.seed}, *log)
	if err != nil {
		return err
	}

	var rendered string
	switch format {
	case "sqlite":
		if g.out == "" {
			return fmt.Errorf("--out is required for sqlite output")
		}
		if err := source.WriteSQLite(ctx, g.out, g.table, records); err != nil {
			return err
		}
		log.V(1).Info("wrote inventory", "path", g.out, logger.RecordsKey, len(records))
		return nil
	case "json":
		rendered, err = formatter.FormatJSON(records)
	case "yaml":
		rendered, err = formatter.FormatYAML(records, 2)
	default:
		return fmt.Errorf("invalid format %q (use sqlite|json|yaml)", format)
	}
	if err != nil {
		return err
	}
	if g.out == "" {
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	}
	if err := os.WriteFile(g.out, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", g.out, err)
	}
	log.V(1).Info("wrote inventory", "path", g.out, logger.RecordsKey, len(records))
	return nil
}
