// Package cli builds the cobra command tree shared by the service binary.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/nimburion/airbnb-listings/pkg/config"
	"github.com/nimburion/airbnb-listings/pkg/observability/logger"
	"github.com/nimburion/airbnb-listings/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ServiceCommandOptions defines callbacks for service-specific logic.
type ServiceCommandOptions struct {
	Name        string
	Description string
	ConfigPath  string
	EnvPrefix   string
	// EnvFile is the dotenv file read before the environment. Empty uses ".env".
	EnvFile string

	// Required: server startup logic
	RunServer func(ctx context.Context, cfg *config.Config, log logger.Logger) error

	// Optional: dependency health checks
	CheckDependencies func(ctx context.Context, cfg *config.Config, log logger.Logger) error

	// Optional: additional custom commands
	CustomCommands []*cobra.Command
}

// NewServiceCommand creates the CLI with serve, healthcheck, config and version subcommands.
// The root command runs serve.
func NewServiceCommand(opts ServiceCommandOptions) *cobra.Command {
	opts.EnvPrefix = resolveEnvPrefix(opts.EnvPrefix)

	rootCmd := &cobra.Command{
		Use:           opts.Name,
		Short:         opts.Description,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var cfgPath string
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config-file", "c", opts.ConfigPath, "config file path")

	newLoader := func() *config.ViperLoader {
		loader := config.NewViperLoader(cfgPath, opts.EnvPrefix)
		if opts.EnvFile != "" {
			loader = loader.WithEnvFile(opts.EnvFile)
		}
		return loader
	}
	loadConfig := func(flags *pflag.FlagSet) (*config.Config, logger.Logger, error) {
		return LoadConfigAndLogger(newLoader(), flags)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Current(opts.Name)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Service:    %s\n", info.Service)
			fmt.Fprintf(out, "Version:    %s\n", info.Version)
			fmt.Fprintf(out, "Commit:     %s\n", info.Commit)
			fmt.Fprintf(out, "Build Time: %s\n", info.BuildTime)
			fmt.Fprintf(out, "Go:         %s\n", info.GoVersion)
		},
	})

	if opts.RunServer != nil {
		serveCmd := &cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP servers",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, log, err := loadConfig(cmd.Flags())
				if err != nil {
					return err
				}
				return opts.RunServer(cmd.Context(), cfg, log)
			},
		}
		rootCmd.AddCommand(serveCmd)
		rootCmd.RunE = serveCmd.RunE
	}

	if opts.CheckDependencies != nil {
		rootCmd.AddCommand(&cobra.Command{
			Use:   "healthcheck",
			Short: "Check connectivity to MongoDB",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, log, err := loadConfig(cmd.Flags())
				if err != nil {
					return err
				}
				if err := opts.CheckDependencies(cmd.Context(), cfg, log); err != nil {
					return fmt.Errorf("healthcheck failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All dependencies are healthy")
				return nil
			},
		})
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := newLoader().LoadUnvalidated()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration with credentials redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := newLoader().LoadUnvalidated()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			formatted, err := cfg.YAML()
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(formatted)
			return err
		},
	})

	rootCmd.AddCommand(configCmd)

	for _, customCmd := range opts.CustomCommands {
		rootCmd.AddCommand(customCmd)
	}

	return rootCmd
}

// LoadConfigAndLogger loads and validates the configuration, then builds the zap logger it describes.
func LoadConfigAndLogger(loader *config.ViperLoader, flags *pflag.FlagSet) (*config.Config, logger.Logger, error) {
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewZapLogger(logger.Config{
		Level:  logger.LogLevel(cfg.Observability.LogLevel),
		Format: logger.LogFormat(cfg.Observability.LogFormat),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	logConfigIfDebug(log, cfg)
	if flags != nil {
		log.Debug("command flags parsed", "changed", changedFlags(flags))
	}
	return cfg, log, nil
}

// Execute runs the command and exits with appropriate code.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func logConfigIfDebug(log logger.Logger, cfg *config.Config) {
	if log == nil || cfg == nil {
		return
	}

	if !strings.EqualFold(cfg.Observability.LogLevel, string(logger.DebugLevel)) {
		return
	}

	log.Debug("effective configuration", "config", fmt.Sprintf("%+v", cfg.Redacted()))
}

func changedFlags(flags *pflag.FlagSet) []string {
	var names []string
	flags.Visit(func(f *pflag.Flag) {
		names = append(names, f.Name)
	})
	return names
}

func resolveEnvPrefix(prefix string) string {
	trimmed := strings.TrimSpace(prefix)
	if trimmed == "" {
		return "APP"
	}
	return strings.ToUpper(trimmed)
}
