// main.go bootstraps monoctl: it builds the root Cobra command, loads
// defaults from the environment and executes with a signal-aware context.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/example/monoctl/internal/plan"
	"github.com/example/monoctl/internal/project"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	loadDefaults()

	var rootDir string
	var logLevel string
	var noColor bool

	cmd := &cobra.Command{
		Use:           "monoctl",
		Short:         "Monorepo task orchestrator",
		Long:          "monoctl resolves service commands and their dependencies into staged execution plans and runs each stage with maximal parallelism.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// Accept underscore spellings (--log_level) alongside the dashed forms.
	cmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	cmd.PersistentFlags().StringVar(&rootDir, "root", defaultString("root", "."), "Workspace root directory (where monoctl.yaml lives)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultString("log-level", "info"), "Log level: debug, info, warn, or error")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", defaultBool("no-color", false), "Disable colored output")

	cmd.AddCommand(newRunCommand(&rootDir, &logLevel, &noColor))
	cmd.AddCommand(newPlanCommand(&rootDir))
	cmd.AddCommand(newGraphCommand(&rootDir))
	cmd.AddCommand(newListCommand(&rootDir))
	cmd.AddCommand(newValidateCommand(&rootDir))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

// loadDefaults layers ~/.monoctl.yaml under MONOCTL_* environment variables
// so flag defaults can be customized per machine.
func loadDefaults() {
	viper.SetConfigName(".monoctl")
	viper.SetConfigType("yaml")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetEnvPrefix("MONOCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

func defaultString(key, fallback string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return fallback
}

func defaultInt(key string, fallback int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return fallback
}

func defaultBool(key string, fallback bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return fallback
}

// resolveTargets expands an empty service list to every service that defines
// the root command, in sorted order.
func resolveTargets(p *project.Project, commandName string, services []string) []string {
	if len(services) > 0 {
		return services
	}
	root := plan.RootCommand(commandName)
	var out []string
	for _, id := range p.ServiceIDs {
		if _, ok := p.Services[id].Commands[root]; ok {
			out = append(out, id)
		}
	}
	return out
}
