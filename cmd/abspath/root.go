package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthur-debert/abspath/pkg/abspath"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "abspath",
	Short: "Normalize, relate, hash, and mirror absolute paths",
	Long: `abspath works with normalized absolute paths across separator
conventions (Unix-rooted and Windows-drive-rooted), and exposes the
file and directory operations built on them: content hashing, listing,
and policy-driven copy and move.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/abspath/config.yaml)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newNormCommand())
	rootCmd.AddCommand(newRelCommand())
	rootCmd.AddCommand(newHashCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newCopyCommand())
	rootCmd.AddCommand(newMoveCommand())
}

// initConfig wires viper (config file plus ABSPATH_* environment) into
// the process-wide abspath defaults and the logger.
func initConfig(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix("ABSPATH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("log_level", "warn")
	v.SetDefault("line_break", "native")
	v.SetDefault("eof_line_break", true)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(configDir + "/abspath")
		}
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	level, err := abspath.LogLevelFromString(v.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if verbose, err := cmd.Flags().GetCount("verbose"); err == nil && verbose > 0 {
		switch verbose {
		case 1:
			level = zerolog.InfoLevel
		case 2:
			level = zerolog.DebugLevel
		default:
			level = zerolog.TraceLevel
		}
	}
	abspath.SetLogger(abspath.NewLogger(os.Stderr, level))

	defaults := abspath.CurrentDefaults()
	switch v.GetString("line_break") {
	case "unix":
		defaults.LineBreak = abspath.LineBreakUnix
	case "windows":
		defaults.LineBreak = abspath.LineBreakWindows
	case "native":
		defaults.LineBreak = abspath.LineBreakNative
	default:
		return fmt.Errorf("invalid line_break %q", v.GetString("line_break"))
	}
	defaults.EOFLineBreak = v.GetBool("eof_line_break")
	abspath.SetDefaults(defaults)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("abspath version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
