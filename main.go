package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is the application version, set via ldflags.
var version string = "dev" // Default for local builds

// newRootCmd builds the sortfs command around its own viper instance.
func newRootCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "sortfs [DIRECTORY] [LEFTOVER]",
		Short: "List files under a directory, most recently changed first.",
		Long: `sortfs walks a directory tree, drops ignored entries (.gitignore, custom
ignore files, --exclude patterns) and prints everything else ordered by
modification or creation time, newest first.

LEFTOVER is a literal fragment for path completion: only entries whose path
starts with DIRECTORY/LEFTOVER are printed.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			used, cfgErr := initConfig(v, cfgFile)

			opts, warnings := optionsFromViper(v, args)
			log := NewLogger(stderr, opts.LogLevel)
			if used != "" {
				log.Debugf("using config file: %s", used)
			}
			if cfgErr != nil {
				log.Warnf("error reading config file: %v", cfgErr)
			}
			for _, w := range warnings {
				log.Warnf("%s", w)
			}

			if opts.Interactive {
				// Escape sequences would end up in the finder's item list.
				opts.Color = false
			}

			lines, err := NewProcessor(opts, log).Lines()
			if err != nil {
				return err
			}

			if opts.Interactive {
				lines, err = pickLines(lines)
				if err != nil {
					return err
				}
			}
			return deliver(opts, lines, stdout, log)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/sortfs/config.toml)")

	// Filtering
	flags.BoolP("dirs-only", "d", false, "Show directories only")
	v.BindPFlag("dirs_only", flags.Lookup("dirs-only"))
	flags.String("max-depth", "", "Maximum depth below DIRECTORY (empty for no limit)")
	v.BindPFlag("max_depth", flags.Lookup("max-depth"))
	flags.Bool("no-hidden", false, "Hide files and directories starting with a dot")
	v.BindPFlag("no_hidden", flags.Lookup("no-hidden"))
	flags.BoolP("follow", "L", false, "Follow symbolic links")
	v.BindPFlag("follow", flags.Lookup("follow"))
	flags.Bool("no-ignore", false, "Don't respect .gitignore and custom ignore files")
	v.BindPFlag("no_ignore", flags.Lookup("no-ignore"))
	flags.StringSliceP("exclude", "e", nil, "Additional gitignore-style patterns (comma-separated, ! re-includes)")
	v.BindPFlag("exclude", flags.Lookup("exclude"))
	flags.String("ignore-file-name", defaultIgnoreFileName, "Name of the per-directory custom ignore file")
	v.BindPFlag("ignore_file_name", flags.Lookup("ignore-file-name"))

	// Sorting
	flags.StringP("sort-by", "s", string(SortByModified), "Sort by an attribute: modified or created")
	v.BindPFlag("sort_by", flags.Lookup("sort-by"))
	flags.String("stat-fallback", string(FallbackEpoch), "Timestamp for entries that cannot be stat'ed: epoch or now")
	v.BindPFlag("stat_fallback", flags.Lookup("stat-fallback"))

	// Output
	flags.Bool("full-path", false, "Print canonical absolute paths")
	v.BindPFlag("full_path", flags.Lookup("full-path"))
	flags.Bool("prefix-target", false, "Prefix paths with DIRECTORY exactly as given")
	v.BindPFlag("prefix_target", flags.Lookup("prefix-target"))
	flags.Bool("color", false, "Colorize path components using LS_COLORS")
	v.BindPFlag("color", flags.Lookup("color"))
	flags.StringP("file", "f", "", "Save output to specified file")
	v.BindPFlag("file", flags.Lookup("file"))
	flags.BoolP("clipboard", "c", false, "Copy output to clipboard")
	v.BindPFlag("clipboard", flags.Lookup("clipboard"))
	flags.BoolP("interactive", "i", false, "Pick entries from the sorted list with a fuzzy finder")
	v.BindPFlag("interactive", flags.Lookup("interactive"))

	// Processing
	flags.IntP("threads", "t", 0, "Number of walker goroutines (0 for auto)")
	v.BindPFlag("threads", flags.Lookup("threads"))
	flags.String("log-level", "warn", "Log level: trace, debug, info, warn, error")
	v.BindPFlag("log_level", flags.Lookup("log-level"))
	flags.BoolP("verbose", "v", false, "Shorthand for --log-level debug")
	v.BindPFlag("verbose", flags.Lookup("verbose"))

	v.SetDefault("sort_by", string(SortByModified))
	v.SetDefault("stat_fallback", string(FallbackEpoch))
	v.SetDefault("ignore_file_name", defaultIgnoreFileName)
	v.SetDefault("log_level", "warn")
	v.SetDefault("threads", 0)

	return cmd
}

// initConfig reads in the config file and environment variables. It returns
// the config file used, if any. A missing config file is not an error.
func initConfig(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "sortfs"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix("SORTFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", err
	}
	return v.ConfigFileUsed(), nil
}

func main() {
	// A closed pipe must surface as a write error, not kill the process.
	signal.Ignore(syscall.SIGPIPE)

	cmd := newRootCmd(viper.New(), os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sortfs: %v\n", err)
		os.Exit(exitError)
	}
	os.Exit(exitOK)
}
