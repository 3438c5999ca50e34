// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for Softwhere using the Cobra
// library. It defines the root command, the shared service setup, flags and
// the entry point for execution.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/softwhere/softwhere/buildvars"
	"github.com/softwhere/softwhere/internal/config"
	"github.com/softwhere/softwhere/internal/console"
	"github.com/softwhere/softwhere/internal/credentials"
	"github.com/softwhere/softwhere/internal/i18n"
	"github.com/softwhere/softwhere/internal/licenses"
	"github.com/softwhere/softwhere/internal/logging"
	"github.com/softwhere/softwhere/internal/session"
	"github.com/softwhere/softwhere/internal/store"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

const modulePath = "github.com/softwhere/softwhere"

var (
	cfgFile string
	verbose bool

	appConfig config.Config
	appStore  store.Store

	// openStore is replaced in tests.
	openStore = store.Open
)

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := config.Defaults()
	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optionalConfigPath)
	// A "file not found" error is expected on first run, so we handle it specifically.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			// The app can run on defaults.
			logging.Warnf("could not write default config file: %v", writeErr)
		} else {
			logging.Infof("wrote default config to user config path")
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Empty values in a user's file fall back to defaults.
	if appConfig.Storage.Type == "" {
		appConfig.Storage.Type = defaults["storage.type"].(string)
	}
	if appConfig.Storage.Path == "" {
		appConfig.Storage.Path = defaults["storage.path"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}
	if appConfig.Export.Path == "" {
		appConfig.Export.Path = defaults["export.path"].(string)
	}

	if verbose {
		logging.SetDebug(true)
	} else if appConfig.Log.Level != "" {
		if err := logging.SetLevel(appConfig.Log.Level); err != nil {
			logging.Warnf("%v", err)
		}
	}

	if err := applyLanguage(appConfig.Language); err != nil {
		return err
	}

	// A previous command that failed before its post-run hook may have left a store open.
	if appStore != nil {
		_ = appStore.Close()
	}
	s, err := openStore(appConfig.Storage)
	if err != nil {
		appStore = nil
		return errors.New(i18n.T("cli.error_open_store", err))
	}
	appStore = s
	logging.Debugf("using %s storage", appConfig.Storage.Type)
	return nil
}

func closeServices(cmd *cobra.Command, args []string) error {
	if appStore == nil {
		return nil
	}
	err := appStore.Close()
	appStore = nil
	return err
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if cmd.Flags().Changed("config") {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return nil, fmt.Errorf("could not read --config flag: %w", err)
		}
		if path == "" {
			return nil, nil
		}
		// Make sure the user-provided file exists to avoid unwanted behavior.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		return &path, nil
	}
	return nil, nil
}

// applyLanguage activates tag if a locale ships for it. Otherwise English
// stays active and the error lists the available locales.
func applyLanguage(tag string) error {
	available := i18n.GetAvailableLocales()
	if _, ok := available[tag]; !ok {
		i18n.Init("en")
		names := make([]string, 0, len(available))
		for _, t := range i18n.Locales() {
			names = append(names, fmt.Sprintf("%s (%s)", t, available[t]))
		}
		return errors.New(i18n.T("cli.error_unknown_language", tag, strings.Join(names, ", ")))
	}
	i18n.SetLang(tag)
	logging.Debugf("language: %s", i18n.GetLang())
	return nil
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "softwhere",
		Short: "Softwhere tracks software licenses and who uses them.",
		Long: `Softwhere keeps an inventory of software licenses: which key is assigned
to which user and device, how often it is used and when it expires.

Running without a subcommand starts the interactive session.`,
		SilenceUsage:       true,
		PersistentPreRunE:  setupDefaultServices,
		PersistentPostRunE: closeServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd)
		},
	}

	v, c, d := resolveBuildVersion(nil)
	cmd.Version = compositeVersion(v, c, d)

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Interface language ("en", "de")`)
	cmd.PersistentFlags().String("storage.type", "json", `Storage backend ("json", "sqlite", "postgres", "mysql")`)
	cmd.PersistentFlags().String("storage.path", ".", "Directory holding users.json and licenses.json")
	cmd.PersistentFlags().String("storage.dsn", "./softwhere.db", "Connection string for SQL storage backends")

	cmd.AddCommand(
		newExportCmd(),
		newListCmd(),
		newSweepCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newMigrateCmd(),
		newVersionCmd(),
	)
	return cmd
}

func runSession(cmd *cobra.Command) error {
	con := console.New(cmd.InOrStdin(), cmd.OutOrStdout(), console.WithTUI(appConfig.UI.TUI))
	creds := credentials.NewService(appStore, credentials.NewBcryptHasher(appConfig.Security.BcryptCost))
	repo := licenses.New(appStore, appStore)
	ctl := session.New(con, creds, repo, session.Options{ExportPath: appConfig.Export.Path})
	return ctl.Run(cmd.Context())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		// Printing the version needs neither config nor storage.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

func compositeVersion(v, c, d string) string {
	out := v
	if c != "" && c != "dev" {
		out = out + " (" + c + ")"
	}
	if d != "" {
		out = out + " built: " + d
	}
	return out
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, found := debug.ReadBuildInfo(); found {
			info = local
		}
	}

	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// Some build paths only record our version as a dependency.
		if resolvedVersion == "dev" || resolvedVersion == "(devel)" {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}
