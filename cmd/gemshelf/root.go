// Root command: resolves directories, loads configuration, and opens the
// store for every subcommand that needs one.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/webfeathers/gemshelf/internal/paths"
	"github.com/webfeathers/gemshelf/internal/sqlite"
	"github.com/webfeathers/gemshelf/internal/storage"
	"github.com/webfeathers/gemshelf/pkg/types"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagVerbose   bool
)

// Globals initialized by PersistentPreRunE for subcommands.
var (
	store  *sqlite.Store
	ingest types.ImageIngestor
	appLog zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gemshelf",
	Short: "GemShelf catalogs gem and mineral specimens",
	Long: `GemShelf is a catalog for physical specimens with a user-definable
attribute schema, faceted filtering, search, and per-specimen photo
collections.`,
	SilenceUsage:      true,
	PersistentPreRunE: openStore,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (database and uploads)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(specimenCmd)
	rootCmd.AddCommand(fieldCmd)
	rootCmd.AddCommand(photoCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(statsCmd)
}

// openStore loads config and opens the catalog store and image storage.
func openStore(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	level := zerolog.WarnLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	appLog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	conf := types.Config{
		DataDir:     dataDir,
		PerPage:     cfg.GetInt(cfgKeyPerPage),
		MaxFileSize: cfg.GetInt64(cfgKeyMaxFileSize),
	}.WithDefaults()

	disk, err := storage.NewDisk(conf, appLog)
	if err != nil {
		return fmt.Errorf("open image storage: %w", err)
	}
	ingest = disk

	store, err = sqlite.Open(conf, disk, appLog)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	return nil
}

// closeStore releases store resources. Idempotent.
func closeStore() error {
	if store != nil {
		return store.Close()
	}
	return nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the catalog database and upload directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The store is already opened by PersistentPreRunE.
		fmt.Println("GemShelf initialized at", store.Config().DataDir)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		total, err := store.Specimens().Count(false)
		if err != nil {
			return err
		}
		published, err := store.Specimens().Count(true)
		if err != nil {
			return err
		}
		fields, err := store.Fields().ListActive()
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(map[string]any{
				"specimens": total,
				"published": published,
				"fields":    len(fields),
			})
		}
		fmt.Printf("Specimens: %d (%d published)\n", total, published)
		fmt.Printf("Active fields: %d\n", len(fields))
		return nil
	},
}
