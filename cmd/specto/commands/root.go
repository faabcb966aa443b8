// Package commands wires the specto CLI: UX audits, visual baselines,
// table header verification, application mapping, and allocation
// override probes against a collection deck dashboard.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/features"
	"github.com/ternarybob/specto/internal/interfaces"
	"github.com/ternarybob/specto/internal/models"
	storage "github.com/ternarybob/specto/internal/storage/badger"
)

var (
	configPath string
	targetURL  string
	headless   bool

	cfg *common.Config
)

func Execute() error {
	root := &cobra.Command{
		Use:           "specto",
		Short:         "UX audit and diagnostic probe toolkit for the collection deck dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				// default config file is optional
				if _, statErr := os.Stat("specto.toml"); statErr == nil {
					path = "specto.toml"
				}
			}

			var err error
			cfg, err = common.LoadFromFile(path)
			if err != nil {
				return err
			}

			var headlessOverride *bool
			if cmd.Flags().Changed("headless") {
				headlessOverride = &headless
			}
			common.ApplyFlagOverrides(cfg, targetURL, headlessOverride)

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			common.InitLogger(cfg)
			if cmd.Name() != "version" {
				common.PrintBanner(common.GetFullVersion())
			}
			common.InstallCrashHandler(".")
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default specto.toml)")
	root.PersistentFlags().StringVarP(&targetURL, "url", "u", "", "dashboard base URL override")
	root.PersistentFlags().BoolVar(&headless, "headless", true, "run the browser headless")

	root.AddCommand(
		auditCmd(),
		baselineCmd(),
		headersCmd(),
		pagemapCmd(),
		allocationCmd(),
		flagsCmd(),
		runsCmd(),
		reportCmd(),
		watchCmd(),
		versionCmd(),
	)
	return root.Execute()
}

// appContext bundles the storage-backed services commands share
type appContext struct {
	db    *storage.BadgerDB
	runs  interfaces.RunStorage
	kv    interfaces.KeyValueStorage
	flags *features.Service
}

func openApp() (*appContext, error) {
	db, err := storage.NewBadgerDB(cfg.Storage.Badger)
	if err != nil {
		return nil, err
	}
	kv := storage.NewKeyValueStorage(db)
	return &appContext{
		db:    db,
		runs:  storage.NewRunStorage(db),
		kv:    kv,
		flags: features.NewService(cfg.Flags.Defaults, kv),
	}, nil
}

func (a *appContext) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// pageSpecFor resolves a route argument against the loaded page specs.
// The argument may be a spec name or a literal route; unknown routes get
// a synthesized spec with no expectations.
func pageSpecFor(arg string) (models.PageSpec, error) {
	specs, err := models.LoadPageSpecs(cfg.PageSpecs.Dir)
	if err != nil {
		return models.PageSpec{}, err
	}

	if spec, ok := specs[arg]; ok {
		return *spec, nil
	}
	for _, spec := range specs {
		if spec.Route == arg {
			return *spec, nil
		}
	}

	if arg == "" {
		arg = "/"
	}
	spec := models.PageSpec{Name: arg, Route: arg}
	if err := spec.Validate(); err != nil {
		return models.PageSpec{}, err
	}
	return spec, nil
}

func routeArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "/"
}
