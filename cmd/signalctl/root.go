package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arthur-theuer/signaleditor/internal/config"
	"github.com/arthur-theuer/signaleditor/internal/report"
	"github.com/arthur-theuer/signaleditor/internal/resolver"
	"github.com/arthur-theuer/signaleditor/internal/routestore"
	"github.com/arthur-theuer/signaleditor/internal/stations"
)

// env is what every command works against: a route file directory and
// a resolver over it.
type env struct {
	store   *routestore.DirStore
	res     *resolver.Resolver
	builder report.Builder
}

type rootOptions struct {
	dir      string
	stations string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "signalctl",
		Short: "Inspect and maintain signal route files",
		Long: `signalctl works on a directory of route files. It prints
signal reports, stitches imported segments, and shows what the editor
would classify or predict for a row.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "d", cfg.StoreDir, "Route file directory")
	rootCmd.PersistentFlags().StringVar(&opts.stations, "stations", cfg.StationsFile, "Station table (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log resolver activity")

	rootCmd.AddCommand(
		newReportCmd(opts),
		newStitchCmd(opts),
		newClassifyCmd(),
		newPredictCmd(opts),
	)
	return rootCmd
}

func (o *rootOptions) open(cmd *cobra.Command) (*env, error) {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	store, err := routestore.NewDirStore(o.dir)
	if err != nil {
		return nil, err
	}
	res, err := resolver.New(store, resolver.Options{Logger: log})
	if err != nil {
		return nil, err
	}
	lookup, err := stations.Load(o.stations)
	if err != nil {
		return nil, err
	}
	return &env{store: store, res: res, builder: report.Builder{Stations: lookup}}, nil
}
