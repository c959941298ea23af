package main

import (
	"context"
	"fmt"
	"os"

	"github.com/drakos74/free-cluster/infra/config"
	"github.com/drakos74/free-cluster/internal/eda"
	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/render"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const sweepConfig = "sweep"

// app holds the state shared by all commands.
type app struct {
	debug     bool
	configDir string
	file      string
	columns   []string
	seed      int64
	workers   int
	restarts  int
	cfg       ml.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "cluster",
		Short:         "Exploratory analysis and k-means model selection for tabular data.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")
	flags.StringVar(&a.configDir, "config", config.Path, "directory of the json config files")
	flags.StringVarP(&a.file, "file", "f", "", "csv file with a header row")
	flags.StringSliceVarP(&a.columns, "columns", "c", nil, "numeric columns to analyse")
	flags.Int64Var(&a.seed, "seed", 42, "random seed of the k-means initialisation")
	flags.IntVar(&a.workers, "workers", 0, "number of parallel fits (overrides config)")
	flags.IntVar(&a.restarts, "restarts", 0, "k-means initialisations per fit (overrides config)")

	root.AddCommand(
		outliersCmd(a),
		pairsCmd(a),
		sweepCmd(a),
		reportCmd(a),
		fitCmd(a),
		assignCmd(a),
		profileCmd(a),
		demoCmd(a),
		serveCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if a.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	a.cfg = ml.DefaultConfig()
	if err := config.Load(a.configDir, sweepConfig, &a.cfg); err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		a.cfg.Workers = a.workers
	}
	if flags.Changed("restarts") {
		a.cfg.Restarts = a.restarts
	}
	return nil
}

func (a *app) renderer(cmd *cobra.Command) render.Renderer {
	return render.NewTerminal(cmd.OutOrStdout())
}

// frame loads the csv file given with --file.
func (a *app) frame(ctx context.Context) (*eda.Frame, error) {
	if a.file == "" {
		return nil, fmt.Errorf("no input file, use --file")
	}
	f, err := os.Open(a.file)
	if err != nil {
		return nil, fmt.Errorf("could not open '%s': %w", a.file, err)
	}
	defer f.Close()
	return eda.Load(ctx, f)
}

// dataset loads the csv file and selects the --columns, or every numeric column if none is given.
func (a *app) dataset(ctx context.Context) (*eda.Frame, []string, ml.Dataset, error) {
	frame, err := a.frame(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	columns := a.columns
	if len(columns) == 0 {
		columns = numeric(frame)
	}
	x, err := frame.Dataset(columns...)
	if err != nil {
		return nil, nil, nil, err
	}
	return frame, columns, x, nil
}

func numeric(frame *eda.Frame) []string {
	columns := make([]string, 0)
	for _, c := range frame.Columns() {
		if _, err := frame.Floats(c); err == nil {
			columns = append(columns, c)
		}
	}
	return columns
}
