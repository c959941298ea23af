package main

import (
	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/metrics"
	"github.com/drakos74/free-cluster/internal/server"
	"github.com/spf13/cobra"
)

func demoCmd(a *app) *cobra.Command {
	var n int
	var std float64
	var minK, maxK int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Sweep a synthetic data set of three gaussian blobs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			centers := [][]float64{{-10, -10}, {0, 10}, {10, -10}}
			x, _ := ml.Blobs(centers, n, std, uint64(a.seed))
			result, err := ml.NewEvaluator(a.cfg).Evaluate(cmd.Context(), x, ml.Range{Min: minK, Max: maxK}, a.seed)
			if err != nil {
				return err
			}
			return a.renderer(cmd).Sweep(result)
		},
	}
	cmd.Flags().IntVar(&n, "n", 300, "number of samples")
	cmd.Flags().Float64Var(&std, "std", 1, "standard deviation of the blobs")
	cmd.Flags().IntVar(&minK, "min", ml.MinClusters, "smallest cluster count")
	cmd.Flags().IntVar(&maxK, "max", ml.DefaultRange.Max, "cluster count upper bound, exclusive")
	return cmd
}

func serveCmd(a *app) *cobra.Command {
	var port int
	var maxBody int64
	var store string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sweeps over http.",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := archive(store)
			srv := server.NewServer("cluster", port).
				MaxBody(maxBody).
				Add(server.Live()).
				Add(server.Sweep(ml.NewEvaluator(a.cfg), reports, a.debug)).
				Add(server.Report(reports)).
				Mount("/metrics", metrics.Handler())
			if a.debug {
				srv.Debug()
			}
			return srv.Run()
		},
	}
	cmd.Flags().IntVar(&port, "port", 6090, "http port")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBody, "largest accepted request payload in bytes")
	cmd.Flags().StringVar(&store, "store", "", "directory to archive the sweep reports in")
	return cmd
}
