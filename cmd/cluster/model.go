package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/drakos74/free-cluster/internal/eda"
	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/report"
	"github.com/drakos74/free-cluster/internal/storage"
	"github.com/drakos74/free-cluster/internal/storage/file/json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func sweepCmd(a *app) *cobra.Command {
	var minK, maxK int
	var store string
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare k-means fits over a range of cluster counts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, columns, x, err := a.dataset(cmd.Context())
			if err != nil {
				return err
			}
			evaluator := ml.NewEvaluator(a.cfg)
			result, err := evaluator.Evaluate(cmd.Context(), x, ml.Range{Min: minK, Max: maxK}, a.seed)
			if err != nil {
				return err
			}
			s := report.NewSweep(datasetName(a.file), columns, evaluator.Config(), *result)
			if err := archive(store).Save(s); err != nil {
				return err
			}
			if store != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "report %s\n", s.ID)
			}
			return a.renderer(cmd).Sweep(result)
		},
	}
	cmd.Flags().IntVar(&minK, "min", ml.MinClusters, "smallest cluster count")
	cmd.Flags().IntVar(&maxK, "max", ml.DefaultRange.Max, "cluster count upper bound, exclusive")
	cmd.Flags().StringVar(&store, "store", "", "directory to archive the sweep report in")
	return cmd
}

func reportCmd(a *app) *cobra.Command {
	var store, dataset, id string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show an archived sweep report.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataset == "" && a.file != "" {
				dataset = datasetName(a.file)
			}
			s, err := archive(store).Load(dataset, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report %s on '%s' %v at %s\n", s.ID, s.Dataset, s.Columns, s.CreatedAt.Format(time.RFC3339))
			return a.renderer(cmd).Sweep(&s.Result)
		},
	}
	cmd.Flags().StringVar(&store, "store", "", "directory the sweep reports are archived in")
	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset of the report, defaults to the name of --file")
	cmd.Flags().StringVar(&id, "id", "", "report id")
	_ = cmd.MarkFlagRequired("store")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func fitCmd(a *app) *cobra.Command {
	var k int
	var export string
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit k-means with a fixed cluster count and show the clusters.",
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, columns, x, err := a.dataset(cmd.Context())
			if err != nil {
				return err
			}
			model, err := ml.NewKMeans(k, a.cfg).Fit(x, a.seed)
			if err != nil {
				return err
			}
			log.Info().
				Int("k", model.K).
				Float64("inertia", model.Inertia).
				Ints("sizes", model.Sizes).
				Msg("fitted model")
			if export != "" {
				if err := ml.Export(model, export); err != nil {
					return err
				}
			}
			if len(columns) < 2 {
				return nil
			}
			plot, err := eda.Scatter(frame, columns[:2], model, true, true)
			if err != nil {
				return err
			}
			return a.renderer(cmd).Clusters(plot, model.Profile(x))
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 3, "number of clusters")
	cmd.Flags().StringVar(&export, "export", "", "file to export the fitted centroids to")
	return cmd
}

func assignCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign the rows to the clusters of an exported model.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, x, err := a.dataset(cmd.Context())
			if err != nil {
				return err
			}
			assigner, err := ml.Restore(path)
			if err != nil {
				return err
			}
			labels, err := assigner.AssignAll(x)
			if err != nil {
				return err
			}
			log.Info().
				Int("k", assigner.K()).
				Int("rows", len(labels)).
				Msg("assigned rows")
			for i, l := range labels {
				fmt.Fprintf(cmd.OutOrStdout(), "%d,%d\n", i, l)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "model", "", "exported model file")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func profileCmd(a *app) *cobra.Command {
	var k, trees int
	var categories []string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Break down the clusters by categorical columns.",
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, columns, x, err := a.dataset(cmd.Context())
			if err != nil {
				return err
			}
			model, err := ml.NewKMeans(k, a.cfg).Fit(x, a.seed)
			if err != nil {
				return err
			}
			r := a.renderer(cmd)
			if trees > 0 {
				importance, err := ml.Importance(x, model.Labels, trees)
				if err != nil {
					return err
				}
				if err := r.Importance(columns, importance); err != nil {
					return err
				}
			}
			byCluster, err := eda.PercentByCluster(frame, categories, model.Labels)
			if err != nil {
				return err
			}
			byCategory, err := eda.PercentHueCluster(frame, categories, model.Labels)
			if err != nil {
				return err
			}
			if err := r.Percent(byCluster); err != nil {
				return err
			}
			return r.Percent(byCategory)
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 3, "number of clusters")
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "categorical columns to profile")
	cmd.Flags().IntVar(&trees, "trees", 0, "rank the columns with a random forest of this size")
	_ = cmd.MarkFlagRequired("categories")
	return cmd
}

// archive stores the sweep reports under dir, or nowhere if dir is empty.
func archive(dir string) *report.Archive {
	if dir == "" {
		return report.NewArchive(storage.VoidShard())
	}
	return report.NewArchive(json.BlobShard(dir, storage.SweepTable))
}

func datasetName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}
