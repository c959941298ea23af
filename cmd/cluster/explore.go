package main

import (
	"github.com/drakos74/free-cluster/internal/eda"
	"github.com/spf13/cobra"
)

func outliersCmd(a *app) *cobra.Command {
	var whisker float64
	cmd := &cobra.Command{
		Use:   "outliers",
		Short: "Report the values outside the Tukey fences of each column.",
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, columns, _, err := a.dataset(cmd.Context())
			if err != nil {
				return err
			}
			r := a.renderer(cmd)
			for _, c := range columns {
				report, err := eda.InspectOutliers(frame, c, whisker)
				if err != nil {
					return err
				}
				if err := r.Outliers(report); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&whisker, "whisker", eda.DefaultWhisker, "fence distance in inter-quartile ranges")
	return cmd
}

func pairsCmd(a *app) *cobra.Command {
	var hue string
	var corner bool
	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "Show the pairwise relationships of the columns.",
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, columns, _, err := a.dataset(cmd.Context())
			if err != nil {
				return err
			}
			grid, err := eda.Pairs(frame, columns, hue, corner)
			if err != nil {
				return err
			}
			return a.renderer(cmd).Pairs(grid)
		},
	}
	cmd.Flags().StringVar(&hue, "hue", "", "categorical column to group the points by")
	cmd.Flags().BoolVar(&corner, "corner", true, "only the lower triangle of the grid")
	return cmd
}
