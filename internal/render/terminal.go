package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/drakos74/free-cluster/internal/eda"
	"github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
)

const defaultHeight = 10

// Terminal renders charts as text.
type Terminal struct {
	w      io.Writer
	height int
}

// NewTerminal creates a text renderer writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		w:      w,
		height: defaultHeight,
	}
}

// Height sets the height of the line charts.
func (t *Terminal) Height(h int) *Terminal {
	t.height = h
	return t
}

// Sweep draws the elbow and silhouette curves next to their values.
func (t *Terminal) Sweep(result *ml.SweepResult) error {
	ks, inertia := result.Elbow()
	if err := t.line(inertia, "Elbow Method (inertia by k)"); err != nil {
		return err
	}
	_, scores := result.Silhouettes()
	if err := t.line(scores, "Silhouette Method (mean silhouette by k)"); err != nil {
		return err
	}

	table := tablewriter.NewWriter(t.w)
	table.SetHeader([]string{"k", "inertia", "silhouette"})
	for i, e := range result.Entries {
		s := "-"
		if e.Silhouette != nil {
			s = strconv.FormatFloat(*e.Silhouette, 'f', 4, 64)
		}
		table.Append([]string{strconv.Itoa(ks[i]), math.Format(e.Inertia), s})
	}
	footer := make([]string, 3)
	if best, ok := result.Best(); ok {
		footer[2] = fmt.Sprintf("best k = %d", best.K)
	}
	if knee, ok := result.Knee(); ok {
		footer[1] = fmt.Sprintf("knee k = %d", knee.K)
	}
	table.SetFooter(footer)
	table.Render()
	return nil
}

// Outliers lists the fences and the rows outside of them.
func (t *Terminal) Outliers(report eda.OutlierReport) error {
	summary := tablewriter.NewWriter(t.w)
	summary.SetHeader([]string{"column", "q1", "q3", "iqr", "lower", "upper", "outliers"})
	summary.Append([]string{
		report.Column,
		math.Format(report.Q1),
		math.Format(report.Q3),
		math.Format(report.IQR),
		math.Format(report.Lower),
		math.Format(report.Upper),
		strconv.Itoa(len(report.Rows)),
	})
	summary.Render()

	if len(report.Rows) == 0 {
		return nil
	}
	rows := tablewriter.NewWriter(t.w)
	rows.SetHeader([]string{"row", report.Column})
	for i, r := range report.Rows {
		rows.Append([]string{strconv.Itoa(r), math.Format(report.Values[i])})
	}
	rows.Render()
	return nil
}

// Pairs renders the correlation matrix of the grid.
func (t *Terminal) Pairs(grid eda.PairGrid) error {
	table := tablewriter.NewWriter(t.w)
	table.SetHeader(append([]string{""}, grid.Columns...))
	for i, row := range grid.Panels {
		cells := make([]string, len(row)+1)
		cells[0] = grid.Columns[i]
		for j, p := range row {
			if p == nil {
				continue
			}
			cells[j+1] = math.Format(p.Correlation)
		}
		table.Append(cells)
	}
	if grid.Hue != "" {
		table.SetCaption(true, fmt.Sprintf("pearson correlation, hue '%s'", grid.Hue))
	} else {
		table.SetCaption(true, "pearson correlation")
	}
	table.Render()
	return nil
}

// Clusters lists the centroids with the size of each cluster.
func (t *Terminal) Clusters(plot eda.ClusterPlot, profile []ml.Cluster) error {
	clusters := make(map[int]ml.Cluster)
	for _, c := range profile {
		clusters[c.Index] = c
	}
	if len(profile) == 0 {
		for _, p := range plot.Points {
			c := clusters[p.Cluster]
			c.Size++
			clusters[p.Cluster] = c
		}
	}
	table := tablewriter.NewWriter(t.w)
	header := []string{"cluster", plot.X, plot.Y, "size"}
	if len(profile) > 0 {
		header = append(header, plot.X+" range", plot.Y+" range")
	}
	table.SetHeader(header)
	for i, c := range plot.Centroids {
		row := []string{
			strconv.Itoa(i),
			math.Format(c[0]),
			math.Format(c[1]),
			strconv.Itoa(clusters[i].Size),
		}
		if len(profile) > 0 {
			row = append(row, span(clusters[i], 0), span(clusters[i], 1))
		}
		table.Append(row)
	}
	table.SetCaption(true, "Clusters")
	table.Render()
	return nil
}

// span formats the range of the cluster members along dimension j.
func span(c ml.Cluster, j int) string {
	if c.Size == 0 || j >= len(c.Min) || j >= len(c.Max) {
		return "-"
	}
	return fmt.Sprintf("%s .. %s", math.Format(c.Min[j]), math.Format(c.Max[j]))
}

// Percent renders every stacked bar chart as a table of shares.
func (t *Terminal) Percent(tables []eda.PercentTable) error {
	for _, pt := range tables {
		table := tablewriter.NewWriter(t.w)
		table.SetHeader(append([]string{pt.Column}, pt.Segments...))
		for i, g := range pt.Groups {
			cells := make([]string, len(pt.Segments)+1)
			cells[0] = g
			for j, s := range pt.Share[i] {
				cells[j+1] = math.Percent(s)
			}
			table.Append(cells)
		}
		table.Render()
	}
	return nil
}

// Importance ranks the columns by how much they separate the clusters.
func (t *Terminal) Importance(columns []string, importance []float64) error {
	if len(columns) != len(importance) {
		return fmt.Errorf("got %d importance scores for %d columns", len(importance), len(columns))
	}
	order := make([]int, len(columns))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return importance[order[i]] > importance[order[j]]
	})
	table := tablewriter.NewWriter(t.w)
	table.SetHeader([]string{"column", "importance"})
	for _, i := range order {
		table.Append([]string{columns[i], math.Format(importance[i])})
	}
	table.Render()
	return nil
}

func (t *Terminal) line(series []float64, caption string) error {
	if len(series) < 2 {
		_, err := fmt.Fprintf(t.w, "%s: not enough points to plot\n", caption)
		return err
	}
	graph := asciigraph.Plot(series,
		asciigraph.Height(t.height),
		asciigraph.Caption(caption),
	)
	_, err := fmt.Fprintln(t.w, graph)
	return err
}
