package eda

import (
	"fmt"
	"sort"
	"strconv"
)

// PercentTable is a stacked percentage bar chart:
// one bar per group, each split into segments that add up to 1.
type PercentTable struct {
	Column   string      `json:"column"`
	Groups   []string    `json:"groups"`
	Segments []string    `json:"segments"`
	Counts   [][]int     `json:"counts"`
	Share    [][]float64 `json:"share"`
}

// PercentByCluster breaks down every cluster by the categories of each column.
func PercentByCluster(f *Frame, columns []string, labels []int) ([]PercentTable, error) {
	return percent(f, columns, labels, false)
}

// PercentHueCluster breaks down every category of each column by cluster.
func PercentHueCluster(f *Frame, columns []string, labels []int) ([]PercentTable, error) {
	return percent(f, columns, labels, true)
}

func percent(f *Frame, columns []string, labels []int, byCategory bool) ([]PercentTable, error) {
	if len(labels) != f.Rows() {
		return nil, fmt.Errorf("got %d cluster labels for %d rows", len(labels), f.Rows())
	}
	clusters := make([]string, len(labels))
	for i, l := range labels {
		clusters[i] = strconv.Itoa(l)
	}
	tables := make([]PercentTable, len(columns))
	for i, column := range columns {
		categories, err := f.Labels(column)
		if err != nil {
			return nil, err
		}
		if byCategory {
			tables[i] = crosstab(column, categories, clusters)
		} else {
			tables[i] = crosstab(column, clusters, categories)
		}
	}
	return tables, nil
}

func crosstab(column string, groups, segments []string) PercentTable {
	g := distinct(groups)
	s := distinct(segments)
	gi := index(g)
	si := index(s)

	counts := make([][]int, len(g))
	for i := range counts {
		counts[i] = make([]int, len(s))
	}
	for i := range groups {
		counts[gi[groups[i]]][si[segments[i]]]++
	}

	share := make([][]float64, len(g))
	for i, row := range counts {
		total := 0
		for _, c := range row {
			total += c
		}
		share[i] = make([]float64, len(row))
		for j, c := range row {
			share[i][j] = float64(c) / float64(total)
		}
	}
	return PercentTable{
		Column:   column,
		Groups:   g,
		Segments: s,
		Counts:   counts,
		Share:    share,
	}
}

// distinct returns the sorted unique values, numerically if they are all numbers.
func distinct(values []string) []string {
	seen := make(map[string]struct{})
	unique := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			unique = append(unique, v)
		}
	}
	numbers := make(map[string]float64, len(unique))
	for _, v := range unique {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			sort.Strings(unique)
			return unique
		}
		numbers[v] = n
	}
	sort.Slice(unique, func(i, j int) bool {
		return numbers[unique[i]] < numbers[unique[j]]
	})
	return unique
}

func index(values []string) map[string]int {
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v] = i
	}
	return idx
}
