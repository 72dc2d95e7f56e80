package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/INLOpen/vectree"
	"github.com/INLOpen/vectree/internal/logging"
	"github.com/INLOpen/vectree/internal/render"
)

type benchConfig struct {
	name string
	opts []vectree.Option
}

// configsFor returns the growth-policy matrix for a run of n inserts.
func configsFor(n int) []benchConfig {
	return []benchConfig{
		{"default", nil},
		{"preallocated", []vectree.Option{vectree.WithCapacity(n)}},
		{"factor-1.5-1K", []vectree.Option{vectree.WithCapacity(1 << 10), vectree.WithGrowthFactor(1.5)}},
		{"factor-4-1K", []vectree.Option{vectree.WithCapacity(1 << 10), vectree.WithGrowthFactor(4)}},
		{"slots-64K-1K", []vectree.Option{vectree.WithCapacity(1 << 10), vectree.WithGrowthSlots(64 << 10)}},
	}
}

type result struct {
	name      string
	dur       time.Duration
	allocDiff int64
	stats     vectree.Stats
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		items    int
		seed     uint64
		draw     bool
		logLevel string
	)
	cmd := &cobra.Command{
		Use:          "bench",
		Short:        "Insert microbenchmark over the pool growth policies",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if items <= 0 {
				return fmt.Errorf("--items must be positive, got %d", items)
			}
			log, err := logging.New(logging.Config{Level: logLevel}, "bench")
			if err != nil {
				return err
			}
			parents := parentsFor(items, seed)

			fmt.Fprintf(cmd.OutOrStdout(), "Running tree insert microbench (N=%d)\n\n", items)
			var results []result
			for _, cfg := range configsFor(items) {
				log.Debug().Str("config", cfg.name).Msg("running")
				results = append(results, measure(cfg.name, parents, cfg.opts))
			}
			fmt.Fprintln(cmd.OutOrStdout(), resultTable(results, items))

			if draw {
				tree := buildTree(parentsFor(12, seed), nil)
				root, _ := tree.Root()
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), render.Tree(tree, root, render.Options{
					Color:       render.ColorFor(os.Stdout),
					ShowIndex:   true,
					MaxChildren: 4,
				}))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&items, "items", 200_000, "nodes to insert per configuration")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed for the tree shape")
	cmd.Flags().BoolVar(&draw, "render", false, "draw a small sample tree after the run")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	return cmd
}

// parentsFor returns, for each node k > 0, the earlier node it is inserted under.
func parentsFor(n int, seed uint64) []int {
	r := rand.New(rand.NewPCG(seed, seed))
	parents := make([]int, n)
	for k := 1; k < n; k++ {
		parents[k] = r.IntN(k)
	}
	return parents
}

func buildTree(parents []int, opts []vectree.Option) *vectree.Tree[int] {
	tree := vectree.New[int](opts...)
	nodes := make([]vectree.Index, len(parents))
	if len(parents) == 0 {
		return tree
	}
	nodes[0] = tree.InsertRoot(0)
	for k := 1; k < len(parents); k++ {
		nodes[k], _ = tree.Insert(k, nodes[parents[k]])
	}
	return tree
}

func measure(name string, parents []int, opts []vectree.Option) result {
	runtime.GC()
	time.Sleep(50 * time.Millisecond)

	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()

	tree := buildTree(parents, opts)

	dur := time.Since(start)
	runtime.ReadMemStats(&msAfter)
	return result{
		name:      name,
		dur:       dur,
		allocDiff: int64(msAfter.TotalAlloc) - int64(msBefore.TotalAlloc),
		stats:     tree.Stats(),
	}
}

func resultTable(results []result, n int) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("config", "duration", "ns/op", "alloc bytes", "len", "capacity", "grows").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, r := range results {
		t.Row(
			r.name,
			r.dur.Round(time.Microsecond).String(),
			strconv.FormatFloat(float64(r.dur.Nanoseconds())/float64(n), 'f', 1, 64),
			strconv.FormatInt(r.allocDiff, 10),
			strconv.Itoa(r.stats.Len),
			strconv.Itoa(r.stats.Capacity),
			strconv.Itoa(r.stats.Grows),
		)
	}
	return t.String()
}
