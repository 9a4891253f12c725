package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/trackparty/pkg/reactivemetrics"
	"github.com/delaneyj/trackparty/reactivity"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/urfave/cli/v3"
)

const (
	itersKey      = "iters"
	maxWidthKey   = "max-width"
	maxDepthKey   = "max-depth"
	metricsKey    = "metrics"
	cpuProfileKey = "cpuprofile"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure write propagation through width x depth chains of computeds",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Writes per configuration",
				Value: 100,
			},
			&cli.UintFlag{
				Name:  maxWidthKey,
				Usage: "Largest number of chains hanging off the source",
				Value: 1_000,
			},
			&cli.UintFlag{
				Name:  maxDepthKey,
				Usage: "Largest chain length",
				Value: 100,
			},
			&cli.BoolFlag{
				Name:  metricsKey,
				Usage: "Dump engine metrics after the run",
			},
			&cli.StringFlag{
				Name:  cpuProfileKey,
				Usage: "Write a CPU profile to this file",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func sizes(limit uint64) []int {
	var out []int
	for n := 1; uint64(n) <= limit; n *= 10 {
		out = append(out, n)
	}
	return out
}

func run(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String(cpuProfileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("can't create cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	var (
		opts     []reactivity.Option
		registry *prometheus.Registry
	)
	if cmd.Bool(metricsKey) {
		registry = prometheus.NewRegistry()
		opts = append(opts, reactivity.WithObserver(reactivemetrics.New(
			reactivemetrics.WithRegistry(registry),
			reactivemetrics.WithNamespace("benchmark"),
		)))
	}

	log.Printf("warming up")
	if err := benchmarkPropagation(opts, []int{10}, []int{10}, 10, false); err != nil {
		return err
	}

	iters := int(cmd.Uint(itersKey))
	ww := sizes(cmd.Uint(maxWidthKey))
	hh := sizes(cmd.Uint(maxDepthKey))
	if err := benchmarkPropagation(opts, ww, hh, iters, true); err != nil {
		return err
	}

	if registry != nil {
		return dumpMetrics(registry)
	}
	return nil
}

func addOne(prev *reactivity.Ref[int]) func() (int, error) {
	return func() (int, error) {
		return prev.Value() + 1, nil
	}
}

func benchmarkPropagation(opts []reactivity.Option, ww, hh []int, iters int, shouldRender bool) error {
	tbl := table.NewWriter()
	tbl.SetTitle("Propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "sources", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rs := reactivity.CreateReactiveSystem(opts...)
			src := reactivity.NewRef(rs, 1)
			for i := 0; i < w; i++ {
				last := src
				for j := 0; j < h; j++ {
					next, err := reactivity.Computed(rs, addOne(last))
					if err != nil {
						return err
					}
					last = next
				}

				if _, err := reactivity.Effect(rs, func() error {
					last.Value()
					return nil
				}); err != nil {
					return err
				}
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				if err := src.SetValue(src.Peek() + 1); err != nil {
					return fmt.Errorf("propagate %d * %d: %w", w, h, err)
				}
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					humanize.Comma(int64(rs.Sources())),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
	return nil
}

func dumpMetrics(g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("can't gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stdout, mf); err != nil {
			return err
		}
	}
	return nil
}
