package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/trackparty/reactivity"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var defaultScenarios []byte

const (
	scenariosKey = "scenarios"
	repeatsKey   = "repeats"
	registryKey  = "registry"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark_scenarios",
		Usage: "Run graph scenarios against the reactivity engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  scenariosKey,
				Usage: "YAML scenario file (default: built-in scenarios)",
			},
			&cli.UintFlag{
				Name:  repeatsKey,
				Usage: "Timed runs per scenario, the best one is reported",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  registryKey,
				Usage: "Print the subscription registry of each scenario",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadScenarios(path string) ([]scenario, error) {
	raw := defaultScenarios
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("can't read scenarios: %w", err)
		}
		raw = b
	}

	var scenarios []scenario
	if err := yaml.Unmarshal(raw, &scenarios); err != nil {
		return nil, fmt.Errorf("can't parse scenarios: %w", err)
	}
	for _, s := range scenarios {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	return scenarios, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Print("Starting scenario benchmark, please wait...")
	defer log.Print("Finished scenario benchmark")

	scenarios, err := loadScenarios(cmd.String(scenariosKey))
	if err != nil {
		return err
	}
	repeats := int(cmd.Uint(repeatsKey))
	if repeats < 1 {
		repeats = 1
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return fmt.Errorf("can't inspect own process: %w", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"test", "size", "sources", "read%", "static%",
		"nTimes", "time", "updateRate", "runs", "rss", "title",
	})

	checksum := xxhash.New()
	for _, s := range scenarios {
		log.Printf("Running '%s' scenario", s.Name)

		var best *result
		var g *graph
		for i := 0; i < repeats+1; i++ {
			g, err = s.build()
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			res, err := s.run(g)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			// first run warms up
			if i == 0 {
				continue
			}
			log.Printf("Running '%s' scenario, iteration %d/%d %d%%", s.Name, i, repeats, i*100/repeats)
			if best == nil || res.duration < best.duration {
				best = res
			}
		}
		fmt.Fprintf(checksum, "%s=%d;", s.Name, best.sum)

		rss := "n/a"
		if mem, err := proc.MemoryInfo(); err == nil {
			rss = humanize.Bytes(mem.RSS)
		}

		updateRate := float64(best.runs) / (float64(best.duration) / float64(time.Millisecond))
		table.Append([]string{
			s.Name,
			fmt.Sprintf("%dx%d", s.Width, s.Layers),
			fmt.Sprint(s.Sources),
			fmt.Sprint(s.ReadFraction),
			fmt.Sprint(s.StaticFraction),
			humanize.Comma(int64(s.Iterations)),
			fmt.Sprint(best.duration),
			humanize.Comma(int64(updateRate)),
			humanize.Comma(best.runs),
			rss,
			s.title(),
		})

		if cmd.Bool(registryKey) {
			printRegistry(g.rs)
		}
	}
	table.Render()
	log.Printf("Result checksum %016x", checksum.Sum64())
	return nil
}

func (s scenario) title() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%dx%d %d sources", s.Width, s.Layers, s.Sources))
	if s.StaticFraction < 1 {
		sb.WriteString(" dynamic")
	}
	if s.ReadFraction < 1 {
		sb.WriteString(fmt.Sprintf(" read %0.2f%%", 100*s.ReadFraction))
	}
	return sb.String()
}

func printRegistry(rs *reactivity.ReactiveSystem) {
	perSource := map[uint64]int{}
	var order []uint64
	total := 0
	for _, sub := range rs.Snapshot() {
		if _, ok := perSource[sub.Source]; !ok {
			order = append(order, sub.Source)
		}
		perSource[sub.Source] += len(sub.Computations)
		total += len(sub.Computations)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"source", "subscribers"})
	for _, id := range order {
		table.Append([]string{fmt.Sprint(id), fmt.Sprint(perSource[id])})
	}
	table.SetFooter([]string{"total", humanize.Comma(int64(total))})
	table.Render()
}
