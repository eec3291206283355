package studio

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"spaceship-designer/internal/commands"
	"spaceship-designer/internal/ship"
)

// RegisterCommands adds the session's commands to reg. Command output goes to out.
func RegisterCommands(reg *commands.Registry, s *Session, out io.Writer) {
	gen := flag.NewFlagSet("generate", flag.ContinueOnError)
	class := gen.String("class", ship.ClassFighter, "fighter, cruiser or capital")
	random := gen.Bool("random", true, "jitter component scales")
	reg.Register("generate", "build a ship of a class", gen, func() error {
		fmt.Fprintln(out, Describe(s.Generate(*class, *random)))
		return nil
	})

	custom := flag.NewFlagSet("custom", flag.ContinueOnError)
	n := custom.Int("n", 4, "component count, 3 to 6")
	reg.Register("custom", "build a random ship", custom, func() error {
		fmt.Fprintln(out, Describe(s.Custom(*n)))
		return nil
	})

	batch := flag.NewFlagSet("batch", flag.ContinueOnError)
	batchRandom := batch.Bool("random", true, "jitter component scales")
	reg.Register("batch", "build one ship per class argument in parallel", batch, func() error {
		classes := batch.Args()
		if len(classes) == 0 {
			classes = ship.Classes()
		}
		results, err := s.Batch(context.Background(), classes, *batchRandom)
		for _, res := range results {
			if res != nil {
				fmt.Fprintln(out, Describe(res))
			}
		}
		return err
	})

	exp := flag.NewFlagSet("export", flag.ContinueOnError)
	format := exp.String("format", "", "stl, obj, glb or ply (default from path or prefs)")
	reg.Register("export", "write the current ship to a file", exp, func() error {
		written, err := s.Export(exp.Arg(0), *format)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "exported %s\n", written)
		return nil
	})

	bundle := flag.NewFlagSet("bundle", flag.ContinueOnError)
	reg.Register("bundle", "zip the current ship in every format with its template", bundle, func() error {
		written, err := s.Bundle(bundle.Arg(0))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "bundled %s\n", written)
		return nil
	})

	save := flag.NewFlagSet("save", flag.ContinueOnError)
	reg.Register("save", "save the current ship's template as YAML", save, func() error {
		if save.NArg() != 1 {
			return errors.New("usage: save <path.yaml>")
		}
		if err := s.SaveTemplate(save.Arg(0)); err != nil {
			return err
		}
		fmt.Fprintf(out, "saved %s\n", save.Arg(0))
		return nil
	})

	load := flag.NewFlagSet("load", flag.ContinueOnError)
	reg.Register("load", "build a ship from a YAML template", load, func() error {
		if load.NArg() != 1 {
			return errors.New("usage: load <path.yaml>")
		}
		res, err := s.LoadTemplate(load.Arg(0))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, Describe(res))
		return nil
	})

	reg.Register("stats", "show generation totals", nil, func() error {
		st := s.Stats()
		fmt.Fprintf(out, "ships: %d, total: %s, average: %s\n", st.ShipsGenerated, st.TotalTime, st.AverageTime())
		return nil
	})

	cache := flag.NewFlagSet("cache", flag.ContinueOnError)
	clearCache := cache.Bool("clear", false, "drop all cached primitives")
	reg.Register("cache", "show or clear the primitive cache", cache, func() error {
		if *clearCache {
			s.ClearCache()
		}
		cs := s.CacheStats()
		fmt.Fprintf(out, "entries: %d/%d, hits: %d, misses: %d, evictions: %d, hit ratio: %.2f\n",
			cs.Size, s.gen.Factory().Capacity(), cs.Hits, cs.Misses, cs.Evictions, cs.HitRatio())
		return nil
	})

	reg.Register("metrics", "dump metrics in Prometheus text format", nil, func() error {
		return s.WriteMetrics(out)
	})

	reg.Register("help", "list commands", nil, func() error {
		reg.Usage(out)
		return nil
	})
}
