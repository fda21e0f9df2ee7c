// Command avida runs a headless demo simulation, printing the grid and
// population statistics to the terminal every few updates.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/maccam912/avida-go/avida/control"
	"github.com/maccam912/avida-go/avida/mutate"
	"github.com/maccam912/avida-go/avida/task"
	"github.com/maccam912/avida-go/avida/tracelog"
)

func main() {
	var (
		width    = flag.Int("width", 60, "grid width")
		height   = flag.Int("height", 60, "grid height")
		seed     = flag.Uint64("seed", 1, "PRNG seed")
		ancestor = flag.String("ancestor", control.AncestorDefault, "ancestor genome")
		pCopy    = flag.Float64("pcopy", mutate.DefaultPCopy, "copy-time point mutation rate")
		pIns     = flag.Float64("pins", mutate.DefaultPIns, "division-time insertion rate")
		pDel     = flag.Float64("pdel", mutate.DefaultPDel, "division-time deletion rate")
		cAvg     = flag.Int("cavg", 30, "average cycles per organism per update")
		updates  = flag.Int("updates", 1000, "number of updates to run")
		every    = flag.Int("every", 100, "print the grid every N updates")
		debug    = flag.Bool("debug", false, "enable trace logging to stderr")
	)
	flag.Parse()

	s := control.New()
	if err := s.Reset(*width, *height, *ancestor, *seed); err != nil {
		log.Fatalf("reset: %v", err)
	}
	if err := s.SetMutationRates(*pCopy, *pIns, *pDel); err != nil {
		log.Fatalf("set mutation rates: %v", err)
	}
	if err := s.SetCyclesPerOrganism(*cAvg); err != nil {
		log.Fatalf("set cycles: %v", err)
	}

	if *debug {
		setupTracing(s, os.Stderr)
	}

	for i := 0; i < *updates; i++ {
		s.Step(1)
		if *every > 0 && (i+1)%*every == 0 {
			printGrid(os.Stdout, s, *width, *height)
			printStats(os.Stdout, s, i+1)
		}
	}

	printStats(os.Stdout, s, *updates)
}

func setupTracing(s *control.Surface, w io.Writer) {
	logger := tracelog.New(w)
	s.World.SetLogger(logger)
}

const (
	topLeftRune     = '┌'
	topRune         = '─'
	topRightRune    = '┐'
	rightRune       = '│'
	bottomRightRune = '┘'
	bottomRune      = '─'
	bottomLeftRune  = '└'
	leftRune        = '│'
	emptyRune       = ' '
)

var codeRunes = []rune("·abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func runeForCell(v control.CellView) rune {
	return codeRunes[1+int(v.GenomeHash%uint32(len(codeRunes)-1))]
}

func printGrid(w io.Writer, s *control.Surface, width, height int) {
	cells := s.Snapshot()

	fmt.Fprintf(w, "%c", topLeftRune)
	for x := 0; x < width; x++ {
		fmt.Fprintf(w, "%c", topRune)
	}
	fmt.Fprintf(w, "%c\n", topRightRune)

	for y := 0; y < height; y++ {
		fmt.Fprintf(w, "%c", leftRune)
		for x := 0; x < width; x++ {
			if c := cells[y*width+x]; c != nil {
				fmt.Fprintf(w, "%c", runeForCell(*c))
			} else {
				fmt.Fprintf(w, "%c", emptyRune)
			}
		}
		fmt.Fprintf(w, "%c\n", rightRune)
	}

	fmt.Fprintf(w, "%c", bottomLeftRune)
	for x := 0; x < width; x++ {
		fmt.Fprintf(w, "%c", bottomRune)
	}
	fmt.Fprintf(w, "%c\n", bottomRightRune)
}

func printStats(w io.Writer, s *control.Surface, update int) {
	snap := s.Stats()
	trend := s.Trend()

	tw := tabwriter.NewWriter(w, 0, 2, 1, ' ', 0)
	fmt.Fprintf(tw, "update\t%d\n", update)
	fmt.Fprintf(tw, "population\t%d\n", snap.Population)
	fmt.Fprintf(tw, "mean genome length\t%.1f\n", snap.MeanGenomeLength)
	fmt.Fprintf(tw, "mean merit\t%.2f\n", snap.MeanMerit)
	if trend.Valid {
		fmt.Fprintf(tw, "population trend (30s avg)\t%.1f\n", trend.Population)
		fmt.Fprintf(tw, "mean merit trend (30s avg)\t%.2f\n", trend.MeanMerit)
	}
	for t, n := range snap.TaskCounts {
		if n > 0 {
			fmt.Fprintf(tw, "task %s solved by\t%d organisms\n", task.Task(t), n)
		}
	}
	tw.Flush()
}
