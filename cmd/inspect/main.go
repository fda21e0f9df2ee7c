// Command inspect runs a simulation for a fixed number of updates and
// prints the full detail of whatever organism occupies one named cell.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/maccam912/avida-go/avida/control"
)

func main() {
	var (
		width    = flag.Int("width", 60, "grid width")
		height   = flag.Int("height", 60, "grid height")
		seed     = flag.Uint64("seed", 1, "PRNG seed")
		ancestor = flag.String("ancestor", control.AncestorDefault, "ancestor genome")
		updates  = flag.Int("updates", 1000, "number of updates to run before inspecting")
		x        = flag.Int("x", 30, "cell x coordinate")
		y        = flag.Int("y", 30, "cell y coordinate")
	)
	flag.Parse()

	s := control.New()
	if err := s.Reset(*width, *height, *ancestor, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "reset: %v\n", err)
		os.Exit(1)
	}
	s.Step(uint32(*updates))

	detail, err := s.Inspect(*x, *y)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}
	if detail == nil {
		fmt.Printf("cell (%d, %d) is empty after %d updates\n", *x, *y, *updates)
		return
	}
	fmt.Printf("%+v\n", *detail)
}
