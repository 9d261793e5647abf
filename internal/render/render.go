// Package render draws a puzzle.Board to a terminal using ANSI colors,
// for the CLI's default and --verbose output. Grounded on
// eng618-parable-bloom's use of fatih/color to distinguish terminal
// output without hand-rolling escape codes.
package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/gitrdm/edgetile/pkg/puzzle"
)

var palette = []*color.Color{
	color.New(color.FgCyan),
	color.New(color.FgMagenta),
	color.New(color.FgYellow),
	color.New(color.FgGreen),
	color.New(color.FgBlue),
	color.New(color.FgRed),
}

// Board writes a grid of tile ids to w, each cell colorized by
// tile-id-mod-palette-length so adjacent distinct tiles are visually
// distinguishable. Empty cells print as a dim dot.
func Board(w io.Writer, board *puzzle.Board) {
	empty := color.New(color.FgHiBlack)
	for r := 0; r < board.Rows(); r++ {
		for c := 0; c < board.Cols(); c++ {
			if c > 0 {
				fmt.Fprint(w, " ")
			}
			p, ok := board.At(r, c)
			if !ok {
				empty.Fprint(w, "·")
				continue
			}
			cl := palette[p.TileID%len(palette)]
			cl.Fprintf(w, "%3d", p.TileID)
		}
		fmt.Fprintln(w)
	}
}

// Summary writes a one-line solved/unsolved banner.
func Summary(w io.Writer, solved bool, elapsedSeconds float64) {
	if solved {
		color.New(color.FgGreen, color.Bold).Fprintf(w, "solved in %.2fs\n", elapsedSeconds)
		return
	}
	color.New(color.FgRed, color.Bold).Fprintf(w, "no solution (%.2fs)\n", elapsedSeconds)
}
