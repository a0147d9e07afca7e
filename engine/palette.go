package engine

// ============================================================================
// PALETTES: Color assignment by position
// ============================================================================
// Color is a pure function of (index, palette). No memoized assignment: the
// same input always yields the same ColorIndex sequence.
// ============================================================================

// Palette is an ordered list of CSS colors.
type Palette []string

// seriesColors is shared by bar, pie and line charts.
var seriesColors = Palette{
	"hsl(222, 47%, 35%)",
	"hsl(187, 71%, 42%)",
	"hsl(152, 69%, 40%)",
	"hsl(38, 92%, 50%)",
	"hsl(340, 75%, 55%)",
	"hsl(262, 52%, 47%)",
}

// stackColors is used for stacked segments.
var stackColors = Palette{
	"hsl(222, 47%, 35%)",
	"hsl(340, 75%, 55%)",
	"hsl(152, 69%, 40%)",
	"hsl(38, 92%, 50%)",
}

// PaletteFor returns a copy of the default palette for a chart kind.
func PaletteFor(kind ChartKind) Palette {
	src := seriesColors
	if kind == ChartStackedBar {
		src = stackColors
	}
	out := make(Palette, len(src))
	copy(out, src)
	return out
}

// Index maps a position onto the palette. An empty palette always yields 0.
func (p Palette) Index(position int) int {
	if len(p) == 0 || position < 0 {
		return 0
	}
	return position % len(p)
}

// At returns the color for a position, or "" for an empty palette.
func (p Palette) At(position int) string {
	if len(p) == 0 {
		return ""
	}
	return p[p.Index(position)]
}
