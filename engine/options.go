package engine

// ============================================================================
// ENGINE OPTIONS: Functional options for Build() / BuildAll()
// ============================================================================

// DefaultCategory is used when neither the payload nor the resolver names one.
const DefaultCategory = "workforce"

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Rules         InferenceRules
	Resolver      Resolver              // per-KPI kind / mapping / grouping
	Palettes      map[ChartKind]Palette // overrides PaletteFor
	LabelLimits   map[ChartKind]int     // overrides defaultLabelLimits
	GroupLimit    int                   // stacked categories shown
	GroupKeys     GroupKeys
	SummaryFields []string
	Table         TableStyle
}

// WithResolver supplies per-KPI configuration (usually a schema.Catalog).
func WithResolver(r Resolver) Option {
	return func(c *config) {
		c.Resolver = r
	}
}

// WithRules replaces the label/value inference table.
func WithRules(rules InferenceRules) Option {
	return func(c *config) {
		c.Rules = rules
	}
}

// WithPalette sets the colors for one chart kind.
func WithPalette(kind ChartKind, p Palette) Option {
	return func(c *config) {
		c.Palettes[kind] = p
	}
}

// WithLabelLimit sets the truncation limit (runes) for one chart kind.
func WithLabelLimit(kind ChartKind, max int) Option {
	return func(c *config) {
		c.LabelLimits[kind] = max
	}
}

// WithGroupLimit caps how many primary groups a stacked chart shows.
// n <= 0 shows all of them.
func WithGroupLimit(n int) Option {
	return func(c *config) {
		c.GroupLimit = n
	}
}

// WithGroupKeys sets the default stacked-chart grouping fields.
func WithGroupKeys(keys GroupKeys) Option {
	return func(c *config) {
		c.GroupKeys = keys
	}
}

// WithSummaryFields sets the fields Summarize looks for.
func WithSummaryFields(fields ...string) Option {
	return func(c *config) {
		c.SummaryFields = fields
	}
}

// WithTableLimits caps displayed table columns and rows.
func WithTableLimits(columns, rows int) Option {
	return func(c *config) {
		c.Table = TableStyle{MaxColumns: columns, MaxRows: rows}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Rules:         DefaultRules(),
		Palettes:      make(map[ChartKind]Palette),
		LabelLimits:   make(map[ChartKind]int),
		GroupLimit:    DefaultStackStyle().Limit,
		GroupKeys:     DefaultGroupKeys(),
		SummaryFields: DefaultSummaryFields(),
		Table:         DefaultTableStyle(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) palette(kind ChartKind) Palette {
	if p, ok := c.Palettes[kind]; ok {
		return p
	}
	return PaletteFor(kind)
}

func (c *config) labelLimit(kind ChartKind) int {
	if n, ok := c.LabelLimits[kind]; ok {
		return n
	}
	return defaultLabelLimits[kind]
}

func (c *config) seriesStyle(kind ChartKind, mapping *FieldMapping) SeriesStyle {
	return SeriesStyle{
		MaxLabel: c.labelLimit(kind),
		Palette:  c.palette(kind),
		Rules:    c.Rules,
		Mapping:  mapping,
	}
}

func (c *config) stackStyle() StackStyle {
	return StackStyle{
		MaxLabel: c.labelLimit(ChartStackedBar),
		Limit:    c.GroupLimit,
		Palette:  c.palette(ChartStackedBar),
	}
}
