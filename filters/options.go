package filters

// Option is one selectable filter value reported by the backend.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count *int   `json:"count,omitempty"`
}

// Response is the backend's filter metadata.
type Response struct {
	Departments  []Option  `json:"departments"`
	Locations    []Option  `json:"locations"`
	Designations []Option  `json:"designations"`
	Genders      []Option  `json:"genders"`
	DateRange    DateRange `json:"date_range"`
	LastUpdated  string    `json:"last_updated,omitempty"`
}

// displayLimits caps long option lists in the filter panel.
var displayLimits = map[Dimension]int{
	Locations:    20,
	Designations: 20,
}

// OptionsFor returns the options of one dimension.
func (r *Response) OptionsFor(dim Dimension) []Option {
	switch dim {
	case Departments:
		return r.Departments
	case Locations:
		return r.Locations
	case Designations:
		return r.Designations
	case Genders:
		return r.Genders
	}
	return nil
}

// VisibleOptions returns the options shown for dim and how many were hidden.
func (r *Response) VisibleOptions(dim Dimension) (shown []Option, hidden int) {
	opts := r.OptionsFor(dim)
	if limit, ok := displayLimits[dim]; ok && len(opts) > limit {
		return opts[:limit], len(opts) - limit
	}
	return opts, 0
}

// Months enumerates the selectable months of the reported date range.
func (r *Response) Months() []MonthOption {
	return r.DateRange.Months()
}
