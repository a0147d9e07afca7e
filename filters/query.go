package filters

// Query is the request body built from an applied State. Empty collections and
// absent bounds are omitted, so an empty State marshals to {}.
type Query struct {
	Departments  []string `json:"departments,omitempty"`
	Locations    []string `json:"locations,omitempty"`
	Designations []string `json:"designations,omitempty"`
	Gender       []string `json:"gender,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
}

// BuildQuery translates a State into request parameters.
func BuildQuery(s State) Query {
	return Query{
		Departments:  s.Members(Departments),
		Locations:    s.Members(Locations),
		Designations: s.Members(Designations),
		Gender:       s.Members(Genders),
		StartDate:    s.StartMonth,
		EndDate:      s.EndMonth,
	}
}

// IsEmpty reports whether the query carries no filters. An empty query is
// served by the initial dashboard endpoint.
func (q Query) IsEmpty() bool {
	return len(q.Departments) == 0 && len(q.Locations) == 0 &&
		len(q.Designations) == 0 && len(q.Gender) == 0 &&
		q.StartDate == "" && q.EndDate == ""
}
