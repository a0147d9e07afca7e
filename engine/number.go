package engine

// BuildNumber derives a headline value from the first record. Returns nil when
// there are no records.
func BuildNumber(records []RawRecord, rules InferenceRules, mapping *FieldMapping) *NumberView {
	if len(records) == 0 {
		return nil
	}
	in := rules.Resolve(records[0], mapping)
	v := in.Value(records[0])
	return &NumberView{
		Value:   v,
		Display: FormatNumber(v),
		Field:   in.ValueField,
	}
}
