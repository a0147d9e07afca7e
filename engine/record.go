package engine

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ============================================================================
// RAW RECORD: Ordered, loosely-typed KPI row
// ============================================================================
// Field names are not fixed across KPIs. Key order is kept exactly as the
// backend sent it because it is the tie-break for label/value inference.
// Records are immutable once built.
// ============================================================================

// ValueKind is the runtime type of a record value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
)

// Value is a single record cell: string, number, bool or null.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

// StringValue wraps a string cell.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// NumberValue wraps a numeric cell.
func NumberValue(f float64) Value { return Value{Kind: ValueNumber, Num: f} }

// BoolValue wraps a boolean cell.
func BoolValue(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// NullValue is an explicit null / absent cell.
func NullValue() Value { return Value{} }

func (v Value) IsNull() bool   { return v.Kind == ValueNull }
func (v Value) IsString() bool { return v.Kind == ValueString }
func (v Value) IsNumber() bool { return v.Kind == ValueNumber }

// Text renders the value as a category string. Null renders as "".
func (v Value) Text() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Float returns the value as a number. Numeric strings ("1,234.5", "$40")
// are coerced; everything else reports false.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case ValueNumber:
		return v.Num, true
	case ValueString:
		return parseNumeric(v.Str)
	default:
		return 0, false
	}
}

// parseNumeric accepts plain numbers plus thousands separators and a leading
// currency symbol.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	for _, sym := range []string{"$", "€", "£", "₹"} {
		s = strings.TrimPrefix(s, sym)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}

// Field is one key/value pair of a RawRecord.
type Field struct {
	Key   string
	Value Value
}

// F builds a Field from a Go value. Supported: string, bool, nil and the
// built-in integer/float types; anything else becomes null.
func F(key string, v any) Field {
	switch x := v.(type) {
	case nil:
		return Field{Key: key, Value: NullValue()}
	case Value:
		return Field{Key: key, Value: x}
	case string:
		return Field{Key: key, Value: StringValue(x)}
	case bool:
		return Field{Key: key, Value: BoolValue(x)}
	case float64:
		return Field{Key: key, Value: NumberValue(x)}
	case float32:
		return Field{Key: key, Value: NumberValue(float64(x))}
	case int:
		return Field{Key: key, Value: NumberValue(float64(x))}
	case int32:
		return Field{Key: key, Value: NumberValue(float64(x))}
	case int64:
		return Field{Key: key, Value: NumberValue(float64(x))}
	default:
		return Field{Key: key, Value: NullValue()}
	}
}

// RawRecord is an ordered mapping from field name to Value.
type RawRecord struct {
	fields []Field
	index  map[string]int
}

// NewRecord builds a record from fields in order. A repeated key keeps its
// first position and takes the last value.
func NewRecord(fields ...Field) RawRecord {
	r := RawRecord{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if i, ok := r.index[f.Key]; ok {
			r.fields[i].Value = f.Value
			continue
		}
		r.index[f.Key] = len(r.fields)
		r.fields = append(r.fields, f)
	}
	return r
}

func (r RawRecord) Len() int { return len(r.fields) }

// Keys returns field names in record order.
func (r RawRecord) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the ordered fields.
func (r RawRecord) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Get returns the value for key and whether the key is present.
func (r RawRecord) Get(key string) (Value, bool) {
	i, ok := r.index[key]
	if !ok {
		return Value{}, false
	}
	return r.fields[i].Value, true
}

// Text returns the value for key as text ("" when absent or null).
func (r RawRecord) Text(key string) string {
	v, _ := r.Get(key)
	return v.Text()
}

// Float returns the value for key as a number, coercing numeric strings.
func (r RawRecord) Float(key string) (float64, bool) {
	v, ok := r.Get(key)
	if !ok {
		return 0, false
	}
	return v.Float()
}

// MarshalJSON writes the record as a JSON object in field order.
func (r RawRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val []byte
		switch f.Value.Kind {
		case ValueString:
			val, err = json.Marshal(f.Value.Str)
		case ValueNumber:
			val, err = json.Marshal(f.Value.Num)
		case ValueBool:
			val, err = json.Marshal(f.Value.Bool)
		default:
			val = []byte("null")
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnionKeys returns every field name across records, first-seen order.
func UnionKeys(records []RawRecord) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, r := range records {
		for _, f := range r.fields {
			if !seen[f.Key] {
				seen[f.Key] = true
				keys = append(keys, f.Key)
			}
		}
	}
	return keys
}
