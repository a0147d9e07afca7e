package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// RAW RECORD TESTS
// ============================================================================

func TestNewRecordKeepsOrder(t *testing.T) {
	rec := NewRecord(F("zeta", "z"), F("alpha", 1), F("mid", nil))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, rec.Keys())
	assert.Equal(t, 3, rec.Len())
}

func TestNewRecordDuplicateKey(t *testing.T) {
	rec := NewRecord(F("a", 1), F("b", 2), F("a", 3))
	assert.Equal(t, []string{"a", "b"}, rec.Keys())
	v, ok := rec.Float("a")
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestValueFloatCoercion(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12", 12, true},
		{"1,234.5", 1234.5, true},
		{" $40 ", 40, true},
		{"-€7.25", -7.25, true},
		{"", 0, false},
		{"Sales", 0, false},
	}
	for _, tc := range cases {
		got, ok := StringValue(tc.in).Float()
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, ok := NullValue().Float()
	assert.False(t, ok)
	_, ok = BoolValue(true).Float()
	assert.False(t, ok)
}

func TestRecordMissingKey(t *testing.T) {
	rec := NewRecord(F("a", 1))
	_, ok := rec.Get("b")
	assert.False(t, ok)
	assert.Equal(t, "", rec.Text("b"))
	_, ok = rec.Float("b")
	assert.False(t, ok)
}

func TestRecordMarshalJSONOrder(t *testing.T) {
	rec := NewRecord(F("department", "Sales"), F("count", 5), F("note", nil), F("active", true))
	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"department":"Sales","count":5,"note":null,"active":true}`, string(out))
}

func TestUnionKeys(t *testing.T) {
	records := []RawRecord{
		NewRecord(F("a", 1), F("b", 2)),
		NewRecord(F("c", 1), F("a", 2)),
	}
	assert.Equal(t, []string{"a", "b", "c"}, UnionKeys(records))
}
