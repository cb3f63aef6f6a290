package property_test

import (
	"math"
	"testing"
	"time"

	"github.com/marcelsud/salessuite-connector/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTypes = []property.TypeDefinition{
	nil,
	property.Boolean{},
	property.Number{},
	property.String{},
	property.DateTime{},
	property.Select{Variant: property.SingleSelect},
	property.Select{Variant: property.MultiSelect},
}

func TestNormalize_Absent(t *testing.T) {
	for _, def := range allTypes {
		for _, v := range []any{nil, "", "   ", "\t\n"} {
			got, ok, err := property.Normalize(v, def)
			require.NoError(t, err)
			assert.False(t, ok, "value %q with %v should be absent", v, def)
			assert.Nil(t, got)
		}
	}
}

func TestNormalize_Passthrough(t *testing.T) {
	in := map[string]any{"nested": true}
	got, ok, err := property.Normalize(in, nil)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, got)
}

func TestNormalize_Boolean(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want bool
	}{
		{"already boolean", false, false},
		{"string true", "true", true},
		{"non-empty string is truthy", "false", true},
		{"zero", float64(0), false},
		{"non-zero", float64(2), true},
		{"NaN", math.NaN(), false},
		{"slice", []any{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, err := property.Normalize(tc.in, property.Boolean{})
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalize_Number(t *testing.T) {
	t.Run("zero is kept", func(t *testing.T) {
		got, ok, err := property.Normalize(float64(0), property.Number{})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, float64(0), got)
	})

	t.Run("integers are already numbers", func(t *testing.T) {
		got, _, err := property.Normalize(42, property.Number{})
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("numeric strings", func(t *testing.T) {
		for in, want := range map[string]float64{
			"12":        12,
			" 1.5 ":     1.5,
			"-3e2":      -300,
			"0x1f":      31,
			".5":        0.5,
			"Infinity":  math.Inf(1),
			"-Infinity": math.Inf(-1),
		} {
			got, ok, err := property.Normalize(in, property.Number{})
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, want, got, in)
		}
	})

	t.Run("unparsable string yields NaN", func(t *testing.T) {
		got, ok, err := property.Normalize("abc", property.Number{})
		require.NoError(t, err)
		assert.True(t, ok)
		f, isFloat := got.(float64)
		require.True(t, isFloat)
		assert.True(t, math.IsNaN(f))
	})

	t.Run("booleans", func(t *testing.T) {
		got, _, err := property.Normalize(true, property.Number{})
		require.NoError(t, err)
		assert.Equal(t, float64(1), got)
	})
}

func TestNormalize_String(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"x", "x"},
		{float64(3), "3"},
		{1.25, "1.25"},
		{1e21, "1e+21"},
		{true, "true"},
		{[]any{"a", float64(1), nil}, "a,1,"},
		{map[string]any{"a": 1}, "[object Object]"},
	}
	for _, tc := range cases {
		got, ok, err := property.Normalize(tc.in, property.String{})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, tc.want, got)
	}
}

func TestNormalize_DateTime(t *testing.T) {
	t.Run("parses ISO strings", func(t *testing.T) {
		got, ok, err := property.Normalize("2024-03-01T10:30:00Z", property.DateTime{})
		require.NoError(t, err)
		assert.True(t, ok)
		ts := got.(property.Timestamp)
		assert.True(t, ts.Valid)
		assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), ts.Time.UTC())
	})

	t.Run("date only", func(t *testing.T) {
		got, _, err := property.Normalize("2024-03-01", property.DateTime{})
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01T00:00:00.000Z", got.(property.Timestamp).String())
	})

	t.Run("time values pass through", func(t *testing.T) {
		now := time.Now()
		got, _, err := property.Normalize(now, property.DateTime{})
		require.NoError(t, err)
		assert.Equal(t, property.Timestamp{Time: now, Valid: true}, got)
	})

	t.Run("garbage is kept as an invalid date", func(t *testing.T) {
		got, ok, err := property.Normalize("not a date", property.DateTime{})
		require.NoError(t, err)
		assert.True(t, ok)
		ts := got.(property.Timestamp)
		assert.False(t, ts.Valid)

		data, err := ts.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
	})
}

func TestNormalize_Select(t *testing.T) {
	t.Run("single value becomes a slice", func(t *testing.T) {
		got, _, err := property.Normalize("a", property.Select{Variant: property.SingleSelect})
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, got)
	})

	t.Run("each element is stringified", func(t *testing.T) {
		got, _, err := property.Normalize([]any{"a", float64(2), true}, property.Select{Variant: property.MultiSelect})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "2", "true"}, got)
	})
}

func TestNormalize_UnknownType(t *testing.T) {
	_, ok, err := property.Normalize("x", property.Unknown{Name: "currency"})

	require.Error(t, err)
	assert.False(t, ok)
	var typeErr *property.UnknownTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "currency", typeErr.Tag)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []any{"true", "12", "abc", float64(0), "2024-01-02", "x", []any{"a", "b"}, true, 7}
	for _, def := range allTypes {
		for _, in := range inputs {
			once, ok, err := property.Normalize(in, def)
			require.NoError(t, err)
			require.True(t, ok)
			twice, ok, err := property.Normalize(once, def)
			require.NoError(t, err)
			require.True(t, ok)

			if f, isFloat := once.(float64); isFloat && math.IsNaN(f) {
				assert.True(t, math.IsNaN(twice.(float64)))
				continue
			}
			assert.Equal(t, once, twice, "def %v input %v", def, in)
		}
	}
}

func TestNormalizeFields(t *testing.T) {
	types := map[string]property.TypeDefinition{
		"contactPerson.age":   property.Number{},
		"contactPerson.email": property.String{},
	}

	t.Run("success - drops empty values", func(t *testing.T) {
		out, err := property.NormalizeFields(property.ContactPerson, map[string]any{
			"age":   "41",
			"email": "a@b.com",
			"note":  "  ",
		}, types)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"age": float64(41), "email": "a@b.com"}, out)
	})

	t.Run("error - unknown type", func(t *testing.T) {
		_, err := property.NormalizeFields(property.Deal, map[string]any{"amount": 1},
			map[string]property.TypeDefinition{"deal.amount": property.Unknown{Name: "money"}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "deal.amount")
	})
}
