package salessuite_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/marcelsud/salessuite-connector/salessuite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiniteJSON(t *testing.T) {
	t.Run("success - non-finite numbers become null", func(t *testing.T) {
		in := map[string]any{
			"nan":    math.NaN(),
			"inf":    math.Inf(1),
			"list":   []any{1.5, math.Inf(-1)},
			"nested": map[string]any{"n": math.NaN(), "s": "x"},
		}

		raw, err := json.Marshal(salessuite.FiniteJSON(in))
		require.NoError(t, err)
		assert.JSONEq(t, `{"nan":null,"inf":null,"list":[1.5,null],"nested":{"n":null,"s":"x"}}`, string(raw))
		assert.True(t, math.IsNaN(in["nan"].(float64)), "input is not modified")
	})

	t.Run("success - contact payload", func(t *testing.T) {
		raw, err := json.Marshal(salessuite.ContactPayload{
			Contact:       map[string]any{"employees": math.NaN()},
			ContactPerson: map[string]any{"email": "a@b.com"},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"contact":{"employees":null},"contactPerson":{"email":"a@b.com"}}`, string(raw))
	})

	t.Run("success - other values are unchanged", func(t *testing.T) {
		assert.Equal(t, "x", salessuite.FiniteJSON("x"))
		assert.Equal(t, 2.0, salessuite.FiniteJSON(2.0))
		assert.Nil(t, salessuite.FiniteJSON(math.NaN()))
	})
}
