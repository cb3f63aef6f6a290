package action_test

import (
	"testing"

	"github.com/marcelsud/salessuite-connector/action"
	"github.com/stretchr/testify/assert"
)

func TestParams(t *testing.T) {
	p := action.Params{
		"name":  "  deal ",
		"page":  float64(2),
		"size":  "10",
		"flag":  "true",
		"ids":   []any{"a", "", nil, "b"},
		"one":   "x",
		"count": float64(1.5),
	}

	assert.Equal(t, "deal", p.Trimmed("name"))
	assert.Equal(t, "", p.String("missing"))
	assert.Equal(t, "1.5", p.String("count"))
	assert.Equal(t, 2, p.Int("page", 0))
	assert.Equal(t, 10, p.Int("size", 0))
	assert.Equal(t, 25, p.Int("missing", 25))
	assert.True(t, p.Bool("flag"))
	assert.False(t, p.Bool("name"))
	assert.Equal(t, []string{"a", "b"}, p.Strings("ids"))
	assert.Equal(t, []string{"x"}, p.Strings("one"))
	assert.Nil(t, p.Strings("missing"))
	assert.Equal(t, map[string]any{}, p.Fields())
}
