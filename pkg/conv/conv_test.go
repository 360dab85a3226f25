package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigGet(t *testing.T) {
	m := map[string]any{"expr": "item.score > 1.0", "strict": true, "k": 10}

	assert.Equal(t, "item.score > 1.0", ConfigGet(m, "expr", ""))
	assert.True(t, ConfigGet(m, "strict", false))
	assert.Equal(t, "fallback", ConfigGet(m, "k", "fallback"))
	assert.Equal(t, "x", ConfigGet[string](nil, "expr", "x"))
}

func TestConfigGetInt(t *testing.T) {
	m := map[string]any{"yaml": 5, "json": 7.0, "wide": int64(9), "str": "3"}

	assert.Equal(t, 5, ConfigGetInt(m, "yaml", 0))
	assert.Equal(t, 7, ConfigGetInt(m, "json", 0))
	assert.Equal(t, 9, ConfigGetInt(m, "wide", 0))
	assert.Equal(t, 1, ConfigGetInt(m, "str", 1))
	assert.Equal(t, 2, ConfigGetInt(m, "missing", 2))
}

func TestConfigGetFloat64(t *testing.T) {
	m := map[string]any{"a": 3, "b": 2.5, "c": "x"}

	assert.InDelta(t, 3.0, ConfigGetFloat64(m, "a", 0), 1e-12)
	assert.InDelta(t, 2.5, ConfigGetFloat64(m, "b", 0), 1e-12)
	assert.InDelta(t, 1.5, ConfigGetFloat64(m, "c", 1.5), 1e-12)
}
