package retention

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestBuild(t *testing.T) {
	t.Run("all zero yields nil not empty policy", func(t *testing.T) {
		assert.Nil(t, Build(0, 0, 0))
	})

	t.Run("single tier", func(t *testing.T) {
		p := Build(7, 0, 0)
		require.NotNil(t, p)
		assert.Equal(t, []Rule{{Unit: "day", Window: 7, Keep: 1}}, p.Rules)
	})

	t.Run("fixed day week month order", func(t *testing.T) {
		p := Build(7, 4, 6)
		require.NotNil(t, p)
		assert.Equal(t, []Rule{
			{Unit: "day", Window: 7, Keep: 1},
			{Unit: "week", Window: 4, Keep: 1},
			{Unit: "month", Window: 6, Keep: 1},
		}, p.Rules)
	})

	t.Run("negative windows treated as disabled", func(t *testing.T) {
		assert.Nil(t, Build(-1, -2, 0))
	})
}

func TestMarshalWireShape(t *testing.T) {
	raw := Marshal(Build(7, 0, 0))
	require.NotNil(t, raw)
	assert.JSONEq(t, `{"rules":[{"unit":"day","window":7,"keep":1}]}`, *raw)

	assert.Nil(t, Marshal(nil))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want Tiers
	}{
		{"nil means defaults disabled", nil, Tiers{Enabled: false, Daily: 7, Weekly: 4, Monthly: 6}},
		{"empty string", strptr(""), Tiers{Enabled: false, Daily: 7, Weekly: 4, Monthly: 6}},
		{"garbage json", strptr("{nope"), Tiers{Enabled: false, Daily: 7, Weekly: 4, Monthly: 6}},
		{"explicit empty rules treated like nil", strptr(`{"rules":[]}`), Tiers{Enabled: false, Daily: 7, Weekly: 4, Monthly: 6}},
		{
			"daily only keeps other tier defaults",
			strptr(`{"rules":[{"unit":"day","window":14,"keep":1}]}`),
			Tiers{Enabled: true, Daily: 14, Weekly: 4, Monthly: 6},
		},
		{
			"all tiers",
			strptr(`{"rules":[{"unit":"day","window":30,"keep":1},{"unit":"week","window":8,"keep":1},{"unit":"month","window":12,"keep":1}]}`),
			Tiers{Enabled: true, Daily: 30, Weekly: 8, Monthly: 12},
		},
		{
			"out of range windows clamped",
			strptr(`{"rules":[{"unit":"day","window":1000,"keep":1},{"unit":"week","window":-3,"keep":1}]}`),
			Tiers{Enabled: true, Daily: 365, Weekly: 0, Monthly: 6},
		},
		{
			"unknown units skipped",
			strptr(`{"rules":[{"unit":"hour","window":48,"keep":1},{"unit":"week","window":8,"keep":1}]}`),
			Tiers{Enabled: true, Daily: 7, Weekly: 8, Monthly: 6},
		},
		{
			"only unknown units stays disabled",
			strptr(`{"rules":[{"unit":"hour","window":48,"keep":1}]}`),
			Tiers{Enabled: false, Daily: 7, Weekly: 4, Monthly: 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

// Build(Parse(p)) reproduces p when p holds one rule per tier.
func TestRoundTrip(t *testing.T) {
	orig := Build(14, 8, 12)
	require.NotNil(t, orig)
	b, err := json.Marshal(orig)
	require.NoError(t, err)

	raw := string(b)
	tiers := Parse(&raw)
	rebuilt := Build(tiers.Daily, tiers.Weekly, tiers.Monthly)
	assert.Equal(t, orig, rebuilt)
}

func TestNormalize(t *testing.T) {
	t.Run("nil and empty collapse to nil", func(t *testing.T) {
		assert.Nil(t, Normalize(nil))
		assert.Nil(t, Normalize(strptr("")))
		assert.Nil(t, Normalize(strptr("{broken")))
	})

	t.Run("valid policy survives unchanged", func(t *testing.T) {
		raw := Marshal(Build(14, 8, 0))
		got := Normalize(raw)
		require.NotNil(t, got)
		assert.JSONEq(t, *raw, *got)
	})

	t.Run("absent tiers are not invented", func(t *testing.T) {
		got := Normalize(strptr(`{"rules":[{"unit":"day","window":14,"keep":1}]}`))
		require.NotNil(t, got)
		assert.JSONEq(t, `{"rules":[{"unit":"day","window":14,"keep":1}]}`, *got)
	})

	t.Run("unknown units dropped, windows clamped", func(t *testing.T) {
		got := Normalize(strptr(`{"rules":[{"unit":"hour","window":48,"keep":1},{"unit":"day","window":9999,"keep":1}]}`))
		require.NotNil(t, got)
		assert.JSONEq(t, `{"rules":[{"unit":"day","window":365,"keep":1}]}`, *got)
	})

	t.Run("degenerate policy collapses to nil", func(t *testing.T) {
		assert.Nil(t, Normalize(strptr(`{"rules":[{"unit":"hour","window":48,"keep":1}]}`)))
		assert.Nil(t, Normalize(strptr(`{"rules":[{"unit":"day","window":0,"keep":1}]}`)))
		assert.Nil(t, Normalize(strptr(`{"rules":[]}`)))
	})
}

func TestEffective(t *testing.T) {
	global := Marshal(Build(30, 0, 0))
	override := Marshal(Build(0, 6, 0))

	t.Run("override wins whole, never merged", func(t *testing.T) {
		got := Effective(override, global)
		assert.True(t, got.Enabled)
		assert.Equal(t, 6, got.Weekly)
		// The global daily tier must not leak into the override.
		assert.Equal(t, DefaultDailyWindow, got.Daily)
	})

	t.Run("nil override falls back to global", func(t *testing.T) {
		got := Effective(nil, global)
		assert.True(t, got.Enabled)
		assert.Equal(t, 30, got.Daily)
	})

	t.Run("both nil retains everything", func(t *testing.T) {
		assert.False(t, Effective(nil, nil).Enabled)
	})
}
