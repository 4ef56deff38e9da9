// Package retention models the three-tier (daily/weekly/monthly) retention
// policy stored on jobs and in global settings. A policy keeps the most
// recent artifact per period for the last N periods of each enabled tier; an
// absent or empty policy means retain everything.
package retention

import "encoding/json"

// Tier units as stored on the wire.
const (
	UnitDay   = "day"
	UnitWeek  = "week"
	UnitMonth = "month"
)

// Upper bounds for stored windows. User input is clamped at the edge, but
// stored policies may have been written by an older client, so Parse clamps
// again.
const (
	MaxDailyWindow   = 365
	MaxWeeklyWindow  = 52
	MaxMonthlyWindow = 120
)

// UI defaults shown when a job has no override of its own.
const (
	DefaultDailyWindow   = 7
	DefaultWeeklyWindow  = 4
	DefaultMonthlyWindow = 6
)

// Rule is one retention tier: keep the most recent `Keep` artifacts per
// `Unit` for the last `Window` periods. Keep is always 1 in practice.
type Rule struct {
	Unit   string `json:"unit"`
	Window int    `json:"window"`
	Keep   int    `json:"keep"`
}

// Policy is the persisted wire shape, serialized into
// retention_policy_json / global_retention_policy_json.
type Policy struct {
	Rules []Rule `json:"rules"`
}

// Tiers is the editable view of a policy: one window per tier plus an
// enabled flag. A disabled tier set keeps its last-known window values so
// re-enabling does not zero anything out.
type Tiers struct {
	Enabled bool `json:"enabled"`
	Daily   int  `json:"daily"`
	Weekly  int  `json:"weekly"`
	Monthly int  `json:"monthly"`
}

// DefaultTiers returns the disabled tier set with UI default windows.
func DefaultTiers() Tiers {
	return Tiers{Daily: DefaultDailyWindow, Weekly: DefaultWeeklyWindow, Monthly: DefaultMonthlyWindow}
}

// Build normalizes tier windows into a Policy. Tiers with window <= 0 are
// omitted; rules are emitted in fixed day, week, month order. When all three
// windows are zero Build returns nil, never an explicit empty policy, so the
// wire payload stays minimal ("no override" rather than "override with no
// rules"; consumers treat both the same).
func Build(daily, weekly, monthly int) *Policy {
	var rules []Rule
	if daily > 0 {
		rules = append(rules, Rule{Unit: UnitDay, Window: daily, Keep: 1})
	}
	if weekly > 0 {
		rules = append(rules, Rule{Unit: UnitWeek, Window: weekly, Keep: 1})
	}
	if monthly > 0 {
		rules = append(rules, Rule{Unit: UnitMonth, Window: monthly, Keep: 1})
	}
	if len(rules) == 0 {
		return nil
	}
	return &Policy{Rules: rules}
}

// Marshal serializes a policy for storage. A nil policy yields nil,
// signaling "use global / retain everything".
func Marshal(p *Policy) *string {
	if p == nil {
		return nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// Parse converts stored policy JSON back into tier state. nil input,
// unparsable JSON and an empty rule list all yield the disabled default
// tiers. A non-empty rule list yields Enabled=true with each tier's window
// back-filled from its rule; tiers absent from the rule list keep their
// defaults rather than dropping to zero, so a daily-only override does not
// visually zero out weekly/monthly on re-open. Rules with an unrecognized
// unit are skipped. Windows are clamped defensively to the tier bounds.
func Parse(raw *string) Tiers {
	t := DefaultTiers()
	if raw == nil || *raw == "" {
		return t
	}
	var p Policy
	if err := json.Unmarshal([]byte(*raw), &p); err != nil {
		return t
	}
	if len(p.Rules) == 0 {
		return t
	}
	for _, r := range p.Rules {
		switch r.Unit {
		case UnitDay:
			t.Enabled = true
			t.Daily = clamp(r.Window, MaxDailyWindow)
		case UnitWeek:
			t.Enabled = true
			t.Weekly = clamp(r.Window, MaxWeeklyWindow)
		case UnitMonth:
			t.Enabled = true
			t.Monthly = clamp(r.Window, MaxMonthlyWindow)
		}
	}
	return t
}

// Normalize re-derives the minimal stored form of policy JSON written by
// arbitrary client versions: unknown units are dropped, windows clamped,
// zero-window rules removed, tiers reordered to day/week/month, and a
// degenerate result collapses to nil. Tiers absent from the input stay
// absent; normalization never invents rules.
func Normalize(raw *string) *string {
	if raw == nil || *raw == "" {
		return nil
	}
	var p Policy
	if err := json.Unmarshal([]byte(*raw), &p); err != nil {
		return nil
	}
	daily, weekly, monthly := 0, 0, 0
	for _, r := range p.Rules {
		switch r.Unit {
		case UnitDay:
			daily = clamp(r.Window, MaxDailyWindow)
		case UnitWeek:
			weekly = clamp(r.Window, MaxWeeklyWindow)
		case UnitMonth:
			monthly = clamp(r.Window, MaxMonthlyWindow)
		}
	}
	return Marshal(Build(daily, weekly, monthly))
}

// Effective resolves a job's policy against the global one: the override
// wins whole, never merged per tier.
func Effective(override, global *string) Tiers {
	if override != nil && *override != "" {
		return Parse(override)
	}
	return Parse(global)
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
