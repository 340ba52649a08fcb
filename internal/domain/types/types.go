// Package types contains common types used across the application.
package types

import (
	"encoding/json"
	"math"
	"strconv"
)

// Value is a float64 that may be undefined. The zero value is undefined.
type Value struct {
	v  float64
	ok bool
}

// Some returns a defined Value. NaN and infinities are treated as undefined.
func Some(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{v: v, ok: true}
}

// None returns an undefined Value.
func None() Value { return Value{} }

// FromPtr converts a nullable pointer into a Value.
func FromPtr(p *float64) Value {
	if p == nil {
		return Value{}
	}
	return Some(*p)
}

// Get returns the value and whether it is defined.
func (x Value) Get() (float64, bool) { return x.v, x.ok }

// Defined reports whether x holds a value.
func (x Value) Defined() bool { return x.ok }

// Or returns the value, or def when undefined.
func (x Value) Or(def float64) float64 {
	if !x.ok {
		return def
	}
	return x.v
}

// Ptr returns a pointer copy of the value, or nil when undefined.
func (x Value) Ptr() *float64 {
	if !x.ok {
		return nil
	}
	v := x.v
	return &v
}

func (x Value) String() string {
	if !x.ok {
		return "undefined"
	}
	return strconv.FormatFloat(x.v, 'f', -1, 64)
}

// MarshalJSON encodes an undefined value as null.
func (x Value) MarshalJSON() ([]byte, error) {
	if !x.ok {
		return []byte("null"), nil
	}
	return json.Marshal(x.v)
}

// UnmarshalJSON decodes null as undefined.
func (x *Value) UnmarshalJSON(data []byte) error {
	var p *float64
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*x = FromPtr(p)
	return nil
}

// Rank is a 1-based position that may be undefined. The zero value is undefined.
type Rank struct {
	n  int
	ok bool
}

// RankOf returns a defined Rank.
func RankOf(n int) Rank { return Rank{n: n, ok: true} }

// Get returns the rank and whether it is defined.
func (r Rank) Get() (int, bool) { return r.n, r.ok }

// Defined reports whether r holds a rank.
func (r Rank) Defined() bool { return r.ok }

// Ptr returns a pointer copy of the rank, or nil when undefined.
func (r Rank) Ptr() *int {
	if !r.ok {
		return nil
	}
	n := r.n
	return &n
}

// MarshalJSON encodes an undefined rank as null.
func (r Rank) MarshalJSON() ([]byte, error) {
	if !r.ok {
		return []byte("null"), nil
	}
	return json.Marshal(r.n)
}

// UnmarshalJSON decodes null as undefined.
func (r *Rank) UnmarshalJSON(data []byte) error {
	var p *int
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p == nil {
		*r = Rank{}
		return nil
	}
	*r = RankOf(*p)
	return nil
}

// Entry represents one row of a position ranking.
type Entry struct {
	Rank        Rank   `json:"rank"`
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Position    string `json:"position"`
	Score       Value  `json:"score"`
	Category    string `json:"category"`
}
