package engine

import (
	"testing"

	d "github.com/matzehuels/docgraph/pkg/document"
)

func TestSelectStrategy(t *testing.T) {
	flat := func(k, v string) d.Value { return d.Object(d.F(k, d.Scalar(v))) }
	mixed := func(v string) d.Value {
		return d.Object(d.F("name", d.Scalar(v)), d.F("tags", d.Array(d.Scalar("x"))))
	}

	tests := []struct {
		name  string
		items []d.Value
		want  Strategy
	}{
		{"empty", nil, StrategyPrimitive},
		{"only nulls", []d.Value{d.Null(), d.Null()}, StrategyPrimitive},
		{"scalars", []d.Value{d.Scalar("1"), d.Scalar("a")}, StrategyPrimitive},
		{"scalars and nulls", []d.Value{d.Scalar("1"), d.Null()}, StrategyPrimitive},
		{"flat objects", []d.Value{flat("id", "1"), flat("id", "2")}, StrategyFlatObjects},
		{"flat objects differing keys", []d.Value{flat("id", "1"), flat("name", "x")}, StrategyFlatObjects},
		{"flat objects with empty", []d.Value{flat("id", "1"), d.Object()}, StrategyFlatObjects},
		{"mixed", []d.Value{mixed("a"), mixed("b"), d.Null()}, StrategyMixed},
		{"mixed and flat", []d.Value{mixed("a"), flat("id", "1")}, StrategyFallback},
		{"object without scalars", []d.Value{d.Object(d.F("o", d.Object(d.F("k", d.Scalar("1")))))}, StrategyFallback},
		{"scalar and object", []d.Value{d.Scalar("1"), flat("id", "1")}, StrategyFallback},
		{"nested arrays", []d.Value{d.Array(d.Scalar("1"))}, StrategyFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectStrategy(tt.items); got != tt.want {
				t.Errorf("SelectStrategy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrategyString(t *testing.T) {
	want := []string{"primitive", "flat-objects", "mixed", "fallback"}
	for i, s := range Strategies() {
		if s.String() != want[i] {
			t.Errorf("Strategy(%d).String() = %q, want %q", i, s.String(), want[i])
		}
	}
	if Strategy(99).String() != "unknown" {
		t.Error("out of range strategy should be unknown")
	}
}
