package engine

import "github.com/matzehuels/docgraph/pkg/document"

// Strategy is the emission rule chosen for one array.
type Strategy uint8

const (
	// StrategyPrimitive: every item is a scalar. One bare leaf per item.
	StrategyPrimitive Strategy = iota
	// StrategyFlatObjects: every item is an object of scalars only. One
	// merged leaf per item.
	StrategyFlatObjects
	// StrategyMixed: every item is an object with at least one scalar and
	// at least one structured field. A merged leaf per item, with group
	// nodes for the structured fields hanging off the leaf.
	StrategyMixed
	// StrategyFallback: anything else. One group node per item, then
	// ordinary recursion into it.
	StrategyFallback
)

var strategyNames = [...]string{"primitive", "flat-objects", "mixed", "fallback"}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "unknown"
}

// Strategies lists every strategy in priority order.
func Strategies() []Strategy {
	return []Strategy{StrategyPrimitive, StrategyFlatObjects, StrategyMixed, StrategyFallback}
}

// SelectStrategy picks the first strategy, in priority order, whose
// condition holds for every non-null item. An array with no non-null items
// selects [StrategyPrimitive] and emits nothing.
func SelectStrategy(items []document.Value) Strategy {
	allScalar, allFlat, allMixed := true, true, true
	for _, item := range items {
		if document.IsNull(item) {
			continue
		}
		switch item.Kind() {
		case document.KindObject:
			allScalar = false
			p := Classify(item)
			if len(p.Structured) > 0 {
				allFlat = false
			}
			if len(p.Scalars) == 0 || len(p.Structured) == 0 {
				allMixed = false
			}
		case document.KindArray:
			allScalar, allFlat, allMixed = false, false, false
		default:
			allFlat, allMixed = false, false
		}
	}
	switch {
	case allScalar:
		return StrategyPrimitive
	case allFlat:
		return StrategyFlatObjects
	case allMixed:
		return StrategyMixed
	}
	return StrategyFallback
}
