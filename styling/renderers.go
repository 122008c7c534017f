package styling

import (
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
)

type NullSymbolRenderer struct{}

func (r *NullSymbolRenderer) SymbolsForFeature(feature *ownmap.Feature) []*Symbol {
	return nil
}

type SingleSymbolRenderer struct {
	Symbol *Symbol
}

func (r *SingleSymbolRenderer) SymbolsForFeature(feature *ownmap.Feature) []*Symbol {
	return []*Symbol{r.Symbol}
}

type Category struct {
	Value  string
	Symbol *Symbol
	Render bool
}

// CategorizedSymbolRenderer picks the symbol by the text value of an attribute.
// A category with an empty value catches all the values that no other category matches.
type CategorizedSymbolRenderer struct {
	AttributeName string
	Categories    []*Category
}

func (r *CategorizedSymbolRenderer) SymbolsForFeature(feature *ownmap.Feature) []*Symbol {
	value, _ := feature.PropertyString(r.AttributeName)

	var catchAll *Category
	for _, category := range r.Categories {
		if category.Value == "" {
			if catchAll == nil {
				catchAll = category
			}
			continue
		}

		if category.Value == value {
			if !category.Render {
				return nil
			}
			return []*Symbol{category.Symbol}
		}
	}

	if catchAll == nil || !catchAll.Render {
		return nil
	}

	return []*Symbol{catchAll.Symbol}
}

type Range struct {
	Lower  float64
	Upper  float64
	Symbol *Symbol
	Render bool
}

// GraduatedSymbolRenderer picks the symbol of the first range that a numeric attribute is inside (inclusive both ends)
type GraduatedSymbolRenderer struct {
	AttributeName string
	Ranges        []*Range
}

func (r *GraduatedSymbolRenderer) SymbolsForFeature(feature *ownmap.Feature) []*Symbol {
	value, ok := feature.PropertyFloat(r.AttributeName)
	if !ok {
		return nil
	}

	for _, rng := range r.Ranges {
		if value >= rng.Lower && value <= rng.Upper {
			if !rng.Render {
				return nil
			}
			return []*Symbol{rng.Symbol}
		}
	}

	return nil
}

type Rule struct {
	// Filter is nil for rules that apply to every feature
	Filter Filter
	// IsElse rules apply only when no other rule matched
	IsElse  bool
	Symbols []*Symbol
}

// RuleBasedRenderer draws a feature with the symbols of every rule that matches it
type RuleBasedRenderer struct {
	Rules []*Rule
}

func (r *RuleBasedRenderer) SymbolsForFeature(feature *ownmap.Feature) []*Symbol {
	var symbols []*Symbol
	var elseRules []*Rule
	for _, rule := range r.Rules {
		if rule.IsElse {
			elseRules = append(elseRules, rule)
			continue
		}

		if rule.Filter == nil || rule.Filter.Matches(feature) {
			symbols = append(symbols, rule.Symbols...)
		}
	}

	if len(symbols) != 0 {
		return symbols
	}

	for _, rule := range elseRules {
		symbols = append(symbols, rule.Symbols...)
	}

	return symbols
}
