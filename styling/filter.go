package styling

import (
	"github.com/jamesrr39/ownmap-rendergeojson/ownmap"
)

type Filter interface {
	Matches(feature *ownmap.Feature) bool
}

type PropertyIsEqualToFilter struct {
	PropertyName string
	Literal      string
}

func (f *PropertyIsEqualToFilter) Matches(feature *ownmap.Feature) bool {
	value, ok := feature.PropertyString(f.PropertyName)
	return ok && value == f.Literal
}

type NotFilter struct {
	Filter Filter
}

func (f *NotFilter) Matches(feature *ownmap.Feature) bool {
	return !f.Filter.Matches(feature)
}

type AndFilter struct {
	Filters []Filter
}

func (f *AndFilter) Matches(feature *ownmap.Feature) bool {
	for _, subFilter := range f.Filters {
		if !subFilter.Matches(feature) {
			return false
		}
	}
	return true
}

type OrFilter struct {
	Filters []Filter
}

func (f *OrFilter) Matches(feature *ownmap.Feature) bool {
	for _, subFilter := range f.Filters {
		if subFilter.Matches(feature) {
			return true
		}
	}
	return false
}
