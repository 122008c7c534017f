package sldstyle

import (
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-rendergeojson/styling"
)

func readFilter(element *styling.Element) (styling.Filter, errorsx.Error) {
	switch element.Name() {
	case "PropertyIsEqualTo":
		return readComparison(element)
	case "PropertyIsNotEqualTo":
		equalTo, err := readComparison(element)
		if err != nil {
			return nil, err
		}
		return &styling.NotFilter{Filter: equalTo}, nil
	case "Not":
		if len(element.Children) != 1 {
			return nil, errorsx.Errorf("expected one operand for Not, but got %d", len(element.Children))
		}
		filter, err := readFilter(element.Children[0])
		if err != nil {
			return nil, err
		}
		return &styling.NotFilter{Filter: filter}, nil
	case "And":
		filters, err := readOperands(element)
		if err != nil {
			return nil, err
		}
		return &styling.AndFilter{Filters: filters}, nil
	case "Or":
		filters, err := readOperands(element)
		if err != nil {
			return nil, err
		}
		return &styling.OrFilter{Filters: filters}, nil
	default:
		return nil, errorsx.Errorf("unsupported filter: %q", element.Name())
	}
}

func readOperands(element *styling.Element) ([]styling.Filter, errorsx.Error) {
	var filters []styling.Filter
	for _, child := range element.Children {
		filter, err := readFilter(child)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter)
	}
	return filters, nil
}

func readComparison(element *styling.Element) (*styling.PropertyIsEqualToFilter, errorsx.Error) {
	propertyName := element.Child("PropertyName")
	literal := element.Child("Literal")
	if propertyName == nil || literal == nil {
		return nil, errorsx.Errorf("%s needs a PropertyName and a Literal", element.Name())
	}

	return &styling.PropertyIsEqualToFilter{
		PropertyName: propertyName.TrimmedText(),
		Literal:      literal.TrimmedText(),
	}, nil
}
