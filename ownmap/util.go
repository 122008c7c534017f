package ownmap

import (
	"github.com/paulmach/orb"
)

// Overlaps checks whether an item is at least partially inside a container
func Overlaps(container orb.Bound, item orb.Bound) bool {
	if container.Min.Y() > item.Max.Y() {
		// container is wholly above item
		return false
	}

	if container.Max.Y() < item.Min.Y() {
		// container is wholly below item
		return false
	}

	if container.Min.X() > item.Max.X() {
		// container is wholly to the right of item
		return false
	}

	if container.Max.X() < item.Min.X() {
		// container is wholly to the left of item
		return false
	}

	return true
}

// IsInBounds tests if a point is inside a container. Points on the edge count as inside.
func IsInBounds(bounds orb.Bound, point orb.Point) bool {
	isInYBounds := point.Y() <= bounds.Max.Y() && point.Y() >= bounds.Min.Y()
	if !isInYBounds {
		return false
	}

	return point.X() <= bounds.Max.X() && point.X() >= bounds.Min.X()
}

// NewBound creates a bound from two opposite corners, usually given in `min_x,min_y,max_x,max_y` order.
// Swapped corners make the same bound.
func NewBound(x1, y1, x2, y2 float64) orb.Bound {
	return orb.MultiPoint{{x1, y1}, {x2, y2}}.Bound()
}
