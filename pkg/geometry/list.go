package geometry

import (
	"github.com/df07/go-rayjay/pkg/core"
	"github.com/df07/go-rayjay/pkg/material"
)

// ShapeList is an ordered collection of shapes tested by linear scan
type ShapeList struct {
	shapes []Shape
}

// NewShapeList creates a list holding the given shapes
func NewShapeList(shapes ...Shape) *ShapeList {
	list := &ShapeList{}
	for _, s := range shapes {
		list.Add(s)
	}
	return list
}

// Add appends a shape
func (l *ShapeList) Add(shape Shape) {
	l.shapes = append(l.shapes, shape)
}

// Clear removes every shape
func (l *ShapeList) Clear() {
	l.shapes = nil
}

// Len returns the number of shapes
func (l *ShapeList) Len() int {
	return len(l.shapes)
}

// Shapes returns the shapes in insertion order
func (l *ShapeList) Shapes() []Shape {
	return l.shapes
}

// Hit returns the closest intersection across all shapes within interval
func (l *ShapeList) Hit(ray core.Ray, interval core.Interval) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	search := interval

	for _, shape := range l.shapes {
		if hit, ok := shape.Hit(ray, search); ok {
			closest = hit
			search = search.WithMax(hit.T)
		}
	}

	return closest, closest != nil
}
