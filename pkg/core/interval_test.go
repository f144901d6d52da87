package core

import (
	"math"
	"testing"
)

func TestInterval_ContainsAndSurrounds(t *testing.T) {
	i := NewInterval(-1, 2)

	tests := []struct {
		name      string
		x         float64
		contains  bool
		surrounds bool
	}{
		{"min boundary", -1, true, false},
		{"max boundary", 2, true, false},
		{"interior", 0.5, true, true},
		{"below", -1.0001, false, false},
		{"above", 2.0001, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := i.Contains(tt.x); got != tt.contains {
				t.Errorf("Contains(%f) = %v, expected %v", tt.x, got, tt.contains)
			}
			if got := i.Surrounds(tt.x); got != tt.surrounds {
				t.Errorf("Surrounds(%f) = %v, expected %v", tt.x, got, tt.surrounds)
			}
		})
	}
}

func TestInterval_Clamp(t *testing.T) {
	i := NewInterval(0, 0.999)

	tests := []struct {
		x, expected float64
	}{
		{-5, 0},
		{0.5, 0.5},
		{1, 0.999},
		{0.999, 0.999},
	}

	for _, tt := range tests {
		if got := i.Clamp(tt.x); got != tt.expected {
			t.Errorf("Clamp(%f) = %f, expected %f", tt.x, got, tt.expected)
		}
	}
}

func TestInterval_Constants(t *testing.T) {
	samples := []float64{-1e300, -1, 0, 1, 1e300, math.Inf(1)}

	for _, x := range samples {
		if EmptyInterval.Contains(x) {
			t.Errorf("EmptyInterval should not contain %f", x)
		}
	}
	for _, x := range samples[:5] {
		if !UniverseInterval.Surrounds(x) {
			t.Errorf("UniverseInterval should surround %f", x)
		}
	}

	if !EmptyInterval.IsEmpty() {
		t.Error("EmptyInterval should be empty")
	}
	if UniverseInterval.IsEmpty() {
		t.Error("UniverseInterval should not be empty")
	}
	if !math.IsInf(UniverseInterval.Size(), 1) {
		t.Errorf("Expected infinite size, got %f", UniverseInterval.Size())
	}
}

func TestInterval_WithMaxDoesNotMutate(t *testing.T) {
	original := NewInterval(0.001, math.Inf(1))
	narrowed := original.WithMax(5)

	if narrowed.Max != 5 || narrowed.Min != 0.001 {
		t.Errorf("Unexpected narrowed interval %+v", narrowed)
	}
	if !math.IsInf(original.Max, 1) {
		t.Errorf("Original interval was modified: %+v", original)
	}
}
