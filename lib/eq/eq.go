/*package eq is a simple package for telling whether two arrays are equal to
one another, either exactly or to within a tolerance.*/
package eq

import (
	"math"
)

// Generic returns true if two arrays are the same type and have the same
// values and false otherwise. Only []int, []string, []uint64, and []float64
// are supported.
func Generic(x, y interface{}) bool {
	switch xx := x.(type) {
	case []int:
		yy, ok := y.([]int)
		if !ok { return false }
		return Ints(xx, yy)
	case []string:
		yy, ok := y.([]string)
		if !ok { return false }
		return Strings(xx, yy)
	case []uint64:
		yy, ok := y.([]uint64)
		if !ok { return false }
		return Uint64s(xx, yy)
	case []float64:
		yy, ok := y.([]float64)
		if !ok { return false }
		return Float64s(xx, yy)
	default:
		return false
	}
}

// Ints returns true if two []int arrays are the same and false otherwise.
func Ints(x, y []int) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Strings returns true if two []string arrays are the same and false
// otherwise.
func Strings(x, y []string) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Uint64s returns true if two []uint64 arrays are the same and false
// otherwise.
func Uint64s(x, y []uint64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Float64s returns true if two []float64 arrays are exactly the same and
// false otherwise.
func Float64s(x, y []float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Float64sEps returns true if the two []float64 arrays are within eps of one
// another and false otherwise.
func Float64sEps(x, y []float64, eps float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] + eps < y[i] || x[i] - eps > y[i] {
			return false
		}
	}
	return true
}

// Float64sRel returns true if the two []float64 arrays agree element-wise to
// within the relative tolerance tol and false otherwise. Elements smaller in
// magnitude than tol are compared absolutely, so exact zeros don't force
// exact matches.
func Float64sRel(x, y []float64, tol float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if !Float64Rel(x[i], y[i], tol) { return false }
	}
	return true
}

// Float64Rel returns true if x and y agree to within the relative tolerance
// tol, with an absolute comparison for values smaller in magnitude than tol.
func Float64Rel(x, y, tol float64) bool {
	scale := math.Max(math.Abs(x), math.Abs(y))
	if scale < tol {
		return math.Abs(x-y) <= tol
	}
	return math.Abs(x-y) <= tol*scale
}
