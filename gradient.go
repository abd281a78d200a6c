/*
Copyright © 2025 the tropwave authors.
This file is part of tropwave.

tropwave is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

tropwave is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with tropwave.  If not, see <http://www.gnu.org/licenses/>.
*/

package tropwave

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// strides returns the number of elements to skip to advance one
// position along each axis of a row-major array with the given shape.
func strides(shape []int) []int {
	s := make([]int, len(shape))
	n := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = n
		n *= shape[i]
	}
	return s
}

// gradient returns the derivative of a along axis. Interior points use
// second-order central differences and the first and last points use
// first-order one-sided differences. If coords is nil the points are
// assumed to be one unit apart, otherwise coords holds the (possibly
// unevenly spaced) coordinate of each point along axis.
func gradient(a *sparse.DenseArray, axis int, coords []float64) (*sparse.DenseArray, error) {
	if axis < 0 || axis >= len(a.Shape) {
		return nil, fmt.Errorf("tropwave: gradient axis %d for %d-dimensional array: %w",
			axis, len(a.Shape), ErrShapeMismatch)
	}
	n := a.Shape[axis]
	if n < 2 {
		return nil, fmt.Errorf("tropwave: gradient along axis %d with length %d: %w",
			axis, n, ErrDegenerateAxis)
	}
	if coords != nil && len(coords) != n {
		return nil, fmt.Errorf("tropwave: gradient along axis %d: %d coordinates for %d points: %w",
			axis, len(coords), n, ErrShapeMismatch)
	}
	out := sparse.ZerosDense(a.Shape...)
	stride := strides(a.Shape)[axis]
	outer := len(a.Elements) / (n * stride)
	uniform := coords == nil || isUniform(coords)
	for o := 0; o < outer; o++ {
		for in := 0; in < stride; in++ {
			base := o*n*stride + in
			if uniform {
				h := 1.
				if coords != nil {
					h = coords[1] - coords[0]
				}
				uniformLine(out.Elements, a.Elements, base, stride, n, h)
			} else {
				nonUniformLine(out.Elements, a.Elements, base, stride, n, coords)
			}
		}
	}
	return out, nil
}

// isUniform reports whether all spacings in x are exactly equal.
func isUniform(x []float64) bool {
	h := x[1] - x[0]
	for i := 2; i < len(x); i++ {
		if x[i]-x[i-1] != h {
			return false
		}
	}
	return true
}

func uniformLine(dst, src []float64, base, stride, n int, h float64) {
	at := func(i int) int { return base + i*stride }
	dst[at(0)] = (src[at(1)] - src[at(0)]) / h
	dst[at(n-1)] = (src[at(n-1)] - src[at(n-2)]) / h
	for i := 1; i < n-1; i++ {
		dst[at(i)] = (src[at(i+1)] - src[at(i-1)]) / (2 * h)
	}
}

func nonUniformLine(dst, src []float64, base, stride, n int, x []float64) {
	at := func(i int) int { return base + i*stride }
	dst[at(0)] = (src[at(1)] - src[at(0)]) / (x[1] - x[0])
	dst[at(n-1)] = (src[at(n-1)] - src[at(n-2)]) / (x[n-1] - x[n-2])
	for i := 1; i < n-1; i++ {
		h1 := x[i] - x[i-1]
		h2 := x[i+1] - x[i]
		a := -h2 / (h1 * (h1 + h2))
		b := (h2 - h1) / (h1 * h2)
		c := h1 / (h2 * (h1 + h2))
		dst[at(i)] = a*src[at(i-1)] + b*src[at(i)] + c*src[at(i+1)]
	}
}

// sameShape returns an error if any of the arrays differs in shape from
// the first one.
func sameShape(names []string, arrays ...*sparse.DenseArray) error {
	for i := 1; i < len(arrays); i++ {
		if len(arrays[i].Shape) != len(arrays[0].Shape) {
			return fmt.Errorf("tropwave: %s has shape %v but %s has shape %v: %w",
				names[i], arrays[i].Shape, names[0], arrays[0].Shape, ErrShapeMismatch)
		}
		for j, n := range arrays[i].Shape {
			if n != arrays[0].Shape[j] {
				return fmt.Errorf("tropwave: %s has shape %v but %s has shape %v: %w",
					names[i], arrays[i].Shape, names[0], arrays[0].Shape, ErrShapeMismatch)
			}
		}
	}
	return nil
}
