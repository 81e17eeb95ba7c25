package core

import (
	"golang.org/x/exp/constraints"
)

// Series is an ordered column of values extracted from a table
type Series[T constraints.Integer | constraints.Float] []T

// Values returns the underlying slice of values
func (s Series[T]) Values() []T {
	return s
}

// Min returns the smallest value, or zero for an empty series
func (s Series[T]) Min() T {
	var m T
	for i, v := range s {
		if i == 0 || v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest value, or zero for an empty series
func (s Series[T]) Max() T {
	var m T
	for i, v := range s {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}
