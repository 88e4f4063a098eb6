package utils

import "errors"

const (
	// NODETOL is the relative size below which a face or edge length is treated as zero
	NODETOL = 1.e-12
)

var (
	// ErrDimensionMismatch is returned when operand shapes do not agree
	ErrDimensionMismatch = errors.New("utils: dimension mismatch")

	// ErrNotPositiveDefinite is returned when a solver meets a matrix that is not SPD
	ErrNotPositiveDefinite = errors.New("utils: matrix is not symmetric positive definite")

	// ErrNoConvergence is returned when an iterative solve exhausts its iteration budget
	ErrNoConvergence = errors.New("utils: iterative solve did not converge")
)
