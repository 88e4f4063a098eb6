//go:build cgo && netlib

package utils

/*
#cgo LDFLAGS: -lopenblas -lgfortran -lm -lpthread
#include <cblas.h>
*/
import "C"

import (
	"gonum.org/v1/gonum/blas/blas64"
	netblas "gonum.org/v1/netlib/blas/netlib"
)

// Routes the dense Cholesky path through OpenBLAS, build with -tags netlib
func init() {
	blas64.Use(netblas.Implementation{})
	Logger().Info("using netlib to accelerate BLAS")
}
