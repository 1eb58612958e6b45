package forecast

import (
	"fmt"
	"math"
)

// bias + six calendar/price features
const featureDim = 7

type vec [featureDim]float64
type mat [featureDim][featureDim]float64

// y = A * x
func matVecMul(A mat, x vec) vec {
	var y vec
	for i := range featureDim {
		sum := 0.0
		for j := range featureDim {
			sum += A[i][j] * x[j]
		}
		y[i] = sum
	}
	return y
}

func dot(a, b vec) float64 {
	sum := 0.0
	for i := range featureDim {
		sum += a[i] * b[i]
	}
	return sum
}

// A := A + x x^T
func addOuter(A *mat, x vec) {
	for i := range featureDim {
		for j := range featureDim {
			(*A)[i][j] += x[i] * x[j]
		}
	}
}

// b := b + r x
func addScaled(b *vec, x vec, r float64) {
	for i := range featureDim {
		(*b)[i] += r * x[i]
	}
}

// invert uses Gauss-Jordan elimination with partial pivoting.
func invert(A mat) (mat, error) {
	var aug [featureDim][2 * featureDim]float64

	for i := range featureDim {
		for j := range featureDim {
			aug[i][j] = A[i][j]
		}
		aug[i][featureDim+i] = 1.0
	}

	for col := range featureDim {
		// largest remaining pivot
		p := col
		for r := col + 1; r < featureDim; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[p][col]) {
				p = r
			}
		}
		if math.Abs(aug[p][col]) < 1e-12 {
			return mat{}, fmt.Errorf("matrix is singular")
		}
		aug[col], aug[p] = aug[p], aug[col]

		pivot := aug[col][col]
		for j := range 2 * featureDim {
			aug[col][j] /= pivot
		}

		for i := range featureDim {
			if i == col {
				continue
			}
			factor := aug[i][col]
			if factor == 0 {
				continue
			}
			for j := range 2 * featureDim {
				aug[i][j] -= factor * aug[col][j]
			}
		}
	}

	var inv mat
	for i := range featureDim {
		for j := range featureDim {
			inv[i][j] = aug[i][featureDim+j]
		}
	}
	return inv, nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}

// safeDiv returns 0 instead of dividing by zero.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
