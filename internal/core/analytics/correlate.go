package analytics

import (
	"encoding/json"
	"math"

	"github.com/soundfield/trackboard/internal/core/domain"
)

// MinPairs is the smallest number of complete observation pairs for which a
// correlation coefficient is reported. Below that the cell is undefined.
const MinPairs = 3

// Cell holds one pairwise Pearson coefficient. Undefined cells (too few
// complete pairs, or a constant series) carry Defined=false and must stay
// distinguishable from a numeric zero all the way to presentation.
type Cell struct {
	R       float64
	Defined bool
}

// MarshalJSON renders an undefined cell as null so clients can show "NA"
// instead of a zero-colored value.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(c.R)
}

// UnmarshalJSON is the inverse: null becomes an undefined cell.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*c = Cell{}
		return nil
	}
	*c = Cell{R: *v, Defined: true}
	return nil
}

// Matrix is a symmetric feature-by-feature correlation matrix.
// Cells[i][j] correlates Features[i] with Features[j].
type Matrix struct {
	Features []string `json:"features"`
	Cells    [][]Cell `json:"cells"`
}

// At returns the cell for a named feature pair.
func (m Matrix) At(a, b string) (Cell, bool) {
	ai, bi := -1, -1
	for i, f := range m.Features {
		if f == a {
			ai = i
		}
		if f == b {
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return Cell{}, false
	}
	return m.Cells[ai][bi], true
}

// Correlate computes the F×F matrix of pairwise Pearson coefficients over
// the filtered sequence. Every cell, diagonal included, is computed
// independently rather than mirrored, so symmetry holds as a property of
// the computation, not as a copy.
//
// The input must be the full filtered subset: any display sampling happens
// strictly after and independently of this computation. Truncating the
// statistical input here would silently corrupt the analysis.
func Correlate(tracks []domain.Track, features []string) Matrix {
	m := Matrix{
		Features: features,
		Cells:    make([][]Cell, len(features)),
	}
	for i := range features {
		m.Cells[i] = make([]Cell, len(features))
		for j := range features {
			m.Cells[i][j] = pearson(tracks, features[i], features[j])
		}
	}
	return m
}

// pearson computes the product-moment coefficient for one feature pair with
// pairwise deletion: a track is skipped for this pair only when either value
// is missing or non-finite, so the same track may still contribute to other
// pairs.
func pearson(tracks []domain.Track, fa, fb string) Cell {
	xs := make([]float64, 0, len(tracks))
	ys := make([]float64, 0, len(tracks))
	for _, t := range tracks {
		x, okA := t.Feature(fa)
		y, okB := t.Feature(fb)
		if !okA || !okB {
			continue
		}
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}

	n := len(xs)
	if n < MinPairs {
		return Cell{}
	}

	var meanX, meanY float64
	for i := 0; i < n; i++ {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}

	denom := math.Sqrt(sxx * syy)
	if denom == 0 {
		// At least one series is constant.
		return Cell{}
	}
	return Cell{R: sxy / denom, Defined: true}
}
