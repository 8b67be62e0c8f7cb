// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe identifies listings from different providers that refer to
// the same real-world business and merges them into one record with
// per-field provenance. Two records match only when they are both within a
// distance threshold and above a name-similarity threshold: distance alone
// merges co-located neighbors, name alone merges chain locations.
// See docs/ARCHITECTURE.md § Deduplication.
package dedupe

import (
	"math"
	"strings"
	"unicode"

	"github.com/pdiddy/place-finder/pkg/types"
)

// Merger holds the duplicate predicate thresholds and the set of providers
// whose field values win disagreements.
type Merger struct {
	cfg           types.DedupConfig
	authoritative map[string]bool
}

// NewMerger builds a merger. authoritative lists provider names configured
// as preferred sources; it may be nil.
func NewMerger(cfg types.DedupConfig, authoritative map[string]bool) *Merger {
	return &Merger{cfg: cfg.WithDefaults(), authoritative: authoritative}
}

// Merge groups duplicate businesses into connected components of the
// duplicate predicate and composes each component into a single record.
// Which records merge together is a property of the input set alone:
// reordering the input changes at most output order and tie-break choices,
// never component membership. Output order is first-discovered order. The
// second return value is the number of records folded into another.
func (m *Merger) Merge(in []types.Business) ([]types.Business, int) {
	if len(in) == 0 {
		return nil, 0
	}

	uf := newUnionFind(len(in))
	if len(in) > m.cfg.BucketThreshold {
		m.linkGrid(in, uf)
	} else {
		m.linkNaive(in, uf)
	}

	clusters := group(in, uf)
	out := make([]types.Business, len(clusters))
	removed := 0
	for i, cluster := range clusters {
		out[i] = m.compose(cluster)
		removed += len(cluster) - 1
	}
	return out, removed
}

// linkNaive unions every record pair matching the duplicate predicate.
func (m *Merger) linkNaive(in []types.Business, uf unionFind) {
	for i := range in {
		for j := i + 1; j < len(in); j++ {
			if m.isDuplicate(in[i], in[j]) {
				uf.union(i, j)
			}
		}
	}
}

// linkGrid is the same pairwise linking restricted to records in the 3x3
// grid neighborhood. Cells are at least as tall and wide as the distance
// threshold, so every pair within the threshold shares a neighborhood and
// the components are identical to linkNaive for any input.
func (m *Merger) linkGrid(in []types.Business, uf unionFind) {
	cells := map[cellKey][]int{}
	for i, b := range in {
		row := m.rowOf(b.Coordinates.Lat)
		for _, j := range m.neighbors(cells, row, b.Coordinates.Lng) {
			if m.isDuplicate(in[j], b) {
				uf.union(j, i)
			}
		}
		key := cellKey{row: row, col: m.colOf(b.Coordinates.Lng, row)}
		cells[key] = append(cells[key], i)
	}
}

// group splits records into their components: components in order of first
// member, members in input order.
func group(in []types.Business, uf unionFind) [][]types.Business {
	position := map[int]int{}
	var clusters [][]types.Business
	for i := range in {
		root := uf.find(i)
		pos, ok := position[root]
		if !ok {
			pos = len(clusters)
			position[root] = pos
			clusters = append(clusters, nil)
		}
		clusters[pos] = append(clusters[pos], in[i])
	}
	return clusters
}

// isDuplicate is the duplicate predicate: great-circle distance within the
// threshold AND normalized-name token-set Jaccard similarity above the
// threshold. Both conditions are required.
func (m *Merger) isDuplicate(a, b types.Business) bool {
	if HaversineMeters(a.Coordinates, b.Coordinates) > m.cfg.MaxDistanceMeters {
		return false
	}
	return jaccard(nameTokens(a.Name), nameTokens(b.Name)) >= m.cfg.NameSimilarity
}

// nameTokens returns the case-folded, punctuation-stripped token set of a
// business name.
func nameTokens(name string) map[string]struct{} {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}
	tokens := map[string]struct{}{}
	for _, tok := range strings.Fields(sb.String()) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

// jaccard computes |a∩b| / |a∪b| over token sets. Two empty sets count as
// dissimilar, not identical.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// earthRadiusMeters is the mean Earth radius.
const earthRadiusMeters = 6371000

// HaversineMeters returns the great-circle distance between two points.
func HaversineMeters(a, b types.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// unionFind tracks duplicate components by record index. find uses path
// halving; roots are only ever read back through find, so no rank
// bookkeeping is needed.
type unionFind []int

func newUnionFind(n int) unionFind {
	uf := make(unionFind, n)
	for i := range uf {
		uf[i] = i
	}
	return uf
}

func (u unionFind) find(i int) int {
	for u[i] != i {
		u[i] = u[u[i]]
		i = u[i]
	}
	return i
}

func (u unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u[rb] = ra
	}
}

// cellKey identifies one spatial grid cell.
type cellKey struct{ row, col int }

// metersPerDegreeLat is the approximate north-south span of one degree.
const metersPerDegreeLat = 111320

// rowOf maps a latitude to its grid row. Row height equals the distance
// threshold, so records within the threshold are at most one row apart.
func (m *Merger) rowOf(lat float64) int {
	return int(math.Floor(lat * metersPerDegreeLat / m.cfg.MaxDistanceMeters))
}

// colWidthDeg returns the angular width of one grid column in the given
// row. Every point in a row shares this one scale; deriving the scale from
// each point's own latitude would shear columns between nearby points at
// high longitudes. The width is measured at the poleward edge of the row's
// one-row neighborhood, so any record within one row of this one sees
// columns at least as wide as the distance threshold.
func (m *Merger) colWidthDeg(row int) float64 {
	cellLatDeg := m.cfg.MaxDistanceMeters / metersPerDegreeLat
	edgeLat := (math.Abs(float64(row)) + 2) * cellLatDeg
	if edgeLat > 90 {
		edgeLat = 90
	}
	metersPerDegreeLng := metersPerDegreeLat * math.Cos(edgeLat*math.Pi/180)
	if metersPerDegreeLng < 1 {
		// Near the poles every longitude collapses into one column.
		return 0
	}
	return m.cfg.MaxDistanceMeters / metersPerDegreeLng
}

// colOf maps a longitude to its grid column in the given row.
func (m *Merger) colOf(lng float64, row int) int {
	w := m.colWidthDeg(row)
	if w == 0 {
		return 0
	}
	return int(math.Floor(lng / w))
}

// neighbors collects indices of previously placed records in the 3x3 cell
// neighborhood of the given position. Columns are recomputed per row
// because each row has its own column scale. Longitudes shifted by ±360°
// are scanned too when they land near the coordinate range, so pairs
// straddling the antimeridian stay neighbors, matching HaversineMeters.
func (m *Merger) neighbors(cells map[cellKey][]int, row int, lng float64) []int {
	var out []int
	for dr := -1; dr <= 1; dr++ {
		r := row + dr
		w := m.colWidthDeg(r)
		cols := []int{m.colOf(lng, r)}
		if w > 0 {
			for _, wrapped := range []float64{lng + 360, lng - 360} {
				if math.Abs(wrapped) <= 180+2*w {
					cols = append(cols, m.colOf(wrapped, r))
				}
			}
		}
		for _, c := range cols {
			for dc := -1; dc <= 1; dc++ {
				out = append(out, cells[cellKey{row: r, col: c + dc}]...)
			}
		}
	}
	return out
}
