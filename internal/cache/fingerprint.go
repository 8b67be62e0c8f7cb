// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/place-finder/pkg/types"
)

// defaultGridPrecision rounds query coordinates to 4 decimal places, about
// an 11 m grid, so near-identical queries share a cache entry.
const defaultGridPrecision = 4

// Fingerprint derives the stable cache key for a query: text lowercased and
// whitespace-collapsed, coordinates rounded to the grid precision, radius
// truncated to whole meters, filters canonicalized by sorted key order.
func Fingerprint(q types.Query, gridPrecision int) string {
	if gridPrecision <= 0 {
		gridPrecision = defaultGridPrecision
	}

	text := strings.Join(strings.Fields(strings.ToLower(q.Text)), " ")
	canonical := fmt.Sprintf("%s|%s|%s|%d|%s",
		text,
		roundCoord(q.Lat, gridPrecision),
		roundCoord(q.Lng, gridPrecision),
		int(q.RadiusMeters),
		q.Filters.Canonical(),
	)

	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

func roundCoord(v float64, precision int) string {
	scale := math.Pow10(precision)
	return fmt.Sprintf("%.*f", precision, math.Round(v*scale)/scale)
}
