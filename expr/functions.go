package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// FormatGeoPoint renders p as "<lat>x<lng>" in degrees. orb stores points
// as [lng, lat].
func FormatGeoPoint(p orb.Point) string {
	return strconv.FormatFloat(p.Lat(), 'f', -1, 64) + "x" + strconv.FormatFloat(p.Lon(), 'f', -1, 64)
}

// ParseGeoPoint parses "<lat>x<lng>" or "<lat>,<lng>". Values in degrees
// and in milliseconds (the server's integer form) are both accepted;
// anything with an absolute value above 180 is treated as milliseconds.
func ParseGeoPoint(s string) (orb.Point, error) {
	sep := "x"
	if !strings.Contains(s, sep) {
		sep = ","
	}
	latStr, lngStr, ok := strings.Cut(s, sep)
	if !ok {
		return orb.Point{}, fmt.Errorf("invalid geo point %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid geo point latitude %q: %w", latStr, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid geo point longitude %q: %w", lngStr, err)
	}
	if lat > 180 || lat < -180 || lng > 180 || lng < -180 {
		lat /= 3600000
		lng /= 3600000
	}
	return orb.Point{lng, lat}, nil
}

// GeoInCircle matches points of column within radius meters of center.
func GeoInCircle(column Expression, center orb.Point, radius int) *Node {
	return Call("geo_in_circle", column, center, radius)
}

// GeoInRectangle matches points of column inside the rectangle.
func GeoInRectangle(column Expression, topLeft, bottomRight orb.Point) *Node {
	return Call("geo_in_rectangle", column, topLeft, bottomRight)
}

// GeoDistance computes the distance between column and p, usable in
// --sortby through an output column or in filter comparisons.
func GeoDistance(column Expression, p orb.Point) *Node {
	return Call("geo_distance", column, p)
}

// Between matches min <= column <= max, both bounds included.
func Between(column Expression, min, max any) *Node {
	return Call("between", column, min, "include", max, "include")
}

// InValues matches column against any of values.
func InValues(column Expression, values ...any) *Node {
	args := make([]any, 0, len(values)+1)
	args = append(args, column)
	args = append(args, values...)
	return Call("in_values", args...)
}

// AllRecords matches every record.
func AllRecords() *Node {
	return Call("all_records")
}
