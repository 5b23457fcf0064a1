package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"

	"github.com/hugr-lab/groonga-go/attr"
	"github.com/hugr-lab/groonga-go/expr"
)

// EPSG codes of the two geodetic datums Groonga stores.
const (
	SRIDWGS84 = 4326
	SRIDTokyo = 4301
)

// GeoPoint is a value of a TokyoGeoPoint or WGS84GeoPoint column.
// Coordinates are degrees; orb keeps them as [lng, lat].
type GeoPoint struct {
	orb.Point
	Datum attr.DataType
}

// NewGeoPoint creates a point from latitude and longitude in degrees.
func NewGeoPoint(lat, lng float64, datum attr.DataType) GeoPoint {
	return GeoPoint{Point: orb.Point{lng, lat}, Datum: datum}
}

// ParseGeoPoint parses the textual forms returned by the server:
// "<lat>x<lng>" or "<lat>,<lng>" in degrees or milliseconds.
func ParseGeoPoint(s string, datum attr.DataType) (GeoPoint, error) {
	if !datum.IsGeo() {
		return GeoPoint{}, fmt.Errorf("%s is not a geo point type", datum)
	}
	p, err := expr.ParseGeoPoint(strings.Trim(s, `"`))
	if err != nil {
		return GeoPoint{}, err
	}
	return GeoPoint{Point: p, Datum: datum}, nil
}

// String renders "<lat>x<lng>" in degrees, the form accepted by load and
// by filter expressions.
func (p GeoPoint) String() string {
	return expr.FormatGeoPoint(p.Point)
}

// Milliseconds returns the integer form the server stores.
func (p GeoPoint) Milliseconds() (lat, lng int64) {
	return int64(math.Round(p.Lat() * 3600000)), int64(math.Round(p.Lon() * 3600000))
}

// SRID returns the EPSG code of the datum.
func (p GeoPoint) SRID() int {
	if p.Datum == attr.TokyoGeoPoint {
		return SRIDTokyo
	}
	return SRIDWGS84
}

// Expr lets a point stand as a filter literal.
func (p GeoPoint) Expr() *expr.Node { return expr.Value(p.Point) }

// MarshalJSON encodes the point as its load string.
func (p GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts the string form. The datum is kept as is,
// WGS84GeoPoint when unset.
func (p *GeoPoint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("geo point must be a string: %w", err)
	}
	datum := p.Datum
	if datum == "" {
		datum = attr.WGS84GeoPoint
	}
	parsed, err := ParseGeoPoint(s, datum)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// EncodeWKB converts the point to WKB bytes.
func (p GeoPoint) EncodeWKB() ([]byte, error) {
	return wkb.Marshal(p.Point)
}

// DecodeWKB reads a WKB point.
func DecodeWKB(data []byte, datum attr.DataType) (GeoPoint, error) {
	if len(data) == 0 {
		return GeoPoint{}, fmt.Errorf("cannot decode empty WKB data")
	}
	geom, err := wkb.Unmarshal(data)
	if err != nil {
		return GeoPoint{}, err
	}
	pt, ok := geom.(orb.Point)
	if !ok {
		return GeoPoint{}, fmt.Errorf("WKB geometry is %s, not a point", geom.GeoJSONType())
	}
	return GeoPoint{Point: pt, Datum: datum}, nil
}
