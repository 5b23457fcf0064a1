package codec

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/hugr-lab/groonga-go/attr"
	"github.com/hugr-lab/groonga-go/catalog"
)

// GeometryExtensionName identifies WKB encoded geometry columns.
const GeometryExtensionName = "geoarrow.wkb"

// GeometryExtensionType is the Arrow extension type for geo point columns.
// Points are stored as WKB in Binary columns.
type GeometryExtensionType struct {
	arrow.ExtensionBase
}

// NewGeometryExtensionType creates a new geometry extension type.
func NewGeometryExtensionType() *GeometryExtensionType {
	return &GeometryExtensionType{
		ExtensionBase: arrow.ExtensionBase{
			Storage: arrow.BinaryTypes.Binary,
		},
	}
}

// GeometryArray holds WKB encoded points.
type GeometryArray struct {
	array.ExtensionArrayBase
}

// ArrayType returns the Go type for geometry arrays.
func (g *GeometryExtensionType) ArrayType() reflect.Type {
	return reflect.TypeOf(GeometryArray{})
}

// ExtensionName returns the extension type identifier.
func (g *GeometryExtensionType) ExtensionName() string {
	return GeometryExtensionName
}

func (g *GeometryExtensionType) String() string {
	return "extension<" + GeometryExtensionName + ">"
}

// Serialize returns the extension metadata (empty for WKB).
func (g *GeometryExtensionType) Serialize() string {
	return ""
}

// Deserialize creates the type from storage and metadata.
func (g *GeometryExtensionType) Deserialize(storageType arrow.DataType, data string) (arrow.ExtensionType, error) {
	if !arrow.TypeEqual(storageType, arrow.BinaryTypes.Binary) {
		return nil, fmt.Errorf("invalid storage type for %s: %s", GeometryExtensionName, storageType)
	}
	return NewGeometryExtensionType(), nil
}

// ExtensionEquals checks equality with another extension type.
func (g *GeometryExtensionType) ExtensionEquals(other arrow.ExtensionType) bool {
	return other.ExtensionName() == g.ExtensionName()
}

// NewGeoPointField creates a geometry field carrying the datum as
// GROONGA:type and the EPSG code as srid.
func NewGeoPointField(name string, datum attr.DataType, nullable bool) arrow.Field {
	srid := catalog.SRIDWGS84
	if datum == attr.TokyoGeoPoint {
		srid = catalog.SRIDTokyo
	}
	return arrow.Field{
		Name:     name,
		Type:     NewGeometryExtensionType(),
		Nullable: nullable,
		Metadata: arrow.MetadataFrom(map[string]string{
			MetaType: string(datum),
			"srid":   strconv.Itoa(srid),
		}),
	}
}

func isGeometry(dt arrow.DataType) bool {
	ext, ok := dt.(arrow.ExtensionType)
	return ok && ext.ExtensionName() == GeometryExtensionName
}

func geoDatum(f arrow.Field) attr.DataType {
	if idx := f.Metadata.FindKey(MetaType); idx >= 0 {
		if dt, ok := attr.ParseDataType(f.Metadata.Values()[idx]); ok && dt.IsGeo() {
			return dt
		}
	}
	if idx := f.Metadata.FindKey("srid"); idx >= 0 && f.Metadata.Values()[idx] == strconv.Itoa(catalog.SRIDTokyo) {
		return attr.TokyoGeoPoint
	}
	return attr.WGS84GeoPoint
}

func init() {
	_ = arrow.RegisterExtensionType(NewGeometryExtensionType())
}
