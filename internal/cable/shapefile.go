package cable

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/balticwatch/cablewatch/internal/geometry"
)

// LoadShapefile reads cable routes from a shapefile. PolyLine records map to
// the same model as GeoJSON MultiLineStrings (one line per part); records of
// any other shape type are counted and skipped. Route name and id come from
// the NAME and ID attribute fields.
func LoadShapefile(path string) (*Set, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "cable: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := fieldIndex(reader, "NAME")
	idIdx := fieldIndex(reader, "ID")
	if nameIdx < 0 || idIdx < 0 {
		return nil, eris.Errorf("cable: shapefile %s missing NAME or ID field", path)
	}

	set := &Set{}
	for reader.Next() {
		_, shape := reader.Shape()

		pl, ok := shape.(*shp.PolyLine)
		if !ok {
			set.Skipped++
			continue
		}

		c := Cable{
			ID:   attrValue(reader, idIdx),
			Name: attrValue(reader, nameIdx),
		}
		for _, line := range polyLineParts(pl) {
			c.Lines = append(c.Lines, line)
			set.extendBounds(line)
		}
		set.Cables = append(set.Cables, c)
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "cable: read shapefile %s", path)
	}

	zap.L().Debug("cable: loaded shapefile",
		zap.String("path", path),
		zap.Int("cables", len(set.Cables)),
		zap.Int("skipped", set.Skipped),
	)
	return set, nil
}

// polyLineParts splits a shapefile PolyLine into its parts, each an ordered
// run of points.
func polyLineParts(pl *shp.PolyLine) [][]geometry.Point {
	if pl == nil || pl.NumParts == 0 || len(pl.Points) == 0 {
		return nil
	}

	lines := make([][]geometry.Point, 0, pl.NumParts)
	for i := int32(0); i < pl.NumParts; i++ {
		start := pl.Parts[i]
		end := int32(len(pl.Points))
		if i+1 < pl.NumParts {
			end = pl.Parts[i+1]
		}

		line := make([]geometry.Point, 0, end-start)
		for j := start; j < end; j++ {
			line = append(line, geometry.Point{Lon: pl.Points[j].X, Lat: pl.Points[j].Y})
		}
		lines = append(lines, line)
	}
	return lines
}

// attrValue reads one DBF attribute of the current record. DBF fields are
// NUL-padded to their declared width, so the padding is stripped before the
// usual whitespace trim.
func attrValue(reader *shp.Reader, idx int) string {
	val := strings.TrimRight(reader.Attribute(idx), "\x00")
	return strings.TrimSpace(val)
}

// fieldIndex returns the index of a named attribute field, or -1.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}
