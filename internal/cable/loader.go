package cable

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/balticwatch/cablewatch/internal/geometry"
)

// Load reads a cable route file, dispatching on extension: .shp is read as a
// shapefile, everything else as GeoJSON.
func Load(path string) (*Set, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return LoadShapefile(path)
	}
	return LoadGeoJSON(path)
}

// LoadGeoJSON reads a GeoJSON FeatureCollection of cable routes. Features
// whose geometry is not a MultiLineString are counted and skipped without
// error; features missing the name or id property are a schema error.
// Z or M ordinates on coordinates are ignored.
func LoadGeoJSON(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "cable: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "cable: parse %s", path)
	}

	set := &Set{}
	for i, f := range fc.Features {
		mls, ok := f.Geometry.(*geom.MultiLineString)
		if !ok {
			set.Skipped++
			continue
		}

		name, err := propString(f.Properties, "name")
		if err != nil {
			return nil, eris.Wrapf(err, "cable: feature %d", i)
		}
		id, err := propString(f.Properties, "id")
		if err != nil {
			return nil, eris.Wrapf(err, "cable: feature %d", i)
		}

		c := Cable{ID: id, Name: name}
		for j := 0; j < mls.NumLineStrings(); j++ {
			ls := mls.LineString(j)
			line := make([]geometry.Point, 0, ls.NumCoords())
			for k := 0; k < ls.NumCoords(); k++ {
				coord := ls.Coord(k)
				line = append(line, geometry.Point{Lon: coord[0], Lat: coord[1]})
			}
			c.Lines = append(c.Lines, line)
			set.extendBounds(line)
		}
		set.Cables = append(set.Cables, c)
	}

	zap.L().Debug("cable: loaded route file",
		zap.String("path", path),
		zap.Int("cables", len(set.Cables)),
		zap.Int("skipped", set.Skipped),
	)
	return set, nil
}

// propString extracts a required string-ish property. Numeric ids are
// accepted and stringified since some route exports carry them that way.
func propString(props map[string]any, key string) (string, error) {
	v, ok := props[key]
	if !ok || v == nil {
		return "", eris.Errorf("missing property %q", key)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	default:
		return fmt.Sprint(s), nil
	}
}
