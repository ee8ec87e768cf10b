package cable

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRouteFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cables.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const testRoutes = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"name": "Baltica North", "id": "cbl-001"},
			"geometry": {
				"type": "MultiLineString",
				"coordinates": [
					[[11.9, 54.2], [12.0, 54.4]],
					[[12.0, 54.4], [12.1, 54.5], [12.2, 54.5]]
				]
			}
		},
		{
			"type": "Feature",
			"properties": {"name": "Landing Station", "id": "sta-001"},
			"geometry": {"type": "Point", "coordinates": [12.0, 54.3]}
		},
		{
			"type": "Feature",
			"properties": {"name": "Elevation Route", "id": 42},
			"geometry": {
				"type": "MultiLineString",
				"coordinates": [[[11.5, 54.0, -120.5], [11.6, 54.1, -130.0]]]
			}
		}
	]
}`

func TestLoadGeoJSON(t *testing.T) {
	set, err := LoadGeoJSON(writeRouteFile(t, testRoutes))
	require.NoError(t, err)

	require.Len(t, set.Cables, 2)
	assert.Equal(t, 1, set.Skipped)

	first := set.Cables[0]
	assert.Equal(t, "cbl-001", first.ID)
	assert.Equal(t, "Baltica North", first.Name)
	require.Len(t, first.Lines, 2)
	assert.Len(t, first.Lines[0], 2)
	assert.Len(t, first.Lines[1], 3)
	assert.Equal(t, 11.9, first.Lines[0][0].Lon)
	assert.Equal(t, 54.2, first.Lines[0][0].Lat)
	assert.Equal(t, 3, first.SegmentCount())

	// Numeric id is stringified, elevation ordinate dropped.
	second := set.Cables[1]
	assert.Equal(t, "42", second.ID)
	require.Len(t, second.Lines, 1)
	assert.Equal(t, 54.1, second.Lines[0][1].Lat)

	assert.Equal(t, 4, set.SegmentCount())

	require.NotNil(t, set.Bounds)
	assert.Equal(t, 11.5, set.Bounds.Min(0))
	assert.Equal(t, 54.0, set.Bounds.Min(1))
	assert.Equal(t, 12.2, set.Bounds.Max(0))
	assert.Equal(t, 54.5, set.Bounds.Max(1))
}

func TestLoadGeoJSON_MissingFile(t *testing.T) {
	_, err := LoadGeoJSON(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadGeoJSON_MalformedJSON(t *testing.T) {
	_, err := LoadGeoJSON(writeRouteFile(t, `{"features": [`))
	require.Error(t, err)
}

func TestLoadGeoJSON_MissingName(t *testing.T) {
	_, err := LoadGeoJSON(writeRouteFile(t, `{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {"id": "cbl-002"},
			"geometry": {"type": "MultiLineString", "coordinates": [[[0, 0], [1, 1]]]}
		}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

var routeFields = []shp.Field{
	shp.StringField("NAME", 40),
	shp.StringField("ID", 20),
}

// finishShapefile closes the writer and renames the attribute file: go-shp's
// writer emits it as <base>dbf while its reader opens <base>.dbf.
func finishShapefile(t *testing.T, w *shp.Writer, path string) {
	t.Helper()
	w.Close()
	base := strings.TrimSuffix(path, ".shp")
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
}

func writeRouteShapefile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.shp")

	w, err := shp.Create(path, shp.POLYLINE)
	require.NoError(t, err)
	require.NoError(t, w.SetFields(routeFields))

	row := w.Write(shp.NewPolyLine([][]shp.Point{
		{{X: 11.9, Y: 54.2}, {X: 12.0, Y: 54.4}},
		{{X: 12.0, Y: 54.4}, {X: 12.1, Y: 54.5}, {X: 12.2, Y: 54.5}},
	}))
	require.NoError(t, w.WriteAttribute(int(row), 0, "Baltica North"))
	require.NoError(t, w.WriteAttribute(int(row), 1, "cbl-001"))

	finishShapefile(t, w, path)
	return path
}

func TestLoadShapefile(t *testing.T) {
	set, err := LoadShapefile(writeRouteShapefile(t))
	require.NoError(t, err)

	require.Len(t, set.Cables, 1)
	assert.Zero(t, set.Skipped)

	c := set.Cables[0]
	// DBF attributes are NUL-padded to their field width; the loader must
	// strip the padding or ids and names carry trailing NUL bytes.
	assert.Equal(t, "cbl-001", c.ID)
	assert.Equal(t, "Baltica North", c.Name)

	require.Len(t, c.Lines, 2)
	assert.Len(t, c.Lines[0], 2)
	assert.Len(t, c.Lines[1], 3)
	assert.Equal(t, 11.9, c.Lines[0][0].Lon)
	assert.Equal(t, 54.2, c.Lines[0][0].Lat)
	assert.Equal(t, 3, c.SegmentCount())

	require.NotNil(t, set.Bounds)
	assert.Equal(t, 11.9, set.Bounds.Min(0))
	assert.Equal(t, 54.2, set.Bounds.Min(1))
	assert.Equal(t, 12.2, set.Bounds.Max(0))
	assert.Equal(t, 54.5, set.Bounds.Max(1))
}

func TestLoadShapefile_SkipsNonPolyLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.shp")

	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)
	require.NoError(t, w.SetFields(routeFields))
	w.Write(&shp.Point{X: 12.0, Y: 54.3})
	finishShapefile(t, w, path)

	set, err := LoadShapefile(path)
	require.NoError(t, err)
	assert.Empty(t, set.Cables)
	assert.Equal(t, 1, set.Skipped)
}

func TestLoadShapefile_MissingFields(t *testing.T) {
	// No SetFields call means no attribute file, so NAME and ID cannot be
	// resolved.
	path := filepath.Join(t.TempDir(), "bare.shp")

	w, err := shp.Create(path, shp.POLYLINE)
	require.NoError(t, err)
	w.Write(shp.NewPolyLine([][]shp.Point{{{X: 0, Y: 0}, {X: 1, Y: 1}}}))
	w.Close()

	_, err = LoadShapefile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing NAME or ID")
}

func TestLoad_DispatchesOnExtension(t *testing.T) {
	// Non-.shp paths go through the GeoJSON loader.
	set, err := Load(writeRouteFile(t, testRoutes))
	require.NoError(t, err)
	assert.Len(t, set.Cables, 2)

	// A .shp path that does not exist surfaces the shapefile open error.
	_, err = Load(filepath.Join(t.TempDir(), "routes.shp"))
	require.Error(t, err)
}
