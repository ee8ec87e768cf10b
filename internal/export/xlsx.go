// Package export writes analysis results to spreadsheet workbooks for the
// reporting handoff.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/balticwatch/cablewatch/internal/analysis"
	"github.com/balticwatch/cablewatch/internal/trajectory"
)

// WriteXLSX writes the deduplicated result to an XLSX workbook with one sheet
// of crossings and one of nearby cables. Distances are written both in
// degrees and display kilometers.
func WriteXLSX(path string, traj trajectory.Trajectory, res analysis.Result) error {
	f := xlsx.NewFile()

	crossings, err := f.AddSheet("Crossings")
	if err != nil {
		return eris.Wrap(err, "export: add crossings sheet")
	}
	header := crossings.AddRow()
	for _, h := range []string{"Cable", "Cable ID", "Cable Segment Index", "Trajectory Segment"} {
		header.AddCell().Value = h
	}
	for _, c := range res.Intersections {
		row := crossings.AddRow()
		row.AddCell().Value = c.CableName
		row.AddCell().Value = c.CableID
		row.AddCell().SetInt(c.SegmentIndex)
		row.AddCell().SetInt(c.TrajectorySegment)
	}

	nearby, err := f.AddSheet("Nearby")
	if err != nil {
		return eris.Wrap(err, "export: add nearby sheet")
	}
	header = nearby.AddRow()
	for _, h := range []string{"Cable", "Cable ID", "Min Distance (deg)", "Min Distance (km)", "Closest Lon", "Closest Lat"} {
		header.AddCell().Value = h
	}
	for _, p := range res.NearbyCables {
		row := nearby.AddRow()
		row.AddCell().Value = p.CableName
		row.AddCell().Value = p.CableID
		row.AddCell().SetFloat(p.MinDistance)
		row.AddCell().SetFloat(p.MinDistance * analysis.KmPerDegree)
		row.AddCell().SetFloat(p.ClosestPoint.Lon)
		row.AddCell().SetFloat(p.ClosestPoint.Lat)
	}

	meta, err := f.AddSheet("Trajectory")
	if err != nil {
		return eris.Wrap(err, "export: add trajectory sheet")
	}
	header = meta.AddRow()
	for _, h := range []string{"Scenario", "Point", "Lon", "Lat"} {
		header.AddCell().Value = h
	}
	for i, p := range traj.Points {
		row := meta.AddRow()
		row.AddCell().Value = traj.Name
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetFloat(p.Lon)
		row.AddCell().SetFloat(p.Lat)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
