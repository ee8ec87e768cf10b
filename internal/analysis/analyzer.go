// Package analysis sweeps a vessel trajectory against cable routes, collecting
// crossing and proximity findings and rendering a report.
package analysis

import (
	"go.uber.org/zap"

	"github.com/balticwatch/cablewatch/internal/cable"
	"github.com/balticwatch/cablewatch/internal/geometry"
	"github.com/balticwatch/cablewatch/internal/trajectory"
)

// DefaultNearThreshold is the proximity cutoff in degrees. 0.05 degrees is
// roughly 5.5 km at Baltic latitudes.
const DefaultNearThreshold = 0.05

// Options tunes an analysis run.
type Options struct {
	// NearThresholdDeg is the proximity cutoff in degrees. Zero or negative
	// falls back to DefaultNearThreshold.
	NearThresholdDeg float64
}

func (o Options) nearThreshold() float64 {
	if o.NearThresholdDeg <= 0 {
		return DefaultNearThreshold
	}
	return o.NearThresholdDeg
}

// Crossing records a trajectory leg crossing (or touching) one cable segment.
// SegmentIndex is the index of the line-string within the cable's geometry;
// TrajectorySegment is the 1-based leg number.
type Crossing struct {
	CableName         string `json:"cableName"`
	CableID           string `json:"cableId"`
	SegmentIndex      int    `json:"segmentIndex"`
	TrajectorySegment int    `json:"trajectorySegment"`
}

// Proximity records a trajectory point passing within the near threshold of a
// cable segment. MinDistance is in degrees; ClosestPoint is the vessel
// position that produced the distance, not the point on the cable.
type Proximity struct {
	CableName    string         `json:"cableName"`
	CableID      string         `json:"cableId"`
	MinDistance  float64        `json:"minDistance"`
	ClosestPoint geometry.Point `json:"closestPoint"`
}

// Findings holds the raw, undeduplicated output of a sweep. The same cable
// segment can appear once per crossing trajectory leg, and the same cable once
// per nearby point/segment combination.
type Findings struct {
	Crossings []Crossing
	Nearby    []Proximity
}

// Analyze exhaustively tests every cable segment (each consecutive coordinate
// pair within each line-string of each cable) against every trajectory leg,
// and every trajectory point against every cable segment. No short-circuiting:
// the sweep visits all combinations so that finding order is a pure function
// of source order.
func Analyze(traj trajectory.Trajectory, set *cable.Set, opts Options) Findings {
	threshold := opts.nearThreshold()
	legs := traj.Segments()

	var f Findings
	for _, c := range set.Cables {
		for lineIdx, line := range c.Lines {
			for i := 0; i+1 < len(line); i++ {
				seg := geometry.Segment{A: line[i], B: line[i+1]}

				for legIdx, leg := range legs {
					if geometry.Intersects(leg, seg) {
						f.Crossings = append(f.Crossings, Crossing{
							CableName:         c.Name,
							CableID:           c.ID,
							SegmentIndex:      lineIdx,
							TrajectorySegment: legIdx + 1,
						})
					}
				}

				for _, p := range traj.Points {
					if dist := geometry.PointToSegment(p, seg); dist < threshold {
						f.Nearby = append(f.Nearby, Proximity{
							CableName:    c.Name,
							CableID:      c.ID,
							MinDistance:  dist,
							ClosestPoint: p,
						})
					}
				}
			}
		}
	}

	zap.L().Debug("analysis: sweep complete",
		zap.String("trajectory", traj.Name),
		zap.Int("cables", len(set.Cables)),
		zap.Int("raw_crossings", len(f.Crossings)),
		zap.Int("raw_nearby", len(f.Nearby)),
	)
	return f
}
