package analysis

import (
	"fmt"
	"io"

	"github.com/balticwatch/cablewatch/internal/cable"
	"github.com/balticwatch/cablewatch/internal/trajectory"
)

// KmPerDegree is the linear display conversion for planar degree distances.
// It matches the rough 111 km/degree figure the proximity threshold was
// calibrated against; report output depends on it staying linear.
const KmPerDegree = 111.0

// Result is the deduplicated outcome of an analysis run. Both slices are
// non-nil even when empty.
type Result struct {
	Intersections []Crossing  `json:"intersections"`
	NearbyCables  []Proximity `json:"nearbyCables"`
}

// Dedupe collapses raw findings. Crossings are keyed by
// (cableId, segmentIndex) and the first occurrence in sweep order wins;
// proximities are keyed by cableId and keep the minimum observed distance.
func Dedupe(f Findings) Result {
	res := Result{
		Intersections: make([]Crossing, 0, len(f.Crossings)),
		NearbyCables:  make([]Proximity, 0, len(f.Nearby)),
	}

	seen := make(map[string]bool, len(f.Crossings))
	for _, c := range f.Crossings {
		key := fmt.Sprintf("%s-%d", c.CableID, c.SegmentIndex)
		if seen[key] {
			continue
		}
		seen[key] = true
		res.Intersections = append(res.Intersections, c)
	}

	nearbyIdx := make(map[string]int, len(f.Nearby))
	for _, p := range f.Nearby {
		i, ok := nearbyIdx[p.CableID]
		if !ok {
			nearbyIdx[p.CableID] = len(res.NearbyCables)
			res.NearbyCables = append(res.NearbyCables, p)
			continue
		}
		if p.MinDistance < res.NearbyCables[i].MinDistance {
			res.NearbyCables[i] = p
		}
	}

	return res
}

// Run performs a full analysis pass: sweep then dedup.
func Run(traj trajectory.Trajectory, set *cable.Set, opts Options) Result {
	return Dedupe(Analyze(traj, set, opts))
}

// WriteReport renders the human-readable analysis report: the trajectory leg
// listing, crossings (or an explicit none-found line), and nearby cables with
// distances converted to kilometers.
func WriteReport(w io.Writer, traj trajectory.Trajectory, res Result, opts Options) {
	fmt.Fprintf(w, "=== Trajectory: %s ===\n", traj.Name)
	for i, leg := range traj.Segments() {
		fmt.Fprintf(w, "  Segment %d: (%g, %g) -> (%g, %g)\n",
			i+1, leg.A.Lon, leg.A.Lat, leg.B.Lon, leg.B.Lat)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Crossings ===")
	if len(res.Intersections) > 0 {
		fmt.Fprintf(w, "Found %d cable crossing(s):\n", len(res.Intersections))
		for _, c := range res.Intersections {
			fmt.Fprintf(w, "  %s (%s)\n", c.CableName, c.CableID)
			fmt.Fprintf(w, "    crosses trajectory segment %d\n", c.TrajectorySegment)
			fmt.Fprintf(w, "    cable segment index: %d\n", c.SegmentIndex)
		}
	} else {
		fmt.Fprintln(w, "No direct cable crossings found.")
	}
	fmt.Fprintln(w)

	thresholdKM := opts.nearThreshold() * KmPerDegree
	fmt.Fprintf(w, "=== Nearby cables (within ~%.2f km) ===\n", thresholdKM)
	if len(res.NearbyCables) > 0 {
		for _, p := range res.NearbyCables {
			fmt.Fprintf(w, "  %s (%s)\n", p.CableName, p.CableID)
			fmt.Fprintf(w, "    minimum distance: ~%.2f km\n", p.MinDistance*KmPerDegree)
		}
	} else {
		fmt.Fprintln(w, "None.")
	}
}
