package clip

import (
	"math"

	"github.com/coreman2200/motionrig/internal/diagnostics"
)

// Check validates the table layout of c. Motions assume a clip that passes
// without Err findings.
func Check(c *Clip) diagnostics.List {
	var out diagnostics.List

	if c.duration <= 0 && c.duration != -1 {
		out.Add(diagnostics.Err, "CLIP.DURATION", "duration must be positive or -1",
			map[string]any{"duration": c.duration})
	}
	if c.fps <= 0 {
		out.Add(diagnostics.Warn, "CLIP.FPS", "frame rate not positive; loop extension disabled",
			map[string]any{"fps": c.fps})
	}

	prev := TargetModel
	nextSeg := SegmentIndex(0)
	for i, cv := range c.curves {
		if cv.Target < prev {
			out.Add(diagnostics.Err, "CLIP.CURVE_ORDER", "curves not grouped Model, Parameter, PartOpacity",
				map[string]any{"curve": i, "id": cv.ID})
		}
		prev = cv.Target
		if cv.SegmentCount <= 0 {
			out.Add(diagnostics.Err, "CLIP.CURVE_EMPTY", "curve has no segments", map[string]any{"curve": i, "id": cv.ID})
			continue
		}
		if cv.BaseSegment != nextSeg {
			out.Add(diagnostics.Err, "CLIP.SEGMENT_BASE", "curve segments not contiguous",
				map[string]any{"curve": i, "base": int(cv.BaseSegment), "want": int(nextSeg)})
		}
		nextSeg = cv.BaseSegment + SegmentIndex(cv.SegmentCount)
		if int(nextSeg) > len(c.segments) {
			out.Add(diagnostics.Err, "CLIP.SEGMENT_COUNT", "curve references missing segments",
				map[string]any{"curve": i, "segments": len(c.segments)})
			continue
		}
		checkSegments(&out, c, i, cv)
	}
	if int(nextSeg) != len(c.segments) {
		out.Add(diagnostics.Err, "CLIP.SEGMENT_COUNT", "segment table size does not match curves",
			map[string]any{"segments": len(c.segments), "used": int(nextSeg)})
	}

	for i := 1; i < len(c.events); i++ {
		if c.events[i].FireTime < c.events[i-1].FireTime {
			out.Add(diagnostics.Warn, "CLIP.EVENT_ORDER", "events not sorted by fire time", map[string]any{"event": i})
			break
		}
	}
	return out
}

func checkSegments(out *diagnostics.List, c *Clip, curveIdx int, cv Curve) {
	for s := cv.BaseSegment; s < cv.BaseSegment+SegmentIndex(cv.SegmentCount); s++ {
		seg := c.segments[s]
		if !seg.Kind.Valid() || seg.eval == nil {
			out.Add(diagnostics.Err, "CLIP.SEGMENT_KIND", "unknown segment kind",
				map[string]any{"curve": curveIdx, "segment": int(s), "kind": int(seg.Kind)})
			continue
		}
		if seg.Base < 0 || int(seg.Last()) >= len(c.points) {
			out.Add(diagnostics.Err, "CLIP.POINT_COUNT", "segment references missing points",
				map[string]any{"curve": curveIdx, "segment": int(s)})
			continue
		}
		for p := seg.Base; p <= seg.Last(); p++ {
			pt := c.points[p]
			if math.IsNaN(pt.Time) || math.IsNaN(pt.Value) || math.IsInf(pt.Value, 0) {
				out.Add(diagnostics.Err, "CLIP.POINT_NAN", "point is not finite",
					map[string]any{"curve": curveIdx, "point": int(p)})
			}
		}
		if c.points[seg.Last()].Time < c.points[seg.Base].Time {
			out.Add(diagnostics.Warn, "CLIP.TIME_ORDER", "segment time runs backwards",
				map[string]any{"curve": curveIdx, "segment": int(s)})
		}
	}
}
