// Package angle provides circular arithmetic on angles measured in degrees.
//
// Every value produced by this package lies in [0, 360), with 0 pointing up
// and angles increasing clockwise, matching the screen convention used by
// the engine and the gesture controller:
//
//   - [Normalize]: floor-mod reduction into [0, 360)
//   - [Delta]: shortest signed difference in (-180, 180]
//   - [FromPoint]: angle of a pointer position relative to a view centre
//
// All functions are total over finite inputs. NaN and infinities propagate
// unchanged; callers that accept external input use [IsFinite] first.
package angle
