// Package engine implements the rotating disc state machine.
//
// An [Engine] is either idle or rotating. It is seeded with a signed step
// (degrees per tick), advanced once per rendered frame by an external tick
// source, loses [Params.Friction] degrees of step per tick, bounces off the
// optional obstacle and stops once the step rounds to zero.
//
// # Example
//
//	e := engine.New(engine.DefaultParams())
//	e.OnStop(func(a float64) { fmt.Println("stopped at", a) })
//	_ = e.Seed(60)
//	for e.Advance() {
//		draw(e.Angle())
//	}
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. Advance and every gesture call must
// be serialized onto one goroutine by the host (a bubbletea Update loop or a
// single-owner session goroutine).
package engine
