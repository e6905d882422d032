package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/spinbottle/internal/angle"
	"github.com/san-kum/spinbottle/internal/engine"
	"github.com/san-kum/spinbottle/internal/script"
	"github.com/san-kum/spinbottle/internal/sim"
)

var ErrUnknownParam = errors.New("unknown parameter")

// Cost scores a finished run; lower is better.
type Cost func(r *sim.Result) float64

// StopDistance scores a run by how far from target the disc came to rest.
// Truncated runs cost +Inf.
func StopDistance(target float64) Cost {
	return func(r *sim.Result) float64 {
		if r.Truncated() {
			return math.Inf(1)
		}
		return angle.Distance(r.StopAngle, target)
	}
}

var setters = map[string]func(p *engine.Params, v float64){
	"max_rotation_degrees":      func(p *engine.Params, v float64) { p.MaxRotationDegrees = v },
	"friction":                  func(p *engine.Params, v float64) { p.Friction = v },
	"bounce_energy_coefficient": func(p *engine.Params, v float64) { p.BounceEnergyCoefficient = v },
	"arc_of_tolerance":          func(p *engine.Params, v float64) { p.ArcOfTolerance = v },
	"velocity_max":              func(p *engine.Params, v float64) { p.VelocityMax = v },
}

// ParamNames lists the tunable parameters in sorted order.
func ParamNames() []string {
	names := make([]string, 0, len(setters))
	for n := range setters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// GridSearch replays one script against every combination of parameter
// values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownParam, name, ParamNames())
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("empty range for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

type Best struct {
	Params    engine.Params
	Values    map[string]float64
	Cost      float64
	Evaluated int
	Skipped   int // combinations rejected by Params.Validate
}

// Search starts every combination from base. Ties keep the first combination
// in grid order.
func (g *GridSearch) Search(ctx context.Context, base engine.Params, sc *script.Script, cfg sim.Config, cost Cost) (*Best, error) {
	best := &Best{Cost: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), base, sc, cfg, cost, best); err != nil {
		return nil, err
	}
	if best.Values == nil {
		return nil, fmt.Errorf("no valid parameter combination")
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base engine.Params,
	sc *script.Script,
	cfg sim.Config,
	cost Cost,
	best *Best,
) error {
	if depth == len(g.paramNames) {
		p := base
		for k, v := range current {
			setters[k](&p, v)
		}
		if err := p.Validate(); err != nil {
			best.Skipped++
			return nil
		}

		result, err := sim.FromParams(p).Run(ctx, sc, cfg)
		if err != nil {
			return err
		}
		best.Evaluated++

		val := cost(result)
		if val < best.Cost || best.Values == nil {
			best.Cost = val
			best.Params = p
			best.Values = make(map[string]float64, len(current))
			for k, v := range current {
				best.Values[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, sc, cfg, cost, best); err != nil {
			return err
		}
	}
	return nil
}
