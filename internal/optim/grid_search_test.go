package optim

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/spinbottle/internal/engine"
	"github.com/san-kum/spinbottle/internal/script"
	"github.com/san-kum/spinbottle/internal/sim"
)

var simConfig = sim.Config{FrameMillis: 16, MaxTicks: 20000}

func flick() *script.Script {
	v := script.View{Width: 100, Height: 100}
	return &script.Script{View: v, Events: script.Flick(v, 0, 2, 0)}
}

func TestGridSearchFindsTarget(t *testing.T) {
	g := NewWithT(t)

	gs, err := NewGridSearch([]string{"friction"}, [][]float64{{1.5, 0.5, 2}})
	g.Expect(err).NotTo(HaveOccurred())

	best, err := gs.Search(context.Background(), engine.DefaultParams(), flick(), simConfig, StopDistance(90))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(best.Values).To(HaveKeyWithValue("friction", 0.5))
	g.Expect(best.Params.Friction).To(Equal(0.5))
	g.Expect(best.Cost).To(BeNumerically("<", 1e-9))
	g.Expect(best.Evaluated).To(Equal(3))
}

func TestGridSearchSkipsInvalid(t *testing.T) {
	g := NewWithT(t)

	gs, err := NewGridSearch(
		[]string{"friction", "bounce_energy_coefficient"},
		[][]float64{{-1, 0.5}, {0.2, 2}},
	)
	g.Expect(err).NotTo(HaveOccurred())

	best, err := gs.Search(context.Background(), engine.DefaultParams(), flick(), simConfig, StopDistance(0))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(best.Evaluated).To(Equal(1))
	g.Expect(best.Skipped).To(Equal(3))
}

func TestNewGridSearchErrors(t *testing.T) {
	_, err := NewGridSearch([]string{"gravity"}, [][]float64{{1}})
	if !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if _, err := NewGridSearch([]string{"friction"}, nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}
	if _, err := NewGridSearch([]string{"friction"}, [][]float64{{}}); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestGridSearchCancelled(t *testing.T) {
	gs, _ := NewGridSearch([]string{"friction"}, [][]float64{{0.5}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := gs.Search(ctx, engine.DefaultParams(), flick(), simConfig, StopDistance(0)); err == nil {
		t.Error("expected error from cancelled search")
	}
}

func TestParamNamesSorted(t *testing.T) {
	names := ParamNames()
	if len(names) != 5 || names[0] != "arc_of_tolerance" || names[4] != "velocity_max" {
		t.Errorf("unexpected names %v", names)
	}
}
