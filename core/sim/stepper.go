package sim

import (
	"math/rand"

	"github.com/kilianp07/chargesim/core/model"
)

// stepHours is the simulated duration of one step.
const stepHours = 1.0

// DayAccumulator holds the running aggregates of the current simulated day.
type DayAccumulator struct {
	MaxPowerKw float64
	EnergyKwh  float64
}

// Reset clears the accumulator at the start of a day.
func (a *DayAccumulator) Reset() { *a = DayAccumulator{} }

// Result folds the accumulator into an immutable DayResult.
func (a DayAccumulator) Result() model.DayResult {
	return model.DayResult{MaxPowerKw: a.MaxPowerKw, EnergyConsumedKwh: a.EnergyKwh}
}

// stepper advances one run an hour at a time.
type stepper struct {
	sampler  *Sampler
	pool     *Pool
	observer Observer
	finished []Handle
}

func newStepper(sampler *Sampler, pool *Pool, observer Observer) *stepper {
	if observer == nil {
		observer = NopObserver{}
	}
	return &stepper{
		sampler:  sampler,
		pool:     pool,
		observer: observer,
		finished: make([]Handle, 0, pool.Len()),
	}
}

// step simulates one hour: arrival, then energy integration over every busy
// unit, then release of the sessions that finished during the hour.
func (st *stepper) step(day, hour int, rng *rand.Rand, acc *DayAccumulator) error {
	if err := st.arrive(day, hour, rng); err != nil {
		return err
	}

	var powerKw float64
	st.finished = st.finished[:0]
	for i := range st.pool.units {
		u := &st.pool.units[i]
		if u.session == nil {
			continue
		}
		delivered, err := u.session.deliver(u.powerKw, stepHours)
		if err != nil {
			return err
		}
		if delivered < 0 {
			return invariantf("integrate", "charger %d delivered %v kWh", i, delivered)
		}
		if delivered > 0 {
			powerKw += u.powerKw
			acc.EnergyKwh += delivered
		}
		if u.session.Done() {
			st.finished = append(st.finished, Handle(i))
		}
	}
	if powerKw > acc.MaxPowerKw {
		acc.MaxPowerKw = powerKw
	}

	for _, h := range st.finished {
		s := st.pool.Session(h)
		if err := st.pool.Release(h); err != nil {
			return err
		}
		st.observer.ObserveSession(SessionEvent{
			Day: day, Hour: hour, Unit: int(h), State: StateCompleted,
			RequiredKwh: s.RequiredKwh, DeliveredKwh: s.DeliveredKwh,
		})
	}
	return nil
}

func (st *stepper) arrive(day, hour int, rng *rand.Rand) error {
	if !st.sampler.Arrives(hour, rng) {
		return nil
	}
	km, err := st.sampler.SampleDemandKm(rng)
	if err != nil {
		return err
	}
	required := st.sampler.EnergyForDemand(km)
	if required < 0 {
		return invariantf("arrive", "negative energy requirement %v kWh for %v km", required, km)
	}
	h, ok := st.pool.TryAllocate(required)
	if !ok {
		s := newSession(required)
		if err := s.drop(); err != nil {
			return err
		}
		st.observer.ObserveSession(SessionEvent{Day: day, Hour: hour, Unit: -1, State: StateDropped, RequiredKwh: required})
		return nil
	}
	st.observer.ObserveSession(SessionEvent{Day: day, Hour: hour, Unit: int(h), State: StateCharging, RequiredKwh: required})
	return nil
}
