package sim

// SessionEvent describes a session lifecycle transition.
type SessionEvent struct {
	Day          int
	Hour         int
	Unit         int // -1 for dropped arrivals
	State        SessionState
	RequiredKwh  float64
	DeliveredKwh float64
}

// Observer receives session transitions while a run progresses. It is called
// synchronously from the simulation loop and must not block or perform I/O.
type Observer interface {
	ObserveSession(SessionEvent)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) ObserveSession(SessionEvent) {}

// Tally counts session outcomes over a run.
type Tally struct {
	Arrivals  int
	Charging  int
	Completed int
	Dropped   int
}

// ObserveSession implements Observer.
func (t *Tally) ObserveSession(ev SessionEvent) {
	switch ev.State {
	case StateCharging:
		t.Arrivals++
		t.Charging++
	case StateDropped:
		t.Arrivals++
		t.Dropped++
	case StateCompleted:
		t.Completed++
	}
}

// DropRate returns the share of arrivals that found no idle charger.
func (t Tally) DropRate() float64 {
	if t.Arrivals == 0 {
		return 0
	}
	return float64(t.Dropped) / float64(t.Arrivals)
}
