package sim

import "fmt"

// SessionState is the lifecycle state of one charging session.
type SessionState string

const (
	StatePending   SessionState = "pending"
	StateCharging  SessionState = "charging"
	StateCompleted SessionState = "completed"
	StateDropped   SessionState = "dropped"
)

// Session is one EV's charging event. Pending -> Charging -> Completed is the
// success path, Pending -> Dropped the loss path. A charging session is never
// preempted or re-queued.
type Session struct {
	unit         int
	RequiredKwh  float64
	DeliveredKwh float64
	State        SessionState
}

func newSession(requiredKwh float64) *Session {
	return &Session{unit: -1, RequiredKwh: requiredKwh, State: StatePending}
}

// Unit returns the index of the charger serving the session, if any.
func (s *Session) Unit() (int, bool) {
	return s.unit, s.unit >= 0
}

// RemainingKwh is the energy still to deliver.
func (s *Session) RemainingKwh() float64 {
	return s.RequiredKwh - s.DeliveredKwh
}

// Done reports whether the required energy has been delivered.
func (s *Session) Done() bool {
	return s.DeliveredKwh >= s.RequiredKwh
}

func (s *Session) bind(unit int) error {
	if s.State != StatePending {
		return invariantf("bind", "session in state %s cannot start charging", s.State)
	}
	s.unit = unit
	s.State = StateCharging
	return nil
}

func (s *Session) drop() error {
	if s.State != StatePending {
		return invariantf("drop", "session in state %s cannot be dropped", s.State)
	}
	s.State = StateDropped
	return nil
}

func (s *Session) complete() error {
	if s.State != StateCharging {
		return invariantf("complete", "session in state %s cannot complete", s.State)
	}
	if !s.Done() {
		return invariantf("complete", "delivered %v of %v kWh", s.DeliveredKwh, s.RequiredKwh)
	}
	s.State = StateCompleted
	return nil
}

// deliver charges the session at powerKw for the given duration and returns
// the energy actually transferred. The last slice is clamped to the remaining
// demand so that a finished session reports exactly its required energy.
func (s *Session) deliver(powerKw, hours float64) (float64, error) {
	if s.State != StateCharging {
		return 0, invariantf("deliver", "session in state %s cannot draw power", s.State)
	}
	if s.DeliveredKwh < 0 || s.RequiredKwh < 0 {
		return 0, invariantf("deliver", "negative energy: delivered=%v required=%v", s.DeliveredKwh, s.RequiredKwh)
	}
	remaining := s.RemainingKwh()
	if remaining <= 0 {
		return 0, nil
	}
	amount := powerKw * hours
	if amount >= remaining {
		s.DeliveredKwh = s.RequiredKwh
		return remaining, nil
	}
	s.DeliveredKwh += amount
	return amount, nil
}

func (s *Session) String() string {
	return fmt.Sprintf("Session: (Unit: %d, State: %s, Delivered: %.3f/%.3f kWh)", s.unit, s.State, s.DeliveredKwh, s.RequiredKwh)
}
