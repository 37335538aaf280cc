package sim

// Handle identifies one charger unit of a Pool by its configured position.
type Handle int

type chargerUnit struct {
	powerKw float64
	session *Session
}

// Pool owns the fixed set of charger units and their occupancy. Allocation is
// first-fit in configured order, so earlier units (and their power ratings)
// are always preferred. A Pool belongs to exactly one run.
type Pool struct {
	units []chargerUnit
	busy  int
}

// NewPool creates an idle pool with one unit per rating.
func NewPool(powersKw []float64) *Pool {
	units := make([]chargerUnit, len(powersKw))
	for i, p := range powersKw {
		units[i] = chargerUnit{powerKw: p}
	}
	return &Pool{units: units}
}

// Len returns the number of units.
func (p *Pool) Len() int { return len(p.units) }

// Busy returns the number of occupied units.
func (p *Pool) Busy() int { return p.busy }

// PowerKw returns the rated power of the unit.
func (p *Pool) PowerKw(h Handle) float64 { return p.units[h].powerKw }

// Session returns the session bound to the unit, or nil when idle.
func (p *Pool) Session(h Handle) *Session { return p.units[h].session }

// TryAllocate binds a new session requiring requiredKwh to the first idle unit.
// It returns false when every unit is occupied; the caller drops the arrival.
func (p *Pool) TryAllocate(requiredKwh float64) (Handle, bool) {
	if p.busy == len(p.units) {
		return -1, false
	}
	for i := range p.units {
		if p.units[i].session != nil {
			continue
		}
		s := newSession(requiredKwh)
		// bind cannot fail on a fresh pending session.
		_ = s.bind(i)
		p.units[i].session = s
		p.busy++
		return Handle(i), true
	}
	return -1, false
}

// Release frees the unit once its session has received all required energy.
func (p *Pool) Release(h Handle) error {
	if int(h) < 0 || int(h) >= len(p.units) {
		return invariantf("release", "unknown charger %d", h)
	}
	u := &p.units[h]
	if u.session == nil {
		return invariantf("release", "charger %d is already idle", h)
	}
	if err := u.session.complete(); err != nil {
		return err
	}
	u.session = nil
	p.busy--
	if p.busy < 0 {
		return invariantf("release", "negative busy count %d", p.busy)
	}
	return nil
}
