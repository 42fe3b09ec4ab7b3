package stats

// SurvivalStat identifies one of the continuously decaying vitals.
type SurvivalStat string

const (
	SurvivalHP     SurvivalStat = "hp"
	SurvivalFood   SurvivalStat = "food"
	SurvivalWater  SurvivalStat = "water"
	SurvivalSanity SurvivalStat = "sanity"
)

// SurvivalStats returns the vitals in display order.
func SurvivalStats() []SurvivalStat {
	return []SurvivalStat{SurvivalHP, SurvivalFood, SurvivalWater, SurvivalSanity}
}

// SurvivalSetup configures one vital's bounds and decay rate.
type SurvivalSetup struct {
	Max          float64
	Start        float64
	DecayPerTick float64
}

// DefaultSurvivalSetup mirrors the shipped tuning: everything starts full,
// water drains fastest, HP barely drains on its own.
func DefaultSurvivalSetup() map[SurvivalStat]SurvivalSetup {
	return map[SurvivalStat]SurvivalSetup{
		SurvivalHP:     {Max: 100, Start: 100, DecayPerTick: 0.1},
		SurvivalFood:   {Max: 100, Start: 100, DecayPerTick: 0.5},
		SurvivalWater:  {Max: 100, Start: 100, DecayPerTick: 0.8},
		SurvivalSanity: {Max: 100, Start: 100, DecayPerTick: 0.2},
	}
}

// Survival tracks the decaying vitals. Decay is applied by explicit
// elapsed-time stepping from the main loop; there is no internal timer.
type Survival struct {
	setup   map[SurvivalStat]SurvivalSetup
	current map[SurvivalStat]float64

	// Extra HP decay applied per tick for each other vital sitting at zero.
	HPDecayPerEmptyStat float64

	tickSeconds float64
	accumulated float64
	dead        bool

	observers []func(SurvivalStat, float64)
	onDeath   []func()
}

// NewSurvival creates vitals from a setup map. A nil setup uses the defaults.
func NewSurvival(setup map[SurvivalStat]SurvivalSetup) *Survival {
	if setup == nil {
		setup = DefaultSurvivalSetup()
	}
	s := &Survival{
		setup:               setup,
		current:             make(map[SurvivalStat]float64, len(setup)),
		HPDecayPerEmptyStat: 1,
		tickSeconds:         1,
	}
	for stat, cfg := range setup {
		s.current[stat] = cfg.clamp(cfg.Start)
	}
	return s
}

func (c SurvivalSetup) clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > c.Max {
		return c.Max
	}
	return v
}

// Subscribe registers a callback invoked after every vital change.
func (s *Survival) Subscribe(fn func(stat SurvivalStat, value float64)) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

// OnDeath registers a callback invoked once when HP reaches zero.
func (s *Survival) OnDeath(fn func()) {
	if fn != nil {
		s.onDeath = append(s.onDeath, fn)
	}
}

// Get returns the current value of a vital.
func (s *Survival) Get(stat SurvivalStat) float64 {
	return s.current[stat]
}

// Set overwrites a vital, clamped to [0, max].
func (s *Survival) Set(stat SurvivalStat, value float64) {
	cfg, ok := s.setup[stat]
	if !ok {
		return
	}
	s.current[stat] = cfg.clamp(value)
	for _, fn := range s.observers {
		fn(stat, s.current[stat])
	}
	if stat == SurvivalHP && s.current[stat] <= 0 && !s.dead {
		s.dead = true
		for _, fn := range s.onDeath {
			fn()
		}
	}
}

// Adjust applies a signed delta to a vital.
func (s *Survival) Adjust(stat SurvivalStat, delta float64) {
	s.Set(stat, s.current[stat]+delta)
}

// Dead reports whether HP has reached zero.
func (s *Survival) Dead() bool {
	return s.dead
}

// Tick advances decay by elapsed wall-clock seconds. Whole ticks are
// applied; the remainder accumulates for the next call.
func (s *Survival) Tick(elapsedSeconds float64) {
	if s.dead || elapsedSeconds <= 0 {
		return
	}
	s.accumulated += elapsedSeconds
	for s.accumulated >= s.tickSeconds {
		s.accumulated -= s.tickSeconds
		s.applyTick()
		if s.dead {
			return
		}
	}
}

func (s *Survival) applyTick() {
	empty := 0
	for _, stat := range []SurvivalStat{SurvivalFood, SurvivalWater, SurvivalSanity} {
		cfg := s.setup[stat]
		s.Set(stat, s.current[stat]-cfg.DecayPerTick)
		if s.current[stat] <= 0 {
			empty++
		}
	}
	hpDecay := s.setup[SurvivalHP].DecayPerTick + float64(empty)*s.HPDecayPerEmptyStat
	s.Set(SurvivalHP, s.current[SurvivalHP]-hpDecay)
}

// Reset restores all vitals to their starting values and clears death.
func (s *Survival) Reset() {
	s.dead = false
	s.accumulated = 0
	for stat, cfg := range s.setup {
		s.Set(stat, cfg.Start)
	}
}
