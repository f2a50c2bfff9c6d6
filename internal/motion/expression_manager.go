package motion

import "github.com/coreman2200/motionrig/internal/curve"

// accumulator carries one parameter's blended expression state.
type accumulator struct {
	id        string
	additive  float64
	multiply  float64
	overwrite float64
}

// ExpressionManager plays expressions. The newest expression fades in over
// the older ones; once it is fully in, the older entries are dropped.
type ExpressionManager struct {
	Queue

	params      []*accumulator
	fadeWeights []float64

	current int
	reserve int
}

func NewExpressionManager() *ExpressionManager { return &ExpressionManager{} }

// Start queues x, fading out the expressions already playing.
func (em *ExpressionManager) Start(x *Expression, autoDelete bool) Handle {
	if x == nil {
		return em.Queue.Start(nil, autoDelete)
	}
	h := em.Queue.Start(x, autoDelete)
	em.fadeWeights = append(em.fadeWeights, 0)
	return h
}

// FadeWeight returns the weight computed for entry i on the last update, or
// -1 when i is out of range.
func (em *ExpressionManager) FadeWeight(i int) float64 {
	if i < 0 || i >= len(em.fadeWeights) {
		Logger().Warn().Int("index", i).Int("len", len(em.fadeWeights)).Msg("expression fade weight index out of range")
		return -1
	}
	return em.fadeWeights[i]
}

// Deprecated: expression priorities have no effect on blending.
func (em *ExpressionManager) CurrentPriority() int {
	Logger().Info().Msg("ExpressionManager.CurrentPriority is deprecated")
	return em.current
}

// Deprecated: expression priorities have no effect on blending.
func (em *ExpressionManager) ReservePriority() int {
	Logger().Info().Msg("ExpressionManager.ReservePriority is deprecated")
	return em.reserve
}

// Deprecated: expression priorities have no effect on blending.
func (em *ExpressionManager) SetReservePriority(p int) {
	Logger().Info().Msg("ExpressionManager.SetReservePriority is deprecated")
	em.reserve = p
}

// Deprecated: use Start.
func (em *ExpressionManager) StartWithPriority(x *Expression, autoDelete bool, p int) Handle {
	Logger().Info().Msg("ExpressionManager.StartWithPriority is deprecated")
	if p == em.reserve {
		em.reserve = 0
	}
	em.current = p
	return em.Start(x, autoDelete)
}

// Update advances the clock by dt, blends every expression into the
// accumulators and applies them to model.
func (em *ExpressionManager) Update(model Model, dt float64) bool {
	em.clock += dt
	clock := em.clock
	em.syncFadeWeights()

	updated := false
	weight := 0.0
	index := 0
	for i := 0; i < len(em.entries); i++ {
		e := em.entries[i]
		if e == nil {
			index++
			continue
		}
		x, ok := e.motion.(*Expression)
		if !ok {
			index++
			continue
		}
		if e.available {
			for _, p := range x.params {
				em.accumulatorFor(model, p.ID)
			}
		}

		setup(e, clock)
		if e.motion == nil {
			index++
			continue
		}
		fw := x.fadeWeight(e, clock)
		e.setState(clock, fw)
		for len(em.fadeWeights) <= index {
			em.fadeWeights = append(em.fadeWeights, 0)
		}
		em.fadeWeights[index] = fw
		em.blend(model, x, e, index, fw)

		weight += curve.FadeProgress(clock-e.fadeInStart, x.fadeIn)
		if e.fadeOutTriggered {
			e.startFadeOut(e.fadeOutSeconds, clock)
		}
		if e.endTime >= 0 && clock > e.endTime {
			e.finished = true
		}
		updated = true
		index++
	}

	// Entries are only dropped once superseded by a fully faded in newer
	// one, so a faded out expression keeps holding its values until then.
	em.syncFadeWeights()
	if len(em.entries) > 1 && em.fadeWeights[len(em.fadeWeights)-1] >= 1 {
		last := len(em.entries) - 1
		for _, e := range em.entries[:last] {
			if e != nil {
				release(e)
			}
		}
		em.entries = append(em.entries[:0], em.entries[last])
		em.fadeWeights = append(em.fadeWeights[:0], em.fadeWeights[last])
	}

	if weight > 1 {
		weight = 1
	}
	for _, p := range em.params {
		model.SetParameterValueByID(p.id, (p.overwrite+p.additive)*p.multiply, weight)
		p.additive = 0
		p.multiply = 1
	}
	return updated
}

// syncFadeWeights keeps one fade weight slot per entry.
func (em *ExpressionManager) syncFadeWeights() {
	for len(em.fadeWeights) < len(em.entries) {
		em.fadeWeights = append(em.fadeWeights, 0)
	}
	em.fadeWeights = em.fadeWeights[:len(em.entries)]
}

func (em *ExpressionManager) accumulatorFor(model Model, id string) *accumulator {
	for _, p := range em.params {
		if p.id == id {
			return p
		}
	}
	p := &accumulator{id: id, multiply: 1, overwrite: model.ParameterValueByID(id)}
	em.params = append(em.params, p)
	return p
}

// blend folds x into every accumulator. The oldest entry assigns; later
// entries move the accumulator toward their contribution by fw.
func (em *ExpressionManager) blend(model Model, x *Expression, e *Entry, index int, fw float64) {
	if !e.available {
		return
	}
	for _, acc := range em.params {
		current := model.ParameterValueByID(acc.id)
		p, ok := x.parameter(acc.id)
		if !ok {
			if index == 0 {
				acc.additive, acc.multiply, acc.overwrite = 0, 1, current
				continue
			}
			acc.additive = lerp(acc.additive, 0, fw)
			acc.multiply = lerp(acc.multiply, 1, fw)
			acc.overwrite = lerp(acc.overwrite, current, fw)
			continue
		}
		add, mul, ow := p.contribution(current)
		if index == 0 {
			acc.additive, acc.multiply, acc.overwrite = add, mul, ow
			continue
		}
		acc.additive = lerp(acc.additive, add, fw)
		acc.multiply = lerp(acc.multiply, mul, fw)
		acc.overwrite = lerp(acc.overwrite, ow, fw)
	}
}

func lerp(from, to, w float64) float64 { return from*(1-w) + to*w }
