package motion

// Manager is a Queue with playback priorities and its own clock.
type Manager struct {
	Queue

	current int
	reserve int
}

func NewManager() *Manager { return &Manager{} }

func (m *Manager) CurrentPriority() int { return m.current }

func (m *Manager) ReservePriority() int { return m.reserve }

func (m *Manager) SetReservePriority(p int) { m.reserve = p }

// Reserve claims priority p for a motion about to start. It fails without
// changing state when p does not exceed both the reserved and the playing
// priority.
func (m *Manager) Reserve(p int) bool {
	if p <= m.reserve || p <= m.current {
		return false
	}
	m.reserve = p
	return true
}

// StartWithPriority starts mo at priority p, clearing a matching reservation.
func (m *Manager) StartWithPriority(mo Motion, autoDelete bool, p int) Handle {
	if p == m.reserve {
		m.reserve = 0
	}
	m.current = p
	return m.Start(mo, autoDelete)
}

// Update advances the clock by dt and plays every entry. The current
// priority resets to 0 once the queue is finished.
func (m *Manager) Update(model Model, dt float64) bool {
	updated := m.Queue.Update(model, m.clock+dt)
	if m.IsFinished() {
		m.current = 0
	}
	return updated
}
