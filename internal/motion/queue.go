package motion

// EventFunc receives clip events fired during Queue.Update.
type EventFunc func(q *Queue, value string, userData any)

// Queue plays motions in start order. It exclusively owns its entries.
type Queue struct {
	entries []*Entry
	clock   float64
	next    Handle

	onEvent   EventFunc
	eventData any
	fired     []string
}

func NewQueue() *Queue { return &Queue{} }

// Clock is the time passed to the last Update.
func (q *Queue) Clock() float64 { return q.clock }

// SetEventCallback registers fn for clip events. userData is passed back on
// every call.
func (q *Queue) SetEventCallback(fn EventFunc, userData any) {
	q.onEvent = fn
	q.eventData = userData
}

// Start queues m and asks every queued entry to fade out over its own
// motion's fade out time. A nil motion returns InvalidHandle.
func (q *Queue) Start(m Motion, autoDelete bool) Handle {
	if m == nil {
		Logger().Warn().Msg("start called with nil motion")
		return InvalidHandle
	}
	for _, e := range q.entries {
		if e == nil || e.motion == nil {
			continue
		}
		e.TriggerFadeOut(e.motion.Settings().FadeOut())
	}
	h := q.next
	q.next++
	q.entries = append(q.entries, newEntry(h, m, autoDelete))
	return h
}

// Update advances every entry to clock and reports whether any entry was
// processed. Finished entries are dropped.
func (q *Queue) Update(m Model, clock float64) bool {
	q.clock = clock
	updated := false
	// Callbacks may start or stop motions, so iterate by index over the live slice.
	for i := 0; i < len(q.entries); i++ {
		e := q.entries[i]
		if e == nil || e.motion == nil {
			continue
		}
		updateParameters(m, e, clock)
		updated = true
		if e.motion == nil {
			continue
		}

		q.fired = e.motion.FiredEvents(e.lastEventCheck-e.startTime, clock-e.startTime, q.fired[:0])
		for _, v := range q.fired {
			if q.onEvent != nil {
				q.onEvent(q, v, q.eventData)
			}
			if e.motion == nil {
				break
			}
		}
		e.lastEventCheck = clock
		if e.motion == nil {
			continue
		}

		if !e.finished && e.fadeOutTriggered {
			e.startFadeOut(e.fadeOutSeconds, clock)
		}
	}
	q.compact()
	return updated
}

// compact drops finished entries and entries whose motion is gone.
func (q *Queue) compact() {
	kept := q.entries[:0]
	for _, e := range q.entries {
		switch {
		case e == nil:
		case e.motion == nil:
			Logger().Debug().Int64("handle", int64(e.handle)).Msg("dropping entry without motion")
		case e.finished:
			release(e)
		default:
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(q.entries); i++ {
		q.entries[i] = nil
	}
	q.entries = kept
}

func release(e *Entry) {
	if !e.autoDelete || e.motion == nil {
		return
	}
	if r, ok := e.motion.(Releaser); ok {
		r.Release()
	}
	e.motion = nil
}

// StopAll releases and drops every entry.
func (q *Queue) StopAll() {
	for _, e := range q.entries {
		if e != nil {
			release(e)
		}
	}
	q.entries = nil
}

// IsFinished reports whether no unfinished entry remains.
func (q *Queue) IsFinished() bool {
	for _, e := range q.entries {
		if e != nil && e.motion != nil && !e.finished {
			return false
		}
	}
	return true
}

// IsFinishedByHandle reports whether the entry for h is finished or gone.
func (q *Queue) IsFinishedByHandle(h Handle) bool {
	for _, e := range q.entries {
		if e != nil && e.motion != nil && e.handle == h && !e.finished {
			return false
		}
	}
	return true
}

// Entry returns the queued entry for h, or nil.
func (q *Queue) Entry(h Handle) *Entry {
	for _, e := range q.entries {
		if e != nil && e.handle == h {
			return e
		}
	}
	return nil
}

// Entries returns the queued entries oldest first.
func (q *Queue) Entries() []*Entry {
	out := make([]*Entry, 0, len(q.entries))
	for _, e := range q.entries {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (q *Queue) Len() int { return len(q.entries) }
