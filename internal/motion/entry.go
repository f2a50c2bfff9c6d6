package motion

// Handle identifies an Entry within the queue that created it.
type Handle int64

// InvalidHandle is returned when a motion could not be queued.
const InvalidHandle Handle = -1

// Entry is the playback state of one motion inside a queue.
type Entry struct {
	handle     Handle
	motion     Motion
	autoDelete bool

	available bool
	started   bool
	finished  bool

	startTime   float64
	fadeInStart float64
	endTime     float64

	stateTime   float64
	stateWeight float64

	lastEventCheck float64

	fadeOutSeconds   float64
	fadeOutTriggered bool
}

func newEntry(h Handle, m Motion, autoDelete bool) *Entry {
	return &Entry{
		handle:     h,
		motion:     m,
		autoDelete: autoDelete,
		available:  true,
		endTime:    -1,
	}
}

func (e *Entry) Handle() Handle { return e.handle }

// Motion returns the motion being played, or nil once released.
func (e *Entry) Motion() Motion { return e.motion }

func (e *Entry) Available() bool { return e.available }

// SetAvailable pauses (false) or resumes (true) the entry. Paused entries are
// neither set up nor applied.
func (e *Entry) SetAvailable(v bool) { e.available = v }

func (e *Entry) Started() bool { return e.started }

func (e *Entry) Finished() bool { return e.finished }

// Finish marks the entry finished. The owning queue drops it on its next update.
func (e *Entry) Finish() { e.finished = true }

func (e *Entry) StartTime() float64 { return e.startTime }

func (e *Entry) SetStartTime(t float64) { e.startTime = t }

func (e *Entry) FadeInStartTime() float64 { return e.fadeInStart }

func (e *Entry) SetFadeInStartTime(t float64) { e.fadeInStart = t }

// EndTime is the clock time the entry stops at, or -1 when unbounded.
func (e *Entry) EndTime() float64 { return e.endTime }

func (e *Entry) SetEndTime(t float64) { e.endTime = t }

// State returns the clock and fade weight recorded on the last update.
func (e *Entry) State() (time, weight float64) { return e.stateTime, e.stateWeight }

func (e *Entry) setState(time, weight float64) {
	e.stateTime = time
	e.stateWeight = weight
}

func (e *Entry) LastEventCheckTime() float64 { return e.lastEventCheck }

// TriggerFadeOut asks the entry to fade out over seconds. The queue applies
// it against its clock on the next update.
func (e *Entry) TriggerFadeOut(seconds float64) {
	e.fadeOutSeconds = seconds
	e.fadeOutTriggered = true
}

func (e *Entry) FadeOutTriggered() bool { return e.fadeOutTriggered }

func (e *Entry) FadeOutSeconds() float64 { return e.fadeOutSeconds }

// startFadeOut moves the end time to clock+seconds unless an earlier end
// time is already pending.
func (e *Entry) startFadeOut(seconds, clock float64) {
	end := clock + seconds
	e.fadeOutTriggered = true
	if e.endTime < 0 || end < e.endTime {
		e.endTime = end
	}
}
