// Package preview serves a running rig over HTTP: model frames and
// diagnostics stream over websockets, and a control socket starts motions
// and expressions.
package preview

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/motionrig/internal/app"
	diag "github.com/coreman2200/motionrig/internal/diagnostics"
	"github.com/coreman2200/motionrig/internal/model"
)

const writeWait = 200 * time.Millisecond

// Message types sent to clients.
const (
	TypeTopology = "topology"
	TypeFrame    = "frame"
	TypeReply    = "reply"
)

type State struct {
	mu  sync.Mutex
	Rig *app.Rig

	frameID     uint64
	startTime   time.Time
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	upgrader    websocket.Upgrader
}

func NewState(r *app.Rig) *State {
	return &State{
		Rig:         r,
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Routes registers the preview handlers on mux.
func (s *State) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	mux.HandleFunc("/health", s.HandleHealth)
}

type topologyMsg struct {
	Type string `json:"type"`
	app.Topology
}

type frameMsg struct {
	Type    string `json:"type"`
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	model.Snapshot
}

func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	b, _ := json.Marshal(topologyMsg{Type: TypeTopology, Topology: s.Rig.Topology()})

	s.mu.Lock()
	s.clients[conn] = true
	write(conn, b)
	s.mu.Unlock()

	go s.drain(conn, s.clients)
}

// HandleDiagWS streams diagnostics. New clients first get the library
// check findings, then an info message saying they are connected.
func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	found := s.Rig.Lib.Check()
	found.Add(diag.Info, "DIAG.CONNECTED", "diagnostics stream connected", nil)

	s.mu.Lock()
	s.diagClients[conn] = true
	for _, d := range found {
		b, _ := json.Marshal(d)
		write(conn, b)
	}
	s.mu.Unlock()

	go s.drain(conn, s.diagClients)
}

// drain discards client messages until the connection fails, then forgets it.
func (s *State) drain(conn *websocket.Conn, set map[*websocket.Conn]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Command is one control request. Fields are applied in order: stop,
// calibrate, motion, expression.
type Command struct {
	Stop       bool    `json:"stop,omitempty"`
	Calibrate  string  `json:"calibrate,omitempty"` // parameter_sweep | part_sweep | opacity_fade
	Step       float64 `json:"step,omitempty"`      // seconds per calibration target
	Motion     string  `json:"motion,omitempty"`
	Priority   int     `json:"priority,omitempty"` // defaults to app.PriorityNormal
	Expression string  `json:"expression,omitempty"`
}

type Reply struct {
	Type   string     `json:"type"`
	OK     bool       `json:"ok"`
	Error  string     `json:"error,omitempty"`
	Handle int64      `json:"handle,omitempty"`
	Status app.Status `json:"status"`
}

func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.pushDiag(diag.Diagnostic{
				Severity: diag.Warn, Code: "CONTROL.DECODE", Summary: "control message is not a command",
				Detail: err.Error(),
			})
			continue
		}
		b, _ := json.Marshal(s.apply(cmd))
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

func (s *State) apply(cmd Command) Reply {
	reply := Reply{Type: TypeReply, OK: true}
	fail := func(code string, err error, evidence map[string]any) {
		reply.OK = false
		reply.Error = err.Error()
		s.pushDiag(diag.Diagnostic{Severity: diag.Warn, Code: code, Summary: err.Error(), Evidence: evidence})
	}

	if cmd.Stop {
		s.Rig.StopAll()
	}
	if cmd.Calibrate != "" {
		h, err := s.Rig.Calibrate(app.Calibration(cmd.Calibrate), cmd.Step)
		if err != nil {
			fail("CALIB.UNKNOWN", err, map[string]any{"name": cmd.Calibrate})
		} else {
			reply.Handle = int64(h)
			s.pushDiag(diag.Diagnostic{Severity: diag.Info, Code: "CALIB.RUNNING", Summary: "running calibration", Detail: cmd.Calibrate})
		}
	}
	if cmd.Motion != "" {
		p := cmd.Priority
		if p == 0 {
			p = app.PriorityNormal
		}
		h, err := s.Rig.StartMotion(cmd.Motion, p)
		if err != nil {
			fail("CONTROL.MOTION", err, map[string]any{"motion": cmd.Motion, "priority": p})
		} else if cmd.Calibrate == "" {
			reply.Handle = int64(h)
		}
	}
	if cmd.Expression != "" {
		h, err := s.Rig.SetExpression(cmd.Expression)
		if err != nil {
			fail("CONTROL.EXPRESSION", err, map[string]any{"expression": cmd.Expression})
		} else if cmd.Motion == "" && cmd.Calibrate == "" {
			reply.Handle = int64(h)
		}
	}
	reply.Status = s.Rig.Status()
	return reply
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.Rig.Status()
	s.mu.Lock()
	resp := map[string]any{
		"frame_id":    s.frameID,
		"uptime_s":    time.Since(s.startTime).Seconds(),
		"clock":       st.Clock,
		"frames":      st.Frames,
		"motions":     st.Motions,
		"expressions": st.Expressions,
		"priority":    st.Priority,
		"clients":     len(s.clients),
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// PublishFrame broadcasts a snapshot to every frame client. It matches
// app.Conductor.OnFrame.
func (s *State) PublishFrame(frame uint64, snap model.Snapshot) {
	b, err := json.Marshal(frameMsg{Type: TypeFrame, T: time.Now().UnixNano(), FrameID: frame, Snapshot: snap})
	if err != nil {
		log.Debug().Err(err).Msg("encode frame")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameID = frame
	for c := range s.clients {
		if err := write(c, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

// PushEvent reports a clip event to diagnostics clients. It matches the
// rig event sink and never calls back into the rig.
func (s *State) PushEvent(event string) {
	s.pushDiag(diag.Diagnostic{
		Severity: diag.Info, Code: "MOTION.EVENT", Summary: "clip event fired",
		Evidence: map[string]any{"event": event},
	})
}

func (s *State) pushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.diagClients {
		_ = write(c, b)
	}
}

func write(c *websocket.Conn, b []byte) error {
	c.SetWriteDeadline(time.Now().Add(writeWait))
	return c.WriteMessage(websocket.TextMessage, b)
}
