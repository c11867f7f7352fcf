package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/san-kum/combustor/internal/config"
	"github.com/san-kum/combustor/internal/experiment"
	"github.com/san-kum/combustor/internal/metrics"
	"github.com/san-kum/combustor/internal/sim"
)

// Message types. Clients send env, start and stop; everything else flows
// from the server.
const (
	TypeEnv       = "env"
	TypeStart     = "start"
	TypeStop      = "stop"
	TypeEnvSet    = "envSet"
	TypeStarted   = "started"
	TypeSample    = "sample"
	TypeCompleted = "completed"
	TypeFailed    = "failed"
	TypeStopped   = "stopped"
	TypeError     = "error"
)

type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	// Preset selects a named configuration for an env request.
	Preset string `json:"preset,omitempty"`
	// Config overrides DefaultConfig field by field for an env request.
	Config  json.RawMessage  `json:"config,omitempty"`
	Sample  *SampleMsg       `json:"sample,omitempty"`
	Summary *metrics.Summary `json:"summary,omitempty"`
}

type SampleMsg struct {
	Step        int       `json:"step"`
	Time        float64   `json:"time"`
	Pressure    float64   `json:"pressure"`
	Temperature float64   `json:"temperature"`
	Density     float64   `json:"density"`
	Velocity    float64   `json:"velocity"`
	Thrust      float64   `json:"thrust"`
	Flows       []float64 `json:"flows"`
}

func newSampleMsg(step int, s sim.Sample) SampleMsg {
	return SampleMsg{
		Step:        step,
		Time:        s.Time,
		Pressure:    s.Pressure(),
		Temperature: s.Temperature(),
		Density:     s.Density(),
		Velocity:    s.Velocity,
		Thrust:      s.Thrust,
		Flows:       s.Flows,
	}
}

type runResult struct {
	res *experiment.Result
	err error
}

// Hub serves one websocket connection. Only the run loop writes to conn;
// the network itself is stepped on a separate goroutine that hands samples
// over a channel.
type Hub struct {
	conn   *websocket.Conn
	cfg    *config.Config
	every  int
	logger *log.Entry

	msgs    chan Msg
	samples chan SampleMsg
	done    chan runResult
	cancel  context.CancelFunc
}

func NewHub(conn *websocket.Conn, every int) *Hub {
	return &Hub{
		conn:    conn,
		cfg:     config.DefaultConfig(),
		every:   max(every, 1),
		logger:  log.WithField("remote", conn.RemoteAddr().String()),
		msgs:    make(chan Msg, 10),
		samples: make(chan SampleMsg, 64),
		done:    make(chan runResult, 1),
	}
}

// Run processes requests until the peer disconnects or ctx is done.
func (h *Hub) Run(ctx context.Context) {
	go h.readLoop(ctx)
	defer h.stopRun()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-h.msgs:
			if !ok {
				return
			}
			h.handle(ctx, msg)
		case s := <-h.samples:
			h.write(Msg{Type: TypeSample, Sample: &s})
		case r := <-h.done:
			h.cancel = nil
			h.finish(r)
		}
	}
}

func (h *Hub) readLoop(ctx context.Context) {
	defer close(h.msgs)
	for {
		var msg Msg
		if err := h.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.WithError(err).Warn("read failed")
			}
			return
		}
		select {
		case h.msgs <- msg:
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handle(ctx context.Context, msg Msg) {
	switch msg.Type {
	case TypeEnv:
		cfg, err := envConfig(msg)
		if err != nil {
			h.write(Msg{Type: TypeError, Content: err.Error()})
			return
		}
		h.cfg = cfg
		h.write(Msg{Type: TypeEnvSet, Content: "env is set"})
	case TypeStart:
		if h.cancel != nil {
			h.write(Msg{Type: TypeError, Content: "run already in progress"})
			return
		}
		if err := h.start(ctx); err != nil {
			h.write(Msg{Type: TypeError, Content: err.Error()})
			return
		}
		h.write(Msg{Type: TypeStarted})
	case TypeStop:
		h.stopRun()
		h.write(Msg{Type: TypeStopped, Content: "stopped"})
	default:
		h.write(Msg{Type: TypeError, Content: fmt.Sprintf("no such type: %q", msg.Type)})
	}
}

func envConfig(msg Msg) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if msg.Preset != "" {
		if cfg = config.GetPreset(msg.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", msg.Preset)
		}
	}
	if len(msg.Config) > 0 {
		dec := json.NewDecoder(bytes.NewReader(msg.Config))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return cfg, cfg.Validate()
}

func (h *Hub) start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	e := experiment.New(h.cfg)
	forward := sim.ObserverFunc(func(step int, s sim.Sample) {
		if step%h.every != 0 {
			return
		}
		select {
		case h.samples <- newSampleMsg(step, s):
		case <-runCtx.Done():
		}
	})
	if err := e.Setup(forward); err != nil {
		cancel()
		return err
	}

	h.cancel = cancel
	go func() {
		res, err := e.Run(runCtx)
		h.done <- runResult{res: res, err: err}
	}()
	h.logger.WithField("horizon", h.cfg.Run.Horizon).Info("run started")
	return nil
}

// stopRun cancels the active run, waits for it and drops its undelivered
// samples.
func (h *Hub) stopRun() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	<-h.done
	h.cancel = nil
	for len(h.samples) > 0 {
		<-h.samples
	}
	h.logger.Info("run stopped")
}

func (h *Hub) finish(r runResult) {
	// samples queued before the run ended go out first
	for len(h.samples) > 0 {
		s := <-h.samples
		h.write(Msg{Type: TypeSample, Sample: &s})
	}
	if r.err != nil {
		h.write(Msg{Type: TypeError, Content: r.err.Error()})
		return
	}
	reply := Msg{Type: TypeCompleted, Summary: &r.res.Summary}
	if r.res.Status == sim.Failed {
		reply.Type = TypeFailed
		reply.Content = r.res.Err.Error()
	}
	h.write(reply)
	h.logger.WithFields(log.Fields{"status": r.res.Status, "steps": r.res.Steps}).Info("run finished")
}

func (h *Hub) write(msg Msg) {
	if err := h.conn.WriteJSON(&msg); err != nil {
		h.logger.WithError(err).Warn("write failed")
	}
}
