// Package monitor exposes a running fire simulation over HTTP and websocket
// so external renderers and scripts can observe and steer it.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"

	"firesim/internal/sims/fire"
)

// Monitor serves the monitoring API for one Controller.
type Monitor struct {
	ctrl       Controller
	portNumber int
	logger     *slog.Logger
	upgrader   websocket.Upgrader
}

// New creates a monitor for ctrl.
func New(ctrl Controller) *Monitor {
	return &Monitor{
		ctrl:   ctrl,
		logger: slog.Default(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// WithPortNumber sets the listening port. Ports below 1000 select a random
// free port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		portNumber = 0
	}
	m.portNumber = portNumber
	return m
}

// WithLogger replaces the logger.
func (m *Monitor) WithLogger(l *slog.Logger) *Monitor {
	if l != nil {
		m.logger = l
	}
	return m
}

// Router builds the HTTP routes.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/now", m.now).Methods(http.MethodGet)
	api.HandleFunc("/pause", m.pause).Methods(http.MethodPost)
	api.HandleFunc("/continue", m.resume).Methods(http.MethodPost)
	api.HandleFunc("/step", m.step).Methods(http.MethodPost)
	api.HandleFunc("/ignite/{row:[0-9]+}/{col:[0-9]+}", m.ignite).Methods(http.MethodPost)
	api.HandleFunc("/field/{name}", m.field).Methods(http.MethodGet)
	api.HandleFunc("/stats", m.stats).Methods(http.MethodGet)
	api.HandleFunc("/resource", m.resource).Methods(http.MethodGet)
	r.HandleFunc("/ws", m.stream)
	return r
}

// Start listens on the configured port and serves until ctx is cancelled.
// It returns the base URL once the listener is ready.
func (m *Monitor) Start(ctx context.Context) (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	srv := &http.Server{Handler: m.Router(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("monitor server stopped", "error", err)
		}
	}()
	return url, nil
}

// OpenBrowser opens url in the default browser.
func OpenBrowser(url string) error {
	return browser.OpenURL(url)
}

type errorRsp struct {
	Error string `json:"error"`
}

type statsRsp struct {
	Burning  int     `json:"burning"`
	Burned   int     `json:"burned"`
	MeanTemp float64 `json:"mean_temp"`
	MaxTemp  float64 `json:"max_temp"`
	Fuel     float64 `json:"fuel"`
	Oxygen   float64 `json:"oxygen"`
}

type fieldRsp struct {
	Tick   uint64      `json:"tick"`
	Field  string      `json:"field"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Values [][]float64 `json:"values"`
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		m.logger.Warn("write response", "error", err)
	}
}

func (m *Monitor) writeError(w http.ResponseWriter, status int, err error) {
	m.writeJSON(w, status, errorRsp{Error: err.Error()})
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, http.StatusOK, m.ctrl.Status())
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	m.ctrl.Pause()
	m.writeJSON(w, http.StatusOK, m.ctrl.Status())
}

func (m *Monitor) resume(w http.ResponseWriter, _ *http.Request) {
	m.ctrl.Continue()
	m.writeJSON(w, http.StatusOK, m.ctrl.Status())
}

func (m *Monitor) step(w http.ResponseWriter, _ *http.Request) {
	st, err := m.ctrl.StepOnce()
	if err != nil {
		m.writeError(w, http.StatusInternalServerError, err)
		return
	}
	m.writeJSON(w, http.StatusOK, st)
}

func (m *Monitor) ignite(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	row, errRow := strconv.Atoi(vars["row"])
	col, errCol := strconv.Atoi(vars["col"])
	if err := errors.Join(errRow, errCol); err != nil {
		m.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := m.ctrl.Ignite(row, col); err != nil {
		status := http.StatusInternalServerError
		if fire.IsConfigError(err) {
			status = http.StatusBadRequest
		}
		m.writeError(w, status, err)
		return
	}
	m.writeJSON(w, http.StatusOK, m.ctrl.Status())
}

func (m *Monitor) field(w http.ResponseWriter, r *http.Request) {
	f, err := fire.ParseField(mux.Vars(r)["name"])
	if err != nil {
		m.writeError(w, http.StatusNotFound, err)
		return
	}
	rsp, err := m.snapshot(f)
	if err != nil {
		m.writeError(w, http.StatusInternalServerError, err)
		return
	}
	m.writeJSON(w, http.StatusOK, rsp)
}

func (m *Monitor) snapshot(f fire.Field) (fieldRsp, error) {
	st, snap, err := m.ctrl.Field(f)
	if err != nil {
		return fieldRsp{}, err
	}
	return fieldRsp{Tick: st.Tick, Field: f.String(), Width: snap.Width, Height: snap.Height, Values: snap.Rows()}, nil
}

func (m *Monitor) stats(w http.ResponseWriter, _ *http.Request) {
	s := m.ctrl.Stats()
	m.writeJSON(w, http.StatusOK, statsRsp{
		Burning:  s.Burning,
		Burned:   s.Burned,
		MeanTemp: s.MeanTemp,
		MaxTemp:  s.MaxTemp,
		Fuel:     s.Fuel,
		Oxygen:   s.Oxygen,
	})
}

func (m *Monitor) resource(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		m.writeError(w, http.StatusInternalServerError, err)
		return
	}
	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		m.writeError(w, http.StatusInternalServerError, err)
		return
	}
	mem, err := proc.MemoryInfo()
	if err != nil {
		m.writeError(w, http.StatusInternalServerError, err)
		return
	}
	m.writeJSON(w, http.StatusOK, resourceRsp{CPUPercent: cpuPercent, MemorySize: mem.RSS})
}

// stream upgrades to a websocket and pushes the requested field (temperature
// by default) after every tick. The client may switch fields by sending
// {"field": "<name>"}.
func (m *Monitor) stream(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("field")
	if name == "" {
		name = fire.FieldTemperature.String()
	}
	f, err := fire.ParseField(name)
	if err != nil {
		m.writeError(w, http.StatusNotFound, err)
		return
	}
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	requests := make(chan fire.Field, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg struct {
				Field string `json:"field"`
			}
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			next, err := fire.ParseField(msg.Field)
			if err != nil {
				continue
			}
			select {
			case requests <- next:
			default:
			}
		}
	}()

	updates, cancel := m.ctrl.Subscribe()
	defer cancel()

	send := func() bool {
		rsp, err := m.snapshot(f)
		if err != nil {
			return false
		}
		return conn.WriteJSON(rsp) == nil
	}
	if !send() {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-done:
			return
		case f = <-requests:
			if !send() {
				return
			}
		case _, ok := <-updates:
			if !ok || !send() {
				return
			}
		}
	}
}
