// Package monitoring serves the state of a running simulation over HTTP.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"
	"github.com/syifan/goseth"

	"github.com/sarchlab/stratum/mem/cache"
	"github.com/sarchlab/stratum/sim/id"
)

// A Level is a cache level that can be inspected.
type Level interface {
	Name() string
	Stats() cache.Stats
}

// Monitor can turn a simulation into a server and allows external monitoring
// of the simulation.
type Monitor struct {
	portNumber int
	log        logrus.FieldLogger
	idGen      id.IDGenerator

	// stateLock is held by the progress hooks while an access is in flight.
	stateLock sync.Mutex
	levels    []Level

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	profileDuration time.Duration
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		log:             logrus.StandardLogger(),
		idGen:           id.NewIDGenerator(),
		profileDuration: time.Second,
	}
}

// MinPortNumber is the lowest port the monitor accepts. Lower ports fall back
// to a random one.
const MinPortNumber = 1000

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < MinPortNumber {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLogger sets the logger that reports failed requests.
func (m *Monitor) WithLogger(log logrus.FieldLogger) *Monitor {
	m.log = log
	return m
}

// RegisterLevel register a level to be monitored. A level with the same name
// as a registered one replaces it.
func (m *Monitor) RegisterLevel(l Level) {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	for i, registered := range m.levels {
		if registered.Name() == l.Name() {
			m.levels[i] = l
			return
		}
	}

	m.levels = append(m.levels, l)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        m.idGen.Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the handler that serves the monitoring API.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/list_levels", m.listLevels)
	r.HandleFunc("/api/level/{name}", m.listLevelDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/stats", m.listStats)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

func (m *Monitor) listenAddress() string {
	if m.portNumber >= MinPortNumber {
		return ":" + strconv.Itoa(m.portNumber)
	}

	return ":0"
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", m.listenAddress())
	if err != nil {
		return "", fmt.Errorf("starting monitor: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	router := m.Router()
	go func() {
		err := http.Serve(listener, router)
		if err != nil {
			m.log.WithError(err).Error("monitoring server stopped")
		}
	}()

	return url, nil
}

func (m *Monitor) listLevels(w http.ResponseWriter, _ *http.Request) {
	m.stateLock.Lock()
	names := make([]string, 0, len(m.levels))
	for _, l := range m.levels {
		names = append(names, l.Name())
	}
	m.stateLock.Unlock()

	m.writeJSON(w, names)
}

func (m *Monitor) listLevelDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	level := m.findLevelOr404(w, name)
	if level == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(level)
	serializer.SetMaxDepth(1)

	buf := bytes.NewBuffer(nil)
	if err := serializer.Serialize(buf); err != nil {
		m.fail(w, err)
		return
	}

	m.write(w, buf.Bytes())
}

type fieldReq struct {
	LevelName string `json:"level_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.stateLock.Lock()
	defer m.stateLock.Unlock()

	level := m.findLevelOr404(w, req.LevelName)
	if level == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(level)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	buf := bytes.NewBuffer(nil)
	if err := serializer.Serialize(buf); err != nil {
		m.fail(w, err)
		return
	}

	m.write(w, buf.Bytes())
}

type levelStatsRsp struct {
	Name  string      `json:"name"`
	Stats cache.Stats `json:"stats"`
}

func (m *Monitor) listStats(w http.ResponseWriter, _ *http.Request) {
	m.stateLock.Lock()
	rsp := make([]levelStatsRsp, 0, len(m.levels))
	for _, l := range m.levels {
		rsp = append(rsp, levelStatsRsp{Name: l.Name(), Stats: l.Stats()})
	}
	m.stateLock.Unlock()

	m.writeJSON(w, rsp)
}

func (m *Monitor) findLevelOr404(w http.ResponseWriter, name string) Level {
	for _, l := range m.levels {
		if l.Name() == name {
			return l
		}
	}

	http.Error(w, "Level not found", http.StatusNotFound)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]ProgressBarSnapshot, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.Snapshot())
	}
	m.progressBarsLock.Unlock()

	m.writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	process, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		m.fail(w, err)
		return
	}

	cpuPercent, err := process.CPUPercent()
	if err != nil {
		m.fail(w, err)
		return
	}

	memorySize, err := process.MemoryInfo()
	if err != nil {
		m.fail(w, err)
		return
	}

	m.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		m.fail(w, err)
		return
	}

	m.writeJSON(w, prof)
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		m.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	m.write(w, data)
}

func (m *Monitor) write(w http.ResponseWriter, data []byte) {
	if _, err := w.Write(data); err != nil {
		m.log.WithError(err).Warn("failed to write monitoring response")
	}
}

func (m *Monitor) fail(w http.ResponseWriter, err error) {
	m.log.WithError(err).Error("monitoring request failed")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
