package simulation

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/stratum/datarecording"
	"github.com/sarchlab/stratum/hierarchy"
	"github.com/sarchlab/stratum/mem/trace"
	"github.com/sarchlab/stratum/monitoring"
	"github.com/sarchlab/stratum/sim/hooking"
	"github.com/sarchlab/stratum/workload"
)

// A Simulation owns the services shared by all the runs of a session: the
// data recorder, the tracers, and the monitor.
type Simulation struct {
	id  string
	log logrus.FieldLogger

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	monitorURL   string
	visTracer    *trace.DBTracer
	logTracer    *trace.LogTracer
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetDataRecorder returns the data recorder used in the simulation, or nil
// if nothing is recorded.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation, or nil if the
// simulation is not monitored.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitoring server.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// Run replays the ops of a trace against a hierarchy. The hierarchy should
// be freshly built so that the result does not depend on earlier runs.
func (s *Simulation) Run(
	traceName string,
	h *hierarchy.Hierarchy,
	ops []workload.Op,
) History {
	simulator := NewSimulator(h.Top)

	if s.visTracer != nil {
		s.visTracer.StartRun(traceName)
		s.attach(simulator, h, s.visTracer)
	}

	if s.logTracer != nil {
		s.attach(simulator, h, s.logTracer)
	}

	if s.monitor != nil {
		for _, l := range h.Levels {
			s.monitor.RegisterLevel(l)
		}

		bar := s.monitor.CreateProgressBar(traceName, uint64(len(ops)))
		defer s.monitor.CompleteProgressBar(bar)

		simulator.AcceptHook(s.monitor.NewProgressHook(bar))
	}

	s.log.WithFields(logrus.Fields{
		"trace": traceName,
		"ops":   len(ops),
	}).Info("running trace")

	counter := hooking.NewTagCountTracer(nil)
	for _, l := range h.Levels {
		l.AcceptHook(counter)
	}

	history := simulator.Run(ops)

	fields := logrus.Fields{"trace": traceName}
	for _, name := range counter.GetTagNames() {
		fields[name] = counter.GetTagCount(name)
	}
	s.log.WithFields(fields).Debug("cache events")

	return history
}

func (s *Simulation) attach(
	simulator *Simulator,
	h *hierarchy.Hierarchy,
	hook hooking.Hook,
) {
	simulator.AcceptHook(hook)

	for _, l := range h.Levels {
		l.AcceptHook(hook)
	}
}

// Terminate flushes and closes the data recorder.
func (s *Simulation) Terminate() {
	if s.dataRecorder == nil {
		return
	}

	if err := s.dataRecorder.Close(); err != nil {
		s.log.WithError(err).Warn("failed to close data recorder")
	}
}
