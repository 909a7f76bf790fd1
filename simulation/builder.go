package simulation

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/stratum/datarecording"
	"github.com/sarchlab/stratum/mem/trace"
	"github.com/sarchlab/stratum/monitoring"
	"github.com/sarchlab/stratum/sim/id"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	recordOn       bool
	outputFileName string
	traceLogging   bool
	log            logrus.FieldLogger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		log: logrus.StandardLogger(),
	}
}

// WithMonitor starts the monitoring server when the simulation is built.
func (b Builder) WithMonitor() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithRecording records every access into a database.
func (b Builder) WithRecording() Builder {
	b.recordOn = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithTraceLogging logs every access and cache event at the trace level.
func (b Builder) WithTraceLogging() Builder {
	b.traceLogging = true
	return b
}

// WithLogger sets the logger of the simulation.
func (b Builder) WithLogger(log logrus.FieldLogger) Builder {
	b.log = log
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordOn && b.outputFileName != "" {
		panic("output file cannot be set when recording is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	s := &Simulation{
		id:  id.NewGlobalIDGenerator().Generate(),
		log: b.log,
	}

	if b.recordOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "stratum_sim_" + s.id
		}

		s.dataRecorder = datarecording.New(outputPath)
		s.visTracer = trace.NewDBTracer(s.dataRecorder)
	}

	if b.traceLogging {
		s.logTracer = trace.NewLogTracer(b.log)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().WithLogger(b.log)
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		url, err := s.monitor.StartServer()
		if err != nil {
			s.Terminate()
			return nil, err
		}

		s.monitorURL = url
	}

	return s, nil
}
