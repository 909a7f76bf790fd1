// Package simulation replays traces against a cache hierarchy and wires the
// recording and monitoring services around the runs.
package simulation

import (
	"github.com/sarchlab/stratum/mem/mem"
	"github.com/sarchlab/stratum/sim/hooking"
	"github.com/sarchlab/stratum/sim/id"
	"github.com/sarchlab/stratum/workload"
)

// TaskKindAccess is the kind of the tasks that the simulator reports for each
// op of a trace.
const TaskKindAccess = "access"

// A Record is the outcome of a single op of a trace.
type Record struct {
	Index   int
	Kind    mem.AccessKind
	Address uint64
	Result  mem.AccessResult
}

// History lists the records of a run in trace order.
type History []Record

// A Simulator replays traces against the top level of a hierarchy.
type Simulator struct {
	hooking.HookableBase

	top   mem.LowModule
	idGen id.IDGenerator
}

// NewSimulator creates a simulator that sends every access to top.
func NewSimulator(top mem.LowModule) *Simulator {
	return &Simulator{
		top:   top,
		idGen: id.NewIDGenerator(),
	}
}

// Name returns the name of the simulator.
func (s *Simulator) Name() string {
	return "Simulator"
}

// Run executes the ops one by one in trace order. Each op completes before
// the next one starts.
func (s *Simulator) Run(ops []workload.Op) History {
	history := make(History, 0, len(ops))

	for i, op := range ops {
		taskID := s.traceAccessStart(op)

		var rsp mem.AccessResult
		switch op.Kind {
		case mem.AccessKindStore:
			rsp = s.top.Store(op.Address)
		default:
			rsp = s.top.Load(op.Address)
		}

		history = append(history, Record{
			Index:   i,
			Kind:    op.Kind,
			Address: op.Address,
			Result:  rsp,
		})

		s.traceAccessEnd(taskID, rsp)
	}

	return history
}

func (s *Simulator) traceAccessStart(op workload.Op) string {
	if s.NumHooks() == 0 {
		return ""
	}

	taskID := "access." + s.idGen.Generate()

	hooking.StartTask(s, hooking.TaskStart{
		ID:      taskID,
		Kind:    TaskKindAccess,
		What:    op.Kind.String(),
		Where:   s.Name(),
		Address: op.Address,
	})

	return taskID
}

func (s *Simulator) traceAccessEnd(taskID string, rsp mem.AccessResult) {
	if taskID == "" {
		return
	}

	hooking.EndTask(s, taskID, rsp)
}
