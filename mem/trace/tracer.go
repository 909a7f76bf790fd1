// Package trace provides hooks that record the accesses served by a memory
// hierarchy.
package trace

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/stratum/datarecording"
	"github.com/sarchlab/stratum/mem/mem"
	"github.com/sarchlab/stratum/sim/hooking"
)

// Table names used by the DBTracer.
const (
	AccessTable     = "accesses"
	CacheEventTable = "cache_events"
)

// accessEntry represents a trace access in the database
type accessEntry struct {
	Run         string
	ID          string
	Location    string
	Kind        string
	Address     uint64
	HitLevel    string
	TotalCycles uint64
}

// cacheEventEntry represents something that happened in a cache level while
// serving an access.
type cacheEventEntry struct {
	Run      string
	ID       string
	TaskID   string
	Location string
	What     string
	Address  string
}

// A DBTracer is a hook that records the accesses of a simulator and the
// events of the cache levels into a database. Attach the same tracer to the
// simulator and to every level. Task IDs restart with every hierarchy, so
// rows are told apart by the run they belong to.
type DBTracer struct {
	dataRecorder datarecording.DataRecorder
	run          string

	pendingAccesses map[string]*accessEntry
	currentAccess   string
}

// NewDBTracer creates a new DBTracer and the tables it writes into.
func NewDBTracer(dataRecorder datarecording.DataRecorder) *DBTracer {
	t := &DBTracer{
		dataRecorder:    dataRecorder,
		pendingAccesses: make(map[string]*accessEntry),
	}

	t.dataRecorder.CreateTable(AccessTable, accessEntry{})
	t.dataRecorder.CreateTable(CacheEventTable, cacheEventEntry{})

	return t
}

// StartRun tags the rows recorded from now on with the name of a run.
func (t *DBTracer) StartRun(run string) {
	t.run = run
	t.pendingAccesses = make(map[string]*accessEntry)
	t.currentAccess = ""
}

// Func records the task or the tag carried by the hook context.
func (t *DBTracer) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case hooking.HookPosTaskStart:
		t.startTask(ctx)
	case hooking.HookPosTaskTag:
		t.tagTask(ctx)
	case hooking.HookPosTaskEnd:
		t.endTask(ctx)
	}
}

func (t *DBTracer) startTask(ctx hooking.HookCtx) {
	task, ok := ctx.Item.(hooking.TaskStart)
	if !ok || task.Kind != "access" {
		return
	}

	t.pendingAccesses[task.ID] = &accessEntry{
		Run:      t.run,
		ID:       task.ID,
		Location: task.Where,
		Kind:     task.What,
		Address:  task.Address,
	}
	t.currentAccess = task.ID
}

func (t *DBTracer) tagTask(ctx hooking.HookCtx) {
	tag, ok := ctx.Item.(hooking.TaskTag)
	if !ok {
		return
	}

	entry := cacheEventEntry{
		Run:      t.run,
		ID:       tag.TaskID + "." + tag.What,
		TaskID:   t.currentAccess,
		Location: hooking.DomainName(ctx),
		What:     tag.What,
		Address:  tag.Detail,
	}

	t.dataRecorder.InsertData(CacheEventTable, entry)
}

func (t *DBTracer) endTask(ctx hooking.HookCtx) {
	end, ok := ctx.Item.(hooking.TaskEnd)
	if !ok {
		return
	}

	entry, exists := t.pendingAccesses[end.ID]
	if !exists {
		return
	}

	if rsp, ok := ctx.Detail.(mem.AccessResult); ok {
		entry.HitLevel = rsp.HitLevel
		entry.TotalCycles = rsp.TotalCycles
	}

	t.dataRecorder.InsertData(AccessTable, *entry)

	delete(t.pendingAccesses, end.ID)
	if t.currentAccess == end.ID {
		t.currentAccess = ""
	}
}

// A LogTracer writes every access and every cache event to a logger at the
// trace level.
type LogTracer struct {
	log logrus.FieldLogger
}

// NewLogTracer creates a new LogTracer.
func NewLogTracer(log logrus.FieldLogger) *LogTracer {
	return &LogTracer{log: log}
}

// Func logs the task or the tag carried by the hook context.
func (t *LogTracer) Func(ctx hooking.HookCtx) {
	fields := logrus.Fields{"where": hooking.DomainName(ctx)}

	switch item := ctx.Item.(type) {
	case hooking.TaskStart:
		fields["task"] = item.ID
		fields["what"] = item.What
		fields["address"] = item.Address
		t.log.WithFields(fields).Trace("start")
	case hooking.TaskTag:
		fields["task"] = item.TaskID
		fields["what"] = item.What
		if item.Detail != "" {
			fields["detail"] = item.Detail
		}
		t.log.WithFields(fields).Trace("tag")
	case hooking.TaskEnd:
		fields["task"] = item.ID
		if rsp, ok := ctx.Detail.(mem.AccessResult); ok {
			fields["hit_level"] = rsp.HitLevel
			fields["cycles"] = rsp.TotalCycles
		}
		t.log.WithFields(fields).Trace("end")
	}
}
