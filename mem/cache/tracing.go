package cache

import (
	"fmt"

	"github.com/sarchlab/stratum/mem/mem"
	"github.com/sarchlab/stratum/sim/hooking"
)

// The tags attached to the tasks of a cache level.
const (
	TagCacheHit  = "cache_hit"
	TagCacheMiss = "cache_miss"
	TagEviction  = "eviction"
	TagWriteBack = "write_back"
)

// traceReqStart returns the ID of the task of the access, or an empty string
// if nobody is listening.
func (c *Comp) traceReqStart(kind mem.AccessKind, addr uint64) string {
	if c.NumHooks() == 0 {
		return ""
	}

	taskID := c.name + "." + c.idGen.Generate()

	what := "load"
	if kind == mem.AccessKindStore {
		what = "store"
	}

	hooking.StartTask(c, hooking.TaskStart{
		ID:      taskID,
		Kind:    "req_in",
		What:    what,
		Where:   c.name,
		Address: addr,
	})

	return taskID
}

func (c *Comp) traceReqEnd(taskID string, rsp mem.AccessResult) {
	if taskID == "" {
		return
	}

	hooking.EndTask(c, taskID, rsp)
}

func (c *Comp) tag(taskID, what, detail string) {
	if taskID == "" {
		return
	}

	hooking.TagTask(c, hooking.TaskTag{
		TaskID: taskID,
		What:   what,
		Detail: detail,
	})
}

func (c *Comp) tagCacheHit(taskID string) {
	c.tag(taskID, TagCacheHit, "")
}

func (c *Comp) tagCacheMiss(taskID string) {
	c.tag(taskID, TagCacheMiss, "")
}

func (c *Comp) tagEviction(taskID string, addr uint64) {
	c.tag(taskID, TagEviction, fmt.Sprintf("0x%x", addr))
}

func (c *Comp) tagWriteBack(taskID string, addr uint64) {
	c.tag(taskID, TagWriteBack, fmt.Sprintf("0x%x", addr))
}
