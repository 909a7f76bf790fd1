package hooking

// A list of hook poses for the hooks to apply to
var (
	HookPosTaskStart = &HookPos{Name: "HookPosTaskStart"}
	HookPosTaskTag   = &HookPos{Name: "HookPosTaskTag"}
	HookPosTaskEnd   = &HookPos{Name: "HookPosTaskEnd"}
)

// TaskStart is data that is passed to the hook when a task starts.
type TaskStart struct {
	ID      string
	Kind    string
	What    string
	Where   string
	Address uint64
}

// TaskTag is data attached to a task to provide more information about the
// task.
type TaskTag struct {
	TaskID string
	What   string
	Detail string
}

// TaskEnd is data that is passed to the hook when a task ends.
type TaskEnd struct {
	ID string
}

// TaskFilter is a function that can filter interesting tags. If this function
// returns true, the tag is counted.
type TaskFilter func(t TaskTag) bool

// StartTask notifies the hooks of the domain that a task has started. It is a
// no-op when nothing is hooked.
func StartTask(domain Invoker, start TaskStart) {
	if domain.NumHooks() == 0 {
		return
	}

	if start.ID == "" {
		panic("task ID must be set")
	}

	domain.InvokeHook(HookCtx{
		Domain: domain,
		Pos:    HookPosTaskStart,
		Item:   start,
	})
}

// TagTask notifies the hooks of the domain about a tag of a task.
func TagTask(domain Invoker, tag TaskTag) {
	if domain.NumHooks() == 0 {
		return
	}

	domain.InvokeHook(HookCtx{
		Domain: domain,
		Pos:    HookPosTaskTag,
		Item:   tag,
	})
}

// EndTask notifies the hooks of the domain that a task has ended. The detail
// travels in HookCtx.Detail.
func EndTask(domain Invoker, id string, detail interface{}) {
	if domain.NumHooks() == 0 {
		return
	}

	domain.InvokeHook(HookCtx{
		Domain: domain,
		Pos:    HookPosTaskEnd,
		Item:   TaskEnd{ID: id},
		Detail: detail,
	})
}

// Invoker is a Hookable that can fire its hooks.
type Invoker interface {
	Hookable
	InvokeHook(ctx HookCtx)
}
