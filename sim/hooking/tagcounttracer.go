package hooking

import (
	"sync"
)

// TagCountTracer counts how many times each tag is attached to the tasks of
// the domains it hooks to.
type TagCountTracer struct {
	filter TaskFilter
	lock   sync.Mutex

	tagNames []string
	tagCount map[string]uint64
}

// NewTagCountTracer creates a new TagCountTracer. A nil filter counts every
// tag.
func NewTagCountTracer(filter TaskFilter) *TagCountTracer {
	t := &TagCountTracer{
		filter:   filter,
		tagCount: make(map[string]uint64),
	}

	return t
}

// Func counts the tag if the hook is triggered at a tag position.
func (t *TagCountTracer) Func(ctx HookCtx) {
	if ctx.Pos != HookPosTaskTag {
		return
	}

	tag, ok := ctx.Item.(TaskTag)
	if !ok {
		return
	}

	t.TagTask(tag)
}

// GetTagNames returns all the tag names collected, in the order they are
// first seen.
func (t *TagCountTracer) GetTagNames() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	names := make([]string, len(t.tagNames))
	copy(names, t.tagNames)

	return names
}

// GetTagCount returns the number of times a tag is recorded.
func (t *TagCountTracer) GetTagCount(tagName string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tagCount[tagName]
}

// TagTask counts a tag.
func (t *TagCountTracer) TagTask(taskTag TaskTag) {
	if t.filter != nil && !t.filter(taskTag) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	_, ok := t.tagCount[taskTag.What]
	if !ok {
		t.tagNames = append(t.tagNames, taskTag.What)
	}

	t.tagCount[taskTag.What]++
}
