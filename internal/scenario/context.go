package scenario

import (
	"fmt"
	"strings"
	"sync"

	messages "github.com/cucumber/messages/go/v21"

	"github.com/picklejar/pickleback/report"
)

// Context is one execution instance of a scenario: a plain scenario maps to
// exactly one Context per run, an outline to one Context per example row.
// Every runtime test case gets its own Context; instances are not shared, so
// apart from the set-once identifier slot the state is unsynchronized.
type Context struct {
	name        string
	keyword     string
	line        int64
	suffix      string
	outline     bool
	designation string
	attributes  []report.Attribute

	steps           map[int64]*messages.Step
	pending         []*messages.Step
	backgroundLines map[int64]bool

	hasBackground     bool
	backgroundKeyword string

	mu    sync.Mutex
	id    report.ItemID
	idSet bool
}

// Name returns the resolved display name: the substituted instance name for
// a first-resolved outline row, the definition name otherwise.
func (c *Context) Name() string {
	return c.name
}

// Keyword returns the definition keyword as written in the source.
func (c *Context) Keyword() string {
	return c.keyword
}

// Line returns the resolved source line: the example row's line for outline
// instances, the declaration line otherwise.
func (c *Context) Line() int64 {
	return c.line
}

// IterationSuffix returns the memoized outline iteration suffix, empty for
// plain scenarios.
func (c *Context) IterationSuffix() string {
	return c.suffix
}

// Outline reports whether this instance came from a scenario outline.
func (c *Context) Outline() bool {
	return c.outline
}

// Designation returns the run-designation string the instance was built for.
func (c *Context) Designation() string {
	return c.designation
}

// Attributes returns the attribute set derived from the event's tag list.
func (c *Context) Attributes() []report.Attribute {
	return c.attributes
}

// Step looks up a runtime step by its source line in the instance's merged
// step map. A line that was never indexed fails with a StepLookupError;
// that must surface loudly, because it means matching or construction
// malfunctioned for this instance.
func (c *Context) Step(line int64) (*messages.Step, error) {
	st, ok := c.steps[line]
	if !ok {
		return nil, &StepLookupError{Scenario: c.name, Line: line}
	}
	return st, nil
}

// StepLines returns the indexed source lines in no particular order.
func (c *Context) StepLines() []int64 {
	lines := make([]int64, 0, len(c.steps))
	for line := range c.steps {
		lines = append(lines, line)
	}
	return lines
}

// IsBackgroundStep reports whether the indexed line belongs to the
// background block.
func (c *Context) IsBackgroundStep(line int64) bool {
	return c.backgroundLines[line]
}

// HasBackground reports whether a background was attached when the instance
// was built.
func (c *Context) HasBackground() bool {
	return c.hasBackground
}

// HasPendingBackgroundSteps reports whether background steps remain
// unconsumed.
func (c *Context) HasPendingBackgroundSteps() bool {
	return len(c.pending) > 0
}

// ConsumeBackgroundStep removes the head of the background queue, letting
// callers track how many background steps remain unexecuted. Consuming from
// an empty queue is a no-op.
func (c *Context) ConsumeBackgroundStep() {
	if len(c.pending) == 0 {
		return
	}
	c.pending = c.pending[1:]
}

// StepPrefix returns the text to prepend to a reported background step: the
// background keyword uppercased with a colon, as long as background steps
// remain pending. Empty otherwise.
func (c *Context) StepPrefix() string {
	if c.hasBackground && len(c.pending) > 0 {
		return strings.ToUpper(strings.TrimSpace(c.backgroundKeyword)) + ": "
	}
	return ""
}

// SetID assigns the correlation identifier for this instance. It panics if
// an identifier was already assigned, whatever its value.
func (c *Context) SetID(id report.ItemID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.idSet {
		panic(fmt.Sprintf("scenario: correlation id already set for %q", c.name))
	}
	c.id = id
	c.idSet = true
}

// ID returns the assigned correlation identifier, or the zero ItemID when
// none was assigned yet.
func (c *Context) ID() report.ItemID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}
