// Package scenario resolves runtime test-case events against parsed feature
// documents. The correlation is positional: a plain scenario is identified by
// its declaration line and name, an outline instance by the source line of
// the example row it was expanded from. No identifier is shared between the
// document and the run, so this package owns the heuristics that bridge the
// two, plus the per-instance context (step map, background queue, naming)
// a reporting integration needs.
package scenario

import (
	messages "github.com/cucumber/messages/go/v21"

	"github.com/picklejar/pickleback/internal/attrs"
)

// Event is one runtime test-case occurrence as delivered by the host engine:
// the positional tuple that correlates it back to its source document.
type Event struct {
	// Path is the source path of the feature file the event refers to.
	Path string

	// Line is the declaration line of the scenario, or the line of the
	// example row for outline instances.
	Line int64

	// Name is the name the engine reports for the test case.
	Name string

	// Tags is the instance's own resolved tag list.
	Tags []string

	// Designation identifies this run instance. See Designation for the
	// canonical format.
	Designation string
}

// Matcher finds the definition a runtime event position refers to. The
// default policy is positional; swapping the Matcher changes the policy
// without touching event consumers.
type Matcher interface {
	Match(feature *messages.Feature, line int64, name string) (*messages.Scenario, error)
}

// LineNameMatcher is the default positional Matcher: line and name for plain
// scenarios, example-row line alone for outline instances.
type LineNameMatcher struct{}

// Match implements Matcher.
func (LineNameMatcher) Match(feature *messages.Feature, line int64, name string) (*messages.Scenario, error) {
	return Match(feature, line, name)
}

// Resolver turns matched definitions into execution instances. The Names
// memo is shared across every instance the resolver builds; one resolver
// serves a whole run.
type Resolver struct {
	// Matcher locates definitions for event positions.
	Matcher Matcher

	// Names owns the iteration-suffix memo.
	Names *Namer
}

// NewResolver creates a resolver with the default positional matcher and a
// fresh suffix memo.
func NewResolver() *Resolver {
	return &Resolver{
		Matcher: LineNameMatcher{},
		Names:   NewNamer(),
	}
}

// Match finds the definition for an event position in the feature.
func (r *Resolver) Match(feature *messages.Feature, line int64, name string) (*messages.Scenario, error) {
	return r.Matcher.Match(feature, line, name)
}

// Build constructs the execution instance for a matched definition. For
// outline instances the display name is substituted from the matched example
// row on the first resolution of the event's designation; a repeat
// designation reuses the template name and the memoized suffix. The step map
// covers body and background steps keyed by line, and background steps are
// queued in order for consumption.
func (r *Resolver) Build(sc *messages.Scenario, background *messages.Background, ev Event) (*Context, error) {
	name := sc.Name
	line := sc.Location.Line
	suffix := ""
	outline := IsOutline(sc)

	if outline {
		line = ev.Line

		var first bool
		suffix, first = r.Names.Suffix(ev.Designation)
		if first {
			if header, row := exampleRowFor(sc, ev.Line); row != nil {
				substituted, err := SubstituteName(sc.Name, header, row)
				if err != nil {
					return nil, err
				}
				name = substituted
			}
		}
	}

	steps := make(map[int64]*messages.Step, len(sc.Steps))
	for _, st := range sc.Steps {
		steps[st.Location.Line] = st
	}

	ctx := &Context{
		name:        name,
		keyword:     sc.Keyword,
		line:        line,
		suffix:      suffix,
		outline:     outline,
		designation: ev.Designation,
		attributes:  attrs.FromTags(ev.Tags),
		steps:       steps,
	}

	if background != nil {
		ctx.hasBackground = true
		ctx.backgroundKeyword = background.Keyword
		ctx.backgroundLines = make(map[int64]bool, len(background.Steps))
		for _, st := range background.Steps {
			steps[st.Location.Line] = st
			ctx.backgroundLines[st.Location.Line] = true
			ctx.pending = append(ctx.pending, st)
		}
	}

	return ctx, nil
}
