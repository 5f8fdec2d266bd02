package scenario

import "fmt"

// MatchError reports that no scenario or outline example row accounts for a
// runtime event's position. It marks a structural divergence between the
// recorded document and the live run, for example a file edited between
// parse and execution.
type MatchError struct {
	Line int64
	Name string
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("no scenario at line %d matches %q", e.Line, e.Name)
}

// StepLookupError reports a runtime step whose line was never indexed for
// the instance it ran under. A correctly built instance indexes every body
// and background step, so this surfaces a matching or construction defect.
type StepLookupError struct {
	Scenario string
	Line     int64
}

func (e *StepLookupError) Error() string {
	return fmt.Sprintf("no step at line %d indexed for scenario %q", e.Line, e.Scenario)
}

// ArityError reports an examples table whose header and data row disagree on
// cell count, which makes placeholder substitution impossible.
type ArityError struct {
	Template string
	Line     int64
	Header   int
	Row      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("examples row at line %d has %d cells, header has %d (outline %q)",
		e.Line, e.Row, e.Header, e.Template)
}
