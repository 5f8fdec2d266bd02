package scenario

import (
	messages "github.com/cucumber/messages/go/v21"
)

// IsOutline reports whether a definition is a scenario outline, i.e. carries
// example tables.
func IsOutline(sc *messages.Scenario) bool {
	return len(sc.Examples) > 0
}

// Match walks the feature's scenario-level definitions in document order and
// returns the one an event position refers to. A plain scenario matches when
// both its declaration line and its name equal the event's. A scenario
// outline additionally matches when any of its example data rows sits on the
// event line; the outline itself is returned, never the row. Background and
// rule children are skipped, and the first hit wins.
//
// A nil feature, and an event no definition accounts for, fail with a
// MatchError: the recorded document and the live run have diverged, and the
// instance cannot be processed.
func Match(feature *messages.Feature, line int64, name string) (*messages.Scenario, error) {
	if feature == nil {
		return nil, &MatchError{Line: line, Name: name}
	}

	for _, child := range feature.Children {
		sc := child.Scenario
		if sc == nil {
			continue
		}
		if sc.Location.Line == line && sc.Name == name {
			return sc, nil
		}
		if _, row := exampleRowFor(sc, line); row != nil {
			return sc, nil
		}
	}
	return nil, &MatchError{Line: line, Name: name}
}

// exampleRowFor returns the example table header and the data row sitting on
// the given line, or nils when no row of any table matches.
func exampleRowFor(sc *messages.Scenario, line int64) (*messages.TableRow, *messages.TableRow) {
	for _, ex := range sc.Examples {
		for _, row := range ex.TableBody {
			if row.Location.Line == line {
				return ex.TableHeader, row
			}
		}
	}
	return nil, nil
}
