package scenario

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	messages "github.com/cucumber/messages/go/v21"
)

// iterationToken reduces a run designation to its row token by stripping the
// file-path prefix and any trailing decoration.
var iterationToken = regexp.MustCompile(`.*\.feature:| #.*`)

// Designation composes the canonical run-designation string for an event:
// "<path>:<line> # <name>". Hosts with their own designation format may
// supply it directly on the Event instead.
func Designation(path string, line int64, name string) string {
	return fmt.Sprintf("%s:%d # %s", path, line, name)
}

// SubstituteName replaces every <placeholder> occurrence in an outline name
// template with the value cell sharing the placeholder's header column.
// Placeholders without a header entry are left untouched. Replacement
// follows header column order, so a call is deterministic, and a name with
// no remaining placeholders passes through unchanged.
func SubstituteName(template string, header, row *messages.TableRow) (string, error) {
	if header == nil || row == nil {
		return template, nil
	}
	if len(header.Cells) != len(row.Cells) {
		return "", &ArityError{
			Template: template,
			Line:     row.Location.Line,
			Header:   len(header.Cells),
			Row:      len(row.Cells),
		}
	}

	name := template
	for i, cell := range header.Cells {
		name = strings.ReplaceAll(name, "<"+cell.Value+">", row.Cells[i].Value)
	}
	return name, nil
}

// Namer owns the process-wide iteration-suffix memo. Entries are created on
// demand and never evicted within a run; the table is bounded by the number
// of distinct outline instances the run produces. Safe for concurrent use.
type Namer struct {
	mu       sync.RWMutex
	suffixes map[string]string
}

// NewNamer creates an empty suffix memo.
func NewNamer() *Namer {
	return &Namer{suffixes: make(map[string]string)}
}

// Suffix returns the iteration suffix for a run designation and whether this
// call created the memo entry. The first call for a designation derives the
// suffix from its row token and stores it; every later call returns the
// stored value unchanged.
func (n *Namer) Suffix(designation string) (string, bool) {
	n.mu.RLock()
	s, ok := n.suffixes[designation]
	n.mu.RUnlock()
	if ok {
		return s, false
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if s, ok := n.suffixes[designation]; ok {
		return s, false
	}

	s = " [" + iterationToken.ReplaceAllString(designation, "") + "]"
	n.suffixes[designation] = s
	return s, true
}
