package source

import (
	"fmt"
	"sync"

	messages "github.com/cucumber/messages/go/v21"

	"github.com/picklejar/pickleback/internal/attrs"
	"github.com/picklejar/pickleback/report"
)

// Document is one parsed feature together with its reporting bookkeeping:
// the attribute set derived once from the feature's tags and the set-once
// correlation identifier assigned by the reporting transport.
type Document struct {
	path    string
	feature *messages.Feature
	attrs   []report.Attribute

	mu    sync.Mutex
	id    report.ItemID
	idSet bool
}

func newDocument(path string, feature *messages.Feature) *Document {
	tags := make([]string, 0, len(feature.Tags))
	for _, t := range feature.Tags {
		tags = append(tags, t.Name)
	}
	return &Document{
		path:    path,
		feature: feature,
		attrs:   attrs.FromTags(tags),
	}
}

// Path returns the source path the document was recorded under.
func (d *Document) Path() string {
	return d.path
}

// Feature returns the parsed feature node.
func (d *Document) Feature() *messages.Feature {
	return d.feature
}

// Attributes returns the attribute set derived from the feature's tags.
func (d *Document) Attributes() []report.Attribute {
	return d.attrs
}

// Background returns the feature's leading background, or nil.
func (d *Document) Background() *messages.Background {
	for _, child := range d.feature.Children {
		if child.Background != nil {
			return child.Background
		}
	}
	return nil
}

// SetID assigns the correlation identifier for this document. It panics if
// an identifier was already assigned, whatever its value; re-assignment
// means the caller's correlation bookkeeping has broken down.
func (d *Document) SetID(id report.ItemID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.idSet {
		panic(fmt.Sprintf("source: correlation id already set for %s", d.path))
	}
	d.id = id
	d.idSet = true
}

// ID returns the assigned correlation identifier, or the zero ItemID when
// none was assigned yet.
func (d *Document) ID() report.ItemID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id
}
