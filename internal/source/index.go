// Package source caches specification sources per path and resolves them
// into parsed feature documents. Parsing is delegated to the Gherkin parser;
// a parse failure is recorded as an absent document, never as an error, so a
// malformed or partially written file cannot abort a run.
package source

import (
	"bytes"
	"sync"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
)

// Index is the process-lifetime cache mapping source paths to raw text and
// to parse results. It is safe for concurrent use; both maps use
// insert-if-absent semantics so interleaved scenario reporting can share one
// Index.
type Index struct {
	mu      sync.RWMutex
	sources map[string][]byte
	parsed  map[string]*Document
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		sources: make(map[string][]byte),
		parsed:  make(map[string]*Document),
	}
}

// RecordSource stores the raw text for a path. Re-reads overwrite: the
// latest read wins, and any cached parse result for the path is dropped.
func (x *Index) RecordSource(path string, content []byte) {
	buf := make([]byte, len(content))
	copy(buf, content)

	x.mu.Lock()
	defer x.mu.Unlock()
	x.sources[path] = buf
	delete(x.parsed, path)
}

// Resolve returns the parsed document for a path, parsing the recorded raw
// text on first use. It returns nil when no source was recorded for the path
// or when parsing fails. Results, including failures, stay cached until the
// next RecordSource for the path.
func (x *Index) Resolve(path string) *Document {
	x.mu.RLock()
	doc, cached := x.parsed[path]
	x.mu.RUnlock()
	if cached {
		return doc
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if doc, cached := x.parsed[path]; cached {
		return doc
	}

	doc = nil
	if raw, ok := x.sources[path]; ok {
		doc = parse(path, raw)
	}
	x.parsed[path] = doc
	return doc
}

// parse runs the Gherkin parser over raw text. Any parser error, and a
// document without a feature node, resolve to nil.
func parse(path string, raw []byte) *Document {
	gd, err := gherkin.ParseGherkinDocument(bytes.NewReader(raw), (&messages.UUID{}).NewId)
	if err != nil || gd.Feature == nil {
		return nil
	}
	return newDocument(path, gd.Feature)
}
