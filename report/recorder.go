package report

import "sync"

// Call kinds recorded by the Recorder.
const (
	CallStartRun       = "start-run"
	CallFinishRun      = "finish-run"
	CallStartFeature   = "start-feature"
	CallFinishFeature  = "finish-feature"
	CallStartScenario  = "start-scenario"
	CallFinishScenario = "finish-scenario"
	CallStartStep      = "start-step"
	CallFinishStep     = "finish-step"
)

// Call is one recorded reporter invocation.
type Call struct {
	// Kind is one of the Call* constants.
	Kind string

	// ID is the handle minted for start calls, or the handle being closed
	// for finish calls.
	ID ItemID

	// Parent is the parent handle passed to start calls.
	Parent ItemID

	// Name is the item name for run/feature/scenario starts, and the full
	// reported step text (prefix + keyword + text) for step starts.
	Name string

	// Line is the source line for scenario and step starts.
	Line int64

	// Iteration is the outline iteration suffix for scenario starts.
	Iteration string

	// Attributes are the attributes passed with the start call, if any.
	Attributes []Attribute
}

// Recorder is an in-memory Reporter that records every call. It is used by
// the package tests and works as a dry-run sink for host suites that want to
// assert on the reported hierarchy.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Calls returns a copy of all recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// ByKind returns all recorded calls of the given kind, in order.
func (r *Recorder) ByKind(kind string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Call
	for _, c := range r.calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Reset discards all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = nil
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, c)
}

// StartRun begins the top-level run item.
func (r *Recorder) StartRun(info RunInfo) (ItemID, error) {
	id := newItemID()
	r.record(Call{Kind: CallStartRun, ID: id, Name: info.Name, Attributes: info.Attributes})
	return id, nil
}

// FinishRun closes the run item.
func (r *Recorder) FinishRun(id ItemID) error {
	r.record(Call{Kind: CallFinishRun, ID: id})
	return nil
}

// StartFeature begins a feature item under the run.
func (r *Recorder) StartFeature(run ItemID, info FeatureInfo) (ItemID, error) {
	id := newItemID()
	r.record(Call{Kind: CallStartFeature, ID: id, Parent: run, Name: info.Name, Attributes: info.Attributes})
	return id, nil
}

// FinishFeature closes a feature item.
func (r *Recorder) FinishFeature(id ItemID) error {
	r.record(Call{Kind: CallFinishFeature, ID: id})
	return nil
}

// StartScenario begins a scenario item under a feature.
func (r *Recorder) StartScenario(feature ItemID, info ScenarioInfo) (ItemID, error) {
	id := newItemID()
	r.record(Call{
		Kind:       CallStartScenario,
		ID:         id,
		Parent:     feature,
		Name:       info.Name,
		Line:       info.Line,
		Iteration:  info.Iteration,
		Attributes: info.Attributes,
	})
	return id, nil
}

// FinishScenario closes a scenario item.
func (r *Recorder) FinishScenario(id ItemID) error {
	r.record(Call{Kind: CallFinishScenario, ID: id})
	return nil
}

// StartStep begins a step item under a scenario.
func (r *Recorder) StartStep(scenario ItemID, info StepInfo) (ItemID, error) {
	id := newItemID()
	r.record(Call{
		Kind:   CallStartStep,
		ID:     id,
		Parent: scenario,
		Name:   info.Prefix + info.Keyword + info.Text,
		Line:   info.Line,
	})
	return id, nil
}

// FinishStep closes a step item.
func (r *Recorder) FinishStep(id ItemID) error {
	r.record(Call{Kind: CallFinishStep, ID: id})
	return nil
}
