// Package report defines the reporting transport contract for pickleback.
// A Reporter receives hierarchical start/finish notifications for a run, its
// features, scenarios, and steps, and mints an opaque correlation handle for
// every started item. Implementations decide what to do with the hierarchy;
// this package ships a logging reporter and an in-memory recorder.
package report

// ItemID is an opaque correlation handle minted by a Reporter when an item
// starts. Callers pass it back to finish the item and attach it to resolved
// documents and execution instances; they never inspect its content.
type ItemID string

// Attribute is a key/value pair derived from specification tags.
// Value-only attributes leave Key empty.
type Attribute struct {
	Key   string `json:"key,omitempty" yaml:"key,omitempty"`
	Value string `json:"value" yaml:"value"`
}

// RunInfo describes a test run being started.
type RunInfo struct {
	// Name is the display name for the run.
	Name string `json:"name" yaml:"name"`

	// Attributes are run-level attributes.
	Attributes []Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// FeatureInfo describes a feature item being started.
type FeatureInfo struct {
	// Path is the source path of the feature file.
	Path string `json:"path" yaml:"path"`

	// Name is the feature title.
	Name string `json:"name" yaml:"name"`

	// Keyword is the feature keyword as written in the source.
	Keyword string `json:"keyword" yaml:"keyword"`

	// Attributes are derived from the feature's tags.
	Attributes []Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// ScenarioInfo describes a scenario item being started.
type ScenarioInfo struct {
	// Name is the resolved display name (placeholders substituted for
	// outline instances).
	Name string `json:"name" yaml:"name"`

	// Keyword is the scenario keyword as written in the source.
	Keyword string `json:"keyword" yaml:"keyword"`

	// Line is the resolved source line (the example row's line for outline
	// instances).
	Line int64 `json:"line" yaml:"line"`

	// Iteration is the outline iteration suffix, empty for plain scenarios.
	Iteration string `json:"iteration,omitempty" yaml:"iteration,omitempty"`

	// Outline reports whether this instance came from a scenario outline.
	Outline bool `json:"outline,omitempty" yaml:"outline,omitempty"`

	// Attributes are derived from the instance's own tag list.
	Attributes []Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// StepInfo describes a step item being started.
type StepInfo struct {
	// Keyword is the step keyword ("Given ", "When ", ...).
	Keyword string `json:"keyword" yaml:"keyword"`

	// Text is the step text.
	Text string `json:"text" yaml:"text"`

	// Prefix is the background prefix for steps consumed from a background
	// block, empty otherwise.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Line is the step's source line.
	Line int64 `json:"line" yaml:"line"`

	// Background reports whether the step came from the feature's background.
	Background bool `json:"background,omitempty" yaml:"background,omitempty"`
}

// Reporter receives the item hierarchy of a run. Start methods return the
// correlation handle for the started item; finish methods accept only the
// handle. Implementations must be safe for concurrent use, since interleaved
// scenario reporting is part of the contract.
type Reporter interface {
	// StartRun begins the top-level run item.
	StartRun(info RunInfo) (ItemID, error)

	// FinishRun closes the run item.
	FinishRun(id ItemID) error

	// StartFeature begins a feature item under the run.
	StartFeature(run ItemID, info FeatureInfo) (ItemID, error)

	// FinishFeature closes a feature item.
	FinishFeature(id ItemID) error

	// StartScenario begins a scenario item under a feature.
	StartScenario(feature ItemID, info ScenarioInfo) (ItemID, error)

	// FinishScenario closes a scenario item.
	FinishScenario(id ItemID) error

	// StartStep begins a step item under a scenario.
	StartStep(scenario ItemID, info StepInfo) (ItemID, error)

	// FinishStep closes a step item.
	FinishStep(id ItemID) error
}
