package pickleback

import (
	"fmt"
	"io"
	"sync"

	"github.com/cucumber/godog/formatters"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/sirupsen/logrus"

	"github.com/picklejar/pickleback/internal/scenario"
	"github.com/picklejar/pickleback/internal/source"
	"github.com/picklejar/pickleback/report"
)

// Formatter adapts godog's formatter callbacks to identity resolution. It
// records every feature source it is handed, resolves each pickle back to
// its scenario or example row, and mirrors the run as a Reporter item
// hierarchy. godog may deliver callbacks from concurrent pickles, so all
// state is guarded by one mutex.
type Formatter struct {
	suite    string
	out      io.Writer
	log      *logrus.Logger
	rep      report.Reporter
	runName  string
	runAttrs []report.Attribute

	mu         sync.Mutex
	index      *source.Index
	resolver   *scenario.Resolver
	runID      report.ItemID
	runStarted bool

	// astLines maps the engine's document node ids to source lines. Node
	// ids are unique across documents, so one map serves the whole run.
	astLines map[string]int64

	features     map[string]report.ItemID
	featureOrder []string

	instances map[string]*instance
	scenarios int
}

// instance is a live scenario item: its resolved execution context, its
// reporter handle, and the countdown of pickle steps still unfinished.
type instance struct {
	ctx       *scenario.Context
	id        report.ItemID
	remaining int
	steps     map[string]report.ItemID
}

var _ formatters.Formatter = (*Formatter)(nil)

// New creates a formatter for one suite. The zero Options value resolves
// identities and streams them to the log reporter.
func New(suite string, out io.Writer, opts Options) *Formatter {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	rep := opts.Reporter
	if rep == nil && opts.ReporterName != "" {
		r, err := report.Get(opts.ReporterName)
		if err != nil {
			log.Warnf("Reporter %q not registered, falling back to the log reporter", opts.ReporterName)
		} else {
			rep = r
		}
	}
	if rep == nil {
		rep = report.NewLogReporter(log)
	}

	return &Formatter{
		suite:     suite,
		out:       out,
		log:       log,
		rep:       rep,
		runName:   opts.RunName,
		runAttrs:  opts.Attributes,
		index:     source.NewIndex(),
		resolver:  scenario.NewResolver(),
		astLines:  make(map[string]int64),
		features:  make(map[string]report.ItemID),
		instances: make(map[string]*instance),
	}
}

// TestRunStarted opens the run item.
func (f *Formatter) TestRunStarted() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureRun()
}

// Feature records the feature's source text, indexes the document's node
// locations, and opens the feature item.
func (f *Formatter) Feature(doc *messages.GherkinDocument, path string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ensureRun()
	f.index.RecordSource(path, content)
	f.collectLines(doc)
	f.startFeature(path)
}

// Pickle resolves a starting test case against its recorded document and
// opens the scenario item. A test case that cannot be resolved is reported
// in the diagnostics log and skipped; the run itself continues.
func (f *Formatter) Pickle(pickle *messages.Pickle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ensureRun()
	featureID := f.startFeature(pickle.Uri)

	doc := f.index.Resolve(pickle.Uri)
	if doc == nil {
		f.log.Warnf("No parsed document for %s, skipping %q", pickle.Uri, pickle.Name)
		return
	}

	line, ok := f.pickleLine(pickle)
	if !ok {
		f.log.Warnf("Test case %q carries no known source node, skipping", pickle.Name)
		return
	}

	tags := make([]string, 0, len(pickle.Tags))
	for _, tag := range pickle.Tags {
		tags = append(tags, tag.Name)
	}

	ev := scenario.Event{
		Path:        pickle.Uri,
		Line:        line,
		Name:        pickle.Name,
		Tags:        tags,
		Designation: scenario.Designation(pickle.Uri, line, pickle.Name),
	}

	sc, err := f.resolver.Match(doc.Feature(), ev.Line, ev.Name)
	if err != nil {
		f.log.Errorf("Matching test case against %s: %v", pickle.Uri, err)
		return
	}
	ctx, err := f.resolver.Build(sc, doc.Background(), ev)
	if err != nil {
		f.log.Errorf("Building execution instance for %s: %v", pickle.Uri, err)
		return
	}

	id, err := f.rep.StartScenario(featureID, report.ScenarioInfo{
		Name:       ctx.Name() + ctx.IterationSuffix(),
		Keyword:    ctx.Keyword(),
		Line:       ctx.Line(),
		Iteration:  ctx.IterationSuffix(),
		Outline:    ctx.Outline(),
		Attributes: ctx.Attributes(),
	})
	if err != nil {
		f.log.Errorf("Starting scenario item %q: %v", ctx.Name(), err)
		return
	}
	ctx.SetID(id)
	f.scenarios++

	inst := &instance{
		ctx:       ctx,
		id:        id,
		remaining: len(pickle.Steps),
		steps:     make(map[string]report.ItemID),
	}
	if inst.remaining == 0 {
		f.finishInstance(inst)
		return
	}
	f.instances[pickle.Id] = inst
}

// Defined opens the step item for a step about to run.
func (f *Formatter) Defined(pickle *messages.Pickle, step *messages.PickleStep, def *formatters.StepDefinition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startStep(pickle, step)
}

// Passed closes a step item.
func (f *Formatter) Passed(pickle *messages.Pickle, step *messages.PickleStep, def *formatters.StepDefinition) {
	f.stepFinished(pickle, step)
}

// Skipped closes a step item.
func (f *Formatter) Skipped(pickle *messages.Pickle, step *messages.PickleStep, def *formatters.StepDefinition) {
	f.stepFinished(pickle, step)
}

// Undefined closes a step item.
func (f *Formatter) Undefined(pickle *messages.Pickle, step *messages.PickleStep, def *formatters.StepDefinition) {
	f.stepFinished(pickle, step)
}

// Pending closes a step item.
func (f *Formatter) Pending(pickle *messages.Pickle, step *messages.PickleStep, def *formatters.StepDefinition) {
	f.stepFinished(pickle, step)
}

// Failed closes a step item and logs the failure reason.
func (f *Formatter) Failed(pickle *messages.Pickle, step *messages.PickleStep, def *formatters.StepDefinition, err error) {
	f.log.Debugf("Step %q failed: %v", step.Text, err)
	f.stepFinished(pickle, step)
}

// Ambiguous closes a step item and logs the ambiguity.
func (f *Formatter) Ambiguous(pickle *messages.Pickle, step *messages.PickleStep, def *formatters.StepDefinition, err error) {
	f.log.Debugf("Step %q is ambiguous: %v", step.Text, err)
	f.stepFinished(pickle, step)
}

// Summary closes any still-open scenarios, then the features and the run,
// and prints a one-line account of what was reported.
func (f *Formatter) Summary() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for pickleID, inst := range f.instances {
		f.log.Warnf("Scenario %q never finished its steps", inst.ctx.Name())
		f.finishInstance(inst)
		delete(f.instances, pickleID)
	}

	for _, path := range f.featureOrder {
		if err := f.rep.FinishFeature(f.features[path]); err != nil {
			f.log.Errorf("Finishing feature item for %s: %v", path, err)
		}
	}

	if f.runStarted {
		if err := f.rep.FinishRun(f.runID); err != nil {
			f.log.Errorf("Finishing run item: %v", err)
		}
	}

	fmt.Fprintf(f.out, "pickleback: reported %d scenarios across %d features\n", f.scenarios, len(f.featureOrder))
}

// ensureRun opens the run item once. Callers hold f.mu.
func (f *Formatter) ensureRun() {
	if f.runStarted {
		return
	}

	name := f.runName
	if name == "" {
		name = f.suite
	}
	id, err := f.rep.StartRun(report.RunInfo{Name: name, Attributes: f.runAttrs})
	if err != nil {
		f.log.Errorf("Starting run item: %v", err)
		return
	}
	f.runID = id
	f.runStarted = true
}

// startFeature opens the feature item for a path once and binds the
// resolved document to it. Callers hold f.mu.
func (f *Formatter) startFeature(path string) report.ItemID {
	if id, ok := f.features[path]; ok {
		return id
	}

	doc := f.index.Resolve(path)
	info := report.FeatureInfo{Path: path}
	if doc != nil {
		info.Name = doc.Feature().Name
		info.Keyword = doc.Feature().Keyword
		info.Attributes = doc.Attributes()
	}

	id, err := f.rep.StartFeature(f.runID, info)
	if err != nil {
		f.log.Errorf("Starting feature item for %s: %v", path, err)
		return ""
	}
	if doc != nil {
		doc.SetID(id)
	}

	f.features[path] = id
	f.featureOrder = append(f.featureOrder, path)
	return id
}

// collectLines indexes node id to source line for every scenario, example
// row, and step of the document, including those nested under rules.
// Callers hold f.mu.
func (f *Formatter) collectLines(doc *messages.GherkinDocument) {
	if doc == nil || doc.Feature == nil {
		return
	}
	for _, child := range doc.Feature.Children {
		f.collectChild(child.Background, child.Scenario)
		if child.Rule != nil {
			for _, rc := range child.Rule.Children {
				f.collectChild(rc.Background, rc.Scenario)
			}
		}
	}
}

func (f *Formatter) collectChild(bg *messages.Background, sc *messages.Scenario) {
	if bg != nil {
		for _, st := range bg.Steps {
			f.astLines[st.Id] = st.Location.Line
		}
	}
	if sc == nil {
		return
	}
	f.astLines[sc.Id] = sc.Location.Line
	for _, st := range sc.Steps {
		f.astLines[st.Id] = st.Location.Line
	}
	for _, ex := range sc.Examples {
		for _, row := range ex.TableBody {
			f.astLines[row.Id] = row.Location.Line
		}
	}
}

// pickleLine returns the source line of the most specific document node the
// pickle references: the example row for outline instances, the scenario
// declaration otherwise.
func (f *Formatter) pickleLine(pickle *messages.Pickle) (int64, bool) {
	for i := len(pickle.AstNodeIds) - 1; i >= 0; i-- {
		if line, ok := f.astLines[pickle.AstNodeIds[i]]; ok {
			return line, true
		}
	}
	return 0, false
}

// startStep opens the step item for a pickle step once. The step keyword
// and background classification come from the document's step node; the
// text comes from the pickle, which already has placeholders substituted.
// Callers hold f.mu.
func (f *Formatter) startStep(pickle *messages.Pickle, step *messages.PickleStep) {
	inst, ok := f.instances[pickle.Id]
	if !ok {
		return
	}
	if _, started := inst.steps[step.Id]; started {
		return
	}

	var line int64
	found := false
	for _, nodeID := range step.AstNodeIds {
		if l, ok := f.astLines[nodeID]; ok {
			line, found = l, true
			break
		}
	}
	if !found {
		f.log.Warnf("Step %q carries no known source node, skipping", step.Text)
		return
	}

	st, err := inst.ctx.Step(line)
	if err != nil {
		f.log.Errorf("Resolving step for %q: %v", inst.ctx.Name(), err)
		return
	}

	info := report.StepInfo{
		Keyword:    st.Keyword,
		Text:       step.Text,
		Line:       line,
		Background: inst.ctx.IsBackgroundStep(line),
	}
	if info.Background {
		info.Prefix = inst.ctx.StepPrefix()
		inst.ctx.ConsumeBackgroundStep()
	}

	id, err := f.rep.StartStep(inst.id, info)
	if err != nil {
		f.log.Errorf("Starting step item %q: %v", step.Text, err)
		return
	}
	inst.steps[step.Id] = id
}

// stepFinished closes a step item, opening it first if the engine never
// announced it, and closes the scenario once its last step finished.
func (f *Formatter) stepFinished(pickle *messages.Pickle, step *messages.PickleStep) {
	f.mu.Lock()
	defer f.mu.Unlock()

	inst, ok := f.instances[pickle.Id]
	if !ok {
		return
	}

	f.startStep(pickle, step)
	if id, ok := inst.steps[step.Id]; ok {
		if err := f.rep.FinishStep(id); err != nil {
			f.log.Errorf("Finishing step item %q: %v", step.Text, err)
		}
		delete(inst.steps, step.Id)
	}

	inst.remaining--
	if inst.remaining <= 0 {
		f.finishInstance(inst)
		delete(f.instances, pickle.Id)
	}
}

// finishInstance closes a scenario item. Callers hold f.mu.
func (f *Formatter) finishInstance(inst *instance) {
	if err := f.rep.FinishScenario(inst.id); err != nil {
		f.log.Errorf("Finishing scenario item %q: %v", inst.ctx.Name(), err)
	}
}
