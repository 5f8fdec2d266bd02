package pickleback

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/sirupsen/logrus"

	"github.com/picklejar/pickleback/report"
)

const calculatorFeature = `Feature: Calculator

  Background:
    Given a calculator
    And it is reset

  Scenario: Clear the display
    When the clear key is pressed
    Then the display shows 0

  Scenario Outline: Add <a> and <b>
    When I add <a> and <b>
    Then the result is <sum>

    Examples:
      | a | b | sum |
      | 1 | 2 | 3   |
      | 3 | 4 | 7   |
`

const calculatorPath = "features/calculator.feature"

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func parseDocument(t *testing.T, src string) *messages.GherkinDocument {
	t.Helper()

	doc, err := gherkin.ParseGherkinDocument(strings.NewReader(src), (&messages.UUID{}).NewId)
	if err != nil {
		t.Fatalf("ParseGherkinDocument() error = %v", err)
	}
	return doc
}

func findScenario(t *testing.T, doc *messages.GherkinDocument, name string) *messages.Scenario {
	t.Helper()

	for _, child := range doc.Feature.Children {
		if child.Scenario != nil && child.Scenario.Name == name {
			return child.Scenario
		}
	}
	t.Fatalf("scenario %q not in fixture", name)
	return nil
}

func documentBackground(t *testing.T, doc *messages.GherkinDocument) *messages.Background {
	t.Helper()

	for _, child := range doc.Feature.Children {
		if child.Background != nil {
			return child.Background
		}
	}
	t.Fatal("fixture has no background")
	return nil
}

// picklePlan pairs a document step node with the text the engine would
// report for it after placeholder substitution.
type picklePlan struct {
	node *messages.Step
	text string
}

func buildPickle(id, uri, name string, astNodeIds []string, plan []picklePlan, tags ...string) *messages.Pickle {
	p := &messages.Pickle{Id: id, Uri: uri, Name: name, AstNodeIds: astNodeIds}
	for _, tag := range tags {
		p.Tags = append(p.Tags, &messages.PickleTag{Name: tag})
	}
	for i, step := range plan {
		p.Steps = append(p.Steps, &messages.PickleStep{
			Id:         fmt.Sprintf("%s-s%d", id, i),
			Text:       step.text,
			AstNodeIds: []string{step.node.Id},
		})
	}
	return p
}

func runPickle(f *Formatter, p *messages.Pickle) {
	f.Pickle(p)
	for _, st := range p.Steps {
		f.Defined(p, st, nil)
		f.Passed(p, st, nil)
	}
}

func TestFormatterReportsRunHierarchy(t *testing.T) {
	doc := parseDocument(t, calculatorFeature)
	rec := report.NewRecorder()
	out := &bytes.Buffer{}
	f := New("calculator", out, Options{Reporter: rec, Logger: quietLogger()})

	f.TestRunStarted()
	f.Feature(doc, calculatorPath, []byte(calculatorFeature))

	bg := documentBackground(t, doc)
	plain := findScenario(t, doc, "Clear the display")
	plan := []picklePlan{
		{node: bg.Steps[0], text: "a calculator"},
		{node: bg.Steps[1], text: "it is reset"},
		{node: plain.Steps[0], text: "the clear key is pressed"},
		{node: plain.Steps[1], text: "the display shows 0"},
	}
	runPickle(f, buildPickle("p1", calculatorPath, "Clear the display", []string{plain.Id}, plan, "@smoke"))
	f.Summary()

	var kinds []string
	for _, c := range rec.Calls() {
		kinds = append(kinds, c.Kind)
	}
	want := []string{
		report.CallStartRun,
		report.CallStartFeature,
		report.CallStartScenario,
		report.CallStartStep, report.CallFinishStep,
		report.CallStartStep, report.CallFinishStep,
		report.CallStartStep, report.CallFinishStep,
		report.CallStartStep, report.CallFinishStep,
		report.CallFinishScenario,
		report.CallFinishFeature,
		report.CallFinishRun,
	}
	if len(kinds) != len(want) {
		t.Fatalf("recorded %d calls (%v), want %d", len(kinds), kinds, len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("call %d = %q, want %q (full order %v)", i, kinds[i], want[i], kinds)
		}
	}

	run := rec.ByKind(report.CallStartRun)[0]
	if run.Name != "calculator" {
		t.Errorf("run name = %q, want the suite name", run.Name)
	}

	feature := rec.ByKind(report.CallStartFeature)[0]
	if feature.Name != "Calculator" {
		t.Errorf("feature name = %q, want %q", feature.Name, "Calculator")
	}
	if feature.Parent != run.ID {
		t.Error("feature item not parented to the run item")
	}

	sc := rec.ByKind(report.CallStartScenario)[0]
	if sc.Name != "Clear the display" {
		t.Errorf("scenario name = %q, want %q", sc.Name, "Clear the display")
	}
	if sc.Line != 7 {
		t.Errorf("scenario line = %d, want 7", sc.Line)
	}
	if sc.Iteration != "" {
		t.Errorf("scenario iteration = %q, want empty", sc.Iteration)
	}
	wantAttrs := []report.Attribute{{Value: "smoke"}}
	if len(sc.Attributes) != 1 || sc.Attributes[0] != wantAttrs[0] {
		t.Errorf("scenario attributes = %v, want %v", sc.Attributes, wantAttrs)
	}

	steps := rec.ByKind(report.CallStartStep)
	wantSteps := []string{
		"BACKGROUND: Given a calculator",
		"BACKGROUND: And it is reset",
		"When the clear key is pressed",
		"Then the display shows 0",
	}
	for i, wantName := range wantSteps {
		if steps[i].Name != wantName {
			t.Errorf("step %d = %q, want %q", i, steps[i].Name, wantName)
		}
		if steps[i].Parent != sc.ID {
			t.Errorf("step %d not parented to the scenario item", i)
		}
	}

	if got := out.String(); !strings.Contains(got, "reported 1 scenarios across 1 features") {
		t.Errorf("summary output = %q, want scenario and feature counts", got)
	}
}

func TestFormatterResolvesOutlineRows(t *testing.T) {
	doc := parseDocument(t, calculatorFeature)
	rec := report.NewRecorder()
	f := New("calculator", &bytes.Buffer{}, Options{Reporter: rec, Logger: quietLogger()})

	f.TestRunStarted()
	f.Feature(doc, calculatorPath, []byte(calculatorFeature))

	bg := documentBackground(t, doc)
	outline := findScenario(t, doc, "Add <a> and <b>")
	rows := outline.Examples[0].TableBody

	first := buildPickle("p1", calculatorPath, "Add 1 and 2", []string{outline.Id, rows[0].Id}, []picklePlan{
		{node: bg.Steps[0], text: "a calculator"},
		{node: bg.Steps[1], text: "it is reset"},
		{node: outline.Steps[0], text: "I add 1 and 2"},
		{node: outline.Steps[1], text: "the result is 3"},
	})
	second := buildPickle("p2", calculatorPath, "Add 3 and 4", []string{outline.Id, rows[1].Id}, []picklePlan{
		{node: bg.Steps[0], text: "a calculator"},
		{node: bg.Steps[1], text: "it is reset"},
		{node: outline.Steps[0], text: "I add 3 and 4"},
		{node: outline.Steps[1], text: "the result is 7"},
	})
	runPickle(f, first)
	runPickle(f, second)
	f.Summary()

	if got := len(rec.ByKind(report.CallStartFeature)); got != 1 {
		t.Fatalf("started %d feature items, want 1", got)
	}

	scenarios := rec.ByKind(report.CallStartScenario)
	if len(scenarios) != 2 {
		t.Fatalf("started %d scenario items, want 2", len(scenarios))
	}
	if scenarios[0].Name != "Add 1 and 2 [17]" {
		t.Errorf("first row name = %q, want %q", scenarios[0].Name, "Add 1 and 2 [17]")
	}
	if scenarios[0].Line != 17 {
		t.Errorf("first row line = %d, want 17", scenarios[0].Line)
	}
	if scenarios[1].Name != "Add 3 and 4 [18]" {
		t.Errorf("second row name = %q, want %q", scenarios[1].Name, "Add 3 and 4 [18]")
	}
	if scenarios[1].Iteration != " [18]" {
		t.Errorf("second row iteration = %q, want %q", scenarios[1].Iteration, " [18]")
	}

	steps := rec.ByKind(report.CallStartStep)
	var bodyTexts []string
	for _, c := range steps {
		if !strings.HasPrefix(c.Name, "BACKGROUND: ") {
			bodyTexts = append(bodyTexts, c.Name)
		}
	}
	wantBody := []string{
		"When I add 1 and 2",
		"Then the result is 3",
		"When I add 3 and 4",
		"Then the result is 7",
	}
	if len(bodyTexts) != len(wantBody) {
		t.Fatalf("reported %d body steps (%v), want %d", len(bodyTexts), bodyTexts, len(wantBody))
	}
	for i := range wantBody {
		if bodyTexts[i] != wantBody[i] {
			t.Errorf("body step %d = %q, want %q", i, bodyTexts[i], wantBody[i])
		}
	}
}

func TestFormatterSkipsUnresolvableTestCase(t *testing.T) {
	doc := parseDocument(t, calculatorFeature)
	rec := report.NewRecorder()
	f := New("calculator", &bytes.Buffer{}, Options{Reporter: rec, Logger: quietLogger()})

	f.TestRunStarted()
	f.Feature(doc, calculatorPath, []byte(calculatorFeature))

	// A test case from a path that was never recorded.
	f.Pickle(&messages.Pickle{Id: "ghost", Uri: "features/ghost.feature", Name: "Ghost"})

	// A test case whose node ids the document does not contain.
	f.Pickle(&messages.Pickle{Id: "stray", Uri: calculatorPath, Name: "Stray", AstNodeIds: []string{"no-such-node"}})

	f.Summary()

	if got := len(rec.ByKind(report.CallStartScenario)); got != 0 {
		t.Errorf("started %d scenario items, want 0", got)
	}
}

func TestFormatterFinishesScenarioWhenStepLookupFails(t *testing.T) {
	doc := parseDocument(t, calculatorFeature)
	rec := report.NewRecorder()
	f := New("calculator", &bytes.Buffer{}, Options{Reporter: rec, Logger: quietLogger()})

	f.TestRunStarted()
	f.Feature(doc, calculatorPath, []byte(calculatorFeature))

	plain := findScenario(t, doc, "Clear the display")
	pickle := &messages.Pickle{
		Id:         "p1",
		Uri:        calculatorPath,
		Name:       "Clear the display",
		AstNodeIds: []string{plain.Id},
		Steps: []*messages.PickleStep{
			{Id: "p1-s0", Text: "an unknown step", AstNodeIds: []string{"no-such-node"}},
		},
	}
	f.Pickle(pickle)
	f.Defined(pickle, pickle.Steps[0], nil)
	f.Passed(pickle, pickle.Steps[0], nil)
	f.Summary()

	if got := len(rec.ByKind(report.CallStartStep)); got != 0 {
		t.Errorf("started %d step items, want 0", got)
	}
	if got := len(rec.ByKind(report.CallFinishScenario)); got != 1 {
		t.Errorf("finished %d scenario items, want 1", got)
	}
}

func TestFormatterFinishesZeroStepScenarioImmediately(t *testing.T) {
	doc := parseDocument(t, calculatorFeature)
	rec := report.NewRecorder()
	f := New("calculator", &bytes.Buffer{}, Options{Reporter: rec, Logger: quietLogger()})

	f.TestRunStarted()
	f.Feature(doc, calculatorPath, []byte(calculatorFeature))

	plain := findScenario(t, doc, "Clear the display")
	f.Pickle(&messages.Pickle{Id: "p1", Uri: calculatorPath, Name: "Clear the display", AstNodeIds: []string{plain.Id}})

	calls := rec.Calls()
	last := calls[len(calls)-1]
	if last.Kind != report.CallFinishScenario {
		t.Fatalf("last call = %q, want %q", last.Kind, report.CallFinishScenario)
	}
}

func TestFormatterConcurrentPickles(t *testing.T) {
	doc := parseDocument(t, calculatorFeature)
	rec := report.NewRecorder()
	f := New("calculator", &bytes.Buffer{}, Options{Reporter: rec, Logger: quietLogger()})

	f.TestRunStarted()
	f.Feature(doc, calculatorPath, []byte(calculatorFeature))

	bg := documentBackground(t, doc)
	outline := findScenario(t, doc, "Add <a> and <b>")
	rows := outline.Examples[0].TableBody

	pickles := []*messages.Pickle{
		buildPickle("p1", calculatorPath, "Add 1 and 2", []string{outline.Id, rows[0].Id}, []picklePlan{
			{node: bg.Steps[0], text: "a calculator"},
			{node: bg.Steps[1], text: "it is reset"},
			{node: outline.Steps[0], text: "I add 1 and 2"},
			{node: outline.Steps[1], text: "the result is 3"},
		}),
		buildPickle("p2", calculatorPath, "Add 3 and 4", []string{outline.Id, rows[1].Id}, []picklePlan{
			{node: bg.Steps[0], text: "a calculator"},
			{node: bg.Steps[1], text: "it is reset"},
			{node: outline.Steps[0], text: "I add 3 and 4"},
			{node: outline.Steps[1], text: "the result is 7"},
		}),
	}

	var wg sync.WaitGroup
	for _, p := range pickles {
		wg.Add(1)
		go func(p *messages.Pickle) {
			defer wg.Done()
			runPickle(f, p)
		}(p)
	}
	wg.Wait()
	f.Summary()

	if got := len(rec.ByKind(report.CallFinishScenario)); got != 2 {
		t.Errorf("finished %d scenario items, want 2", got)
	}
	if got := len(rec.ByKind(report.CallFinishRun)); got != 1 {
		t.Errorf("finished %d run items, want 1", got)
	}
}

func TestNewResolvesReporterByName(t *testing.T) {
	f := New("suite", &bytes.Buffer{}, Options{ReporterName: "memory", Logger: quietLogger()})
	if _, ok := f.rep.(*report.Recorder); !ok {
		t.Errorf("reporter = %T, want *report.Recorder", f.rep)
	}
}

func TestNewFallsBackToLogReporter(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "unregistered name", opts: Options{ReporterName: "no-such-reporter"}},
		{name: "zero options", opts: Options{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Logger = quietLogger()
			f := New("suite", &bytes.Buffer{}, tt.opts)
			if _, ok := f.rep.(*report.LogReporter); !ok {
				t.Errorf("reporter = %T, want *report.LogReporter", f.rep)
			}
		})
	}
}

func TestBuiltinReportersRegistered(t *testing.T) {
	for _, name := range []string{"log", "memory"} {
		if !report.IsRegistered(name) {
			t.Errorf("IsRegistered(%q) = false, want true", name)
		}
	}
}
