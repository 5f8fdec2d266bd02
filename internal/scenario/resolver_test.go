package scenario

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	messages "github.com/cucumber/messages/go/v21"

	"github.com/picklejar/pickleback/report"
)

func buildFromFixture(t *testing.T, src string, ev Event) *Context {
	t.Helper()

	feature := parseFeature(t, src)
	r := NewResolver()

	sc, err := r.Match(feature, ev.Line, ev.Name)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	ctx, err := r.Build(sc, featureBackground(feature), ev)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return ctx
}

func TestBuildPlainScenario(t *testing.T) {
	ev := Event{
		Path:        "features/calculator.feature",
		Line:        7,
		Name:        "Clear the display",
		Tags:        []string{"@smoke", "@component:calc"},
		Designation: Designation("features/calculator.feature", 7, "Clear the display"),
	}
	ctx := buildFromFixture(t, calculatorFeature, ev)

	if got := ctx.Name(); got != "Clear the display" {
		t.Errorf("Name() = %q, want %q", got, "Clear the display")
	}
	if got := ctx.Keyword(); got != "Scenario" {
		t.Errorf("Keyword() = %q, want %q", got, "Scenario")
	}
	if got := ctx.Line(); got != 7 {
		t.Errorf("Line() = %d, want 7", got)
	}
	if ctx.Outline() {
		t.Error("Outline() = true, want false")
	}
	if got := ctx.IterationSuffix(); got != "" {
		t.Errorf("IterationSuffix() = %q, want empty", got)
	}
	if got := ctx.Designation(); got != ev.Designation {
		t.Errorf("Designation() = %q, want %q", got, ev.Designation)
	}

	wantAttrs := []report.Attribute{
		{Value: "smoke"},
		{Key: "component", Value: "calc"},
	}
	if got := ctx.Attributes(); !reflect.DeepEqual(got, wantAttrs) {
		t.Errorf("Attributes() = %v, want %v", got, wantAttrs)
	}
}

func TestBuildIndexesBackgroundAndBodySteps(t *testing.T) {
	ev := Event{
		Path:        "features/warehouse.feature",
		Line:        5,
		Name:        "Reserve items",
		Designation: Designation("features/warehouse.feature", 5, "Reserve items"),
	}
	ctx := buildFromFixture(t, warehouseFeature, ev)

	lines := ctx.StepLines()
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	want := []int64{3, 4, 6, 7}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("StepLines() = %v, want %v", lines, want)
	}

	for _, line := range []int64{3, 4} {
		if !ctx.IsBackgroundStep(line) {
			t.Errorf("IsBackgroundStep(%d) = false, want true", line)
		}
	}
	for _, line := range []int64{6, 7} {
		if ctx.IsBackgroundStep(line) {
			t.Errorf("IsBackgroundStep(%d) = true, want false", line)
		}
	}
}

func TestBuildBackgroundQueue(t *testing.T) {
	ev := Event{
		Path:        "features/warehouse.feature",
		Line:        5,
		Name:        "Reserve items",
		Designation: Designation("features/warehouse.feature", 5, "Reserve items"),
	}
	ctx := buildFromFixture(t, warehouseFeature, ev)

	if !ctx.HasBackground() {
		t.Fatal("HasBackground() = false, want true")
	}
	if !ctx.HasPendingBackgroundSteps() {
		t.Fatal("HasPendingBackgroundSteps() = false before consumption, want true")
	}
	if got := ctx.StepPrefix(); got != "BACKGROUND: " {
		t.Errorf("StepPrefix() = %q, want %q", got, "BACKGROUND: ")
	}

	ctx.ConsumeBackgroundStep()
	if got := ctx.StepPrefix(); got != "BACKGROUND: " {
		t.Errorf("StepPrefix() = %q with one step pending, want %q", got, "BACKGROUND: ")
	}

	ctx.ConsumeBackgroundStep()
	if ctx.HasPendingBackgroundSteps() {
		t.Fatal("HasPendingBackgroundSteps() = true after consuming both steps, want false")
	}
	if got := ctx.StepPrefix(); got != "" {
		t.Errorf("StepPrefix() = %q after the background ran, want empty", got)
	}

	ctx.ConsumeBackgroundStep()
	if ctx.HasPendingBackgroundSteps() {
		t.Error("ConsumeBackgroundStep() on an empty queue changed state")
	}
}

func TestBuildWithoutBackground(t *testing.T) {
	ev := Event{
		Path:        "features/ruled.feature",
		Line:        3,
		Name:        "Inside a rule",
		Designation: Designation("features/ruled.feature", 3, "Inside a rule"),
	}

	feature := parseFeature(t, "Feature: Bare\n  Scenario: Inside a rule\n    Given a step\n")
	r := NewResolver()
	sc, err := r.Match(feature, 2, "Inside a rule")
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	ctx, err := r.Build(sc, nil, ev)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if ctx.HasBackground() {
		t.Error("HasBackground() = true, want false")
	}
	if ctx.HasPendingBackgroundSteps() {
		t.Error("HasPendingBackgroundSteps() = true, want false")
	}
	if got := ctx.StepPrefix(); got != "" {
		t.Errorf("StepPrefix() = %q, want empty", got)
	}
}

func TestContextStepLookup(t *testing.T) {
	ev := Event{
		Path:        "features/warehouse.feature",
		Line:        5,
		Name:        "Reserve items",
		Designation: Designation("features/warehouse.feature", 5, "Reserve items"),
	}
	ctx := buildFromFixture(t, warehouseFeature, ev)

	st, err := ctx.Step(6)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if st.Text != "two units are reserved" {
		t.Errorf("Step(6).Text = %q, want %q", st.Text, "two units are reserved")
	}

	bg, err := ctx.Step(3)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if bg.Text != "a stocked warehouse" {
		t.Errorf("Step(3).Text = %q, want %q", bg.Text, "a stocked warehouse")
	}

	_, err = ctx.Step(42)
	var lookupErr *StepLookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("Step() error = %v, want StepLookupError", err)
	}
	if lookupErr.Line != 42 {
		t.Errorf("StepLookupError.Line = %d, want 42", lookupErr.Line)
	}
	if lookupErr.Scenario != "Reserve items" {
		t.Errorf("StepLookupError.Scenario = %q, want %q", lookupErr.Scenario, "Reserve items")
	}
}

func TestBuildOutlineRows(t *testing.T) {
	feature := parseFeature(t, calculatorFeature)
	r := NewResolver()
	path := "features/calculator.feature"

	resolve := func(line int64) *Context {
		t.Helper()
		ev := Event{
			Path:        path,
			Line:        line,
			Name:        "Add <a> and <b>",
			Designation: Designation(path, line, "Add <a> and <b>"),
		}
		sc, err := r.Match(feature, ev.Line, ev.Name)
		if err != nil {
			t.Fatalf("Match(%d) error = %v", line, err)
		}
		ctx, err := r.Build(sc, featureBackground(feature), ev)
		if err != nil {
			t.Fatalf("Build(%d) error = %v", line, err)
		}
		return ctx
	}

	first := resolve(17)
	if got := first.Name(); got != "Add 1 and 2" {
		t.Errorf("Name() = %q, want %q", got, "Add 1 and 2")
	}
	if got := first.Line(); got != 17 {
		t.Errorf("Line() = %d, want 17", got)
	}
	if got := first.IterationSuffix(); got != " [17]" {
		t.Errorf("IterationSuffix() = %q, want %q", got, " [17]")
	}
	if !first.Outline() {
		t.Error("Outline() = false, want true")
	}

	second := resolve(18)
	if got := second.Name(); got != "Add 3 and 4" {
		t.Errorf("Name() = %q, want %q", got, "Add 3 and 4")
	}
	if got := second.IterationSuffix(); got != " [18]" {
		t.Errorf("IterationSuffix() = %q, want %q", got, " [18]")
	}

	// Both rows expand the same outline, so they resolve the same step
	// template nodes.
	st1, err := first.Step(12)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	st2, err := second.Step(12)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if st1 != st2 {
		t.Error("Step(12) differs between rows, want the shared template")
	}
}

func TestBuildOutlineRepeatKeepsTemplateName(t *testing.T) {
	feature := parseFeature(t, calculatorFeature)
	r := NewResolver()
	path := "features/calculator.feature"

	ev := Event{
		Path:        path,
		Line:        17,
		Name:        "Add <a> and <b>",
		Designation: Designation(path, 17, "Add <a> and <b>"),
	}
	sc, err := r.Match(feature, ev.Line, ev.Name)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	first, err := r.Build(sc, nil, ev)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	repeat, err := r.Build(sc, nil, ev)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got := repeat.Name(); got != "Add <a> and <b>" {
		t.Errorf("Name() = %q on a repeat resolution, want the raw template", got)
	}
	if got, want := repeat.IterationSuffix(), first.IterationSuffix(); got != want {
		t.Errorf("IterationSuffix() = %q, want memoized %q", got, want)
	}
}

func TestBuildOutlineArityMismatch(t *testing.T) {
	sc := &messages.Scenario{
		Location: &messages.Location{Line: 11},
		Keyword:  "Scenario Outline",
		Name:     "Add <a> and <b>",
		Examples: []*messages.Examples{{
			TableHeader: tableRow(16, "a", "b", "sum"),
			TableBody:   []*messages.TableRow{tableRow(17, "1", "2")},
		}},
	}
	r := NewResolver()

	_, err := r.Build(sc, nil, Event{
		Line:        17,
		Name:        "Add <a> and <b>",
		Designation: "broken.feature:17 # Add <a> and <b>",
	})
	var arityErr *ArityError
	if !errors.As(err, &arityErr) {
		t.Fatalf("Build() error = %v, want ArityError", err)
	}
}

func TestContextSetIDOnce(t *testing.T) {
	ev := Event{
		Path:        "features/warehouse.feature",
		Line:        5,
		Name:        "Reserve items",
		Designation: Designation("features/warehouse.feature", 5, "Reserve items"),
	}
	ctx := buildFromFixture(t, warehouseFeature, ev)

	ctx.SetID("item-1")
	if got := ctx.ID(); got != report.ItemID("item-1") {
		t.Fatalf("ID() = %q, want %q", got, "item-1")
	}

	defer func() {
		if recover() == nil {
			t.Error("SetID() accepted a second assignment, want panic")
		}
	}()
	// Same value or not, a second assignment must fail.
	ctx.SetID("item-1")
}
