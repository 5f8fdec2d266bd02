package output

import (
	"sort"
	"strings"

	messages "github.com/cucumber/messages/go/v21"

	"github.com/picklejar/pickleback/internal/attrs"
	"github.com/picklejar/pickleback/internal/scenario"
	"github.com/picklejar/pickleback/internal/source"
	"github.com/picklejar/pickleback/report"
)

// StepView is one step of a document or resolution view.
type StepView struct {
	Line       int64  `json:"line" yaml:"line"`
	Keyword    string `json:"keyword" yaml:"keyword"`
	Text       string `json:"text" yaml:"text"`
	Background bool   `json:"background,omitempty" yaml:"background,omitempty"`
}

// RowView is one example row of an outline, named the way a run would
// report it: placeholders substituted and the iteration suffix appended.
type RowView struct {
	Line int64  `json:"line" yaml:"line"`
	Name string `json:"name" yaml:"name"`
}

// ScenarioView is one scenario-level definition of a document.
type ScenarioView struct {
	Keyword    string             `json:"keyword" yaml:"keyword"`
	Name       string             `json:"name" yaml:"name"`
	Line       int64              `json:"line" yaml:"line"`
	Outline    bool               `json:"outline,omitempty" yaml:"outline,omitempty"`
	Attributes []report.Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Steps      []StepView         `json:"steps,omitempty" yaml:"steps,omitempty"`
	Rows       []RowView          `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// Instances returns every execution instance the definition would produce:
// the definition itself for a plain scenario, one per example row for an
// outline.
func (sc *ScenarioView) Instances() []RowView {
	if !sc.Outline {
		return []RowView{{Line: sc.Line, Name: sc.Name}}
	}
	return sc.Rows
}

// DocumentView is a resolved feature document.
type DocumentView struct {
	Path       string             `json:"path" yaml:"path"`
	Keyword    string             `json:"keyword" yaml:"keyword"`
	Name       string             `json:"name" yaml:"name"`
	Attributes []report.Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Background []StepView         `json:"background,omitempty" yaml:"background,omitempty"`
	Scenarios  []ScenarioView     `json:"scenarios" yaml:"scenarios"`
}

// ResolutionView is the outcome of resolving one execution event against a
// document.
type ResolutionView struct {
	Path       string             `json:"path" yaml:"path"`
	Line       int64              `json:"line" yaml:"line"`
	Definition string             `json:"definition" yaml:"definition"`
	Display    string             `json:"display" yaml:"display"`
	Keyword    string             `json:"keyword" yaml:"keyword"`
	Outline    bool               `json:"outline,omitempty" yaml:"outline,omitempty"`
	Iteration  string             `json:"iteration,omitempty" yaml:"iteration,omitempty"`
	Attributes []report.Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Steps      []StepView         `json:"steps" yaml:"steps"`
}

// InventoryFeature is one stored feature row.
type InventoryFeature struct {
	Path      string `json:"path" yaml:"path"`
	Name      string `json:"name" yaml:"name"`
	Scenarios int    `json:"scenarios" yaml:"scenarios"`
	Instances int    `json:"instances" yaml:"instances"`
}

// InventoryInstance is one stored execution instance row.
type InventoryInstance struct {
	Path    string `json:"path" yaml:"path"`
	Name    string `json:"name" yaml:"name"`
	Line    int64  `json:"line" yaml:"line"`
	Outline bool   `json:"outline,omitempty" yaml:"outline,omitempty"`
}

// InventoryView is the stored document inventory.
type InventoryView struct {
	Features  []InventoryFeature  `json:"features" yaml:"features"`
	Instances []InventoryInstance `json:"instances" yaml:"instances"`
}

// NewDocumentView builds the view for a resolved document. Outline rows are
// named through the same substitution and suffix path a live run uses, so
// the view shows exactly the instance names a run of this document would
// report. A malformed examples table surfaces as the resolver's arity error.
func NewDocumentView(doc *source.Document) (*DocumentView, error) {
	feature := doc.Feature()
	view := &DocumentView{
		Path:       doc.Path(),
		Keyword:    feature.Keyword,
		Name:       feature.Name,
		Attributes: doc.Attributes(),
	}

	if bg := doc.Background(); bg != nil {
		for _, st := range bg.Steps {
			view.Background = append(view.Background, StepView{
				Line:       st.Location.Line,
				Keyword:    strings.TrimSpace(st.Keyword),
				Text:       st.Text,
				Background: true,
			})
		}
	}

	names := scenario.NewNamer()
	for _, child := range feature.Children {
		sc := child.Scenario
		if sc == nil {
			continue
		}

		sv := ScenarioView{
			Keyword:    sc.Keyword,
			Name:       sc.Name,
			Line:       sc.Location.Line,
			Outline:    scenario.IsOutline(sc),
			Attributes: attrs.FromTags(tagNames(sc.Tags)),
		}
		for _, st := range sc.Steps {
			sv.Steps = append(sv.Steps, StepView{
				Line:    st.Location.Line,
				Keyword: strings.TrimSpace(st.Keyword),
				Text:    st.Text,
			})
		}

		for _, ex := range sc.Examples {
			for _, row := range ex.TableBody {
				name, err := scenario.SubstituteName(sc.Name, ex.TableHeader, row)
				if err != nil {
					return nil, err
				}
				suffix, _ := names.Suffix(scenario.Designation(doc.Path(), row.Location.Line, sc.Name))
				sv.Rows = append(sv.Rows, RowView{
					Line: row.Location.Line,
					Name: name + suffix,
				})
			}
		}

		view.Scenarios = append(view.Scenarios, sv)
	}

	return view, nil
}

// NewResolutionView builds the view for one resolved execution instance.
func NewResolutionView(sc *messages.Scenario, ctx *scenario.Context, path string) (*ResolutionView, error) {
	view := &ResolutionView{
		Path:       path,
		Line:       ctx.Line(),
		Definition: sc.Name,
		Display:    ctx.Name() + ctx.IterationSuffix(),
		Keyword:    ctx.Keyword(),
		Outline:    ctx.Outline(),
		Iteration:  ctx.IterationSuffix(),
		Attributes: ctx.Attributes(),
	}

	lines := ctx.StepLines()
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	for _, line := range lines {
		st, err := ctx.Step(line)
		if err != nil {
			return nil, err
		}
		view.Steps = append(view.Steps, StepView{
			Line:       line,
			Keyword:    strings.TrimSpace(st.Keyword),
			Text:       st.Text,
			Background: ctx.IsBackgroundStep(line),
		})
	}

	return view, nil
}

func tagNames(tags []*messages.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}
