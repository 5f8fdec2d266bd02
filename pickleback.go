// Package pickleback correlates executing Gherkin test cases back to their
// parsed source documents and streams the resolved identity hierarchy, run,
// features, scenarios, and steps, to a pluggable Reporter. The execution
// engine and the documents share no identifier, so correlation is positional:
// a plain scenario is located by declaration line and name, an outline
// instance by the line of the example row it expanded from.
//
// The package registers itself as a godog formatter named "pickleback", so
//
//	go test -v --godog.format=pickleback
//
// streams resolved identities to the log reporter. Programmatic integrations
// register their own variant with a custom Reporter via Register.
package pickleback

import (
	"io"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/formatters"
	"github.com/sirupsen/logrus"

	"github.com/picklejar/pickleback/report"
)

// Options configure a formatter registration.
type Options struct {
	// RunName overrides the run item's display name. Defaults to the
	// suite name godog hands the formatter.
	RunName string

	// Attributes are attached to the run item.
	Attributes []report.Attribute

	// Reporter receives the resolved hierarchy. When nil, ReporterName is
	// looked up in the reporter registry.
	Reporter report.Reporter

	// ReporterName selects a registered reporter when Reporter is nil.
	// When the lookup fails or the name is empty, the log reporter is
	// used.
	ReporterName string

	// Logger carries the formatter's own diagnostics. Defaults to the
	// logrus standard logger.
	Logger *logrus.Logger
}

// Register makes the formatter available to godog under the given name, for
// example through the --godog.format flag.
func Register(name, description string, opts Options) {
	godog.Format(name, description, func(suite string, out io.Writer) formatters.Formatter {
		return New(suite, out, opts)
	})
}

func init() {
	report.Register("log", func() report.Reporter { return report.NewLogReporter(nil) })
	report.Register("memory", func() report.Reporter { return report.NewRecorder() })

	Register("pickleback", "Resolves scenario identities against their source documents and streams them to the configured reporter.", Options{ReporterName: "log"})
}
