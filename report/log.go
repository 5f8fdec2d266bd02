package report

import (
	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
)

// LogReporter writes the item hierarchy to a logrus logger. It is intended
// for development and for debugging correlation problems; every started item
// gets a freshly minted handle.
type LogReporter struct {
	log *logrus.Logger
}

// NewLogReporter creates a logging reporter. A nil logger falls back to a
// default logrus logger at info level.
func NewLogReporter(log *logrus.Logger) *LogReporter {
	if log == nil {
		log = logrus.New()
	}
	return &LogReporter{log: log}
}

// newItemID mints a fresh correlation handle.
func newItemID() ItemID {
	return ItemID(uuid.Must(uuid.NewV4()).String())
}

// StartRun begins the top-level run item.
func (r *LogReporter) StartRun(info RunInfo) (ItemID, error) {
	id := newItemID()
	r.log.WithFields(logrus.Fields{
		"item": id,
		"name": info.Name,
	}).Info("run started")
	return id, nil
}

// FinishRun closes the run item.
func (r *LogReporter) FinishRun(id ItemID) error {
	r.log.WithField("item", id).Info("run finished")
	return nil
}

// StartFeature begins a feature item under the run.
func (r *LogReporter) StartFeature(run ItemID, info FeatureInfo) (ItemID, error) {
	id := newItemID()
	r.log.WithFields(logrus.Fields{
		"item":       id,
		"parent":     run,
		"path":       info.Path,
		"name":       info.Name,
		"attributes": len(info.Attributes),
	}).Info("feature started")
	return id, nil
}

// FinishFeature closes a feature item.
func (r *LogReporter) FinishFeature(id ItemID) error {
	r.log.WithField("item", id).Info("feature finished")
	return nil
}

// StartScenario begins a scenario item under a feature.
func (r *LogReporter) StartScenario(feature ItemID, info ScenarioInfo) (ItemID, error) {
	id := newItemID()
	r.log.WithFields(logrus.Fields{
		"item":      id,
		"parent":    feature,
		"name":      info.Name,
		"line":      info.Line,
		"iteration": info.Iteration,
	}).Info("scenario started")
	return id, nil
}

// FinishScenario closes a scenario item.
func (r *LogReporter) FinishScenario(id ItemID) error {
	r.log.WithField("item", id).Info("scenario finished")
	return nil
}

// StartStep begins a step item under a scenario.
func (r *LogReporter) StartStep(scenario ItemID, info StepInfo) (ItemID, error) {
	id := newItemID()
	r.log.WithFields(logrus.Fields{
		"item":   id,
		"parent": scenario,
		"step":   info.Prefix + info.Keyword + info.Text,
		"line":   info.Line,
	}).Debug("step started")
	return id, nil
}

// FinishStep closes a step item.
func (r *LogReporter) FinishStep(id ItemID) error {
	r.log.WithField("item", id).Debug("step finished")
	return nil
}
