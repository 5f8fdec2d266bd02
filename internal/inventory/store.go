// Package inventory persists resolved documents and the execution instances
// they would produce. The store mirrors the resolution model: one feature
// row per source path, one scenario row per definition, one instance row
// per runtime occurrence, with display names written exactly as a run would
// report them.
package inventory

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens or creates the inventory database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Store wraps the inventory database.
type Store struct {
	db *sql.DB
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// FeatureRecord is one document to record.
type FeatureRecord struct {
	Path    string
	Name    string
	Keyword string
}

// ScenarioRecord is one scenario-level definition of a recorded document.
type ScenarioRecord struct {
	Line      int64
	Name      string
	Keyword   string
	Outline   bool
	Instances []InstanceRecord
}

// InstanceRecord is one execution instance of a definition.
type InstanceRecord struct {
	Line int64
	Name string
}

// FeatureSummary is one stored feature with its definition and instance
// counts.
type FeatureSummary struct {
	Path      string
	Name      string
	Scenarios int
	Instances int
}

// InstanceRow is one stored instance joined with its source path.
type InstanceRow struct {
	Path    string
	Name    string
	Line    int64
	Outline bool
}

// RecordFeature upserts a document and replaces its definitions and
// instances with the given set. It reports whether the path was recorded
// for the first time.
func (s *Store) RecordFeature(f FeatureRecord, scenarios []ScenarioRecord) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("beginning record: %w", err)
	}
	defer tx.Rollback()

	created := false
	var featureID int64
	err = tx.QueryRow(`SELECT id FROM features WHERE path = ?`, f.Path).Scan(&featureID)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.Exec(`INSERT INTO features (path, name, keyword) VALUES (?, ?, ?)`,
			f.Path, f.Name, f.Keyword)
		if err != nil {
			return false, fmt.Errorf("inserting %s: %w", f.Path, err)
		}
		featureID, err = res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("reading feature id for %s: %w", f.Path, err)
		}
		created = true
	case err != nil:
		return false, fmt.Errorf("querying %s: %w", f.Path, err)
	default:
		_, err = tx.Exec(`UPDATE features SET name = ?, keyword = ?, updated_at = datetime('now') WHERE id = ?`,
			f.Name, f.Keyword, featureID)
		if err != nil {
			return false, fmt.Errorf("updating %s: %w", f.Path, err)
		}
	}

	// Latest read wins: drop the previously recorded definition set.
	_, err = tx.Exec(`DELETE FROM instances WHERE scenario_id IN (SELECT id FROM scenarios WHERE feature_id = ?)`, featureID)
	if err != nil {
		return false, fmt.Errorf("clearing instances for %s: %w", f.Path, err)
	}
	if _, err := tx.Exec(`DELETE FROM scenarios WHERE feature_id = ?`, featureID); err != nil {
		return false, fmt.Errorf("clearing scenarios for %s: %w", f.Path, err)
	}

	for _, sc := range scenarios {
		res, err := tx.Exec(`INSERT INTO scenarios (feature_id, line, name, keyword, outline) VALUES (?, ?, ?, ?, ?)`,
			featureID, sc.Line, sc.Name, sc.Keyword, sc.Outline)
		if err != nil {
			return false, fmt.Errorf("inserting scenario %q: %w", sc.Name, err)
		}
		scenarioID, err := res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("reading scenario id for %q: %w", sc.Name, err)
		}
		for _, in := range sc.Instances {
			_, err := tx.Exec(`INSERT INTO instances (scenario_id, line, name) VALUES (?, ?, ?)`,
				scenarioID, in.Line, in.Name)
			if err != nil {
				return false, fmt.Errorf("inserting instance %q: %w", in.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing record for %s: %w", f.Path, err)
	}
	return created, nil
}

// Features returns the stored features with their counts, ordered by path.
func (s *Store) Features() ([]FeatureSummary, error) {
	rows, err := s.db.Query(`
		SELECT f.path, f.name,
			COUNT(DISTINCT s.id),
			COUNT(i.id)
		FROM features f
		LEFT JOIN scenarios s ON s.feature_id = f.id
		LEFT JOIN instances i ON i.scenario_id = s.id
		GROUP BY f.id
		ORDER BY f.path`)
	if err != nil {
		return nil, fmt.Errorf("querying features: %w", err)
	}
	defer rows.Close()

	var out []FeatureSummary
	for rows.Next() {
		var fs FeatureSummary
		if err := rows.Scan(&fs.Path, &fs.Name, &fs.Scenarios, &fs.Instances); err != nil {
			return nil, fmt.Errorf("scanning feature row: %w", err)
		}
		out = append(out, fs)
	}
	return out, rows.Err()
}

// Instances returns the stored execution instances, ordered by path and
// line.
func (s *Store) Instances() ([]InstanceRow, error) {
	rows, err := s.db.Query(`
		SELECT f.path, i.name, i.line, s.outline
		FROM instances i
		JOIN scenarios s ON i.scenario_id = s.id
		JOIN features f ON s.feature_id = f.id
		ORDER BY f.path, i.line`)
	if err != nil {
		return nil, fmt.Errorf("querying instances: %w", err)
	}
	defer rows.Close()

	var out []InstanceRow
	for rows.Next() {
		var ir InstanceRow
		if err := rows.Scan(&ir.Path, &ir.Name, &ir.Line, &ir.Outline); err != nil {
			return nil, fmt.Errorf("scanning instance row: %w", err)
		}
		out = append(out, ir)
	}
	return out, rows.Err()
}
