package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/chriserin/ftgen/internal/model"
)

var ErrCaseNotFound = errors.New("case not found")

// Case is one stored manifest entry.
type Case struct {
	ID       int64
	Feature  string
	Output   string
	Name     string
	Method   string
	Scenario string
	Block    string
	Row      int
	Tags     []string
}

type Feature struct {
	Path        string
	Title       string
	Output      string
	Cases       int
	GeneratedAt string
}

type TagCount struct {
	Tag   string
	Cases int
}

// CaseFilter narrows ListCases. Empty fields match everything.
type CaseFilter struct {
	Feature string
	Tag     string
}

// Run is one feature's manifest as recorded by a generate run.
type Run struct {
	Title    string
	Manifest model.Manifest
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// ReplaceAll stores every manifest of a generate run and drops features the
// run did not produce. Either all of it lands or none of it.
func ReplaceAll(db *sql.DB, runs []Run) (pruned int64, err error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	keep := make([]string, 0, len(runs))
	for _, r := range runs {
		if err := saveManifest(tx, r.Title, r.Manifest); err != nil {
			return 0, err
		}
		keep = append(keep, r.Manifest.Feature)
	}
	pruned, err = pruneFeatures(tx, keep)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing manifests: %w", err)
	}
	return pruned, nil
}

// SaveManifest replaces everything stored for the manifest's feature.
func SaveManifest(db *sql.DB, title string, m model.Manifest) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveManifest(tx, title, m); err != nil {
		return err
	}
	return tx.Commit()
}

func saveManifest(tx *sql.Tx, title string, m model.Manifest) error {
	var featureID int64
	err := tx.QueryRow(`
		INSERT INTO features (file_path, title, output_path) VALUES (?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			title = excluded.title,
			output_path = excluded.output_path,
			generated_at = datetime('now')
		RETURNING id
	`, m.Feature, title, m.Output).Scan(&featureID)
	if err != nil {
		return fmt.Errorf("saving feature %s: %w", m.Feature, err)
	}

	if _, err := tx.Exec(`DELETE FROM case_tags WHERE case_id IN (SELECT id FROM cases WHERE feature_id = ?)`, featureID); err != nil {
		return fmt.Errorf("clearing tags of %s: %w", m.Feature, err)
	}
	if _, err := tx.Exec(`DELETE FROM cases WHERE feature_id = ?`, featureID); err != nil {
		return fmt.Errorf("clearing cases of %s: %w", m.Feature, err)
	}

	for i, c := range m.Cases {
		res, err := tx.Exec(`
			INSERT INTO cases (feature_id, position, name, method, scenario, block, row_index)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, featureID, i, c.Name, c.Method, c.Scenario, c.Block, c.Row)
		if err != nil {
			return fmt.Errorf("inserting case %s: %w", c.Name, err)
		}
		caseID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading case id: %w", err)
		}
		for _, tag := range c.Tags {
			if _, err := tx.Exec(`INSERT INTO case_tags (case_id, tag) VALUES (?, ?)`, caseID, tag); err != nil {
				return fmt.Errorf("inserting tag %s: %w", tag, err)
			}
		}
	}
	return nil
}

// PruneFeatures drops every stored feature whose path is not in keep.
func PruneFeatures(db *sql.DB, keep []string) (int64, error) {
	return pruneFeatures(db, keep)
}

func pruneFeatures(ex execer, keep []string) (int64, error) {
	query := `DELETE FROM features`
	args := make([]any, 0, len(keep))
	if len(keep) > 0 {
		query += ` WHERE file_path NOT IN (?` + strings.Repeat(`, ?`, len(keep)-1) + `)`
		for _, k := range keep {
			args = append(args, k)
		}
	}
	res, err := ex.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("pruning features: %w", err)
	}
	return res.RowsAffected()
}

// ListCases returns cases ordered by feature path, then generation order.
func ListCases(db *sql.DB, f CaseFilter) ([]Case, error) {
	query := `
		SELECT c.id, f.file_path, f.output_path, c.name, c.method, c.scenario, c.block, c.row_index,
			COALESCE((SELECT group_concat(tag, ' ') FROM (SELECT tag FROM case_tags WHERE case_id = c.id ORDER BY rowid)), '')
		FROM cases c
		JOIN features f ON c.feature_id = f.id
		WHERE (? = '' OR f.file_path = ?)
		  AND (? = '' OR EXISTS (SELECT 1 FROM case_tags t WHERE t.case_id = c.id AND t.tag = ?))
		ORDER BY f.file_path, c.position
	`
	rows, err := db.Query(query, f.Feature, f.Feature, f.Tag, f.Tag)
	if err != nil {
		return nil, fmt.Errorf("querying cases: %w", err)
	}
	defer rows.Close()

	var cases []Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// GetCase finds a case by id or, when name is set, by name.
func GetCase(db *sql.DB, id int64, name string) (Case, error) {
	row := db.QueryRow(`
		SELECT c.id, f.file_path, f.output_path, c.name, c.method, c.scenario, c.block, c.row_index,
			COALESCE((SELECT group_concat(tag, ' ') FROM (SELECT tag FROM case_tags WHERE case_id = c.id ORDER BY rowid)), '')
		FROM cases c
		JOIN features f ON c.feature_id = f.id
		WHERE c.id = ? OR c.name = ?
		ORDER BY c.id
		LIMIT 1
	`, id, name)
	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		ref := name
		if ref == "" {
			ref = fmt.Sprint(id)
		}
		return Case{}, fmt.Errorf("%w: %s", ErrCaseNotFound, ref)
	}
	return c, err
}

func Features(db *sql.DB) ([]Feature, error) {
	rows, err := db.Query(`
		SELECT f.file_path, f.title, f.output_path, f.generated_at,
			(SELECT COUNT(*) FROM cases WHERE feature_id = f.id)
		FROM features f
		ORDER BY f.file_path
	`)
	if err != nil {
		return nil, fmt.Errorf("querying features: %w", err)
	}
	defer rows.Close()

	var out []Feature
	for rows.Next() {
		var f Feature
		if err := rows.Scan(&f.Path, &f.Title, &f.Output, &f.GeneratedAt, &f.Cases); err != nil {
			return nil, fmt.Errorf("scanning feature: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// TagCounts counts cases per tag, most used first.
func TagCounts(db *sql.DB) ([]TagCount, error) {
	rows, err := db.Query(`
		SELECT tag, COUNT(DISTINCT case_id) AS cnt
		FROM case_tags
		GROUP BY tag
		ORDER BY cnt DESC, tag
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	var out []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Cases); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCase(s scanner) (Case, error) {
	var c Case
	var tags string
	if err := s.Scan(&c.ID, &c.Feature, &c.Output, &c.Name, &c.Method, &c.Scenario, &c.Block, &c.Row, &tags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scanning case: %w", err)
	}
	c.Tags = strings.Fields(tags)
	return c, nil
}
