// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists feature tables in a SQLite database so runs can be
// listed and reloaded without recomputing them.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citation-features/pkg/types"
)

// DefaultDBPath is used when StoreConfig.DBPath is empty.
const DefaultDBPath = "features/runs.db"

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrRunNotFound is returned by LoadRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Store manages the feature run database.
type Store struct {
	db *sql.DB
}

// RunInfo describes one stored run.
type RunInfo struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Source    string    `json:"source" yaml:"source"`
	Rows      int       `json:"rows" yaml:"rows"`
	Columns   []string  `json:"columns" yaml:"columns"`
}

// NewStore opens or creates the database at cfg.DBPath and its schema.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			source TEXT,
			row_count INTEGER NOT NULL,
			columns TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS features (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			row_index INTEGER NOT NULL,
			paper TEXT NOT NULL,
			referenced_paper TEXT NOT NULL,
			cells TEXT NOT NULL,
			PRIMARY KEY (run_id, row_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_features_paper ON features(paper)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores table under a new run ID and returns it. source records
// where the edges came from (e.g. the input path).
func (s *Store) SaveRun(ctx context.Context, table *types.FeatureTable, source string) (string, error) {
	id := uuid.NewString()
	colsJSON, err := json.Marshal(table.Columns)
	if err != nil {
		return "", fmt.Errorf("marshaling columns: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source, row_count, columns) VALUES (?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(timeLayout), source, table.Len(), string(colsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO features (run_id, row_index, paper, referenced_paper, cells) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range table.Rows {
		cells, err := encodeCells(row)
		if err != nil {
			return "", fmt.Errorf("encoding row %d: %w", i, err)
		}
		e := table.Edges[i]
		if _, err := stmt.ExecContext(ctx, id, i, e.Paper, e.ReferencedPaper, cells); err != nil {
			return "", fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// ListRuns returns all stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source, row_count, columns FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		info, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Run returns the description of one run.
func (s *Store) Run(ctx context.Context, id string) (RunInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, source, row_count, columns FROM runs WHERE id = ?`, id)
	info, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunInfo{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return info, err
}

// LoadRun reads a stored feature table back.
func (s *Store) LoadRun(ctx context.Context, id string) (*types.FeatureTable, error) {
	info, err := s.Run(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT paper, referenced_paper, cells FROM features WHERE run_id = ? ORDER BY row_index`, id)
	if err != nil {
		return nil, fmt.Errorf("querying features: %w", err)
	}
	defer rows.Close()

	table := &types.FeatureTable{
		Columns: info.Columns,
		Edges:   make([]types.CitationEdge, 0, info.Rows),
		Rows:    make([][]any, 0, info.Rows),
	}
	for rows.Next() {
		var e types.CitationEdge
		var cells string
		if err := rows.Scan(&e.Paper, &e.ReferencedPaper, &cells); err != nil {
			return nil, fmt.Errorf("scanning feature row: %w", err)
		}
		row, err := decodeCells(cells)
		if err != nil {
			return nil, fmt.Errorf("decoding feature row %d: %w", len(table.Rows), err)
		}
		table.Edges = append(table.Edges, e)
		table.Rows = append(table.Rows, row)
	}
	return table, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunInfo, error) {
	var info RunInfo
	var created, cols string
	var source sql.NullString
	if err := sc.Scan(&info.ID, &created, &source, &info.Rows, &cols); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunInfo{}, err
		}
		return RunInfo{}, fmt.Errorf("scanning run: %w", err)
	}
	info.Source = source.String
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return RunInfo{}, fmt.Errorf("parsing created_at for run %s: %w", info.ID, err)
	}
	info.CreatedAt = t
	if err := json.Unmarshal([]byte(cols), &info.Columns); err != nil {
		return RunInfo{}, fmt.Errorf("parsing columns for run %s: %w", info.ID, err)
	}
	return info, nil
}

// encodeCells writes a row as a JSON array. Floats always carry a decimal
// point so decodeCells can tell them from ints.
func encodeCells(row []any) (string, error) {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		switch x := v.(type) {
		case nil:
			b.WriteString("null")
		case int:
			b.WriteString(strconv.Itoa(x))
		case float64:
			s := strconv.FormatFloat(x, 'g', -1, 64)
			if !strings.ContainsAny(s, ".eE") {
				s += ".0"
			}
			b.WriteString(s)
		default:
			return "", fmt.Errorf("unsupported cell type %T", v)
		}
	}
	b.WriteByte(']')
	return b.String(), nil
}

func decodeCells(s string) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	row := make([]any, len(raw))
	for i, v := range raw {
		n, ok := v.(json.Number)
		if !ok {
			row[i] = v
			continue
		}
		if !strings.ContainsAny(n.String(), ".eE") {
			iv, err := strconv.Atoi(n.String())
			if err != nil {
				return nil, err
			}
			row[i] = iv
			continue
		}
		f, err := n.Float64()
		if err != nil {
			return nil, err
		}
		row[i] = f
	}
	return row, nil
}
