package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bassista/go_notes/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notesSchemaSQL = `
CREATE TABLE IF NOT EXISTS notes
(
    id           VARCHAR PRIMARY KEY,
    title        VARCHAR NOT NULL,
    content      TEXT    NOT NULL,
    content_json JSONB
);`

// sideNotesColumn is the value stored in notes.content_json.
type sideNotesColumn struct {
	SideNotes []string `json:"side_notes"`
}

func encodeSideNotes(sideNotes []string) (string, error) {
	if sideNotes == nil {
		sideNotes = []string{}
	}
	raw, err := json.Marshal(sideNotesColumn{SideNotes: sideNotes})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeSideNotes reads content_json; NULL or a missing key yields an empty list.
func decodeSideNotes(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var col sideNotesColumn
	if err := json.Unmarshal(raw, &col); err != nil {
		return nil, err
	}
	if col.SideNotes == nil {
		return []string{}, nil
	}
	return col.SideNotes, nil
}

// NewPostgresPool parses the connection string and opens a pool.
// maxConns <= 0 keeps the pgx default.
func NewPostgresPool(ctx context.Context, databaseURL string, maxConns int32) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}

// PostgresRepository stores notes in the notes table.
type PostgresRepository struct {
	db        *pgxpool.Pool
	validator *validator.Validate
}

var _ NoteStore = (*PostgresRepository)(nil)

// NewPostgresRepository wraps the pool and creates the notes table if needed.
func NewPostgresRepository(ctx context.Context, db *pgxpool.Pool) (*PostgresRepository, error) {
	if db == nil {
		return nil, errors.New("db pool is nil")
	}
	if _, err := db.Exec(ctx, notesSchemaSQL); err != nil {
		return nil, fmt.Errorf("ensure notes schema: %w", err)
	}
	logger.WithComponent("pg-repo").Debugf("notes schema ready")
	return &PostgresRepository{db: db, validator: validator.New()}, nil
}

// Pool exposes the underlying connection pool, e.g. for metrics collectors.
func (r *PostgresRepository) Pool() *pgxpool.Pool {
	return r.db
}

func (r *PostgresRepository) List(ctx context.Context) ([]Note, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, content, content_json FROM notes;`)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return notes, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Note, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, title, content, content_json FROM notes WHERE id = $1;`,
		id,
	)
	note, err := scanNote(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Save upserts the row keyed by id in a single auto-committed statement.
func (r *PostgresRepository) Save(ctx context.Context, note Note) (Note, error) {
	note = note.Clone()
	note.ApplyDefaults()
	if err := r.validator.Struct(&note); err != nil {
		return Note{}, fmt.Errorf("validate before save: %w", err)
	}
	note.ensureID()

	sideNotes, err := encodeSideNotes(note.SideNotes)
	if err != nil {
		return Note{}, fmt.Errorf("encode side notes: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO notes (id, title, content, content_json)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, content = EXCLUDED.content, content_json = EXCLUDED.content_json;`,
		note.ID, note.Title, note.Content, sideNotes,
	)
	if err != nil {
		return Note{}, fmt.Errorf("upsert note %s: %w", note.ID, err)
	}

	return note, nil
}

func (r *PostgresRepository) Close() error {
	if r.db != nil {
		r.db.Close()
	}
	return nil
}

func scanNote(row pgx.Row) (Note, error) {
	var note Note
	var rawSideNotes []byte
	if err := row.Scan(&note.ID, &note.Title, &note.Content, &rawSideNotes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Note{}, err
		}
		return Note{}, fmt.Errorf("scan note: %w", err)
	}
	sideNotes, err := decodeSideNotes(rawSideNotes)
	if err != nil {
		return Note{}, fmt.Errorf("decode side notes of %s: %w", note.ID, err)
	}
	note.SideNotes = sideNotes
	return note, nil
}
