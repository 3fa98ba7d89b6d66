package session

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PgStorage guarda la sesión como filas clave/valor en client_state, una
// fila por clave persistida, agrupadas por perfil.
type PgStorage struct {
	conn    pgConn
	profile string
}

func NewPgStorage(pool *pgxpool.Pool, profile string) *PgStorage {
	if profile == "" {
		profile = "default"
	}
	return &PgStorage{conn: pool, profile: profile}
}

// EnsureSchema crea la tabla si no existe.
func (s *PgStorage) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS client_state (
			profile    TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (profile, key)
		)
	`
	_, err := s.conn.Exec(ctx, query)
	return err
}

func (s *PgStorage) Load(ctx context.Context) (Record, error) {
	const query = `
		SELECT key, value
		FROM client_state
		WHERE profile = $1
	`
	rows, err := s.conn.Query(ctx, query, s.profile)
	if err != nil {
		return Record{}, err
	}
	defer rows.Close()

	var rec Record
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Record{}, err
		}
		switch key {
		case KeyToken:
			rec.Token = value
		case KeyRefreshToken:
			rec.RefreshToken = value
		case KeyUser:
			rec.User = value
		}
	}
	return rec, rows.Err()
}

func (s *PgStorage) Save(ctx context.Context, rec Record) error {
	const query = `
		INSERT INTO client_state (profile, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	values := [][2]string{
		{KeyToken, rec.Token},
		{KeyRefreshToken, rec.RefreshToken},
		{KeyUser, rec.User},
	}
	for _, kv := range values {
		if _, err := tx.Exec(ctx, query, s.profile, kv[0], kv[1]); err != nil {
			return fmt.Errorf("upsert %s: %w", kv[0], err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PgStorage) Clear(ctx context.Context) error {
	const query = `
		DELETE FROM client_state
		WHERE profile = $1
	`
	_, err := s.conn.Exec(ctx, query, s.profile)
	return err
}
