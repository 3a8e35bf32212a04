package grace

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS grace_tokens (
	holder TEXT PRIMARY KEY,
	tokens INT NOT NULL,
	month TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// PGStore handles grace_tokens persistence.
type PGStore struct {
	db *pgxpool.Pool
}

// NewPGStore returns a PGStore backed by the given connection pool.
func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

func (s *PGStore) Load(ctx context.Context, holder string) (State, error) {
	var st State
	err := s.db.QueryRow(ctx, `SELECT month, tokens FROM grace_tokens WHERE holder = $1`, holder).Scan(&st.Month, &st.Tokens)
	if err == pgx.ErrNoRows {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("load grace state: %w", err)
	}
	return st, nil
}

// Update locks the holder's row for the duration of fn.
// A missing row is inserted first (ON CONFLICT DO NOTHING) so concurrent first uses serialize.
func (s *PGStore) Update(ctx context.Context, holder string, fn func(State) (State, error)) (State, error) {
	var out State
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO grace_tokens (holder, tokens, month)
			VALUES ($1, 0, '')
			ON CONFLICT (holder) DO NOTHING
		`, holder); err != nil {
			return err
		}

		var cur State
		if err := tx.QueryRow(ctx, `SELECT month, tokens FROM grace_tokens WHERE holder = $1 FOR UPDATE`, holder).
			Scan(&cur.Month, &cur.Tokens); err != nil {
			return err
		}

		next, err := fn(cur)
		out = next
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE grace_tokens SET tokens = $2, month = $3, updated_at = now()
			WHERE holder = $1
		`, holder, next.Tokens, next.Month)
		return err
	})
	return out, err
}
