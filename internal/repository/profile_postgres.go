package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/cookieai/internal/domain"
)

// PostgresProfiles keeps one row per user in user_profiles.
type PostgresProfiles struct {
	pool *pgxpool.Pool
}

func NewPostgresProfiles(pool *pgxpool.Pool) *PostgresProfiles {
	return &PostgresProfiles{pool: pool}
}

func (s *PostgresProfiles) Load(ctx context.Context) (map[string]*domain.UserProfile, error) {
	rows, err := s.pool.Query(ctx, `SELECT user_id, profile FROM user_profiles`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	profiles := map[string]*domain.UserProfile{}
	for rows.Next() {
		var (
			userID string
			raw    []byte
		)
		if err := rows.Scan(&userID, &raw); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p := &domain.UserProfile{}
		if err := json.Unmarshal(raw, p); err != nil {
			return nil, fmt.Errorf("decode profile %s: %w", userID, err)
		}
		profiles[userID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}

// Save replaces the table contents with the given snapshot in one transaction.
func (s *PostgresProfiles) Save(ctx context.Context, profiles map[string]*domain.UserProfile) error {
	ids := make([]string, 0, len(profiles))
	batch := &pgx.Batch{}
	for userID, p := range profiles {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode profile %s: %w", userID, err)
		}
		ids = append(ids, userID)
		batch.Queue(`
			INSERT INTO user_profiles (user_id, profile, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (user_id) DO UPDATE
			SET profile = EXCLUDED.profile, updated_at = now()`,
			userID, string(raw))
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_profiles WHERE NOT (user_id = ANY($1))`, ids); err != nil {
			return fmt.Errorf("delete stale profiles: %w", err)
		}
		if batch.Len() == 0 {
			return nil
		}
		br := tx.SendBatch(ctx, batch)
		for range batch.Len() {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("upsert profile: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("close batch: %w", err)
		}
		return nil
	})
}
