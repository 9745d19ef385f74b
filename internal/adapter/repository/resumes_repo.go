package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"resume-tailor/internal/domain"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("resume not found")

// ResumesRepo stores normalized resumes. A nil pool turns it into a no-op
// store so the service runs without a database.
type ResumesRepo struct {
	pool *pgxpool.Pool
}

func NewResumesRepo(pool *pgxpool.Pool) *ResumesRepo {
	return &ResumesRepo{pool: pool}
}

func (r *ResumesRepo) Save(ctx context.Context, s *domain.StoredResume) error {
	if r.pool == nil {
		return nil
	}

	warnings, err := json.Marshal(nonNil(s.Warnings))
	if err != nil {
		return err
	}
	keywords, err := json.Marshal(nonNil(s.SelectedKeywords))
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO resumes (id, user_id, kind, record, warnings, needs_review, job_description, selected_keywords, cover_letter, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET kind = EXCLUDED.kind, record = EXCLUDED.record, warnings = EXCLUDED.warnings, needs_review = EXCLUDED.needs_review, job_description = EXCLUDED.job_description, selected_keywords = EXCLUDED.selected_keywords, cover_letter = EXCLUDED.cover_letter, updated_at = EXCLUDED.updated_at`,
		s.ID, s.UserID, string(s.Kind), []byte(s.Record), warnings, s.NeedsReview, s.JobDescription, keywords, s.CoverLetter, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save resume %s: %w", s.ID, err)
	}
	return nil
}

func (r *ResumesRepo) Get(ctx context.Context, id uuid.UUID) (*domain.StoredResume, error) {
	if r.pool == nil {
		return nil, ErrNotFound
	}

	var (
		s                domain.StoredResume
		kind             string
		record, warnings []byte
		selectedKeywords []byte
	)
	err := r.pool.QueryRow(ctx, `SELECT id, user_id, kind, record, warnings, needs_review, job_description, selected_keywords, cover_letter, created_at, updated_at
		FROM resumes WHERE id = $1`, id).
		Scan(&s.ID, &s.UserID, &kind, &record, &warnings, &s.NeedsReview, &s.JobDescription, &selectedKeywords, &s.CoverLetter, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get resume %s: %w", id, err)
	}

	s.Kind = domain.Kind(kind)
	s.Record = json.RawMessage(record)
	if err := json.Unmarshal(warnings, &s.Warnings); err != nil {
		return nil, fmt.Errorf("decode warnings of %s: %w", id, err)
	}
	if err := json.Unmarshal(selectedKeywords, &s.SelectedKeywords); err != nil {
		return nil, fmt.Errorf("decode keywords of %s: %w", id, err)
	}
	return &s, nil
}

// ListByUser returns the user's records, newest first.
func (r *ResumesRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ResumeSummary, error) {
	if r.pool == nil {
		return []domain.ResumeSummary{}, nil
	}
	var out []domain.ResumeSummary
	err := queryJSON(ctx, r.pool, &out, `SELECT coalesce(json_agg(json_build_object(
			'id', id, 'kind', kind, 'name', record->'contact'->>'name',
			'needsReview', needs_review, 'updatedAt', updated_at) ORDER BY updated_at DESC), '[]')
		FROM resumes WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes of %s: %w", userID, err)
	}
	return out, nil
}

// queryJSON runs a SQL that returns a single json value and unmarshals it
// into dst.
func queryJSON(ctx context.Context, pool *pgxpool.Pool, dst interface{}, sql string, args ...interface{}) error {
	var raw []byte
	if err := pool.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
