package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// FollowUpRepository encapsulates follow-up persistence. There is no Delete:
// follow-ups only go away through the parent inquiry cascade.
type FollowUpRepository interface {
	Create(ctx context.Context, followUp *domain.FollowUp) error
	Update(ctx context.Context, followUp *domain.FollowUp) error
	GetByID(ctx context.Context, id string) (*domain.FollowUp, error)
	ListByInquiry(ctx context.Context, inquiryID string) ([]domain.FollowUp, error)
}

type followUpRepository struct {
	pool *pgxpool.Pool
}

// NewFollowUpRepository instantiates repository.
func NewFollowUpRepository(pool *pgxpool.Pool) FollowUpRepository {
	return &followUpRepository{pool: pool}
}

func (r *followUpRepository) Create(ctx context.Context, followUp *domain.FollowUp) error {
	const query = `
        INSERT INTO follow_ups (inquiry_id, notes, follow_up_date, voice_recording_url, created_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		followUp.InquiryID,
		followUp.Notes,
		followUp.FollowUpDate,
		followUp.VoiceRecordingURL,
		followUp.CreatedBy,
	).Scan(&followUp.ID, &followUp.CreatedAt)
}

func (r *followUpRepository) Update(ctx context.Context, followUp *domain.FollowUp) error {
	const query = `
        UPDATE follow_ups SET notes=$1, follow_up_date=$2, voice_recording_url=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		followUp.Notes,
		followUp.FollowUpDate,
		followUp.VoiceRecordingURL,
		followUp.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *followUpRepository) GetByID(ctx context.Context, id string) (*domain.FollowUp, error) {
	const query = `
        SELECT id, inquiry_id, notes, follow_up_date, voice_recording_url, created_by, created_at
        FROM follow_ups WHERE id=$1`

	var followUp domain.FollowUp
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&followUp.ID,
		&followUp.InquiryID,
		&followUp.Notes,
		&followUp.FollowUpDate,
		&followUp.VoiceRecordingURL,
		&followUp.CreatedBy,
		&followUp.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &followUp, nil
}

func (r *followUpRepository) ListByInquiry(ctx context.Context, inquiryID string) ([]domain.FollowUp, error) {
	const query = `
        SELECT id, inquiry_id, notes, follow_up_date, voice_recording_url, created_by, created_at
        FROM follow_ups WHERE inquiry_id=$1
        ORDER BY follow_up_date DESC`

	rows, err := r.pool.Query(ctx, query, inquiryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.FollowUp
	for rows.Next() {
		var followUp domain.FollowUp
		if err := rows.Scan(
			&followUp.ID,
			&followUp.InquiryID,
			&followUp.Notes,
			&followUp.FollowUpDate,
			&followUp.VoiceRecordingURL,
			&followUp.CreatedBy,
			&followUp.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, followUp)
	}
	return result, rows.Err()
}
