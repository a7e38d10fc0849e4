package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// InquiryFilter captures listing parameters.
type InquiryFilter struct {
	AssignedTo  *string
	CreatedBy   *string
	Statuses    []domain.InquiryStatus
	Course      *string
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// InquiryRepository encapsulates inquiry persistence.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) error
	Update(ctx context.Context, inquiry *domain.Inquiry) error
	GetByID(ctx context.Context, id string) (*domain.Inquiry, error)
	ListWithFilter(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, assignedTo *string) (map[domain.InquiryStatus]int64, error)
}

type inquiryRepository struct {
	pool *pgxpool.Pool
}

// NewInquiryRepository instantiates repository.
func NewInquiryRepository(pool *pgxpool.Pool) InquiryRepository {
	return &inquiryRepository{pool: pool}
}

func (r *inquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	const query = `
        INSERT INTO inquiries (student_name, contact_number, email, course_interested, more_input, status, assigned_to, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		inquiry.StudentName,
		inquiry.ContactNumber,
		inquiry.Email,
		inquiry.CourseInterested,
		inquiry.MoreInput,
		inquiry.Status,
		inquiry.AssignedTo,
		inquiry.CreatedBy,
	).Scan(&inquiry.ID, &inquiry.CreatedAt, &inquiry.UpdatedAt)
}

func (r *inquiryRepository) Update(ctx context.Context, inquiry *domain.Inquiry) error {
	const query = `
        UPDATE inquiries SET student_name=$1, contact_number=$2, email=$3, course_interested=$4,
            more_input=$5, status=$6, assigned_to=$7
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		inquiry.StudentName,
		inquiry.ContactNumber,
		inquiry.Email,
		inquiry.CourseInterested,
		inquiry.MoreInput,
		inquiry.Status,
		inquiry.AssignedTo,
		inquiry.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inquiryRepository) GetByID(ctx context.Context, id string) (*domain.Inquiry, error) {
	const query = `
        SELECT id, student_name, contact_number, email, course_interested, more_input,
               status, assigned_to, created_by, created_at, updated_at
        FROM inquiries WHERE id=$1`

	var inquiry domain.Inquiry
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&inquiry.ID,
		&inquiry.StudentName,
		&inquiry.ContactNumber,
		&inquiry.Email,
		&inquiry.CourseInterested,
		&inquiry.MoreInput,
		&inquiry.Status,
		&inquiry.AssignedTo,
		&inquiry.CreatedBy,
		&inquiry.CreatedAt,
		&inquiry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *inquiryRepository) ListWithFilter(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, error) {
	base := `SELECT id, student_name, contact_number, email, course_interested, more_input,
                    status, assigned_to, created_by, created_at, updated_at
             FROM inquiries`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Course != nil {
		args = append(args, *filter.Course)
		clauses = append(clauses, fmt.Sprintf("course_interested=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(student_name) LIKE %s OR LOWER(course_interested) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInquiries(rows)
}

func (r *inquiryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM inquiries WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inquiryRepository) CountByStatus(ctx context.Context, assignedTo *string) (map[domain.InquiryStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM inquiries`
	args := []any{}
	if assignedTo != nil {
		args = append(args, *assignedTo)
		query += " WHERE assigned_to=$1"
	}
	query += " GROUP BY status"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.InquiryStatus]int64)
	for rows.Next() {
		var status domain.InquiryStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanInquiries(rows pgx.Rows) ([]domain.Inquiry, error) {
	var result []domain.Inquiry
	for rows.Next() {
		var inquiry domain.Inquiry
		if err := rows.Scan(
			&inquiry.ID,
			&inquiry.StudentName,
			&inquiry.ContactNumber,
			&inquiry.Email,
			&inquiry.CourseInterested,
			&inquiry.MoreInput,
			&inquiry.Status,
			&inquiry.AssignedTo,
			&inquiry.CreatedBy,
			&inquiry.CreatedAt,
			&inquiry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, inquiry)
	}
	return result, rows.Err()
}
