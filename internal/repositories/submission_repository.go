package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"nbd-crr/internal/entities"
	apperrors "nbd-crr/pkg/errors"
)

const submissionTable = "submissions"

var submissionColumns = []string{
	"id", "idempotency_key", "form", "sheet_name", "enquiry_no", "submitted_by",
	"row_data", "file_count", "status", "error", "created_at", "completed_at",
}

// SubmissionRepositoryInterface - журнал отправок в таблицу. Запись
// создаётся до обращения к скрипту и закрывается по его итогу.
type SubmissionRepositoryInterface interface {
	Create(ctx context.Context, submission *entities.Submission) error
	Complete(ctx context.Context, id uuid.UUID, status entities.SubmissionStatus, errText null.String) error
	FindByIdempotencyKey(ctx context.Context, key string) (*entities.Submission, error)
	ListRecent(ctx context.Context, form string, limit uint64) ([]entities.Submission, error)
}

type submissionRepository struct {
	storage querier
	psql    sq.StatementBuilderType
	logger  *zap.Logger
}

func NewSubmissionRepository(storage querier, logger *zap.Logger) SubmissionRepositoryInterface {
	return &submissionRepository{
		storage: storage,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  logger,
	}
}

func (r *submissionRepository) scanRow(row pgx.Row) (*entities.Submission, error) {
	var s entities.Submission
	var status string
	err := row.Scan(
		&s.ID, &s.IdempotencyKey, &s.Form, &s.SheetName, &s.EnquiryNo, &s.SubmittedBy,
		&s.RowData, &s.FileCount, &status, &s.Error, &s.CreatedAt, &s.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования строки submission: %w", err)
	}
	s.Status = entities.SubmissionStatus(status)
	return &s, nil
}

func (r *submissionRepository) Create(ctx context.Context, s *entities.Submission) error {
	query, args, err := r.psql.Insert(submissionTable).
		Columns("id", "idempotency_key", "form", "sheet_name", "enquiry_no", "submitted_by", "row_data", "file_count", "status").
		Values(s.ID, s.IdempotencyKey, s.Form, s.SheetName, s.EnquiryNo, s.SubmittedBy, []byte(s.RowData), s.FileCount, string(s.Status)).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки INSERT submissions: %w", err)
	}

	if err := r.storage.QueryRow(ctx, query, args...).Scan(&s.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("ключ %s уже в журнале: %w", s.IdempotencyKey, apperrors.ErrDuplicateSubmit)
		}
		return fmt.Errorf("ошибка записи в журнал отправок: %w", err)
	}
	return nil
}

func (r *submissionRepository) Complete(ctx context.Context, id uuid.UUID, status entities.SubmissionStatus, errText null.String) error {
	query, args, err := r.psql.Update(submissionTable).
		Set("status", string(status)).
		Set("error", errText).
		Set("completed_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки UPDATE submissions: %w", err)
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления журнала отправок: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *submissionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entities.Submission, error) {
	query, args, err := r.psql.Select(submissionColumns...).
		From(submissionTable).
		Where(sq.Eq{"idempotency_key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SELECT submissions: %w", err)
	}
	return r.scanRow(r.storage.QueryRow(ctx, query, args...))
}

func (r *submissionRepository) ListRecent(ctx context.Context, form string, limit uint64) ([]entities.Submission, error) {
	builder := r.psql.Select(submissionColumns...).
		From(submissionTable).
		OrderBy("created_at DESC").
		Limit(limit)
	if form != "" {
		builder = builder.Where(sq.Eq{"form": form})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SELECT submissions: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала отправок: %w", err)
	}
	defer rows.Close()

	out := []entities.Submission{}
	for rows.Next() {
		s, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации журнала отправок: %w", err)
	}
	return out, nil
}

// nopSubmissionRepository используется, когда журнал выключен в конфиге.
type nopSubmissionRepository struct{}

func NewNopSubmissionRepository() SubmissionRepositoryInterface {
	return nopSubmissionRepository{}
}

func (nopSubmissionRepository) Create(context.Context, *entities.Submission) error { return nil }

func (nopSubmissionRepository) Complete(context.Context, uuid.UUID, entities.SubmissionStatus, null.String) error {
	return nil
}

func (nopSubmissionRepository) FindByIdempotencyKey(context.Context, string) (*entities.Submission, error) {
	return nil, apperrors.ErrNotFound
}

func (nopSubmissionRepository) ListRecent(context.Context, string, uint64) ([]entities.Submission, error) {
	return []entities.Submission{}, nil
}
