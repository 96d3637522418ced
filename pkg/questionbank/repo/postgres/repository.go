package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/motilinbal/question-bank/pkg/questionbank"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements questionbank.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) questionbank.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) questionbank.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Question operations

func (r *Repository) CreateQuestion(ctx context.Context, question *questionbank.Question) error {
	choices, err := json.Marshal(question.Choices)
	if err != nil {
		return fmt.Errorf("marshal choices: %w", err)
	}

	now := time.Now().UTC()
	createdAt := question.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	query := `
		INSERT INTO questions (
			id, name, source, tags, question_html, explanation_html,
			choices, favorite, marked, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.Exec(ctx, query,
		question.ID, question.Name, question.Source, question.Tags,
		question.QuestionHTML, question.ExplanationHTML, choices,
		question.Favorite, question.Marked, question.Notes, createdAt, now)

	if err != nil {
		return r.handlePostgresError("create question", err)
	}

	return nil
}

func (r *Repository) GetQuestion(ctx context.Context, id string) (*questionbank.Question, error) {
	query := `
        SELECT id, name, source, tags, question_html, explanation_html,
               choices, favorite, marked, notes, created_at, updated_at
        FROM questions WHERE id = $1`

	q, err := r.scanQuestion(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, questionbank.ErrQuestionNotFound
		}
		return nil, r.handlePostgresError("get question", err)
	}
	return q, nil
}

func (r *Repository) scanQuestion(row pgx.Row) (*questionbank.Question, error) {
	var q questionbank.Question
	var choices []byte
	err := row.Scan(&q.ID, &q.Name, &q.Source, &q.Tags, &q.QuestionHTML,
		&q.ExplanationHTML, &choices, &q.Favorite, &q.Marked, &q.Notes,
		&q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(choices) > 0 {
		if err := json.Unmarshal(choices, &q.Choices); err != nil {
			return nil, fmt.Errorf("unmarshal choices: %w", err)
		}
	}
	return &q, nil
}

func (r *Repository) ListQuestions(ctx context.Context, filter questionbank.QuestionFilter) ([]*questionbank.Question, int, error) {
	where, args := buildQuestionWhere(filter)

	countQuery := "SELECT COUNT(*) FROM questions" + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count questions", err)
	}

	listQuery := `
        SELECT id, name, source, tags, question_html, explanation_html,
               choices, favorite, marked, notes, created_at, updated_at
        FROM questions` + where + " ORDER BY id"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		listQuery += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		listQuery += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list questions", err)
	}
	defer rows.Close()

	var questions []*questionbank.Question
	for rows.Next() {
		q, err := r.scanQuestion(rows)
		if err != nil {
			return nil, 0, r.handlePostgresError("scan question", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.handlePostgresError("list questions", err)
	}

	return questions, total, nil
}

func buildQuestionWhere(filter questionbank.QuestionFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Source != "" {
		add("source = $%d", filter.Source)
	}
	if filter.Text != "" {
		add("(question_html ILIKE $%d OR name ILIKE $%[1]d)", "%"+filter.Text+"%")
	}
	if len(filter.Tags) > 0 {
		add("tags @> $%d", filter.Tags)
	}
	if filter.FavoritesOnly {
		clauses = append(clauses, "favorite")
	}
	if filter.MarkedOnly {
		clauses = append(clauses, "marked")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *Repository) UpdateFavorite(ctx context.Context, id string, favorite bool) error {
	return r.updateQuestionField(ctx, id, "favorite", favorite)
}

func (r *Repository) UpdateMarked(ctx context.Context, id string, marked bool) error {
	return r.updateQuestionField(ctx, id, "marked", marked)
}

func (r *Repository) UpdateNotes(ctx context.Context, id string, notes string) error {
	return r.updateQuestionField(ctx, id, "notes", notes)
}

func (r *Repository) updateQuestionField(ctx context.Context, id, column string, value interface{}) error {
	query := fmt.Sprintf("UPDATE questions SET %s = $2, updated_at = $3 WHERE id = $1", column)
	tag, err := r.db.Exec(ctx, query, id, value, time.Now().UTC())
	if err != nil {
		return r.handlePostgresError("update "+column, err)
	}
	if tag.RowsAffected() == 0 {
		return questionbank.ErrQuestionNotFound
	}
	return nil
}

func (r *Repository) ListSources(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "SELECT DISTINCT source FROM questions WHERE source <> '' ORDER BY source")
}

func (r *Repository) ListTags(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "SELECT DISTINCT unnest(tags) AS tag FROM questions ORDER BY tag")
}

func (r *Repository) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("distinct", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, r.handlePostgresError("distinct", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Asset operations

func (r *Repository) CreateAsset(ctx context.Context, kind questionbank.AssetKind, doc *questionbank.AssetDocument) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO assets (id, kind, name, markup, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (kind, id) DO UPDATE
		SET name = EXCLUDED.name, markup = EXCLUDED.markup,
		    description = EXCLUDED.description, updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query, doc.ID, string(kind), doc.Name, doc.Markup, doc.Description, now, now)
	if err != nil {
		return r.handlePostgresError("create asset", err)
	}
	return nil
}

func (r *Repository) FindAsset(ctx context.Context, kind questionbank.AssetKind, id string) (*questionbank.AssetDocument, error) {
	query := `
        SELECT id, name, markup, description, created_at, updated_at
        FROM assets WHERE kind = $1 AND id = $2`

	var doc questionbank.AssetDocument
	err := r.db.QueryRow(ctx, query, string(kind), id).Scan(
		&doc.ID, &doc.Name, &doc.Markup, &doc.Description, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, questionbank.ErrAssetNotFound
		}
		return nil, r.handlePostgresError("find asset", err)
	}
	return &doc, nil
}
