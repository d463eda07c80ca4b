package itemrequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// Repository defines methods for accessing item requests.
type Repository interface {
	Create(ctx context.Context, r *ItemRequest) error
	GetByID(ctx context.Context, id string) (*ItemRequest, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListByRequestor(ctx context.Context, requestorID string) ([]*ItemRequest, error)
	ListOthers(ctx context.Context, userID string, page request.Page) ([]*ItemRequest, error)
}

type pgxRepository struct {
	q db.Querier
}

// NewPgxRepository creates a new Repository implementation using pgx.
func NewPgxRepository(q db.Querier) Repository {
	return &pgxRepository{q: q}
}

var requestColumns = []string{"id", "description", "requestor_id", "created"}

func (r *pgxRepository) Create(ctx context.Context, ir *ItemRequest) error {
	query, args, err := db.PSQL.Insert("public.item_requests").
		Columns("description", "requestor_id", "created").
		Values(ir.Description, ir.RequestorID, ir.Created).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item request query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&ir.ID); err != nil {
		return fmt.Errorf("create item request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*ItemRequest, error) {
	query, args, err := db.PSQL.Select(requestColumns...).
		From("public.item_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item request query failed: %w", err)
	}

	var ir ItemRequest
	if err := r.q.QueryRow(ctx, query, args...).Scan(&ir.ID, &ir.Description, &ir.RequestorID, &ir.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item request failed: %w", err)
	}
	return &ir, nil
}

func (r *pgxRepository) Exists(ctx context.Context, id string) (bool, error) {
	sub, args, err := db.PSQL.Select("1").
		From("public.item_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build item request exists query failed: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check item request exists failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ListByRequestor(ctx context.Context, requestorID string) ([]*ItemRequest, error) {
	return r.list(ctx, ownQuery(requestorID))
}

func (r *pgxRepository) ListOthers(ctx context.Context, userID string, page request.Page) ([]*ItemRequest, error) {
	return r.list(ctx, othersQuery(userID, page))
}

func ownQuery(requestorID string) squirrel.SelectBuilder {
	return db.PSQL.Select(requestColumns...).
		From("public.item_requests").
		Where(squirrel.Eq{"requestor_id": requestorID}).
		OrderBy("created DESC")
}

func othersQuery(userID string, page request.Page) squirrel.SelectBuilder {
	return db.PSQL.Select(requestColumns...).
		From("public.item_requests").
		Where(squirrel.NotEq{"requestor_id": userID}).
		OrderBy("created DESC").
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset()))
}

func (r *pgxRepository) list(ctx context.Context, qb squirrel.SelectBuilder) ([]*ItemRequest, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list item requests query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list item requests failed: %w", err)
	}
	defer rows.Close()

	var out []*ItemRequest
	for rows.Next() {
		var ir ItemRequest
		if err := rows.Scan(&ir.ID, &ir.Description, &ir.RequestorID, &ir.Created); err != nil {
			return nil, fmt.Errorf("scan item request failed: %w", err)
		}
		out = append(out, &ir)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item requests failed: %w", err)
	}
	return out, nil
}
