package item

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// Repository defines methods for accessing items and their comments.
type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, it *Item) error
	ListByOwner(ctx context.Context, ownerID string, page request.Page) ([]*Item, error)
	Search(ctx context.Context, text string, page request.Page) ([]*Item, error)
	ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*Item, error)

	CreateComment(ctx context.Context, cm *Comment) error
	ListComments(ctx context.Context, itemID string) ([]Comment, error)
}

type pgxRepository struct {
	q db.Querier
}

// NewPgxRepository creates a new Repository implementation using pgx.
func NewPgxRepository(q db.Querier) Repository {
	return &pgxRepository{q: q}
}

var itemColumns = []string{"id", "name", "description", "available", "owner_id", "request_id", "created_at"}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	query, args, err := db.PSQL.Insert("public.items").
		Columns("name", "description", "available", "owner_id", "request_id").
		Values(it.Name, it.Description, it.Available, it.OwnerID, it.RequestID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&it.ID, &it.CreatedAt); err != nil {
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	query, args, err := db.PSQL.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	it, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return it, nil
}

func (r *pgxRepository) Update(ctx context.Context, it *Item) error {
	query, args, err := db.PSQL.Update("public.items").
		Set("name", it.Name).
		Set("description", it.Description).
		Set("available", it.Available).
		Where(squirrel.Eq{"id": it.ID, "owner_id": it.OwnerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID string, page request.Page) ([]*Item, error) {
	return r.list(ctx, ownerQuery(ownerID, page))
}

func (r *pgxRepository) Search(ctx context.Context, text string, page request.Page) ([]*Item, error) {
	return r.list(ctx, searchQuery(text, page))
}

func (r *pgxRepository) ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, db.PSQL.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"request_id": requestIDs}).
		OrderBy("created_at ASC"))
}

func (r *pgxRepository) list(ctx context.Context, qb squirrel.SelectBuilder) ([]*Item, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items failed: %w", err)
	}
	return items, nil
}

func ownerQuery(ownerID string, page request.Page) squirrel.SelectBuilder {
	return db.PSQL.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at ASC").
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset()))
}

// searchQuery matches available items whose name or description contains text, case-insensitively.
func searchQuery(text string, page request.Page) squirrel.SelectBuilder {
	pattern := "%" + escapeLike(text) + "%"
	return db.PSQL.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"available": true}).
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		}).
		OrderBy("created_at ASC").
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset()))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// CreateComment inserts the comment and fills in its id and author name.
func (r *pgxRepository) CreateComment(ctx context.Context, cm *Comment) error {
	insert, args, err := db.PSQL.Insert("public.comments").
		Columns("text", "item_id", "author_id", "created").
		Values(cm.Text, cm.ItemID, cm.AuthorID, cm.Created).
		Suffix("RETURNING id, author_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create comment query failed: %w", err)
	}

	query := "WITH ins AS (" + insert + ") SELECT ins.id, u.name FROM ins JOIN public.users u ON u.id = ins.author_id"
	if err := r.q.QueryRow(ctx, query, args...).Scan(&cm.ID, &cm.AuthorName); err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListComments(ctx context.Context, itemID string) ([]Comment, error) {
	query, args, err := commentsQuery(itemID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.Text, &cm.ItemID, &cm.AuthorID, &cm.AuthorName, &cm.Created); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		comments = append(comments, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments failed: %w", err)
	}
	return comments, nil
}

func commentsQuery(itemID string) squirrel.SelectBuilder {
	return db.PSQL.Select("c.id", "c.text", "c.item_id", "c.author_id", "u.name", "c.created").
		From("public.comments c").
		Join("public.users u ON u.id = c.author_id").
		Where(squirrel.Eq{"c.item_id": itemID}).
		OrderBy("c.created ASC")
}
