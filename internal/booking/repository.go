package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/item"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, error)

	// DecideStatus moves a WAITING booking to status. It reports false when the
	// booking is no longer WAITING, leaving the row untouched.
	DecideStatus(ctx context.Context, id string, status Status) (bool, error)

	LastBooking(ctx context.Context, itemID string, now time.Time) (*item.BookingRef, error)
	NextBooking(ctx context.Context, itemID string, now time.Time) (*item.BookingRef, error)
	HasApprovedBookingStartedBefore(ctx context.Context, itemID, bookerID string, now time.Time) (bool, error)
}

var _ item.BookingLookup = (Repository)(nil)

type pgxRepository struct {
	q db.Querier
}

func NewPgxRepository(q db.Querier) Repository {
	return &pgxRepository{q: q}
}

var bookingColumns = []string{
	"b.id", "b.start_time", "b.end_time", "b.item_id", "i.name", "i.owner_id",
	"b.booker_id", "u.name", "b.status", "b.created_at",
}

func selectBookings() squirrel.SelectBuilder {
	return db.PSQL.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var status string
	if err := row.Scan(
		&b.ID, &b.Start, &b.End, &b.ItemID, &b.ItemName, &b.ItemOwnerID,
		&b.BookerID, &b.BookerName, &status, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	b.Status = Status(status)
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := db.PSQL.Insert("public.bookings").
		Columns("start_time", "end_time", "item_id", "booker_id", "status").
		Values(b.Start, b.End, b.ItemID, b.BookerID, string(b.Status)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	qb, err := listQuery(filter)
	if err != nil {
		return nil, err
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, nil
}

// listQuery builds the list query for a booker or owner filter, newest start first.
func listQuery(f Filter) (squirrel.SelectBuilder, error) {
	qb := selectBookings()

	switch {
	case f.BookerID != "":
		qb = qb.Where(squirrel.Eq{"b.booker_id": f.BookerID})
	case f.OwnerID != "":
		qb = qb.Where(squirrel.Eq{"i.owner_id": f.OwnerID})
	default:
		return qb, fmt.Errorf("booking filter needs a booker or an owner")
	}

	pred, err := statePredicate(f.State, f.Now)
	if err != nil {
		return qb, err
	}
	if pred != nil {
		qb = qb.Where(pred)
	}

	return qb.
		OrderBy("b.start_time DESC").
		Limit(uint64(f.Page.Size)).
		Offset(uint64(f.Page.Offset())), nil
}

// statePredicate maps a state to its WHERE clause. ALL has none.
func statePredicate(state State, now time.Time) (squirrel.Sqlizer, error) {
	switch state {
	case StateAll:
		return nil, nil
	case StateCurrent:
		return squirrel.And{
			squirrel.LtOrEq{"b.start_time": now},
			squirrel.Gt{"b.end_time": now},
		}, nil
	case StatePast:
		return squirrel.Lt{"b.end_time": now}, nil
	case StateFuture:
		return squirrel.Gt{"b.start_time": now}, nil
	case StateWaiting:
		return squirrel.Eq{"b.status": string(StatusWaiting)}, nil
	case StateRejected:
		return squirrel.Eq{"b.status": string(StatusRejected)}, nil
	default:
		return nil, ErrUnknownState(string(state))
	}
}

func (r *pgxRepository) DecideStatus(ctx context.Context, id string, status Status) (bool, error) {
	query, args, err := decideQuery(id, status).ToSql()
	if err != nil {
		return false, fmt.Errorf("build decide booking query failed: %w", err)
	}

	ct, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("decide booking failed: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

// decideQuery only matches WAITING rows, so concurrent decisions cannot both win.
func decideQuery(id string, status Status) squirrel.UpdateBuilder {
	return db.PSQL.Update("public.bookings").
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": string(StatusWaiting)})
}

func (r *pgxRepository) LastBooking(ctx context.Context, itemID string, now time.Time) (*item.BookingRef, error) {
	return r.neighbour(ctx, lastBookingQuery(itemID, now))
}

func (r *pgxRepository) NextBooking(ctx context.Context, itemID string, now time.Time) (*item.BookingRef, error) {
	return r.neighbour(ctx, nextBookingQuery(itemID, now))
}

func (r *pgxRepository) neighbour(ctx context.Context, qb squirrel.SelectBuilder) (*item.BookingRef, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build neighbour booking query failed: %w", err)
	}

	var ref item.BookingRef
	if err := r.q.QueryRow(ctx, query, args...).Scan(&ref.ID, &ref.BookerID, &ref.Start, &ref.End); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get neighbour booking failed: %w", err)
	}
	return &ref, nil
}

func neighbourBase(itemID string) squirrel.SelectBuilder {
	return db.PSQL.Select("id", "booker_id", "start_time", "end_time").
		From("public.bookings").
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.NotEq{"status": string(StatusRejected)})
}

func lastBookingQuery(itemID string, now time.Time) squirrel.SelectBuilder {
	return neighbourBase(itemID).
		Where(squirrel.Lt{"start_time": now}).
		OrderBy("start_time DESC").
		Limit(1)
}

func nextBookingQuery(itemID string, now time.Time) squirrel.SelectBuilder {
	return neighbourBase(itemID).
		Where(squirrel.Gt{"start_time": now}).
		OrderBy("start_time ASC").
		Limit(1)
}

func (r *pgxRepository) HasApprovedBookingStartedBefore(ctx context.Context, itemID, bookerID string, now time.Time) (bool, error) {
	sub, args, err := approvedStartedQuery(itemID, bookerID, now).ToSql()
	if err != nil {
		return false, fmt.Errorf("build approved booking query failed: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check approved booking failed: %w", err)
	}
	return exists, nil
}

func approvedStartedQuery(itemID, bookerID string, now time.Time) squirrel.SelectBuilder {
	return db.PSQL.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.Eq{"booker_id": bookerID}).
		Where(squirrel.Eq{"status": string(StatusApproved)}).
		Where(squirrel.Lt{"start_time": now})
}
