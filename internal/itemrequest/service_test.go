package itemrequest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type fakeRepo struct {
	reqs []*ItemRequest
}

func (r *fakeRepo) Create(_ context.Context, ir *ItemRequest) error {
	ir.ID = "req-new"
	r.reqs = append(r.reqs, ir)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*ItemRequest, error) {
	for _, ir := range r.reqs {
		if ir.ID == id {
			return ir, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.GetByID(ctx, id)
	return err == nil, nil
}

func (r *fakeRepo) ListByRequestor(_ context.Context, requestorID string) ([]*ItemRequest, error) {
	var out []*ItemRequest
	for _, ir := range r.reqs {
		if ir.RequestorID == requestorID {
			out = append(out, ir)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListOthers(_ context.Context, userID string, _ request.Page) ([]*ItemRequest, error) {
	var out []*ItemRequest
	for _, ir := range r.reqs {
		if ir.RequestorID != userID {
			out = append(out, ir)
		}
	}
	return out, nil
}

type fakeUsers map[string]bool

func (u fakeUsers) Exists(_ context.Context, id string) (bool, error) { return u[id], nil }

type fakeItems []*item.Item

func (f fakeItems) ListByRequestIDs(_ context.Context, ids []string) ([]*item.Item, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*item.Item
	for _, it := range f {
		if it.RequestID != nil && want[*it.RequestID] {
			out = append(out, it)
		}
	}
	return out, nil
}

func TestItemRequestService(t *testing.T) {
	ctx := context.Background()
	reqA := "req-a"
	repo := &fakeRepo{reqs: []*ItemRequest{
		{ID: "req-a", Description: "Need a ladder", RequestorID: "alice"},
		{ID: "req-b", Description: "Need a tent", RequestorID: "bob"},
	}}
	items := fakeItems{{ID: "ladder", Name: "Ladder", OwnerID: "bob", RequestID: &reqA}}
	svc := NewService(repo, fakeUsers{"alice": true, "bob": true}, items)
	svc.(*service).now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	t.Run("CreateRequiresUser", func(t *testing.T) {
		_, err := svc.Create(ctx, "ghost", "anything")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("CreateRequiresDescription", func(t *testing.T) {
		_, err := svc.Create(ctx, "alice", "  ")
		assert.ErrorIs(t, err, ErrDescriptionRequired)
	})

	t.Run("ListOwnAttachesItems", func(t *testing.T) {
		out, err := svc.ListOwn(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, out, 1)
		require.Len(t, out[0].Items, 1)
		assert.Equal(t, "ladder", out[0].Items[0].ID)
	})

	t.Run("ListOthersExcludesCaller", func(t *testing.T) {
		out, err := svc.ListOthers(ctx, "alice", request.Page{Size: 10})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "req-b", out[0].ID)
		assert.NotNil(t, out[0].Items)
		assert.Empty(t, out[0].Items)
	})

	t.Run("GetByID", func(t *testing.T) {
		got, err := svc.GetByID(ctx, "bob", "req-a")
		require.NoError(t, err)
		assert.Len(t, got.Items, 1)

		_, err = svc.GetByID(ctx, "bob", "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Create", func(t *testing.T) {
		got, err := svc.Create(ctx, "bob", "Need a drill")
		require.NoError(t, err)
		assert.Equal(t, "req-new", got.ID)
		assert.Equal(t, 2024, got.Created.Year())

		ok, err := svc.Exists(ctx, "req-new")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestOthersQuery(t *testing.T) {
	sql, args, err := othersQuery("alice", request.Page{Index: 1, Size: 5}).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, description, requestor_id, created FROM public.item_requests "+
			"WHERE requestor_id <> $1 ORDER BY created DESC LIMIT 5 OFFSET 5",
		sql)
	assert.Equal(t, []any{"alice"}, args)
}
