package item

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/cache"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

const (
	ownerID    = "00000000-0000-0000-0000-00000000000a"
	bookerID   = "00000000-0000-0000-0000-00000000000b"
	strangerID = "00000000-0000-0000-0000-00000000000c"
)

type fakeRepo struct {
	items    map[string]*Item
	comments map[string][]Comment
	seq      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]*Item{}, comments: map[string][]Comment{}}
}

func (r *fakeRepo) Create(_ context.Context, it *Item) error {
	r.seq++
	it.ID = "item-" + string(rune('0'+r.seq))
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *fakeRepo) Update(_ context.Context, it *Item) error {
	if _, ok := r.items[it.ID]; !ok {
		return ErrNotFound
	}
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, owner string, _ request.Page) ([]*Item, error) {
	var out []*Item
	for _, it := range r.items {
		if it.OwnerID == owner {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) Search(context.Context, string, request.Page) ([]*Item, error) {
	return []*Item{{ID: "hit"}}, nil
}

func (r *fakeRepo) ListByRequestIDs(context.Context, []string) ([]*Item, error) {
	return nil, nil
}

func (r *fakeRepo) CreateComment(_ context.Context, cm *Comment) error {
	cm.ID = "comment-1"
	r.comments[cm.ItemID] = append(r.comments[cm.ItemID], *cm)
	return nil
}

func (r *fakeRepo) ListComments(_ context.Context, itemID string) ([]Comment, error) {
	return r.comments[itemID], nil
}

type fakeUsers map[string]bool

func (u fakeUsers) Exists(_ context.Context, id string) (bool, error) { return u[id], nil }

type fakeBookings struct {
	last, next *BookingRef
	approved   bool
	lastNow    time.Time
}

func (b *fakeBookings) LastBooking(_ context.Context, _ string, now time.Time) (*BookingRef, error) {
	b.lastNow = now
	return b.last, nil
}

func (b *fakeBookings) NextBooking(context.Context, string, time.Time) (*BookingRef, error) {
	return b.next, nil
}

func (b *fakeBookings) HasApprovedBookingStartedBefore(context.Context, string, string, time.Time) (bool, error) {
	return b.approved, nil
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo, requests RequestChecker, bookings *fakeBookings) *service {
	users := fakeUsers{ownerID: true, bookerID: true, strangerID: true}
	svc := NewService(repo, users, requests, bookings, cache.NewNoop()).(*service)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestCreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), fakeUsers{}, &fakeBookings{})
		it, err := svc.Create(ctx, ownerID, CreateRequest{Name: "Drill", Description: "Cordless", Available: boolPtr(true)})
		require.NoError(t, err)
		assert.Equal(t, ownerID, it.OwnerID)
		assert.True(t, it.Available)
	})

	t.Run("UnknownOwner", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), fakeUsers{}, &fakeBookings{})
		_, err := svc.Create(ctx, "ghost", CreateRequest{Name: "Drill", Description: "x", Available: boolPtr(true)})
		assert.ErrorIs(t, err, ErrOwnerNotFound)
	})

	t.Run("MissingAvailable", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), fakeUsers{}, &fakeBookings{})
		_, err := svc.Create(ctx, ownerID, CreateRequest{Name: "Drill", Description: "x"})
		assert.ErrorIs(t, err, ErrAvailableRequired)
	})

	t.Run("UnknownRequest", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), fakeUsers{}, &fakeBookings{})
		_, err := svc.Create(ctx, ownerID, CreateRequest{
			Name: "Drill", Description: "x", Available: boolPtr(true), RequestID: strPtr("req-1"),
		})
		assert.ErrorIs(t, err, ErrRequestNotFound)
	})

	t.Run("KnownRequest", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), fakeUsers{"req-1": true}, &fakeBookings{})
		it, err := svc.Create(ctx, ownerID, CreateRequest{
			Name: "Drill", Description: "x", Available: boolPtr(false), RequestID: strPtr("req-1"),
		})
		require.NoError(t, err)
		require.NotNil(t, it.RequestID)
		assert.Equal(t, "req-1", *it.RequestID)
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.items["i1"] = &Item{ID: "i1", Name: "Drill", Description: "Cordless", Available: true, OwnerID: ownerID}
	svc := newTestService(repo, fakeUsers{}, &fakeBookings{})

	t.Run("NonOwnerGetsNotFound", func(t *testing.T) {
		_, err := svc.Update(ctx, strangerID, "i1", UpdateRequest{Available: boolPtr(false)})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.True(t, repo.items["i1"].Available)
	})

	t.Run("PartialUpdate", func(t *testing.T) {
		it, err := svc.Update(ctx, ownerID, "i1", UpdateRequest{Available: boolPtr(false)})
		require.NoError(t, err)
		assert.False(t, it.Available)
		assert.Equal(t, "Drill", it.Name)
	})

	t.Run("BlankName", func(t *testing.T) {
		_, err := svc.Update(ctx, ownerID, "i1", UpdateRequest{Name: strPtr(" ")})
		assert.ErrorIs(t, err, ErrNameRequired)
	})
}

func TestGetItemProjectsForOwnerOnly(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.items["i1"] = &Item{ID: "i1", Name: "Drill", OwnerID: ownerID, Available: true}

	last := &BookingRef{ID: "b-last", BookerID: bookerID, Start: fixedNow.Add(-2 * time.Hour), End: fixedNow.Add(-time.Hour)}
	next := &BookingRef{ID: "b-next", BookerID: bookerID, Start: fixedNow.Add(time.Hour), End: fixedNow.Add(2 * time.Hour)}
	bookings := &fakeBookings{last: last, next: next}
	svc := newTestService(repo, fakeUsers{}, bookings)

	v, err := svc.Get(ctx, ownerID, "i1")
	require.NoError(t, err)
	assert.Equal(t, last, v.LastBooking)
	assert.Equal(t, next, v.NextBooking)
	assert.Equal(t, fixedNow, bookings.lastNow)
	assert.NotNil(t, v.Comments)

	v, err = svc.Get(ctx, strangerID, "i1")
	require.NoError(t, err)
	assert.Nil(t, v.LastBooking)
	assert.Nil(t, v.NextBooking)

	_, err = svc.Get(ctx, ownerID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByOwnerProjectsEveryItem(t *testing.T) {
	repo := newFakeRepo()
	repo.items["i1"] = &Item{ID: "i1", OwnerID: ownerID}
	repo.items["i2"] = &Item{ID: "i2", OwnerID: strangerID}

	next := &BookingRef{ID: "b-next"}
	svc := newTestService(repo, fakeUsers{}, &fakeBookings{next: next})

	views, err := svc.ListByOwner(context.Background(), ownerID, request.Page{Size: 10})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "i1", views[0].ID)
	assert.Equal(t, next, views[0].NextBooking)
	assert.Nil(t, views[0].LastBooking)
}

func TestProjectDoesNotMutateItem(t *testing.T) {
	it := &Item{ID: "i1", Name: "Drill"}
	v := Project(it, &BookingRef{ID: "b1"}, nil, nil)

	v.Name = "Changed"
	assert.Equal(t, "Drill", it.Name)
	assert.Equal(t, "b1", v.LastBooking.ID)
	assert.Nil(t, v.NextBooking)
	assert.Empty(t, v.Comments)
	assert.NotNil(t, v.Comments)
}

func TestSearchBlankText(t *testing.T) {
	svc := newTestService(newFakeRepo(), fakeUsers{}, &fakeBookings{})

	items, err := svc.Search(context.Background(), "   ", request.Page{Size: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	items, err = svc.Search(context.Background(), "drill", request.Page{Size: 10})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("RequiresApprovedPastBooking", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), fakeUsers{}, &fakeBookings{approved: false})
		_, err := svc.AddComment(ctx, bookerID, "i1", "Great drill")
		assert.ErrorIs(t, err, ErrCommentNotAllowed)
	})

	t.Run("BlankText", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), fakeUsers{}, &fakeBookings{approved: true})
		_, err := svc.AddComment(ctx, bookerID, "i1", "  ")
		assert.ErrorIs(t, err, ErrCommentTextRequired)
	})

	t.Run("Success", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, fakeUsers{}, &fakeBookings{approved: true})
		cm, err := svc.AddComment(ctx, bookerID, "i1", "Great drill")
		require.NoError(t, err)
		assert.Equal(t, "comment-1", cm.ID)
		assert.Equal(t, fixedNow, cm.Created)
		assert.Len(t, repo.comments["i1"], 1)
	})
}
