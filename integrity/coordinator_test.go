package integrity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"testing"

	"aiqr-api/apperror"
	"aiqr-api/models"
	"aiqr-api/store"
	"aiqr-api/store/mockstore"
	"aiqr-api/store/storetest"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"
)

var discard = slog.New(slog.DiscardHandler)

func setup(t *testing.T) (*Coordinator, *store.GormStore) {
	t.Helper()
	s, _ := storetest.New(t)
	return New(s, discard), s
}

func seedRestaurant(t *testing.T, s store.Store, contact string) string {
	t.Helper()
	r := &models.Restaurant{
		VendorName: "Meera", RestaurantName: "Meera's", Contact: contact,
		Address: "Park Street", PasswordHash: "secret-hash",
	}
	if err := s.Create(context.Background(), store.Restaurants, r); err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	return r.ID
}

func tableIDs(t *testing.T, s store.Store, restaurantID string) []string {
	t.Helper()
	var r models.Restaurant
	if err := s.FindByID(context.Background(), store.Restaurants, restaurantID, &r); err != nil {
		t.Fatalf("read restaurant: %v", err)
	}
	return r.TableIDs
}

func addCategory(t *testing.T, c *Coordinator, restaurantID, name string) string {
	t.Helper()
	ids, err := Attach(context.Background(), c, restaurantID, RestaurantCategories, restaurantID, []models.Category{{Name: name}})
	if err != nil {
		t.Fatalf("attach category: %v", err)
	}
	return ids[0]
}

func TestAttachDetachRoundTrip(t *testing.T) {
	c, s := setup(t)
	ctx := context.Background()
	rid := seedRestaurant(t, s, "9000000002")

	ids, err := Attach(ctx, c, rid, RestaurantTables, rid, []models.Table{{TableNo: 1}, {TableNo: 2}})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if len(ids) != 2 || !slices.Equal(tableIDs(t, s, rid), ids) {
		t.Fatalf("ids = %v, array = %v", ids, tableIDs(t, s, rid))
	}

	if err := c.DetachAndDelete(ctx, rid, RestaurantTables, rid, ids[0]); err != nil {
		t.Fatalf("DetachAndDelete: %v", err)
	}
	if got := tableIDs(t, s, rid); !slices.Equal(got, ids[1:]) {
		t.Fatalf("array after detach = %v, want %v", got, ids[1:])
	}
	var gone models.Table
	if err := s.FindByID(ctx, store.Tables, ids[0], &gone); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("detached table still readable: %v", err)
	}

	// a second detach is a NotFound and leaves the array alone
	err = c.DetachAndDelete(ctx, rid, RestaurantTables, rid, ids[0])
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("repeat detach err = %v", err)
	}
	if got := tableIDs(t, s, rid); !slices.Equal(got, ids[1:]) {
		t.Fatalf("array changed by repeat detach: %v", got)
	}
}

func TestAttachRequiresOwnParent(t *testing.T) {
	c, s := setup(t)
	ctx := context.Background()
	rid := seedRestaurant(t, s, "9000000002")
	other := seedRestaurant(t, s, "9000000003")

	_, err := Attach(ctx, c, rid, RestaurantTables, other, []models.Table{{TableNo: 1}})
	if !apperror.Is(err, apperror.KindInvalidAuthorization) {
		t.Fatalf("foreign parent err = %v", err)
	}
	_, err = Attach(ctx, c, uuid.NewString(), RestaurantTables, "", []models.Table{{TableNo: 1}})
	if !apperror.Is(err, apperror.KindInvalidAuthorization) {
		t.Fatalf("missing restaurant err = %v", err)
	}
	missing := uuid.NewString()
	_, err = Attach(ctx, c, missing, RestaurantTables, missing, []models.Table{{TableNo: 1}})
	if !apperror.Is(err, apperror.KindInvalidAuthorization) {
		t.Fatalf("deleted restaurant err = %v", err)
	}
	if _, err := Attach(ctx, c, rid, RestaurantTables, rid, []models.Table{}); !apperror.Is(err, apperror.KindFieldValidation) {
		t.Fatalf("empty batch err = %v", err)
	}
}

func TestDetachValidatesIDSyntax(t *testing.T) {
	c, s := setup(t)
	rid := seedRestaurant(t, s, "9000000002")
	err := c.DetachAndDelete(context.Background(), rid, RestaurantTables, rid, "not-an-id")
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperror.KindFieldValidation || appErr.HTTPStatus() != http.StatusBadRequest {
		t.Fatalf("err = %v", err)
	}
	if appErr.Message != "Invalid Table Id" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestDetachForeignChildFailsFast(t *testing.T) {
	c, s := setup(t)
	ctx := context.Background()
	mine := seedRestaurant(t, s, "9000000002")
	theirs := seedRestaurant(t, s, "9000000003")

	theirIDs, err := Attach(ctx, c, theirs, RestaurantTables, theirs, []models.Table{{TableNo: 7}})
	if err != nil {
		t.Fatal(err)
	}
	err = c.DetachAndDelete(ctx, mine, RestaurantTables, mine, theirIDs[0])
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("err = %v", err)
	}
	var tb models.Table
	if err := s.FindByID(ctx, store.Tables, theirIDs[0], &tb); err != nil {
		t.Fatalf("foreign table deleted: %v", err)
	}
	if got := tableIDs(t, s, theirs); !slices.Equal(got, theirIDs) {
		t.Fatalf("foreign array changed: %v", got)
	}
}

func TestDetachListedButMissingChild(t *testing.T) {
	c, s := setup(t)
	ctx := context.Background()
	rid := seedRestaurant(t, s, "9000000002")
	dangling := uuid.NewString()
	if err := s.ArrayAppend(ctx, store.Restaurants, rid, "table_ids", []string{dangling}, nil); err != nil {
		t.Fatal(err)
	}

	err := c.DetachAndDelete(ctx, rid, RestaurantTables, rid, dangling)
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("err = %v", err)
	}
	if got := tableIDs(t, s, rid); len(got) != 0 {
		t.Fatalf("unlink did not take effect: %v", got)
	}
}

func TestItemCrossCategoryIsolation(t *testing.T) {
	c, s := setup(t)
	ctx := context.Background()
	rid := seedRestaurant(t, s, "9000000002")
	catA := addCategory(t, c, rid, "Starters")
	catB := addCategory(t, c, rid, "Desserts")

	items, err := Attach(ctx, c, rid, CategoryItems, catA, []models.MenuItem{{Name: "Samosa", Price: 30}})
	if err != nil {
		t.Fatalf("attach item: %v", err)
	}

	err = c.DetachAndDelete(ctx, rid, CategoryItems, catB, items[0])
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("cross-category delete err = %v", err)
	}
	var item models.MenuItem
	if err := s.FindByID(ctx, store.MenuItems, items[0], &item); err != nil {
		t.Fatalf("item deleted through the wrong category: %v", err)
	}

	if err := c.DetachAndDelete(ctx, rid, CategoryItems, catA, items[0]); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestItemCategoryOfAnotherRestaurant(t *testing.T) {
	c, s := setup(t)
	ctx := context.Background()
	mine := seedRestaurant(t, s, "9000000002")
	theirs := seedRestaurant(t, s, "9000000003")
	theirCat := addCategory(t, c, theirs, "Mains")
	items, err := Attach(ctx, c, theirs, CategoryItems, theirCat, []models.MenuItem{{Name: "Thali", Price: 150}})
	if err != nil {
		t.Fatal(err)
	}

	_, err = Attach(ctx, c, mine, CategoryItems, theirCat, []models.MenuItem{{Name: "Intruder", Price: 1}})
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("attach into foreign category err = %v", err)
	}
	err = c.DetachAndDelete(ctx, mine, CategoryItems, theirCat, items[0])
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("delete from foreign category err = %v", err)
	}
	err = c.DetachAndDelete(ctx, mine, CategoryItems, "bad", items[0])
	if !apperror.Is(err, apperror.KindFieldValidation) {
		t.Fatalf("bad category id err = %v", err)
	}
}

func TestAttachLinkFailureLeavesOrphans(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mockstore.NewMockStore(ctrl)
	ctx := context.Background()
	rid := uuid.NewString()
	linkErr := errors.New("disk full")

	m.EXPECT().FindByID(ctx, store.Restaurants, rid, gomock.Any(), gomock.Any()).Return(nil)
	m.EXPECT().Create(ctx, store.Tables, gomock.Any()).DoAndReturn(func(_ context.Context, _ store.Collection, docs any) error {
		for i := range *docs.(*[]models.Table) {
			(*docs.(*[]models.Table))[i].ID = uuid.NewString()
		}
		return nil
	})
	m.EXPECT().ArrayAppend(ctx, store.Restaurants, rid, "table_ids", gomock.Len(2), nil).Return(linkErr)
	// no compensating delete is expected; gomock fails on any unexpected call

	c := New(m, discard)
	_, err := Attach(ctx, c, rid, RestaurantTables, rid, []models.Table{{TableNo: 1}, {TableNo: 2}})
	if !apperror.Is(err, apperror.KindDatabase) || !errors.Is(err, linkErr) {
		t.Fatalf("err = %v", err)
	}
}

func TestDetachDeleteFailureAfterUnlink(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mockstore.NewMockStore(ctrl)
	ctx := context.Background()
	rid, tid := uuid.NewString(), uuid.NewString()

	m.EXPECT().FindByID(ctx, store.Restaurants, rid, gomock.Any(), gomock.Any()).Return(nil)
	m.EXPECT().FindByID(ctx, store.Restaurants, rid, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ store.Collection, _ string, dest any, _ ...store.FindOption) error {
			dest.(*models.Restaurant).TableIDs = []string{tid}
			return nil
		})
	gomock.InOrder(
		m.EXPECT().ArrayRemove(ctx, store.Restaurants, rid, "table_ids", tid, nil).Return(nil),
		m.EXPECT().DeleteByID(ctx, store.Tables, tid, nil).Return(errors.New("io error")),
	)

	err := New(m, discard).DetachAndDelete(ctx, rid, RestaurantTables, rid, tid)
	if !apperror.Is(err, apperror.KindDatabase) {
		t.Fatalf("err = %v", err)
	}
}

func TestConcurrentAttachNoLostUpdates(t *testing.T) {
	c, s := setup(t)
	ctx := context.Background()
	rid := seedRestaurant(t, s, "9000000002")

	var g errgroup.Group
	for i := range 5 {
		g.Go(func() error {
			_, err := Attach(ctx, c, rid, RestaurantTables, rid, []models.Table{{TableNo: i + 1}})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := tableIDs(t, s, rid); len(got) != 5 {
		t.Fatalf("array = %v", got)
	}
}

func TestUpdate(t *testing.T) {
	c, s := setup(t)
	ctx := context.Background()
	rid := seedRestaurant(t, s, "9000000002")
	other := seedRestaurant(t, s, "9000000003")
	ids, err := Attach(ctx, c, rid, RestaurantTables, rid, []models.Table{{TableNo: 1}})
	if err != nil {
		t.Fatal(err)
	}
	otherIDs, err := Attach(ctx, c, other, RestaurantTables, other, []models.Table{{TableNo: 1}})
	if err != nil {
		t.Fatal(err)
	}

	var updated models.Table
	if err := c.Update(ctx, rid, RestaurantTables, rid, ids[0], store.Patch{"table_no": 12}, &updated); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.TableNo != 12 {
		t.Errorf("table_no = %d", updated.TableNo)
	}
	if !slices.Equal(tableIDs(t, s, rid), ids) {
		t.Error("update touched the parent array")
	}

	err = c.Update(ctx, rid, RestaurantTables, rid, otherIDs[0], store.Patch{"table_no": 99}, nil)
	if !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("foreign update err = %v", err)
	}
}

func TestOwningParent(t *testing.T) {
	c, s := setup(t)
	ctx := context.Background()
	rid := seedRestaurant(t, s, "9000000002")
	catA := addCategory(t, c, rid, "Starters")
	catB := addCategory(t, c, rid, "Mains")
	items, err := Attach(ctx, c, rid, CategoryItems, catB, []models.MenuItem{{Name: "Biryani", Price: 220}})
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.OwningParent(ctx, rid, CategoryItems, items[0])
	if err != nil || got != catB {
		t.Fatalf("OwningParent = %q, %v (want %q, not %q)", got, err, catB, catA)
	}
	if _, err := c.OwningParent(ctx, rid, CategoryItems, uuid.NewString()); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("unknown item err = %v", err)
	}
	if got, _ := c.OwningParent(ctx, rid, RestaurantTables, uuid.NewString()); got != rid {
		t.Fatalf("top-level owner = %q", got)
	}
}

func TestRestaurantProjection(t *testing.T) {
	c, s := setup(t)
	ctx := context.Background()
	rid := seedRestaurant(t, s, "9000000002")
	passkey := 1234
	if _, err := Attach(ctx, c, rid, RestaurantTables, rid, []models.Table{{TableNo: 1, TablePasskey: &passkey}}); err != nil {
		t.Fatal(err)
	}
	cat := addCategory(t, c, rid, "Drinks")
	if _, err := Attach(ctx, c, rid, CategoryItems, cat, []models.MenuItem{{Name: "Lassi", Price: 60}}); err != nil {
		t.Fatal(err)
	}

	r, err := c.Restaurant(ctx, rid, "tables", "categories.items")
	if err != nil {
		t.Fatalf("Restaurant: %v", err)
	}
	if r.PasswordHash != "" {
		t.Error("password hash exposed")
	}
	if len(r.Tables) != 1 || r.Tables[0].TablePasskey != nil {
		t.Errorf("tables = %+v", r.Tables)
	}
	if len(r.Categories) != 1 || len(r.Categories[0].Items) != 1 {
		t.Errorf("categories = %+v", r.Categories)
	}

	if _, err := c.Restaurant(ctx, uuid.NewString()); !apperror.Is(err, apperror.KindInvalidAuthorization) {
		t.Errorf("missing restaurant err = %v", err)
	}

	menu, err := c.Menu(ctx, rid)
	if err != nil {
		t.Fatalf("Menu: %v", err)
	}
	if menu.Contact != "" || menu.VendorName != "" || len(menu.Categories) != 1 {
		t.Errorf("menu = %+v", menu)
	}
	if _, err := c.Menu(ctx, uuid.NewString()); !apperror.Is(err, apperror.KindNotFound) {
		t.Errorf("missing menu err = %v", err)
	}
}
