package integrity

import (
	"context"
	"errors"
	"testing"
	"time"

	"aiqr-api/models"
	"aiqr-api/store"
	"aiqr-api/store/storetest"
)

func TestSweepReclaimsOldOrphansOnly(t *testing.T) {
	s, db := storetest.New(t)
	ctx := context.Background()
	c := New(s, discard)
	rid := seedRestaurant(t, s, "9000000002")

	linked, err := Attach(ctx, c, rid, RestaurantTables, rid, []models.Table{{TableNo: 1}})
	if err != nil {
		t.Fatal(err)
	}
	cat := addCategory(t, c, rid, "Soups")
	linkedItems, err := Attach(ctx, c, rid, CategoryItems, cat, []models.MenuItem{{Name: "Rasam", Price: 50}})
	if err != nil {
		t.Fatal(err)
	}

	// Orphans: an unlinked table, a category that was detached with its item
	// still listed in it, and a loose item.
	oldTable := &models.Table{TableNo: 2}
	youngTable := &models.Table{TableNo: 3}
	deadCat := &models.Category{Name: "Old"}
	deadCatItem := &models.MenuItem{Name: "Stale", Price: 1}
	looseItem := &models.MenuItem{Name: "Loose", Price: 1}
	for coll, doc := range map[store.Collection]any{
		store.Tables: oldTable, store.Categories: deadCat,
	} {
		if err := s.Create(ctx, coll, doc); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Create(ctx, store.Tables, youngTable); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, store.MenuItems, &[]*models.MenuItem{deadCatItem, looseItem}); err != nil {
		t.Fatal(err)
	}
	if err := s.ArrayAppend(ctx, store.Categories, deadCat.ID, "item_ids", []string{deadCatItem.ID}, nil); err != nil {
		t.Fatal(err)
	}

	hourAgo := time.Now().Add(-time.Hour)
	age := func(table string, ids ...string) {
		if err := db.Table(table).Where("id IN ?", ids).Update("created_at", hourAgo).Error; err != nil {
			t.Fatal(err)
		}
	}
	age("tables", linked[0], oldTable.ID)
	age("categories", cat, deadCat.ID)
	age("menu_items", linkedItems[0], deadCatItem.ID, looseItem.ID)

	res, err := NewSweeper(s, discard, 10*time.Minute).Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Tables != 1 || res.Categories != 1 || res.MenuItems != 2 {
		t.Fatalf("result = %+v", res)
	}

	exists := func(coll store.Collection, id string) bool {
		var doc models.Base
		err := s.FindByID(ctx, coll, id, &doc)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			t.Fatal(err)
		}
		return err == nil
	}
	for _, keep := range []struct {
		coll store.Collection
		id   string
	}{
		{store.Tables, linked[0]}, {store.Tables, youngTable.ID},
		{store.Categories, cat}, {store.MenuItems, linkedItems[0]},
	} {
		if !exists(keep.coll, keep.id) {
			t.Errorf("%s %s was swept", keep.coll, keep.id)
		}
	}
	for _, gone := range []struct {
		coll store.Collection
		id   string
	}{
		{store.Tables, oldTable.ID}, {store.Categories, deadCat.ID},
		{store.MenuItems, deadCatItem.ID}, {store.MenuItems, looseItem.ID},
	} {
		if exists(gone.coll, gone.id) {
			t.Errorf("%s %s survived", gone.coll, gone.id)
		}
	}

	again, err := NewSweeper(s, discard, 10*time.Minute).Sweep(ctx)
	if err != nil || again.Total() != 0 {
		t.Fatalf("second sweep = %+v, %v", again, err)
	}
}

func TestSweepKeepsItemsOfYoungCategory(t *testing.T) {
	s, db := storetest.New(t)
	ctx := context.Background()

	// category created but not yet pushed onto any restaurant
	cat := &models.Category{Name: "Pending"}
	if err := s.Create(ctx, store.Categories, cat); err != nil {
		t.Fatal(err)
	}
	item := &models.MenuItem{Name: "Chai", Price: 20}
	if err := s.Create(ctx, store.MenuItems, item); err != nil {
		t.Fatal(err)
	}
	if err := s.ArrayAppend(ctx, store.Categories, cat.ID, "item_ids", []string{item.ID}, nil); err != nil {
		t.Fatal(err)
	}
	if err := db.Table("menu_items").Where("id = ?", item.ID).Update("created_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatal(err)
	}

	res, err := NewSweeper(s, discard, 10*time.Minute).Sweep(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total() != 0 {
		t.Fatalf("young category or its item swept: %+v", res)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := storetest.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSweeper(s, discard, time.Minute).Run(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
