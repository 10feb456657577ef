// Package integrity keeps parent id arrays and child documents consistent
// without multi-document transactions.
//
// Attach creates children first and links them second; a failed link leaves
// orphans, never dangling ids. Detach unlinks first and deletes second; a
// failed delete leaves an unreachable live child, never a listed deleted one.
// Orphans are reclaimed by Sweeper.
package integrity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"aiqr-api/apperror"
	"aiqr-api/models"
	"aiqr-api/store"
)

const unauthorizedMessage = "Unauthorized Access, Please Login/Register first"

// Link is one parent/child pairing held together by an id array
type Link struct {
	Name     string
	Parent   store.Collection
	Relation string
	Child    store.Collection
	// Owner is set when the parent itself hangs off the restaurant
	Owner *Link

	invalidID string
	notFound  string
	newParent func() store.Expander
}

var (
	RestaurantTables = &Link{
		Name:      "table",
		Parent:    store.Restaurants,
		Relation:  "tables",
		Child:     store.Tables,
		invalidID: "Invalid Table Id",
		notFound:  "Unable to find the table Id",
		newParent: func() store.Expander { return &models.Restaurant{} },
	}
	RestaurantCategories = &Link{
		Name:      "category",
		Parent:    store.Restaurants,
		Relation:  "categories",
		Child:     store.Categories,
		invalidID: "Invalid Category Id",
		notFound:  "Unable to find the Category Id",
		newParent: func() store.Expander { return &models.Restaurant{} },
	}
	CategoryItems = &Link{
		Name:      "menu item",
		Parent:    store.Categories,
		Relation:  "items",
		Child:     store.MenuItems,
		Owner:     RestaurantCategories,
		invalidID: "Invalid Menu Item Id",
		notFound:  "Unable to find the Menu Item Id",
		newParent: func() store.Expander { return &models.Category{} },
	}
)

func (l *Link) field() string {
	rel, _ := l.newParent().Relation(l.Relation)
	return rel.Field
}

type Coordinator struct {
	store store.Store
	log   *slog.Logger
}

func New(s store.Store, log *slog.Logger) *Coordinator {
	return &Coordinator{store: s, log: log}
}

// members reads only the parent's id array for link
func (c *Coordinator) members(ctx context.Context, link *Link, parentID string) ([]string, error) {
	parent := link.newParent()
	if err := c.store.FindByID(ctx, link.Parent, parentID, parent, store.Only("id", link.field())); err != nil {
		return nil, err
	}
	rel, _ := parent.Relation(link.Relation)
	return rel.IDs, nil
}

// authorizeParent checks that parentID is restaurantID itself or, for nested
// links, is listed in the restaurant's owner array.
func (c *Coordinator) authorizeParent(ctx context.Context, restaurantID string, link *Link, parentID string) error {
	if link.Owner == nil {
		if parentID != restaurantID {
			return apperror.InvalidAuthorization(unauthorizedMessage)
		}
		var r models.Restaurant
		err := c.store.FindByID(ctx, store.Restaurants, restaurantID, &r, store.Only("id"))
		switch {
		case errors.Is(err, store.ErrNotFound):
			return apperror.InvalidAuthorization(unauthorizedMessage)
		case err != nil:
			return apperror.Database("find restaurant", err)
		}
		return nil
	}

	if !models.ValidID(parentID) {
		return apperror.FieldValidation(link.Owner.invalidID).WithStatus(http.StatusBadRequest)
	}
	if err := c.authorizeParent(ctx, restaurantID, link.Owner, restaurantID); err != nil {
		return err
	}
	owned, err := c.members(ctx, link.Owner, restaurantID)
	if err != nil {
		return apperror.Database("read "+link.Owner.Name+" ids", err)
	}
	if !slices.Contains(owned, parentID) {
		return apperror.NotFound(link.Owner.notFound)
	}
	return nil
}

// Attach creates children under parentID and appends their ids to the
// parent's array in one atomic push. It returns the new ids in input order.
func Attach[T store.Document](ctx context.Context, c *Coordinator, restaurantID string, link *Link, parentID string, children []T) ([]string, error) {
	if len(children) == 0 {
		return nil, apperror.FieldValidation("At least one " + link.Name + " is required")
	}
	if err := c.authorizeParent(ctx, restaurantID, link, parentID); err != nil {
		return nil, err
	}

	if err := c.store.Create(ctx, link.Child, &children); err != nil {
		return nil, apperror.Database("Failed to save "+link.Name, err)
	}
	ids := make([]string, len(children))
	for i, child := range children {
		ids[i] = child.DocumentID()
	}

	if err := c.store.ArrayAppend(ctx, link.Parent, parentID, link.field(), ids, nil); err != nil {
		c.log.Error("link failed, children orphaned",
			"link", link.Name,
			"parent_id", parentID,
			"orphan_ids", ids,
			"error", err,
		)
		return nil, apperror.Database("Failed to Update Database", err)
	}
	c.log.Info("children attached", "link", link.Name, "parent_id", parentID, "count", len(ids))
	return ids, nil
}

// DetachAndDelete unlinks childID from the parent and then deletes it.
// A child that is not currently listed fails with NotFound before any write,
// so repeating a successful call is safe.
func (c *Coordinator) DetachAndDelete(ctx context.Context, restaurantID string, link *Link, parentID, childID string) error {
	if !models.ValidID(childID) {
		return apperror.FieldValidation(link.invalidID).WithStatus(http.StatusBadRequest)
	}
	if err := c.authorizeParent(ctx, restaurantID, link, parentID); err != nil {
		return err
	}
	if err := c.requireMember(ctx, link, parentID, childID); err != nil {
		return err
	}

	if err := c.store.ArrayRemove(ctx, link.Parent, parentID, link.field(), childID, nil); err != nil {
		return apperror.Database("Failed to unlink "+link.Name, err)
	}
	err := c.store.DeleteByID(ctx, link.Child, childID, nil)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// The sweeper may reclaim the child between the unlink and this delete.
		c.log.Warn("listed child was already gone", "link", link.Name, "child_id", childID)
		return apperror.NotFound(link.notFound)
	case err != nil:
		c.log.Error("delete failed after unlink, child orphaned",
			"link", link.Name,
			"child_id", childID,
			"error", err,
		)
		return apperror.Database("Failed to delete "+link.Name, err)
	}
	c.log.Info("child detached", "link", link.Name, "parent_id", parentID, "child_id", childID)
	return nil
}

// Update replaces fields on a child the caller owns. The parent array is not touched.
func (c *Coordinator) Update(ctx context.Context, restaurantID string, link *Link, parentID, childID string, patch store.Patch, dest any) error {
	if !models.ValidID(childID) {
		return apperror.FieldValidation(link.invalidID).WithStatus(http.StatusBadRequest)
	}
	if err := c.authorizeParent(ctx, restaurantID, link, parentID); err != nil {
		return err
	}
	if err := c.requireMember(ctx, link, parentID, childID); err != nil {
		return err
	}

	err := c.store.UpdateByID(ctx, link.Child, childID, patch, dest)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperror.NotFound(link.notFound)
	case errors.Is(err, store.ErrDuplicate):
		return apperror.Conflict(link.Name + " already exists")
	case err != nil:
		return apperror.Database("Failed to Update Data", err)
	}
	return nil
}

// OwningParent finds which of the restaurant's parents lists childID. Only
// nested links have more than one candidate parent.
func (c *Coordinator) OwningParent(ctx context.Context, restaurantID string, link *Link, childID string) (string, error) {
	if link.Owner == nil {
		return restaurantID, nil
	}
	if !models.ValidID(childID) {
		return "", apperror.FieldValidation(link.invalidID).WithStatus(http.StatusBadRequest)
	}
	if err := c.authorizeParent(ctx, restaurantID, link.Owner, restaurantID); err != nil {
		return "", err
	}

	owner := link.Owner.newParent()
	err := c.store.FindByID(ctx, link.Owner.Parent, restaurantID, owner,
		store.Only("id", link.Owner.field()), store.Populate(link.Owner.Relation))
	if err != nil {
		return "", apperror.Database("read "+link.Owner.Name+" ids", err)
	}
	rel, _ := owner.Relation(link.Owner.Relation)
	if rel.Loaded == nil {
		return "", apperror.Server("resolve owner", errors.New("integrity: owner relation has no loaded children"))
	}
	for _, parent := range rel.Loaded() {
		children, _ := parent.Relation(link.Relation)
		if slices.Contains(children.IDs, childID) {
			return parent.(store.Document).DocumentID(), nil
		}
	}
	return "", apperror.NotFound(link.notFound)
}

func (c *Coordinator) requireMember(ctx context.Context, link *Link, parentID, childID string) error {
	ids, err := c.members(ctx, link, parentID)
	switch {
	case errors.Is(err, store.ErrNotFound) && link.Owner == nil:
		return apperror.InvalidAuthorization(unauthorizedMessage)
	case errors.Is(err, store.ErrNotFound):
		return apperror.NotFound(link.Owner.notFound)
	case err != nil:
		return apperror.Database("read "+link.Name+" ids", err)
	}
	if !slices.Contains(ids, childID) {
		if link == CategoryItems {
			return apperror.NotFound("Unable to find the Menu Item Id for given Category Id")
		}
		return apperror.NotFound(link.notFound)
	}
	return nil
}

// Restaurant reads the vendor's restaurant with the requested relations
// expanded. Password hashes and table passkeys never leave the store.
func (c *Coordinator) Restaurant(ctx context.Context, restaurantID string, populate ...string) (*models.Restaurant, error) {
	opts := []store.FindOption{
		store.Omit(store.Restaurants, "password_hash"),
		store.Omit(store.Tables, "table_passkey"),
	}
	for _, p := range populate {
		opts = append(opts, store.Populate(p))
	}
	var r models.Restaurant
	err := c.store.FindByID(ctx, store.Restaurants, restaurantID, &r, opts...)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, apperror.InvalidAuthorization(unauthorizedMessage)
	case err != nil:
		return nil, apperror.Database("read restaurant", err)
	}
	return &r, nil
}

// Menu is the consumer view of a restaurant: public profile plus categories
// with their items.
func (c *Coordinator) Menu(ctx context.Context, restaurantID string) (*models.Restaurant, error) {
	if !models.ValidID(restaurantID) {
		return nil, apperror.FieldValidation("Invalid Restaurant Id").WithStatus(http.StatusBadRequest)
	}
	var r models.Restaurant
	err := c.store.FindByID(ctx, store.Restaurants, restaurantID, &r,
		store.Only("id", "restaurant_name", "address", "image", "category_ids", "created_at", "updated_at"),
		store.Populate("categories.items"),
	)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, apperror.NotFound("Unable to find the Restaurant")
	case err != nil:
		return nil, apperror.Database("read menu", err)
	}
	return &r, nil
}
