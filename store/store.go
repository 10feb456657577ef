// Package store is the document-store capability surface used by the token,
// passkey and integrity layers. It offers single-document atomicity only:
// nothing here spans two documents in one operation.
package store

import (
	"context"
	"errors"
	"time"
)

// Collection names a logical document collection
type Collection string

const (
	Authorizers Collection = "authorizers"
	Invitations Collection = "invitations"
	Restaurants Collection = "restaurants"
	Tables      Collection = "tables"
	Categories  Collection = "categories"
	MenuItems   Collection = "menu_items"
)

var (
	// ErrNotFound is returned when no document matches ("none")
	ErrNotFound = errors.New("store: no matching document")
	// ErrDuplicate is returned when a unique field would collide
	ErrDuplicate = errors.New("store: duplicate key")
)

// Match is an equality predicate over fields. A slice value matches any of its elements.
type Match map[string]any

// Patch is a plain field replace
type Patch map[string]any

// Document is any stored record with a store-assigned id
type Document interface {
	DocumentID() string
}

// Relation describes one id-array field on a parent document and where the
// expanded children should be written.
type Relation struct {
	Field      string     // array column on the parent
	Collection Collection // collection the ids point into
	IDs        []string
	Into       any                // pointer to the slice receiving expanded children
	Loaded     func() []Expander // expanded children, for nested populate paths
}

// Expander is implemented by documents that hold id arrays
type Expander interface {
	Relation(name string) (Relation, bool)
}

//go:generate go run go.uber.org/mock/mockgen -destination=mockstore/store.go -package=mockstore aiqr-api/store Store

// Store is the identity/entity store contract
type Store interface {
	FindByID(ctx context.Context, coll Collection, id string, dest any, opts ...FindOption) error
	FindOne(ctx context.Context, coll Collection, match Match, dest any, opts ...FindOption) error
	FindMany(ctx context.Context, coll Collection, match Match, dest any, opts ...FindOption) error
	// Create inserts one document (pointer to struct) or many (pointer to slice)
	Create(ctx context.Context, coll Collection, docs any) error
	UpdateByID(ctx context.Context, coll Collection, id string, patch Patch, dest any) error
	ArrayAppend(ctx context.Context, coll Collection, id, field string, values []string, dest any) error
	ArrayRemove(ctx context.Context, coll Collection, id, field, value string, dest any) error
	// CompareAndSwap matches and updates a single document in one indivisible step
	CompareAndSwap(ctx context.Context, coll Collection, match Match, patch Patch, dest any) error
	DeleteByID(ctx context.Context, coll Collection, id string, dest any) error
}

type populate struct {
	path string
}

type findOptions struct {
	only     []string
	omit     map[Collection][]string
	populate []populate
	before   time.Time
}

// FindOption tunes projection, expansion and filtering of reads
type FindOption func(*findOptions)

// Only restricts the root document to the given fields
func Only(fields ...string) FindOption {
	return func(o *findOptions) { o.only = append(o.only, fields...) }
}

// Omit drops fields from any document of coll read by the query, whether it
// is the root or an expanded child.
func Omit(coll Collection, fields ...string) FindOption {
	return func(o *findOptions) {
		if o.omit == nil {
			o.omit = map[Collection][]string{}
		}
		o.omit[coll] = append(o.omit[coll], fields...)
	}
}

// Populate expands an id-array relation. Dotted paths expand nested relations.
func Populate(path string) FindOption {
	return func(o *findOptions) { o.populate = append(o.populate, populate{path: path}) }
}

// CreatedBefore limits FindMany to documents created strictly before t
func CreatedBefore(t time.Time) FindOption {
	return func(o *findOptions) { o.before = t }
}

func collectOptions(opts []FindOption) findOptions {
	var o findOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
