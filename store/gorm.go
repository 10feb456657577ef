package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store over gorm. Id arrays live in JSON columns on the
// parent row so array edits are single-statement, single-row updates.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) table(ctx context.Context, coll Collection) *gorm.DB {
	return s.db.WithContext(ctx).Table(string(coll))
}

func (s *GormStore) read(ctx context.Context, coll Collection, o findOptions) *gorm.DB {
	q := s.table(ctx, coll)
	if len(o.only) > 0 {
		q = q.Select(o.only)
	}
	if omit := o.omit[coll]; len(omit) > 0 {
		q = q.Omit(omit...)
	}
	if !o.before.IsZero() {
		q = q.Where("created_at < ?", o.before)
	}
	return q
}

func (s *GormStore) FindByID(ctx context.Context, coll Collection, id string, dest any, opts ...FindOption) error {
	o := collectOptions(opts)
	if err := s.read(ctx, coll, o).Where("id = ?", id).Take(dest).Error; err != nil {
		return translate(err)
	}
	return s.populate(ctx, dest, o)
}

func (s *GormStore) FindOne(ctx context.Context, coll Collection, match Match, dest any, opts ...FindOption) error {
	o := collectOptions(opts)
	if err := s.read(ctx, coll, o).Where(map[string]any(match)).Take(dest).Error; err != nil {
		return translate(err)
	}
	return s.populate(ctx, dest, o)
}

func (s *GormStore) FindMany(ctx context.Context, coll Collection, match Match, dest any, opts ...FindOption) error {
	q := s.read(ctx, coll, collectOptions(opts))
	if len(match) > 0 {
		q = q.Where(map[string]any(match))
	}
	return translate(q.Order("created_at").Find(dest).Error)
}

func (s *GormStore) Create(ctx context.Context, coll Collection, docs any) error {
	return translate(s.table(ctx, coll).Create(docs).Error)
}

// UpdateByID replaces fields. String slices are written as JSON arrays, the
// same encoding the models use for their array columns.
func (s *GormStore) UpdateByID(ctx context.Context, coll Collection, id string, patch Patch, dest any) error {
	values := map[string]any{"updated_at": s.now()}
	for k, v := range patch {
		if list, ok := v.([]string); ok {
			if list == nil {
				list = []string{}
			}
			encoded, err := json.Marshal(list)
			if err != nil {
				return err
			}
			v = string(encoded)
		}
		values[k] = v
	}
	return s.updateOne(ctx, coll, id, values, dest)
}

func (s *GormStore) ArrayAppend(ctx context.Context, coll Collection, id, field string, values []string, dest any) error {
	if err := checkColumn(field); err != nil {
		return err
	}
	// json_insert applies its path/value pairs left to right, so each '$[#]'
	// lands after the previous one.
	var expr strings.Builder
	expr.WriteString("json_insert(CASE WHEN json_type(" + field + ") = 'array' THEN " + field + " ELSE '[]' END")
	args := make([]any, 0, len(values))
	for _, v := range values {
		expr.WriteString(", '$[#]', ?")
		args = append(args, v)
	}
	expr.WriteString(")")
	return s.updateOne(ctx, coll, id, map[string]any{
		field:        gorm.Expr(expr.String(), args...),
		"updated_at": s.now(),
	}, dest)
}

func (s *GormStore) ArrayRemove(ctx context.Context, coll Collection, id, field, value string, dest any) error {
	if err := checkColumn(field); err != nil {
		return err
	}
	expr := fmt.Sprintf("(SELECT json_group_array(j.value) FROM json_each(%s.%s) AS j WHERE j.value <> ?)", coll, field)
	return s.updateOne(ctx, coll, id, map[string]any{
		field:        gorm.Expr(expr, value),
		"updated_at": s.now(),
	}, dest)
}

func (s *GormStore) updateOne(ctx context.Context, coll Collection, id string, values map[string]any, dest any) error {
	res := s.table(ctx, coll).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if dest == nil {
		return nil
	}
	return translate(s.table(ctx, coll).Where("id = ?", id).Take(dest).Error)
}

// CompareAndSwap picks a candidate and updates it with the predicate repeated
// in the UPDATE itself, so a concurrent swap of the same document leaves this
// one with zero affected rows.
func (s *GormStore) CompareAndSwap(ctx context.Context, coll Collection, match Match, patch Patch, dest any) error {
	values := map[string]any{"updated_at": s.now()}
	for k, v := range patch {
		values[k] = v
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Table(string(coll)).Where(map[string]any(match)).Limit(1).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return ErrNotFound
		}
		res := tx.Table(string(coll)).Where("id = ?", ids[0]).Where(map[string]any(match)).Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if dest == nil {
			return nil
		}
		return tx.Table(string(coll)).Where("id = ?", ids[0]).Take(dest).Error
	})
	return translate(err)
}

func (s *GormStore) DeleteByID(ctx context.Context, coll Collection, id string, dest any) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dest != nil {
			if err := tx.Table(string(coll)).Where("id = ?", id).Take(dest).Error; err != nil {
				return err
			}
		}
		res := tx.Exec("DELETE FROM ? WHERE id = ?", clause.Table{Name: string(coll)}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}

func (s *GormStore) populate(ctx context.Context, dest any, o findOptions) error {
	if len(o.populate) == 0 {
		return nil
	}
	paths := make([]string, len(o.populate))
	for i, p := range o.populate {
		paths[i] = p.path
	}
	return s.expandPaths(ctx, dest, paths, o)
}

// expandPaths expands each distinct head relation of paths in its own
// goroutine. Paths sharing a head write the same field, so they are expanded
// once by the same goroutine.
func (s *GormStore) expandPaths(ctx context.Context, doc any, paths []string, o findOptions) error {
	var heads []string
	nested := map[string][]string{}
	for _, path := range paths {
		head, rest, _ := strings.Cut(path, ".")
		if _, seen := nested[head]; !seen {
			heads = append(heads, head)
			nested[head] = nil
		}
		if rest != "" {
			nested[head] = append(nested[head], rest)
		}
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, head := range heads {
		g.Go(func() error { return s.expand(ctx, doc, head, nested[head], o) })
	}
	return g.Wait()
}

func (s *GormStore) expand(ctx context.Context, doc any, head string, rests []string, o findOptions) error {
	ex, ok := doc.(Expander)
	if !ok {
		return fmt.Errorf("store: %T has no relations to expand", doc)
	}
	rel, ok := ex.Relation(head)
	if !ok {
		return fmt.Errorf("store: %T has no relation %q", doc, head)
	}
	if len(rel.IDs) == 0 {
		return nil
	}
	q := s.table(ctx, rel.Collection).Where("id IN ?", rel.IDs).Clauses(positionOrder(rel.IDs))
	if omit := o.omit[rel.Collection]; len(omit) > 0 {
		q = q.Omit(omit...)
	}
	if err := q.Find(rel.Into).Error; err != nil {
		return translate(err)
	}
	if len(rests) == 0 || rel.Loaded == nil {
		return nil
	}
	for _, child := range rel.Loaded() {
		if err := s.expandPaths(ctx, child, rests, o); err != nil {
			return err
		}
	}
	return nil
}

// positionOrder keeps expanded children in the parent's array order. Ids are
// fixed-width UUIDs, so each one occurs once in the joined list.
func positionOrder(ids []string) clause.OrderBy {
	joined := "," + strings.Join(ids, ",") + ","
	return clause.OrderBy{Expression: clause.Expr{SQL: "instr(?, id)", Vars: []any{joined}, WithoutParentheses: true}}
}

func checkColumn(field string) error {
	if field == "" {
		return fmt.Errorf("store: empty array field")
	}
	for _, r := range field {
		if (r < 'a' || r > 'z') && r != '_' {
			return fmt.Errorf("store: invalid array field %q", field)
		}
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicate):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
