package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suteetoe/restb/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when no live row matches
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write hits a unique index
	ErrDuplicate = errors.New("record already exists")
)

// translate maps driver sentinels onto the repository errors
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// FindOption shapes a read query
type FindOption func(*gorm.DB) *gorm.DB

// Where adds a filter condition
func Where(query interface{}, args ...interface{}) FindOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

// WithSoftDeleted restricts the query to soft-deleted rows only
func WithSoftDeleted() FindOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Unscoped().Where(clause.Expr{
			SQL:  "? IS NOT NULL",
			Vars: []interface{}{clause.Column{Table: clause.CurrentTable, Name: "deleted_at"}},
		})
	}
}

// WithPreload eager-loads an association
func WithPreload(query string, args ...interface{}) FindOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(query, args...)
	}
}

// WithSelect limits the selected columns
func WithSelect(columns ...string) FindOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Select(columns)
	}
}

// WithJoins adds a join clause
func WithJoins(query string, args ...interface{}) FindOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins(query, args...)
	}
}

// WithOrder sets the ordering
func WithOrder(order string) FindOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	}
}

// WithPage applies offset pagination; page starts at 1
func WithPage(page, limit int) FindOption {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

// Repository is a soft-delete aware data access layer for one entity
type Repository[T model.SoftDeletable] struct {
	db  *gorm.DB
	now func() time.Time
}

// New creates a repository over db
func New[T model.SoftDeletable](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db, now: time.Now}
}

// SetClock replaces the clock used for deletion timestamps
func (r *Repository[T]) SetClock(now func() time.Time) {
	r.now = now
}

// WithTx returns the same repository bound to tx
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx, now: r.now}
}

// DB returns the underlying handle scoped to ctx
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *Repository[T]) query(ctx context.Context, opts []FindOption) *gorm.DB {
	q := r.DB(ctx).Model(new(T))
	for _, opt := range opts {
		q = opt(q)
	}
	return q
}

// FindOne returns the first row matching opts or ErrNotFound
func (r *Repository[T]) FindOne(ctx context.Context, opts ...FindOption) (*T, error) {
	var out T
	if err := r.query(ctx, opts).Take(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// FindOneOrNil is FindOne with a missing row reported as (nil, nil)
func (r *Repository[T]) FindOneOrNil(ctx context.Context, opts ...FindOption) (*T, error) {
	out, err := r.FindOne(ctx, opts...)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return out, err
}

// FindByID looks a row up by primary key
func (r *Repository[T]) FindByID(ctx context.Context, id string, opts ...FindOption) (*T, error) {
	opts = append([]FindOption{Where(clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: "id"},
		Value:  id,
	})}, opts...)
	return r.FindOne(ctx, opts...)
}

// Find returns every row matching opts
func (r *Repository[T]) Find(ctx context.Context, opts ...FindOption) ([]T, error) {
	var out []T
	if err := r.query(ctx, opts).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts entity
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return translate(r.DB(ctx).Create(entity).Error)
}

// Update applies values to the live row with id
func (r *Repository[T]) Update(ctx context.Context, id string, values map[string]interface{}) error {
	res := r.DB(ctx).Model(new(T)).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete stamps deleted_at on the live row with id
func (r *Repository[T]) SoftDelete(ctx context.Context, id string) error {
	res := r.DB(ctx).Model(new(T)).Where("id = ?", id).Update("deleted_at", r.now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of rows matching opts
func (r *Repository[T]) Count(ctx context.Context, opts ...FindOption) (int64, error) {
	var total int64
	if err := r.query(ctx, opts).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
