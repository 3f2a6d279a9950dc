package repository

import (
	"context"
	"strings"

	"github.com/suteetoe/restb/internal/model"
	"gorm.io/gorm"
)

// UserQueries adds consumer lookups to the generic repository
type UserQueries struct {
	*Repository[model.User]
}

func NewUserQueries(db *gorm.DB) *UserQueries {
	return &UserQueries{Repository: New[model.User](db)}
}

// FindByEmail returns the live user with email
func (q *UserQueries) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return q.FindOne(ctx, Where("email = ?", strings.ToLower(strings.TrimSpace(email))))
}

// FindByEmailOrGoogleID matches an OAuth login against existing accounts
func (q *UserQueries) FindByEmailOrGoogleID(ctx context.Context, email, googleID string) (*model.User, error) {
	return q.FindOneOrNil(ctx, Where("email = ? OR google_profile_id = ?", strings.ToLower(email), googleID))
}
