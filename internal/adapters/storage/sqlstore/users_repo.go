package sqlstore

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"peluqueria-canina/internal/domain/users"
	"peluqueria-canina/internal/platform/apperr"
)

type UsersRepo struct {
	db *gorm.DB
}

func NewUsersRepo(db *gorm.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

var _ users.Repository = (*UsersRepo)(nil)

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	var rec UserRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return users.User{}, notFound(err, "user")
	}
	return fromUserRecord(rec), nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	var rec UserRecord
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&rec).Error; err != nil {
		return users.User{}, notFound(err, "user")
	}
	return fromUserRecord(rec), nil
}

func (r *UsersRepo) List(ctx context.Context) ([]users.User, error) {
	var recs []UserRecord
	if err := r.db.WithContext(ctx).Order("username").Find(&recs).Error; err != nil {
		return nil, wrap(err, "list users")
	}
	out := make([]users.User, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromUserRecord(rec))
	}
	return out, nil
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	rec := UserRecord{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    utc(u.CreatedAt),
		UpdatedAt:    utc(u.UpdatedAt),
	}
	err := r.db.WithContext(ctx).Create(&rec).Error
	if err != nil && isUniqueViolation(err) {
		return apperr.Conflict("username already taken")
	}
	return wrap(err, "create user")
}

func (r *UsersRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	res := r.db.WithContext(ctx).Model(&UserRecord{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash": hash,
		"updated_at":    r.db.NowFunc(),
	})
	return mustAffect(res, "user")
}

// isUniqueViolation cubre Postgres (SQLSTATE 23505) y SQLite (por mensaje).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
