package repository

import (
	"context"
	"strings"

	"accountsvc/internal/model"

	"gorm.io/gorm"
)

// UserFilter carries the optional search predicates and ordering for users.
// Filters are substring-containment and combined conjunctively; SortBy must
// match an allow-listed field name.
type UserFilter struct {
	Name   string
	Email  string
	Phone  string
	SortBy string
	Order  string
}

// userSortColumns is the allow-list mapping accepted sort keys to columns.
// Sort keys never reach the query string unvalidated.
var userSortColumns = map[string]string{
	"id":             "id",
	"name":           "name",
	"email":          "email",
	"phone":          "phone",
	"credit_balance": "credit_balance",
	"role_id":        "role_id",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Search(ctx context.Context, filter UserFilter) ([]model.User, error)
	ListByRole(ctx context.Context, roleID uint) ([]model.User, error)
	CountByRole(ctx context.Context, roleID uint) (int64, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := GetDB(ctx, r.db).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// orderClause resolves a sort key through the allow-list, never splicing
// caller input into the query.
func orderClause(sortBy, order string) (string, error) {
	column, ok := userSortColumns[sortBy]
	if !ok {
		return "", ErrInvalidSortField
	}
	if strings.EqualFold(order, "desc") {
		return column + " DESC", nil
	}
	return column + " ASC", nil
}

func (r *userRepository) Search(ctx context.Context, filter UserFilter) ([]model.User, error) {
	var clause string
	if filter.SortBy != "" {
		var err error
		if clause, err = orderClause(filter.SortBy, filter.Order); err != nil {
			return nil, err
		}
	}

	q := GetDB(ctx, r.db).Model(&model.User{})

	// Each supplied filter is ANDed; LIKE keeps the engine's case-sensitive
	// containment semantics.
	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Email != "" {
		q = q.Where("email LIKE ?", "%"+filter.Email+"%")
	}
	if filter.Phone != "" {
		q = q.Where("phone LIKE ?", "%"+filter.Phone+"%")
	}

	if clause != "" {
		q = q.Order(clause)
	}

	var users []model.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListByRole(ctx context.Context, roleID uint) ([]model.User, error) {
	var users []model.User
	if err := GetDB(ctx, r.db).Where("role_id = ?", roleID).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountByRole(ctx context.Context, roleID uint) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.User{}).Where("role_id = ?", roleID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.User{}).Error
}
