package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"accountsvc/internal/model"
	"accountsvc/internal/repository"
)

// Map-backed repository mocks mirroring the gorm implementations closely
// enough for service-level behavior tests.

type userRepoMock struct {
	users  map[uint]model.User
	nextID uint

	createErr error
	updateErr error
	deleteErr error
}

func newUserRepoMock() *userRepoMock {
	return &userRepoMock{users: make(map[uint]model.User)}
}

func (m *userRepoMock) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	user.ID = m.nextID
	now := time.Now().UTC().Truncate(time.Second)
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = *user
	return nil
}

func (m *userRepoMock) GetByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (m *userRepoMock) List(_ context.Context) ([]model.User, error) {
	users := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

var mockSortKeys = map[string]bool{
	"id": true, "name": true, "email": true, "phone": true,
	"credit_balance": true, "role_id": true, "created_at": true, "updated_at": true,
}

func (m *userRepoMock) Search(ctx context.Context, filter repository.UserFilter) ([]model.User, error) {
	if filter.SortBy != "" && !mockSortKeys[filter.SortBy] {
		return nil, repository.ErrInvalidSortField
	}

	all, _ := m.List(ctx)
	matched := make([]model.User, 0, len(all))
	for _, u := range all {
		if filter.Name != "" && !strings.Contains(u.Name, filter.Name) {
			continue
		}
		if filter.Email != "" && !strings.Contains(u.Email, filter.Email) {
			continue
		}
		if filter.Phone != "" && (u.Phone == nil || !strings.Contains(*u.Phone, filter.Phone)) {
			continue
		}
		matched = append(matched, u)
	}

	if filter.SortBy != "" {
		less := func(a, b model.User) bool {
			switch filter.SortBy {
			case "name":
				return a.Name < b.Name
			case "email":
				return a.Email < b.Email
			case "credit_balance":
				return a.CreditBalance.LessThan(b.CreditBalance)
			default:
				return a.ID < b.ID
			}
		}
		sort.SliceStable(matched, func(i, j int) bool {
			if strings.EqualFold(filter.Order, "desc") {
				return less(matched[j], matched[i])
			}
			return less(matched[i], matched[j])
		})
	}
	return matched, nil
}

func (m *userRepoMock) ListByRole(ctx context.Context, roleID uint) ([]model.User, error) {
	all, _ := m.List(ctx)
	users := make([]model.User, 0)
	for _, u := range all {
		if u.RoleID != nil && *u.RoleID == roleID {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *userRepoMock) CountByRole(ctx context.Context, roleID uint) (int64, error) {
	users, _ := m.ListByRole(ctx, roleID)
	return int64(len(users)), nil
}

func (m *userRepoMock) Update(_ context.Context, user *model.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	user.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	m.users[user.ID] = *user
	return nil
}

func (m *userRepoMock) Delete(_ context.Context, id uint) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.users, id)
	return nil
}

type roleRepoMock struct {
	roles  map[uint]model.Role
	nextID uint
}

func newRoleRepoMock() *roleRepoMock {
	return &roleRepoMock{roles: make(map[uint]model.Role)}
}

func (m *roleRepoMock) Create(_ context.Context, role *model.Role) error {
	m.nextID++
	role.ID = m.nextID
	now := time.Now().UTC().Truncate(time.Second)
	role.CreatedAt = now
	role.UpdatedAt = now
	m.roles[role.ID] = *role
	return nil
}

func (m *roleRepoMock) GetByID(_ context.Context, id uint) (*model.Role, error) {
	role, ok := m.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &role, nil
}

func (m *roleRepoMock) List(_ context.Context) ([]model.Role, error) {
	roles := make([]model.Role, 0, len(m.roles))
	for _, r := range m.roles {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

func (m *roleRepoMock) Update(_ context.Context, role *model.Role) error {
	role.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	m.roles[role.ID] = *role
	return nil
}

func (m *roleRepoMock) Delete(_ context.Context, id uint) error {
	delete(m.roles, id)
	return nil
}

type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type notifierMock struct {
	mu     sync.Mutex
	events []string
}

func (n *notifierMock) Publish(event string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *notifierMock) published() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}
