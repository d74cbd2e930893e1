package apptest

import (
	"context"
	"strings"

	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
)

var _ repository.UserRepository = (*Users)(nil)

// Users repositorio de usuarios en memoria.
type Users struct {
	Rows []*entity.User
}

func (u *Users) Create(_ context.Context, user *entity.User) error {
	for _, cur := range u.Rows {
		if strings.EqualFold(cur.Email, user.Email) {
			return domain.ErrDuplicate
		}
	}
	u.Rows = append(u.Rows, user)
	return nil
}

func (u *Users) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, cur := range u.Rows {
		if cur.ID == id {
			return cur, nil
		}
	}
	return nil, nil
}

func (u *Users) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, cur := range u.Rows {
		if strings.EqualFold(cur.Email, email) {
			return cur, nil
		}
	}
	return nil, nil
}
