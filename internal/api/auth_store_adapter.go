package api

import (
	"github.com/slambookhq/slambook/internal/services"
	"github.com/slambookhq/slambook/internal/store"
)

type authStoreAdapter struct {
	store *store.Store
}

func newAuthStoreAdapter(st *store.Store) services.AuthStore {
	return &authStoreAdapter{store: st}
}

func (a *authStoreAdapter) FindUserByEmail(email string) (*services.User, error) {
	u := a.store.FindUserByEmail(email)
	if u == nil {
		return nil, nil
	}
	return &services.User{ID: u.ID, Email: u.Email, PassHash: u.PassHash, CreatedAt: u.CreatedAt}, nil
}

func (a *authStoreAdapter) AddUser(u *services.User) error {
	if u == nil {
		return services.NewInvalidError("user required")
	}
	a.store.AddUser(&store.UserRecord{ID: u.ID, Email: u.Email, PassHash: u.PassHash, CreatedAt: u.CreatedAt})
	return nil
}

var _ services.AuthStore = (*authStoreAdapter)(nil)
