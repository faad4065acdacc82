package user

import (
	"context"

	"github.com/ethrahere/curatoor/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type userStore struct {
	db *db.DB
}

// New new user store
func New(db *db.DB) core.UserStore {
	return &userStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.User{})

		if err := tx.AutoMigrate(core.User{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *userStore) Create(ctx context.Context, user *core.User) error {
	return s.db.Update().Where("address = ?", user.Address).FirstOrCreate(user).Error
}

func (s *userStore) UpdateProfile(ctx context.Context, user *core.User) error {
	return s.db.Update().Model(user).Updates(map[string]interface{}{
		"farcaster_username":     user.FarcasterUsername,
		"farcaster_display_name": user.FarcasterDisplayName,
		"farcaster_fid":          user.FarcasterFID,
		"farcaster_pfp_url":      user.FarcasterPfpURL,
	}).Error
}

func (s *userStore) Find(ctx context.Context, address string) (*core.User, error) {
	var user core.User
	err := s.db.View().Where("address = ?", address).First(&user).Error
	if store.IsErrNotFound(err) {
		return &core.User{}, nil
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}
