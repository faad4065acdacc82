package user

import (
	"context"
	"fmt"

	"github.com/ethrahere/curatoor/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache front store with an LRU of known users, misses are never cached
func Cache(store core.UserStore, capacity int) core.UserStore {
	return &cacheUserStore{
		UserStore: store,
		cache:     gcache.New(capacity).LRU().Build(),
		sf:        &singleflight.Group{},
	}
}

type cacheUserStore struct {
	core.UserStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheUserStore) Create(ctx context.Context, user *core.User) error {
	if err := s.UserStore.Create(ctx, user); err != nil {
		return err
	}
	s.cacheUser(user)
	return nil
}

func (s *cacheUserStore) UpdateProfile(ctx context.Context, user *core.User) error {
	if err := s.UserStore.UpdateProfile(ctx, user); err != nil {
		s.cache.Remove(s.addressKey(user.Address))
		return err
	}
	s.cacheUser(user)
	return nil
}

func (s *cacheUserStore) Find(ctx context.Context, address string) (*core.User, error) {
	key := s.addressKey(address)
	if v, err := s.cache.Get(key); err == nil {
		if user, ok := v.(*core.User); ok {
			return user, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.UserStore.Find(ctx, address)
	})
	if err != nil {
		return nil, err
	}

	user := v.(*core.User)
	if user.ID > 0 {
		s.cacheUser(user)
	}
	return user, nil
}

func (s *cacheUserStore) cacheUser(user *core.User) {
	if user.ID > 0 {
		_ = s.cache.Set(s.addressKey(user.Address), user)
	}
}

func (s *cacheUserStore) addressKey(address string) string {
	return fmt.Sprintf("user:address:%s", address)
}
