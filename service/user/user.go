package user

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethrahere/curatoor/core"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	adjectives = []string{"Cool", "Happy", "Swift", "Bright", "Lucky", "Smart", "Bold", "Wild", "Calm", "Kind"}
	nouns      = []string{"Panda", "Tiger", "Eagle", "Wolf", "Bear", "Fox", "Lion", "Hawk", "Owl", "Lynx"}
)

type userService struct {
	users core.UserStore
}

// New new user service
func New(users core.UserStore) core.UserService {
	return &userService{users: users}
}

func (s *userService) GetOrCreate(ctx context.Context, address string, profile *core.FarcasterProfile) (*core.User, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	if govalidator.IsNull(address) {
		return nil, core.ErrInvalidArgument.Withf("address is required")
	}

	log := logger.FromContext(ctx).WithField("address", address)

	user, err := s.users.Find(ctx, address)
	if err != nil {
		log.WithError(err).Errorln("users.Find")
		return nil, core.ErrPersistence.With(err)
	}

	if user.ID > 0 {
		if profile == nil || !profileChanged(user, profile) {
			return user, nil
		}

		updated := *user
		applyProfile(&updated, profile)
		if err := s.users.UpdateProfile(ctx, &updated); err != nil {
			log.WithError(err).Errorln("users.UpdateProfile")
			return nil, core.ErrPersistence.With(err)
		}

		return &updated, nil
	}

	user = &core.User{
		Address:           address,
		Username:          Username(address),
		TokenBalance:      core.InitialTokenBalance,
		TotalTipsReceived: decimal.Zero,
	}

	if profile != nil {
		applyProfile(user, profile)
	}

	if err := s.users.Create(ctx, user); err != nil {
		log.WithError(err).Errorln("users.Create")
		return nil, core.ErrPersistence.With(err)
	}

	log.WithField("username", user.Username).Infoln("user created")
	return user, nil
}

func profileChanged(user *core.User, profile *core.FarcasterProfile) bool {
	return user.FarcasterUsername != profile.Username || user.FarcasterFID != profile.FID
}

func applyProfile(user *core.User, profile *core.FarcasterProfile) {
	user.FarcasterUsername = profile.Username
	user.FarcasterDisplayName = profile.DisplayName
	user.FarcasterFID = profile.FID
	user.FarcasterPfpURL = profile.PfpURL
}

// Username deterministic display name derived from the address hex digits
func Username(address string) string {
	adjective := hexSlice(address, 2, 4) % len(adjectives)
	noun := hexSlice(address, len(address)-2, len(address)) % len(nouns)
	number := hexSlice(address, 4, 7) % 1000

	return fmt.Sprintf("%s%s%d", adjectives[adjective], nouns[noun], number)
}

// hexSlice parse address[from:to] as hex, 0 when out of range or not hex
func hexSlice(address string, from, to int) int {
	if from < 0 {
		from = 0
	}

	if to > len(address) {
		to = len(address)
	}

	if from >= to {
		return 0
	}

	v, err := strconv.ParseUint(address[from:to], 16, 32)
	if err != nil {
		return 0
	}

	return int(v)
}
