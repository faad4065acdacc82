package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InitialTokenBalance tokens granted to a new user
var InitialTokenBalance = decimal.NewFromInt(500)

// User user model
type User struct {
	ID                   int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt            time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt            time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
	Address              string          `sql:"size:64;UNIQUE_INDEX:idx_users_address" json:"address,omitempty"`
	Username             string          `sql:"size:64" json:"username,omitempty"`
	TokenBalance         decimal.Decimal `sql:"type:decimal(20,8)" json:"token_balance,omitempty"`
	TotalTipsReceived    decimal.Decimal `sql:"type:decimal(20,8)" json:"total_tips_received,omitempty"`
	RecommendationCount  int64           `json:"recommendation_count,omitempty"`
	FarcasterUsername    string          `sql:"size:64" json:"farcaster_username,omitempty"`
	FarcasterDisplayName string          `sql:"size:128" json:"farcaster_display_name,omitempty"`
	FarcasterFID         int64           `gorm:"column:farcaster_fid" json:"farcaster_fid,omitempty"`
	FarcasterPfpURL      string          `sql:"size:512" gorm:"column:farcaster_pfp_url" json:"farcaster_pfp_url,omitempty"`
}

// FarcasterProfile profile data supplied by the mini app context
type FarcasterProfile struct {
	Username    string
	DisplayName string
	FID         int64
	PfpURL      string
}

// UserStore user store interface
type UserStore interface {
	// Find return an empty user (ID == 0) if none exists
	Find(ctx context.Context, address string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateProfile(ctx context.Context, user *User) error
}

// UserService user service interface
type UserService interface {
	GetOrCreate(ctx context.Context, address string, profile *FarcasterProfile) (*User, error)
}
