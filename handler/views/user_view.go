package views

import (
	"github.com/ethrahere/curatoor/core"

	"github.com/shopspring/decimal"
)

// User user view
type User struct {
	Address              string          `json:"address"`
	Username             string          `json:"username"`
	TokenBalance         decimal.Decimal `json:"tokenBalance"`
	TotalTipsReceived    decimal.Decimal `json:"totalTipsReceived"`
	RecommendationCount  int64           `json:"recommendationCount"`
	FarcasterUsername    string          `json:"farcasterUsername,omitempty"`
	FarcasterDisplayName string          `json:"farcasterDisplayName,omitempty"`
	FarcasterFID         int64           `json:"farcasterFid,omitempty"`
	FarcasterPfpURL      string          `json:"farcasterPfpUrl,omitempty"`
}

// UserView convert user model into user view
func UserView(user *core.User) User {
	return User{
		Address:              user.Address,
		Username:             user.Username,
		TokenBalance:         user.TokenBalance,
		TotalTipsReceived:    user.TotalTipsReceived,
		RecommendationCount:  user.RecommendationCount,
		FarcasterUsername:    user.FarcasterUsername,
		FarcasterDisplayName: user.FarcasterDisplayName,
		FarcasterFID:         user.FarcasterFID,
		FarcasterPfpURL:      user.FarcasterPfpURL,
	}
}
