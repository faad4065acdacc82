package core

import (
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Config curatoor config
type Config struct {
	DB     db.Config    `json:"db"`
	Hub    Hub          `json:"hub"`
	Signer SignerConfig `json:"signer"`
	Cache  Cache        `json:"cache"`
}

// Hub hub config
type Hub struct {
	URL string `json:"url"`
	// RateLimit max hub requests per second
	RateLimit float64 `json:"rate_limit"`
	Burst     int     `json:"burst"`
	// RequestTimeoutMS per request http timeout
	RequestTimeoutMS int64 `json:"request_timeout_ms"`
}

// RequestTimeout per request http timeout
func (h Hub) RequestTimeout() time.Duration {
	return time.Duration(h.RequestTimeoutMS) * time.Millisecond
}

// SignerConfig signer config
type SignerConfig struct {
	DeepLinkBase          string `json:"deep_link_base"`
	ConfirmTimeoutMS      int64  `json:"confirm_timeout_ms"`
	ConfirmPollIntervalMS int64  `json:"confirm_poll_interval_ms"`
}

// ConfirmTimeout overall confirmation budget
func (s SignerConfig) ConfirmTimeout() time.Duration {
	return time.Duration(s.ConfirmTimeoutMS) * time.Millisecond
}

// ConfirmPollInterval delay between hub queries
func (s SignerConfig) ConfirmPollInterval() time.Duration {
	return time.Duration(s.ConfirmPollIntervalMS) * time.Millisecond
}

// Cache in-process cache config
type Cache struct {
	Users  int `json:"users"`
	Status int `json:"status"`
}
