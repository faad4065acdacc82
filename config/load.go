package config

import (
	"os"

	"github.com/ethrahere/curatoor/core"

	"github.com/spf13/cast"
)

const (
	// DefaultHubURL public hub used when none is configured
	DefaultHubURL = "https://hub.farcaster.standardcrypto.vc:2281"
	// DefaultDeepLinkBase wallet app add-signer screen
	DefaultDeepLinkBase = "https://warpcast.com/~/add-signer"

	defaultConfirmTimeoutMS      = 15000
	defaultConfirmPollIntervalMS = 2000
	defaultHubRateLimit          = 5
	defaultHubRequestTimeoutMS   = 10000
	defaultUserCache             = 2048
	defaultStatusCache           = 256
)

// env names used by the original deployment, they win over the config file
const (
	envHubURL              = "FARCASTER_HUB_URL"
	envConfirmTimeout      = "SIGNER_CONFIRM_TIMEOUT_MS"
	envConfirmPollInterval = "SIGNER_CONFIRM_POLL_INTERVAL_MS"
)

func loadLegacyEnv(cfg *core.Config) {
	if v := os.Getenv(envHubURL); v != "" {
		cfg.Hub.URL = v
	}

	if v, err := cast.ToInt64E(os.Getenv(envConfirmTimeout)); err == nil && v > 0 {
		cfg.Signer.ConfirmTimeoutMS = v
	}

	if v, err := cast.ToInt64E(os.Getenv(envConfirmPollInterval)); err == nil && v > 0 {
		cfg.Signer.ConfirmPollIntervalMS = v
	}
}

func defaultConfig(cfg *core.Config) {
	if cfg.DB.Dialect == "" {
		cfg.DB.Dialect = "postgres"
	}

	if cfg.Hub.URL == "" {
		cfg.Hub.URL = DefaultHubURL
	}

	if cfg.Hub.RateLimit <= 0 {
		cfg.Hub.RateLimit = defaultHubRateLimit
	}

	if cfg.Hub.Burst <= 0 {
		cfg.Hub.Burst = 1
	}

	if cfg.Hub.RequestTimeoutMS <= 0 {
		cfg.Hub.RequestTimeoutMS = defaultHubRequestTimeoutMS
	}

	if cfg.Signer.DeepLinkBase == "" {
		cfg.Signer.DeepLinkBase = DefaultDeepLinkBase
	}

	// ceilings are enforced by the signer service itself
	if cfg.Signer.ConfirmTimeoutMS <= 0 {
		cfg.Signer.ConfirmTimeoutMS = defaultConfirmTimeoutMS
	}

	if cfg.Signer.ConfirmPollIntervalMS <= 0 {
		cfg.Signer.ConfirmPollIntervalMS = defaultConfirmPollIntervalMS
	}

	if cfg.Cache.Users <= 0 {
		cfg.Cache.Users = defaultUserCache
	}

	if cfg.Cache.Status <= 0 {
		cfg.Cache.Status = defaultStatusCache
	}
}
