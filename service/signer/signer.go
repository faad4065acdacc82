package signer

import (
	"context"
	"crypto/ed25519"
	"errors"
	"strings"
	"time"

	"github.com/ethrahere/curatoor/core"
	"github.com/ethrahere/curatoor/pkg/metrics"
	"github.com/ethrahere/curatoor/pkg/poll"
	"github.com/ethrahere/curatoor/pkg/signkey"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
)

const (
	// DefaultTimeout confirmation budget used when none is configured
	DefaultTimeout = 15 * time.Second
	// MaxTimeout upper bound of the confirmation budget
	MaxTimeout = 60 * time.Second
	// DefaultInterval hub poll interval used when none is configured
	DefaultInterval = 2 * time.Second
	// MaxInterval upper bound of the hub poll interval
	MaxInterval = 5 * time.Second
)

// Config signer service config
type Config struct {
	DeepLinkBase string
	Timeout      time.Duration
	Interval     time.Duration
}

// Option signer service option
type Option func(s *signerService)

// WithKeygen replace the keypair generator
func WithKeygen(keygen func() (*signkey.Keypair, error)) Option {
	return func(s *signerService) {
		s.keygen = keygen
	}
}

// WithPollOptions pass options to the hub poller
func WithPollOptions(opts ...poll.Option) Option {
	return func(s *signerService) {
		s.pollOpts = append(s.pollOpts, opts...)
	}
}

// WithNow replace the confirmation timestamp source
func WithNow(now func() time.Time) Option {
	return func(s *signerService) {
		s.now = now
	}
}

type signerService struct {
	users    core.UserStore
	signers  core.SignerStore
	hub      core.HubService
	deepLink string
	keygen   func() (*signkey.Keypair, error)
	now      func() time.Time
	pollOpts []poll.Option
	poller   *poll.Poller
}

// New new signer service, timeout and interval are clamped to [default, max]
func New(
	users core.UserStore,
	signers core.SignerStore,
	hub core.HubService,
	cfg Config,
	opts ...Option,
) core.SignerService {
	s := &signerService{
		users:    users,
		signers:  signers,
		hub:      hub,
		deepLink: cfg.DeepLinkBase,
		keygen:   signkey.Generate,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.poller = poll.New(
		clamp(cfg.Timeout, DefaultTimeout, MaxTimeout),
		clamp(cfg.Interval, DefaultInterval, MaxInterval),
		s.pollOpts...,
	)

	return s
}

func clamp(v, def, max time.Duration) time.Duration {
	if v <= 0 {
		return def
	}

	if v > max {
		return max
	}

	return v
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func (s *signerService) Request(ctx context.Context, address string) (*core.SignerRequest, error) {
	address = normalizeAddress(address)
	if govalidator.IsNull(address) {
		metrics.RecordSignerRequest("invalid")
		return nil, core.ErrInvalidArgument.Withf("address is required")
	}

	log := logger.FromContext(ctx).WithField("address", address)

	user, err := s.users.Find(ctx, address)
	if err != nil {
		log.WithError(err).Errorln("users.Find")
		metrics.RecordSignerRequest("error")
		return nil, core.ErrPersistence.With(err)
	}

	if user.ID == 0 {
		metrics.RecordSignerRequest("user_not_found")
		return nil, core.ErrUserNotFound
	}

	pair, err := s.keygen()
	if err != nil {
		log.WithError(err).Errorln("keygen")
		metrics.RecordSignerRequest("error")
		return nil, core.ErrUnknown.With(err)
	}

	signer := &core.Signer{
		Address:    address,
		PublicKey:  pair.PublicKey,
		PrivateKey: pair.PrivateKey,
	}

	if err := s.signers.Save(ctx, signer); err != nil {
		log.WithError(err).Errorln("signers.Save")
		metrics.RecordSignerRequest("error")
		return nil, core.ErrPersistence.With(err)
	}

	log.WithField("public_key", signer.PublicKey).Infoln("signer issued")
	metrics.RecordSignerRequest("issued")

	return &core.SignerRequest{
		PublicKey: signer.PublicKey,
		DeepLink:  s.deepLink + "?public_key=" + signer.PublicKey,
	}, nil
}

func (s *signerService) Confirm(ctx context.Context, input core.ConfirmInput) (*core.SignerStatus, error) {
	address := normalizeAddress(input.Address)
	if govalidator.IsNull(address) {
		metrics.RecordConfirmation("invalid")
		return nil, core.ErrInvalidArgument.Withf("address is required")
	}

	fid := input.FID
	if fid <= 0 {
		metrics.RecordConfirmation("invalid")
		return nil, core.ErrInvalidFID
	}

	log := logger.FromContext(ctx).WithField("address", address).WithField("fid", fid)

	signer, err := s.signers.Find(ctx, address)
	if err != nil {
		log.WithError(err).Errorln("signers.Find")
		metrics.RecordConfirmation("error")
		return nil, core.ErrPersistence.With(err)
	}

	if signer.ID == 0 {
		metrics.RecordConfirmation("no_pending_signer")
		return nil, core.ErrNoPendingSigner
	}

	if signer.ConfirmedFor(fid) {
		metrics.RecordConfirmation("already_confirmed")
		return &core.SignerStatus{Confirmed: true, FID: &fid}, nil
	}

	key := signkey.Normalize(signer.PublicKey)
	result := s.poller.Run(ctx, func(ctx context.Context) (bool, error) {
		event, err := s.hub.SignerEvent(ctx, fid, key)
		if err != nil {
			return false, err
		}

		return event != nil, nil
	})

	metrics.RecordHubPoll(result.Outcome.String(), result.Attempts, result.Elapsed)
	log = log.WithField("attempts", result.Attempts).WithField("elapsed", result.Elapsed)

	switch result.Outcome {
	case poll.Found:
	case poll.Timeout, poll.Canceled:
		log.Infoln("signer approval not observed on hub")
		metrics.RecordConfirmation("timeout")
		return nil, core.ErrHubTimeout
	default:
		log.WithError(result.Err).Errorln("hub.SignerEvent")
		metrics.RecordConfirmation("hub_error")
		return nil, core.ErrHubUnavailable.With(result.Err)
	}

	var signerUUID *string
	if input.SignerUUID != "" {
		signerUUID = &input.SignerUUID
	}

	if err := s.signers.Confirm(ctx, address, signer.PublicKey, fid, signerUUID, s.now()); err != nil {
		if errors.Is(err, core.ErrStaleSigner) {
			log.Infoln("signer re-issued during confirmation")
			metrics.RecordConfirmation("stale")
			return nil, core.ErrStaleSigner
		}

		log.WithError(err).Errorln("signers.Confirm")
		metrics.RecordConfirmation("error")
		return nil, core.ErrPersistence.With(err)
	}

	log.Infoln("signer confirmed")
	metrics.RecordConfirmation("confirmed")
	return &core.SignerStatus{Confirmed: true, FID: &fid}, nil
}

func (s *signerService) Status(ctx context.Context, address string) (*core.SignerStatus, error) {
	address = normalizeAddress(address)
	if govalidator.IsNull(address) {
		return nil, core.ErrInvalidArgument.Withf("address is required")
	}

	signer, err := s.signers.Find(ctx, address)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("signers.Find")
		return nil, core.ErrPersistence.With(err)
	}

	if signer.ID == 0 {
		return nil, core.ErrSignerNotFound
	}

	return &core.SignerStatus{
		Confirmed: signer.Confirmed(),
		FID:       signer.FID,
	}, nil
}

func (s *signerService) MessageSigner(ctx context.Context, address string) (core.MessageSigner, error) {
	address = normalizeAddress(address)
	if govalidator.IsNull(address) {
		return nil, core.ErrInvalidArgument.Withf("address is required")
	}

	signer, err := s.signers.Find(ctx, address)
	if err != nil {
		return nil, core.ErrPersistence.With(err)
	}

	if !signer.Confirmed() {
		return nil, core.ErrSignerNotConfirmed
	}

	key, err := signkey.PrivateKey(signer.PrivateKey)
	if err != nil {
		return nil, core.ErrUnknown.With(err)
	}

	return &messageSigner{
		fid:       *signer.FID,
		publicKey: signer.PublicKey,
		key:       key,
	}, nil
}

type messageSigner struct {
	fid       int64
	publicKey string
	key       ed25519.PrivateKey
}

func (m *messageSigner) FID() int64 {
	return m.fid
}

func (m *messageSigner) PublicKey() string {
	return m.publicKey
}

func (m *messageSigner) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(m.key, message), nil
}
