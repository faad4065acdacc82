package session

import (
	"context"
	"errors"
	"strings"

	"github.com/ethrahere/curatoor/core"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// New new session, capacity > 0 enables the status cache
func New(signers core.SignerAPI, capacity int) core.Session {
	var s core.Session = &session{
		signers: signers,
		sf:      &singleflight.Group{},
	}

	if capacity > 0 {
		s = &cacheSession{
			Session:  s,
			statuses: gcache.New(capacity).LRU().Build(),
		}
	}

	return s
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

type session struct {
	signers core.SignerAPI
	sf      *singleflight.Group
}

func (s *session) Authorize(ctx context.Context, address string, fid int64, approve core.ApproveFunc) (*core.SignerStatus, error) {
	address = normalizeAddress(address)
	status, err, _ := s.sf.Do(address, func() (interface{}, error) {
		return s.authorize(ctx, address, fid, approve)
	})

	if err != nil {
		return nil, err
	}

	return status.(*core.SignerStatus), nil
}

func (s *session) authorize(ctx context.Context, address string, fid int64, approve core.ApproveFunc) (*core.SignerStatus, error) {
	log := logger.FromContext(ctx).WithField("address", address)

	status, err := s.signers.Status(ctx, address)
	if err == nil && status.Confirmed {
		return status, nil
	}

	if err != nil && !errors.Is(err, core.ErrSignerNotFound) {
		log.WithError(err).Errorln("signers.Status")
		return nil, err
	}

	input := core.ConfirmInput{Address: address, FID: fid}
	status, err = s.signers.Confirm(ctx, input)
	if err == nil {
		return status, nil
	}

	if !errors.Is(err, core.ErrNoPendingSigner) {
		return nil, err
	}

	req, err := s.signers.Request(ctx, address)
	if err != nil {
		log.WithError(err).Errorln("signers.Request")
		return nil, err
	}

	if approve != nil {
		if err := approve(ctx, req); err != nil {
			return nil, err
		}
	}

	return s.signers.Confirm(ctx, input)
}

func (s *session) Forget(address string) {}

type cacheSession struct {
	core.Session
	statuses gcache.Cache
}

func (s *cacheSession) Authorize(ctx context.Context, address string, fid int64, approve core.ApproveFunc) (*core.SignerStatus, error) {
	key := normalizeAddress(address)
	if v, err := s.statuses.Get(key); err == nil {
		return v.(*core.SignerStatus), nil
	}

	status, err := s.Session.Authorize(ctx, address, fid, approve)
	if err != nil {
		return nil, err
	}

	if status.Confirmed {
		_ = s.statuses.Set(key, status)
	}

	return status, nil
}

func (s *cacheSession) Forget(address string) {
	s.statuses.Remove(normalizeAddress(address))
	s.Session.Forget(address)
}
