package hub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ethrahere/curatoor/core"
	"github.com/ethrahere/curatoor/pkg/resthttp"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const errCodeNotFound = "not_found"

type hubService struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// New new hub service
func New(cfg core.Hub) core.HubService {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &hubService{
		client:  resthttp.New(cfg.URL, cfg.RequestTimeout()),
		limiter: rate.NewLimiter(limit, burst),
	}
}

// hub error body, {"errCode":"not_found","presentable":false,"name":"..."}
type hubError struct {
	ErrCode string `json:"errCode"`
	Name    string `json:"name"`
	Details string `json:"details"`
}

func (s *hubService) SignerEvent(ctx context.Context, fid int64, key string) (*core.SignerEvent, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	r, err := resthttp.Request(ctx, s.client).
		SetQueryParam("fid", strconv.FormatInt(fid, 10)).
		SetQueryParam("signer", key).
		Get("/v1/onChainSignersByFid")
	if err != nil {
		return nil, err
	}

	var event core.SignerEvent
	if err := resthttp.ParseResponse(r, &event); err != nil {
		if isNotFound(err) {
			return nil, nil
		}

		return nil, err
	}

	return &event, nil
}

func isNotFound(err error) bool {
	var statusErr *resthttp.StatusError
	if !errors.As(err, &statusErr) {
		return false
	}

	if statusErr.StatusCode == http.StatusNotFound {
		return true
	}

	var body hubError
	if json.Unmarshal(statusErr.Body, &body) == nil {
		return body.ErrCode == errCodeNotFound
	}

	return false
}
