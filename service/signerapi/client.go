package signerapi

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ethrahere/curatoor/core"
	"github.com/ethrahere/curatoor/pkg/id"
	"github.com/ethrahere/curatoor/pkg/resthttp"

	"github.com/go-resty/resty/v2"
)

// Client signer api over http
type Client struct {
	client *resty.Client
}

// New new signer api client, timeout must cover the server side confirmation budget
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{client: resthttp.New(baseURL, timeout)}
}

type errorBody struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (c *Client) do(ctx context.Context, method, path string, body, query map[string]string, obj interface{}) error {
	req := resthttp.WithRequestID(ctx, c.client, id.GenTraceID())
	if body != nil {
		req = req.SetBody(body)
	}

	if query != nil {
		req = req.SetQueryParams(query)
	}

	r, err := req.Execute(method, path)
	if err != nil {
		return err
	}

	return parseError(resthttp.ParseResponse(r, obj))
}

// parseError map an error body back to its ErrorCode
func parseError(err error) error {
	var statusErr *resthttp.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}

	var body errorBody
	if json.Unmarshal(statusErr.Body, &body) != nil || body.Code == 0 {
		return core.ErrUnknown.With(err)
	}

	code := core.ErrorCode(body.Code)
	detail := strings.TrimPrefix(body.Msg, code.Message()+": ")
	if detail == "" || detail == code.Message() {
		return code
	}

	return code.With(errors.New(detail))
}

// Request issue a new signer for address
func (c *Client) Request(ctx context.Context, address string) (*core.SignerRequest, error) {
	var req core.SignerRequest
	if err := c.do(ctx, resty.MethodPost, "/signer/request", map[string]string{"address": address}, nil, &req); err != nil {
		return nil, err
	}

	return &req, nil
}

// Confirm wait for hub approval of the pending signer
func (c *Client) Confirm(ctx context.Context, input core.ConfirmInput) (*core.SignerStatus, error) {
	body := map[string]string{
		"address": input.Address,
		"fid":     strconv.FormatInt(input.FID, 10),
	}

	if input.SignerUUID != "" {
		body["signerUuid"] = input.SignerUUID
	}

	var status core.SignerStatus
	if err := c.do(ctx, resty.MethodPost, "/signer/confirm", body, nil, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

// Status confirmation status of address
func (c *Client) Status(ctx context.Context, address string) (*core.SignerStatus, error) {
	var status core.SignerStatus
	if err := c.do(ctx, resty.MethodGet, "/signer/status", nil, map[string]string{"address": address}, &status); err != nil {
		return nil, err
	}

	return &status, nil
}
