package core

import (
	"context"
)

// ApproveFunc hand the deep link of a freshly issued signer to the user and
// return once they had a chance to approve it in their wallet app
type ApproveFunc func(ctx context.Context, req *SignerRequest) error

// Session client side signer authorization with a session scoped status cache
type Session interface {
	// Authorize make sure the address has a confirmed signer, issuing one if needed
	Authorize(ctx context.Context, address string, fid int64, approve ApproveFunc) (*SignerStatus, error)
	// Forget drop the cached status of address
	Forget(address string)
}
