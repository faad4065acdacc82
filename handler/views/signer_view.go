package views

import (
	"github.com/ethrahere/curatoor/core"
)

// SignerStatus signer status view, fid is always present and null until confirmed
type SignerStatus struct {
	Confirmed bool   `json:"confirmed"`
	FID       *int64 `json:"fid"`
}

// SignerStatusView convert signer status into view
func SignerStatusView(status *core.SignerStatus) SignerStatus {
	return SignerStatus{
		Confirmed: status.Confirmed,
		FID:       status.FID,
	}
}

// SignerRequest issued signer view
type SignerRequest struct {
	PublicKey string `json:"publicKey"`
	DeepLink  string `json:"deepLink"`
}

// SignerRequestView convert signer request into view
func SignerRequestView(req *core.SignerRequest) SignerRequest {
	return SignerRequest{
		PublicKey: req.PublicKey,
		DeepLink:  req.DeepLink,
	}
}
