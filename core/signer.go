package core

import (
	"context"
	"time"
)

// Signer delegated signing key bound to one wallet address
type Signer struct {
	ID          int64      `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`
	Address     string     `sql:"size:64;UNIQUE_INDEX:idx_user_signers_address" json:"address,omitempty"`
	PublicKey   string     `sql:"size:128" json:"public_key,omitempty"`
	PrivateKey  string     `sql:"size:256" json:"-"`
	FID         *int64     `gorm:"column:fid" json:"fid,omitempty"`
	SignerUUID  *string    `sql:"size:64" gorm:"column:signer_uuid" json:"signer_uuid,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

// TableName gorm table name
func (Signer) TableName() string {
	return "user_signers"
}

// Confirmed hub approval has been recorded
func (s *Signer) Confirmed() bool {
	return s.ConfirmedAt != nil && s.FID != nil
}

// ConfirmedFor confirmed under the given fid
func (s *Signer) ConfirmedFor(fid int64) bool {
	return s.Confirmed() && *s.FID == fid
}

// SignerRequest result of issuing a new signer
type SignerRequest struct {
	PublicKey string `json:"publicKey"`
	DeepLink  string `json:"deepLink"`
}

// SignerStatus confirmation state of an address
type SignerStatus struct {
	Confirmed bool   `json:"confirmed"`
	FID       *int64 `json:"fid"`
}

// ConfirmInput confirm request
type ConfirmInput struct {
	Address    string
	FID        int64
	SignerUUID string
}

// MessageSigner signing capability of a confirmed signer, the private key never leaves it
type MessageSigner interface {
	FID() int64
	PublicKey() string
	Sign(message []byte) ([]byte, error)
}

// SignerStore signer store interface
type SignerStore interface {
	// Find return an empty signer (ID == 0) if none exists
	Find(ctx context.Context, address string) (*Signer, error)
	// Save insert or fully overwrite the signer of the address, clearing confirmation
	Save(ctx context.Context, signer *Signer) error
	// Confirm mark confirmed only while the stored public key still equals publicKey,
	// ErrStaleSigner otherwise
	Confirm(ctx context.Context, address, publicKey string, fid int64, signerUUID *string, at time.Time) error
}

// SignerAPI operations shared by the in-process service and the http client
type SignerAPI interface {
	Request(ctx context.Context, address string) (*SignerRequest, error)
	Confirm(ctx context.Context, input ConfirmInput) (*SignerStatus, error)
	Status(ctx context.Context, address string) (*SignerStatus, error)
}

// SignerService signer service interface
type SignerService interface {
	SignerAPI
	MessageSigner(ctx context.Context, address string) (MessageSigner, error)
}
