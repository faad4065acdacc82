package signer

import (
	"context"
	"time"

	"github.com/ethrahere/curatoor/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type signerStore struct {
	db *db.DB
}

// New new signer store
func New(db *db.DB) core.SignerStore {
	return &signerStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Signer{})
		if err := tx.AutoMigrate(core.Signer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *signerStore) Find(ctx context.Context, address string) (*core.Signer, error) {
	var signer core.Signer
	err := s.db.View().Where("address = ?", address).First(&signer).Error
	if store.IsErrNotFound(err) {
		return &core.Signer{}, nil
	}

	if err != nil {
		return nil, err
	}

	return &signer, nil
}

func (s *signerStore) Save(ctx context.Context, signer *core.Signer) error {
	return s.db.Tx(func(tx *db.DB) error {
		var existing core.Signer
		err := tx.Update().Where("address = ?", signer.Address).First(&existing).Error
		if store.IsErrNotFound(err) {
			signer.FID = nil
			signer.SignerUUID = nil
			signer.ConfirmedAt = nil
			return tx.Update().Create(signer).Error
		}

		if err != nil {
			return err
		}

		// full overwrite, new key bytes invalidate any previous approval
		updates := map[string]interface{}{
			"public_key":   signer.PublicKey,
			"private_key":  signer.PrivateKey,
			"fid":          nil,
			"signer_uuid":  nil,
			"confirmed_at": nil,
		}

		if err := tx.Update().Model(&existing).Updates(updates).Error; err != nil {
			return err
		}

		signer.ID = existing.ID
		signer.CreatedAt = existing.CreatedAt
		signer.UpdatedAt = existing.UpdatedAt
		signer.FID = nil
		signer.SignerUUID = nil
		signer.ConfirmedAt = nil
		return nil
	})
}

func (s *signerStore) Confirm(ctx context.Context, address, publicKey string, fid int64, signerUUID *string, at time.Time) error {
	tx := s.db.Update().Model(core.Signer{}).
		Where("address = ? AND public_key = ?", address, publicKey).
		Updates(map[string]interface{}{
			"fid":          fid,
			"signer_uuid":  signerUUID,
			"confirmed_at": at,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return core.ErrStaleSigner
	}

	return nil
}
