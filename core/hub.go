package core

import (
	"context"
)

// SignerEventBody body of an on-chain key registry event
type SignerEventBody struct {
	Key          string `json:"key,omitempty"`
	KeyType      int    `json:"keyType,omitempty"`
	EventType    string `json:"eventType,omitempty"`
	Metadata     string `json:"metadata,omitempty"`
	MetadataType int    `json:"metadataType,omitempty"`
}

// SignerEvent on-chain signer event as served by a hub
type SignerEvent struct {
	Type            string          `json:"type,omitempty"`
	ChainID         int64           `json:"chainId,omitempty"`
	BlockNumber     int64           `json:"blockNumber,omitempty"`
	BlockHash       string          `json:"blockHash,omitempty"`
	BlockTimestamp  int64           `json:"blockTimestamp,omitempty"`
	TransactionHash string          `json:"transactionHash,omitempty"`
	LogIndex        int64           `json:"logIndex,omitempty"`
	FID             int64           `json:"fid,omitempty"`
	SignerEventBody SignerEventBody `json:"signerEventBody,omitempty"`
	TxIndex         int64           `json:"txIndex,omitempty"`
}

// HubService hub service interface
type HubService interface {
	// SignerEvent return nil, nil when the hub has no event for fid and key yet
	SignerEvent(ctx context.Context, fid int64, key string) (*SignerEvent, error)
}
