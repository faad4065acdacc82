// Package signkey generates and encodes the ed25519 keys used as delegated signers.
package signkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"strings"

	"github.com/asaskevich/govalidator"
)

const prefix = "0x"

// ErrInvalidKey key is not hex or has the wrong length
var ErrInvalidKey = errors.New("signkey: invalid key")

// Keypair hex encoded ed25519 keypair, the private key is the 32 byte seed
type Keypair struct {
	PublicKey  string
	PrivateKey string
}

// Generate new random keypair
func Generate() (*Keypair, error) {
	return GenerateFrom(rand.Reader)
}

// GenerateFrom new keypair reading the seed from r
func GenerateFrom(r io.Reader) (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(r)
	if err != nil {
		return nil, err
	}

	return &Keypair{
		PublicKey:  Encode(pub),
		PrivateKey: Encode(priv.Seed()),
	}, nil
}

// Encode 0x prefixed lowercase hex
func Encode(b []byte) string {
	return prefix + hex.EncodeToString(b)
}

// Normalize ensure the 0x prefix, hubs always expect it
func Normalize(key string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, prefix) || strings.HasPrefix(key, "0X") {
		return prefix + key[len(prefix):]
	}

	return prefix + key
}

// Decode hex with or without 0x
func Decode(key string) ([]byte, error) {
	raw := strings.TrimPrefix(Normalize(key), prefix)
	if !govalidator.IsHexadecimal(raw) {
		return nil, ErrInvalidKey
	}

	return hex.DecodeString(raw)
}

// PrivateKey decode a stored seed into an ed25519 private key
func PrivateKey(encoded string) (ed25519.PrivateKey, error) {
	seed, err := Decode(encoded)
	if err != nil {
		return nil, err
	}

	if len(seed) != ed25519.SeedSize {
		return nil, ErrInvalidKey
	}

	return ed25519.NewKeyFromSeed(seed), nil
}

// Sign sign message with the stored seed
func Sign(encodedPrivateKey string, message []byte) ([]byte, error) {
	key, err := PrivateKey(encodedPrivateKey)
	if err != nil {
		return nil, err
	}

	return ed25519.Sign(key, message), nil
}

// Verify verify signature against the encoded public key
func Verify(encodedPublicKey string, message, signature []byte) bool {
	pub, err := Decode(encodedPublicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}

	return ed25519.Verify(pub, message, signature)
}
