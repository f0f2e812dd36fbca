/*
Package ssi is the identity and wallet provider of the cloud agent. It offers
the operations an agent needs from its wallet: wallet life cycle, DID
management, pairwise records and the wallet scoped crypto used by the envelope
codec.

Provider is the interface the agents use. Keystore is the implementation which
stores wallets to bbolt files or to memory.
*/
package ssi

//go:generate mockgen -destination=mock_ssi/provider.go github.com/findy-network/findy-cloud-agent/agent/ssi Provider

import (
	"context"
	"encoding/json"
)

// Storage types of the wallet Config.
const (
	StorageDefault = "default"
	StorageMemory  = "memory"
)

// Key derivation methods of the wallet Credentials.
const (
	KeyDerivationRaw      = "RAW"
	KeyDerivationArgon2i  = "ARGON2I_INT"
	KeyDerivationArgon2id = "ARGON2I_MOD"
)

// Config is the wallet configuration. StorageConfig is storage type specific
// JSON, the default storage reads its "path" field.
type Config struct {
	ID            string          `json:"id"`
	StorageType   string          `json:"storage_type,omitempty"`
	StorageConfig json.RawMessage `json:"storage_config,omitempty"`
}

// Credentials opens the wallet. Key is the wallet passphrase.
type Credentials struct {
	Key                 string          `json:"key"`
	StorageCredentials  json.RawMessage `json:"storage_credentials,omitempty"`
	KeyDerivationMethod string          `json:"key_derivation_method,omitempty"`
}

// DIDOptions is for CreateAndStoreDID. Both are optional: Seed is 32 chars
// and DID overrides the DID calculated from the verkey.
type DIDOptions struct {
	Seed string `json:"seed,omitempty"`
	DID  string `json:"did,omitempty"`
}

// TheirDID is a DID of the other end, stored to the wallet to build a pairwise.
type TheirDID struct {
	DID    string `json:"did"`
	Verkey string `json:"verkey"`
}

// Pairwise is a stored relationship between one of our DIDs and theirs.
type Pairwise struct {
	TheirDID    string `json:"their_did"`
	TheirVerkey string `json:"their_verkey"`
	MyDID       string `json:"my_did"`
	MyVerkey    string `json:"my_verkey"`
	Metadata    string `json:"metadata,omitempty"`
}

// Crypto is the wallet scoped crypto. The private key of myVerkey must be in
// the wallet.
type Crypto interface {
	// AuthBox encrypts and authenticates msg from myVerkey to theirVerkey. It
	// returns the ciphertext and the random nonce used.
	AuthBox(ctx context.Context, wallet int, myVerkey, theirVerkey string,
		msg []byte) (ct, nonce []byte, err error)

	// AuthBoxOpen is the reverse operation of AuthBox.
	AuthBoxOpen(ctx context.Context, wallet int, myVerkey, theirVerkey string,
		ct, nonce []byte) ([]byte, error)

	// SealOpen opens a message anonymously sealed to myVerkey, see SealTo.
	SealOpen(ctx context.Context, wallet int, myVerkey string,
		ct []byte) ([]byte, error)
}

// Provider is the identity and wallet provider. The wallet handle returned by
// OpenWallet is owned by the caller until CloseWallet.
type Provider interface {
	Crypto

	CreateWallet(ctx context.Context, cfg Config, creds Credentials) error
	OpenWallet(ctx context.Context, cfg Config, creds Credentials) (int, error)
	CloseWallet(ctx context.Context, wallet int) error

	CreateAndStoreDID(ctx context.Context, wallet int, opts DIDOptions) (
		did, verkey string, err error)
	StoreTheirDID(ctx context.Context, wallet int, their TheirDID) error
	KeyForLocalDID(ctx context.Context, wallet int, did string) (string, error)

	PairwiseExists(ctx context.Context, wallet int, theirDID string) (bool, error)
	CreatePairwise(ctx context.Context, wallet int, theirDID, myDID,
		metadata string) error
	ListPairwise(ctx context.Context, wallet int) ([]Pairwise, error)
}
