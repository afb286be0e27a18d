package crypto

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/ed25519"
)

const (
	// Base58Alphabet is the Bitcoin/Solana base-58 character set
	Base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

	SeedLen      = ed25519.SeedSize       // 32
	PublicKeyLen = ed25519.PublicKeySize  // 32
	SecretLen    = ed25519.PrivateKeySize // 64: seed + public key
)

var (
	ErrInvalidKeyLength = errors.New("invalid ed25519 secret key length")
	ErrKeyMismatch      = errors.New("public half of secret key does not match its seed")
)

// Keypair is an ed25519 key together with its base-58 address.
// It is immutable after construction.
type Keypair struct {
	secret  ed25519.PrivateKey
	Address string
}

// NewKeypair wraps an existing 64-byte secret key and derives its address
func NewKeypair(secret ed25519.PrivateKey) (*Keypair, error) {
	if len(secret) != SecretLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(secret), SecretLen)
	}
	derived := ed25519.NewKeyFromSeed(secret[:SeedLen])
	if !derived.Equal(secret) {
		return nil, ErrKeyMismatch
	}
	return &Keypair{
		secret:  derived,
		Address: base58.Encode(derived[SeedLen:]),
	}, nil
}

// KeypairFromSeed expands a 32-byte seed into a keypair
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedLen {
		return nil, fmt.Errorf("%w: seed is %d bytes, want %d", ErrInvalidKeyLength, len(seed), SeedLen)
	}
	secret := ed25519.NewKeyFromSeed(seed)
	return &Keypair{
		secret:  secret,
		Address: base58.Encode(secret[SeedLen:]),
	}, nil
}

// PublicKey returns the 32-byte public key
func (k *Keypair) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(k.secret[SeedLen:])
}

// SecretBase58 returns the 64-byte secret key in base-58, the form wallets
// accept for import.
func (k *Keypair) SecretBase58() string {
	return base58.Encode(k.secret)
}

// Secret returns a copy of the 64-byte secret key
func (k *Keypair) Secret() ed25519.PrivateKey {
	out := make(ed25519.PrivateKey, len(k.secret))
	copy(out, k.secret)
	return out
}

// Equal reports whether two keypairs hold the same key
func (k *Keypair) Equal(other *Keypair) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.secret.Equal(other.secret)
}

// MarshalJSON encodes the secret as a JSON array of 64 integers,
// the solana-keygen keypair file format.
func (k *Keypair) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(k.secret))
	for i, b := range k.secret {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

// UnmarshalJSON decodes the solana-keygen keypair file format
func (k *Keypair) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	secret := make(ed25519.PrivateKey, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("keypair byte %d out of range: %d", i, v)
		}
		secret[i] = byte(v)
	}
	parsed, err := NewKeypair(secret)
	if err != nil {
		return err
	}
	*k = *parsed
	return nil
}

// WriteFile writes the keypair to path in solana-keygen format, readable
// only by the owner.
func (k *Keypair) WriteFile(path string) error {
	data, err := k.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ReadKeypairFile loads a solana-keygen keypair file
func ReadKeypairFile(path string) (*Keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var k Keypair
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("parse keypair file %s: %w", path, err)
	}
	return &k, nil
}

// Generator produces random keypairs from an entropy source
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a generator reading seeds from r.
// A nil reader selects crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{rand: r}
}

// Generate returns a fresh keypair. It is safe for concurrent use whenever
// the underlying reader is. A failing entropy source panics.
func (g *Generator) Generate() *Keypair {
	var seed [SeedLen]byte
	if _, err := io.ReadFull(g.rand, seed[:]); err != nil {
		panic("crypto: entropy source failed: " + err.Error())
	}
	secret := ed25519.NewKeyFromSeed(seed[:])
	return &Keypair{
		secret:  secret,
		Address: base58.Encode(secret[SeedLen:]),
	}
}
