// Package identity implements the cryptographic identity of a routing node.
//
// Every node owns a Pmid: an Ed25519 signing keypair plus a NodeName derived
// by hashing the public key. The NodeName is what the rest of the module
// routes on; the keypair is used only to sign outbound message bodies and
// verify inbound ones.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"

	"github.com/opd-ai/routingnode/address"
)

// PublicIdentity is the publishable half of a Pmid: a public signing key
// and the NodeName derived from it.
//
//export RoutingNodePublicIdentity
type PublicIdentity struct {
	PublicKey ed25519.PublicKey
	Name      address.NodeName
}

// Pmid is a node's full cryptographic identity: a signing keypair plus its
// derived name. Immutable once created.
//
//export RoutingNodePmid
type Pmid struct {
	public  ed25519.PublicKey
	private ed25519.PrivateKey
	name    address.NodeName
}

// deriveName hashes a public signing key down to a 512-bit NodeName using
// BLAKE2b-512, which conveniently produces exactly address.Size bytes.
func deriveName(publicKey ed25519.PublicKey) address.NodeName {
	return address.NodeName(blake2b.Sum512(publicKey))
}

// GeneratePmid creates a new random Pmid.
//
//export RoutingNodeGeneratePmid
func GeneratePmid() (*Pmid, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "GeneratePmid",
		"package":  "identity",
	})
	logger.Debug("generating new node identity")

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		logger.WithError(err).Error("failed to generate signing key pair")
		return nil, fmt.Errorf("generate signing key pair: %w", err)
	}

	pmid := &Pmid{
		public:  pub,
		private: priv,
		name:    deriveName(pub),
	}

	logger.WithField("name", pmid.name.String()[:16]+"...").Info("node identity generated")
	return pmid, nil
}

// PmidFromSecretKey rebuilds a Pmid from an existing Ed25519 seed (the
// lower 32 bytes of the private key).
//
//export RoutingNodePmidFromSecretKey
func PmidFromSecretKey(seed [ed25519.SeedSize]byte) (*Pmid, error) {
	if isZero(seed[:]) {
		return nil, errors.New("invalid secret key: all zeros")
	}
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)

	return &Pmid{
		public:  pub,
		private: priv,
		name:    deriveName(pub),
	}, nil
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// Name returns this node's NodeName.
func (p *Pmid) Name() address.NodeName { return p.name }

// Public returns the publishable half of this identity.
func (p *Pmid) Public() PublicIdentity {
	return PublicIdentity{PublicKey: p.public, Name: p.name}
}

// Sign produces a signature over message bytes using the node's private key.
//
//export RoutingNodePmidSign
func (p *Pmid) Sign(message []byte) []byte {
	return ed25519.Sign(p.private, message)
}

// Verify checks a signature against a message and a claimed public identity.
//
//export RoutingNodeVerify
func Verify(message, signature []byte, pub ed25519.PublicKey) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(pub, message, signature)
}

// Wipe zeros the private key material. Callers should call this when a
// Pmid is no longer needed, before it is garbage collected.
func (p *Pmid) Wipe() {
	ZeroBytes(p.private)
}
