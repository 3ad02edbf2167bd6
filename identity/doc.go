// Package identity implements the cryptographic identity of a routing node.
//
// A node's identity is a Pmid: an Ed25519 signing keypair plus a NodeName
// derived by hashing the public key with BLAKE2b-512. The NodeName is what
// the rest of the module addresses and routes on; the keypair is used only
// to sign outbound message bodies and verify inbound ones. Pmid is
// immutable once created.
//
// Example:
//
//	pmid, err := identity.GeneratePmid()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sig := pmid.Sign(body)
//	ok := identity.Verify(body, sig, pmid.Public().PublicKey)
package identity
