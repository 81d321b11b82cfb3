package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content hashes. The version suffix allows a future
// algorithm migration.
const (
	DomainState = "sleuth/state/v1"
	DomainEvent = "sleuth/event/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StateHash hashes canonical JSON of an engine's deduction state.
func StateHash(canonical []byte) string {
	return hashWithDomain(DomainState, canonical)
}

// EventHash hashes canonical JSON of one stored event payload.
func EventHash(canonical []byte) string {
	return hashWithDomain(DomainEvent, canonical)
}
