// Package ir provides canonical JSON encoding and content hashes.
//
// Canonical JSON (RFC 8785 subset) is used wherever bytes must be stable
// across runs: stored event payloads, state fingerprints and golden
// snapshots.
//
// Key design constraints:
//   - NO floats and NO null: card games need neither, and both break
//     byte-stable output
//   - object keys sorted by UTF-16 code units
//   - strings NFC-normalized, no HTML escaping
//
// ir imports nothing internal.
package ir
