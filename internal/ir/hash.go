package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
)

// Domain prefix for content-addressed digests.
// Version suffix enables future algorithm migration.
const DomainMappingSet = "wireplan/mapping-set/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// MappingSetDigest hashes the semantic content of a mapping set: the
// (from, to, kind) triples, independent of insertion order, seq and run id.
// Two stores with the same digest describe the same wiring.
func MappingSetDigest(records []MappingRecord) (string, error) {
	triples := make([][3]string, len(records))
	for i, r := range records {
		triples[i] = [3]string{r.From, r.To, string(r.Kind)}
	}
	slices.SortFunc(triples, func(a, b [3]string) int {
		return slices.Compare(a[:], b[:])
	})

	data, err := json.Marshal(triples)
	if err != nil {
		return "", fmt.Errorf("MappingSetDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainMappingSet, data), nil
}
