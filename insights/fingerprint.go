package insights

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"goalwise/api/models"
)

// Fingerprint returns the sha256 hex digest of the snapshot's canonical
// JSON serialization. Field order is fixed by the struct definitions, so
// identical snapshots always hash identically and any change to a budget
// item, goal or transaction changes the digest.
func Fingerprint(snapshot models.FinancialSnapshot) string {
	data, err := json.Marshal(snapshot)
	if err != nil {
		// The snapshot is plain data; Marshal cannot fail on it.
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
