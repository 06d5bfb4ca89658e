package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFiles hashes the contents of paths in order. A missing file
// contributes a marker instead of content, so a file appearing or
// disappearing changes the hash. Any other read error is returned.
func HashFiles(paths ...string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		data, err := os.ReadFile(p)
		switch {
		case errors.Is(err, os.ErrNotExist):
			fmt.Fprintf(h, "%s\x00missing\x00", p)
		case err != nil:
			return "", err
		default:
			fmt.Fprintf(h, "%s\x00%d\x00", p, len(data))
			h.Write(data)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Key builds a cache key of the form "kind:sha256" from the inputs hash and
// every setting that shapes the figure. settings must encode to JSON.
func Key(kind, inputHash string, settings ...any) (string, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("encode %s settings: %w", kind, err)
	}
	return kind + ":" + Hash(append([]byte(inputHash+"\x00"), data...)), nil
}
