package bundling

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// FileDigest returns the hex-encoded BLAKE3 hash of the file at filePath.
func FileDigest(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", errors.Wrapf(err, "couldn't open %s for hashing", filePath)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: couldn't close %s\n", filePath)
		}
	}()

	hasher := blake3.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return "", errors.Wrapf(err, "couldn't hash %s", filePath)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
