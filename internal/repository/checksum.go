package repository

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/dejanradmanovic/kargo-core/internal/kargoerr"
)

// VerifyChecksum verifies data against whichever checksum sidecar the
// repository publishes for fileURL, preferring SHA-256, then SHA-1,
// then MD5. It is a no-op (with no error) if no sidecar exists at all.
func (c *Client) VerifyChecksum(ctx context.Context, repo Repository, fileURL string, data []byte) error {
	if expected, ok, err := c.downloadText(ctx, repo, fileURL+".sha256"); err != nil {
		return err
	} else if ok {
		sum := sha256.Sum256(data)
		return checkHash(hex.EncodeToString(sum[:]), extractHash(expected), "SHA-256", fileURL)
	}

	if expected, ok, err := c.downloadText(ctx, repo, fileURL+".sha1"); err != nil {
		return err
	} else if ok {
		sum := sha1.Sum(data)
		return checkHash(hex.EncodeToString(sum[:]), extractHash(expected), "SHA-1", fileURL)
	}

	if expected, ok, err := c.downloadText(ctx, repo, fileURL+".md5"); err != nil {
		return err
	} else if ok {
		sum := md5.Sum(data)
		return checkHash(hex.EncodeToString(sum[:]), extractHash(expected), "MD5", fileURL)
	}

	return nil
}

func checkHash(actual, expected, algo, url string) error {
	if strings.EqualFold(actual, expected) {
		return nil
	}
	return kargoerr.ChecksumMismatch(url)
}

// extractHash pulls the hex digest out of a checksum sidecar file,
// which may contain just the hash or "hash  filename".
func extractHash(content string) string {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
