// Package shared provides common utility functions used across multiple
// packages in the ccgo codebase.
package shared

import (
	"crypto/md5"
	"encoding/hex"
)

// URLHash returns the first 8 hex characters of the MD5 digest of url.
// It keys cache slots by content, so the same URL always hashes the same.
func URLHash(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])[:8]
}
