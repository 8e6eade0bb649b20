// Package pagination normalizes page sizes and opaque sequence page tokens.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int, cfg PageSizeConfig) int {
	pageSize := value
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}

// EncodeSeqToken renders the last-seen sequence as an opaque page token.
func EncodeSeqToken(seq uint64) string {
	if seq == 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte("seq:" + strconv.FormatUint(seq, 10)))
}

// DecodeSeqToken returns the sequence encoded by EncodeSeqToken. Empty tokens decode to zero.
func DecodeSeqToken(token string) (uint64, error) {
	if token == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("invalid page token: %w", err)
	}
	value := string(raw)
	if len(value) < 5 || value[:4] != "seq:" {
		return 0, fmt.Errorf("invalid page token")
	}
	seq, err := strconv.ParseUint(value[4:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid page token: %w", err)
	}
	return seq, nil
}
