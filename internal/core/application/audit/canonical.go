package audit

import (
	"strconv"
	"time"

	"cylindertrack/internal/core/domain/model/kernel"
)

// Canonical string forms used for audit comparison and storage. Equal domain
// values must canonicalize to equal strings so no-op saves produce no rows.

func canonTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func canonTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return canonTime(*t)
}

func canonBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func canonInt(n int) string {
	return strconv.Itoa(n)
}

func canonIntPtr(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func canonUUIDPtr(id *kernel.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
