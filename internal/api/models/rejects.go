package models

import "github.com/jroosing/dnslens/internal/database"

// RejectsResponse lists recent audited decode failures.
type RejectsResponse struct {
	Count   int               `json:"count"`
	Rejects []database.Reject `json:"rejects"`
}

// PruneResponse reports how many audit rows a prune removed.
type PruneResponse struct {
	Removed int64 `json:"removed"`
}
