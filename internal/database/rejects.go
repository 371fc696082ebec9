package database

import (
	"fmt"
	"time"

	"github.com/jroosing/dnslens/internal/wire"
)

// Reject is one audited decode failure.
type Reject struct {
	ID         int64     `json:"id"`
	ObservedAt time.Time `json:"observed_at"`
	Source     string    `json:"source"`
	Transport  string    `json:"transport"`
	Length     int       `json:"length"`
	Status     string    `json:"status"`
	HeaderID   uint16    `json:"header_id"`
	Flags      uint16    `json:"flags"`
	QDCount    uint16    `json:"qdcount"`
	ANCount    uint16    `json:"ancount"`
	NSCount    uint16    `json:"nscount"`
	ARCount    uint16    `json:"arcount"`
}

// RejectFromSummary builds a Reject row from a decode summary.
// The summary's header fields are informational: they reflect whatever
// the first 12 bytes claimed, or zeroes when the header itself was short.
func RejectFromSummary(s wire.Summary, source, transport string, length int, at time.Time) Reject {
	return Reject{
		ObservedAt: at,
		Source:     source,
		Transport:  transport,
		Length:     length,
		Status:     s.Status.String(),
		HeaderID:   s.Header.ID,
		Flags:      s.Header.Flags,
		QDCount:    s.Header.QDCount,
		ANCount:    s.Header.ANCount,
		NSCount:    s.Header.NSCount,
		ARCount:    s.Header.ARCount,
	}
}

// InsertReject stores one decode failure.
func (db *DB) InsertReject(r Reject) error {
	_, err := db.conn.Exec(`
		INSERT INTO rejects
			(observed_at, source, transport, length, status,
			 header_id, flags, qdcount, ancount, nscount, arcount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ObservedAt.UnixMilli(), r.Source, r.Transport, r.Length, r.Status,
		r.HeaderID, r.Flags, r.QDCount, r.ANCount, r.NSCount, r.ARCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reject: %w", err)
	}
	return nil
}

// RecentRejects returns the most recent rejects, newest first.
func (db *DB) RecentRejects(limit int) ([]Reject, error) {
	rows, err := db.conn.Query(`
		SELECT id, observed_at, source, transport, length, status,
		       header_id, flags, qdcount, ancount, nscount, arcount
		FROM rejects
		ORDER BY observed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rejects: %w", err)
	}
	defer rows.Close()

	out := make([]Reject, 0, limit)
	for rows.Next() {
		var r Reject
		var ms int64
		if err := rows.Scan(&r.ID, &ms, &r.Source, &r.Transport, &r.Length, &r.Status,
			&r.HeaderID, &r.Flags, &r.QDCount, &r.ANCount, &r.NSCount, &r.ARCount); err != nil {
			return nil, fmt.Errorf("failed to scan reject: %w", err)
		}
		r.ObservedAt = time.UnixMilli(ms).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountRejectsByStatus returns per-status totals for the whole table.
func (db *DB) CountRejectsByStatus() (map[string]int64, error) {
	rows, err := db.conn.Query(`SELECT status, COUNT(*) FROM rejects GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count rejects: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// PruneRejects deletes rejects observed before the cutoff and returns how
// many rows were removed.
func (db *DB) PruneRejects(cutoff time.Time) (int64, error) {
	res, err := db.conn.Exec(`DELETE FROM rejects WHERE observed_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune rejects: %w", err)
	}
	return res.RowsAffected()
}
