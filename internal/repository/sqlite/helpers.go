package sqlite

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"ucsboard/internal/domain"
	"ucsboard/internal/repository"

	"golang.org/x/crypto/blake2b"
)

// treeColumns lists the metadata columns of the trees table.
// MUST match treeRow.scanArgs() order exactly.
const treeColumns = `name, checksum, node_count, created_at, updated_at`

// timeLayout is the text form of timestamps in the trees table
const timeLayout = time.RFC3339Nano

// treeRow holds the columns of a tree query for scanning
type treeRow struct {
	Name      string
	Checksum  string
	NodeCount int
	CreatedAt string
	UpdatedAt string
	Data      string
}

// scanArgs returns pointers to the metadata fields for sql.Scan().
// Data is scanned separately because List does not read it.
func (r *treeRow) scanArgs() []any {
	return []any{
		&r.Name,      // 1
		&r.Checksum,  // 2
		&r.NodeCount, // 3
		&r.CreatedAt, // 4
		&r.UpdatedAt, // 5
	}
}

func (r *treeRow) toInfo() (repository.TreeInfo, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return repository.TreeInfo{}, fmt.Errorf("tree %s created_at: %w", r.Name, err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return repository.TreeInfo{}, fmt.Errorf("tree %s updated_at: %w", r.Name, err)
	}
	return repository.TreeInfo{
		Name:      r.Name,
		NodeCount: r.NodeCount,
		Checksum:  r.Checksum,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// toRecord verifies the stored checksum and decodes the record
func (r *treeRow) toRecord() (domain.Record, error) {
	if sum := checksum([]byte(r.Data)); sum != r.Checksum {
		return domain.Record{}, fmt.Errorf("%w: tree %q checksum mismatch", domain.ErrMalformedRecord, r.Name)
	}

	var rec domain.Record
	if err := json.Unmarshal([]byte(r.Data), &rec); err != nil {
		return domain.Record{}, fmt.Errorf("%w: tree %q: %v", domain.ErrMalformedRecord, r.Name, err)
	}
	if err := rec.Validate(); err != nil {
		return domain.Record{}, fmt.Errorf("tree %q: %w", r.Name, err)
	}
	if rec.GoalNodes == nil {
		rec.GoalNodes = []string{}
	}
	return rec, nil
}

// checksum returns the hex blake2b-256 digest of data
func checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
