package ledger

import (
	"context"
	"strings"
	"testing"
)

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	if err := r.Record(context.Background(), Entry{Kind: "estimate"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenRejectsBadDSN(t *testing.T) {
	tests := []struct {
		dsn, want string
	}{
		{"", "empty database URL"},
		{"postgres://user@host:notaport/db", "parse config"},
	}
	for _, tt := range tests {
		_, err := Open(context.Background(), tt.dsn)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("Open(%q) = %v, want %q", tt.dsn, err, tt.want)
		}
	}
}

func TestInsertMatchesSchema(t *testing.T) {
	for _, col := range []string{"kind", "number", "object_key", "url", "fingerprint", "size_bytes", "created_at"} {
		if !strings.Contains(Schema, col) || !strings.Contains(insertEntry, col) {
			t.Errorf("column %s missing from schema or insert", col)
		}
	}
	if got := strings.Count(insertEntry, "$"); got != 7 {
		t.Errorf("insert has %d placeholders", got)
	}
}
