package models

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

func TestVisitColumnTypes(t *testing.T) {
	t.Parallel()

	s, err := schema.Parse(&Visit{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}

	tests := []struct {
		column string
		want   string
	}{
		{"ip", fmt.Sprintf("varchar(%d)", MaxIdentityLength)},
		{"visited_from_city", "text"},
		{"visited_from_country", "text"},
		{"author", "text"},
		{"message", "text"},
	}
	for _, tt := range tests {
		field := s.LookUpField(tt.column)
		if field == nil {
			t.Errorf("column %s missing", tt.column)
			continue
		}
		// Unbounded text keeps MySQL from rejecting long visitor input.
		if got := strings.ToLower(field.TagSettings["TYPE"]); got != tt.want {
			t.Errorf("column %s type = %q, want %q", tt.column, got, tt.want)
		}
	}
}
