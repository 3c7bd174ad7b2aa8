package main

import "testing"

func TestParseDeclLength(t *testing.T) {
	tests := []struct {
		decl string
		want *int
	}{
		{"VARCHAR(150)", intp(150)},
		{"varchar(20)", intp(20)},
		{"character varying(255)", intp(255)},
		{"TEXT", nil},
		{"INTEGER", nil},
		{"decimal(10,2)", nil},
		{"varchar()", nil},
		{"varchar(0)", nil},
		{"varchar(abc)", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			got := parseDeclLength(tt.decl)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("parseDeclLength(%q) = %v, want %v", tt.decl, got, tt.want)
			case *got != *tt.want:
				t.Errorf("parseDeclLength(%q) = %d, want %d", tt.decl, *got, *tt.want)
			}
		})
	}
}

func TestColumnSnapshotLength(t *testing.T) {
	s := ColumnSnapshot{"name": intp(50), "id": nil}

	if length, ok := s.Length("name"); !ok || length == nil || *length != 50 {
		t.Errorf("Length(name) = %v, %t", length, ok)
	}
	if length, ok := s.Length("id"); !ok || length != nil {
		t.Errorf("Length(id) = %v, %t, want nil present", length, ok)
	}
	if _, ok := s.Length("missing"); ok {
		t.Error("Length(missing) should report absent")
	}
}
