package scopes

import (
	"errors"
	"strings"
	"testing"
)

func TestHasScope(t *testing.T) {
	tests := []struct {
		name     string
		granted  []string
		required string
		want     bool
	}{
		{"exact match", []string{VaultRead}, VaultRead, true},
		{"missing", []string{VaultRead}, VaultWrite, false},
		{"category wildcard", []string{VaultAll}, VaultDelete, true},
		{"category wildcard other category", []string{"plugins:*"}, VaultRead, false},
		{"top-level wildcard", []string{All}, VaultExecute, true},
		{"empty grant", nil, VaultRead, false},
		{"delete not implied by write", []string{VaultWrite}, VaultDelete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := New(tt.granted)
			if got := ctx.HasScope(tt.required); got != tt.want {
				t.Errorf("HasScope(%q) = %v, want %v (granted %v)", tt.required, got, tt.want, tt.granted)
			}
		})
	}
}

func TestRequireNamesMissingScope(t *testing.T) {
	ctx := New([]string{VaultRead})

	err := ctx.Require(VaultExecute)
	if err == nil {
		t.Fatal("Require should fail for a missing scope")
	}
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("error should wrap ErrPermissionDenied, got %v", err)
	}
	if !strings.Contains(err.Error(), VaultExecute) {
		t.Errorf("error should name the missing scope, got %q", err.Error())
	}

	if err := ctx.Require(VaultRead); err != nil {
		t.Errorf("Require(%q) = %v, want nil", VaultRead, err)
	}
}
