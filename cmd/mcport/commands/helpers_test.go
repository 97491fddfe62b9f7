package commands

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"this is a long description", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcdef", 3, "abc"},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestCurrentConfigFallsBackToDefaults(t *testing.T) {
	saved := appConfig
	appConfig = nil
	defer func() { appConfig = saved }()

	cfg := currentConfig()
	if cfg == nil {
		t.Fatal("currentConfig() returned nil")
	}
	if cfg.Backup.Retention <= 0 {
		t.Errorf("default retention = %d, want > 0", cfg.Backup.Retention)
	}
}

func TestResolveManagersExplicitNames(t *testing.T) {
	managers, err := resolveManagers([]string{"claude", "cursor"})
	if err != nil {
		t.Fatalf("resolveManagers() error = %v", err)
	}
	if len(managers) != 2 {
		t.Fatalf("got %d managers, want 2", len(managers))
	}
	if managers[0].Definition().Name != "claude" {
		t.Errorf("first manager = %s, want claude", managers[0].Definition().Name)
	}
	if managers[1].ConfigPath() == "" {
		t.Error("manager should have a resolved config path")
	}
}

func TestResolveManagersRejectsUnknownAgent(t *testing.T) {
	_, err := resolveManagers([]string{"emacs"})
	if err == nil {
		t.Fatal("expected error for unknown agent")
	}
	if !strings.Contains(err.Error(), "emacs") {
		t.Errorf("error %q should name the unknown agent", err)
	}
}
