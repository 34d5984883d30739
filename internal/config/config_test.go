package config

import "testing"

func TestLoadReadsEnv(t *testing.T) {
	t.Setenv("GRID_COLS", "3")
	t.Setenv("ROUTE_PRUNE_ORPHANS", "yes")
	t.Setenv("EXTRACT_LOOKBACK_CHARS", "-5")
	t.Setenv("MAIL_LISTENER_PROVIDER", "dir")
	t.Setenv("IMAP_PORT", "not-a-port")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GridCols != 3 || cfg.GridRows != 4 {
		t.Fatalf("grid got %dx%d want 3x4", cfg.GridCols, cfg.GridRows)
	}
	if !cfg.RoutePruneOrphans {
		t.Fatal("ROUTE_PRUNE_ORPHANS=yes should be true")
	}
	if cfg.ExtractLookbackChars != 1000 {
		t.Fatalf("lookback got %d want 1000", cfg.ExtractLookbackChars)
	}
	if cfg.MailListenerProvider != "dir" || cfg.IMAPPort != 993 {
		t.Fatalf("got provider=%s port=%d", cfg.MailListenerProvider, cfg.IMAPPort)
	}
}

func TestGetEnvBool(t *testing.T) {
	cases := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{value: "1", want: true},
		{value: "OFF", fallback: true, want: false},
		{value: "maybe", fallback: true, want: true},
		{value: "", fallback: false, want: false},
	}
	for _, tc := range cases {
		t.Setenv("HAULER_TEST_BOOL", tc.value)
		if got := getEnvBool("HAULER_TEST_BOOL", tc.fallback); got != tc.want {
			t.Fatalf("getEnvBool(%q) got %v want %v", tc.value, got, tc.want)
		}
	}
}

func TestRequire(t *testing.T) {
	if err := (Config{}).Require("IMAP_HOST", "  "); err == nil {
		t.Fatal("expected error for blank value")
	}
	if err := (Config{}).Require("IMAP_HOST", "mail.example.com"); err != nil {
		t.Fatal(err)
	}
}
