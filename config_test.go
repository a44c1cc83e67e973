package farkle

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigFromEnv(t *testing.T) {
	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("default config mismatch (-want +got):\n%s", diff)
	}

	t.Setenv("FARKLE_MIN_ENTRY", "350")
	t.Setenv("FARKLE_WIN_SCORE", "5000")
	t.Setenv("FARKLE_HOT_DICE", "false")
	t.Setenv("FARKLE_CPU_STYLE", "aggressive")
	t.Setenv("FARKLE_MAX_CYCLES", "6")
	cfg, err = LoadConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	want := Config{MinEntry: 350, WinScore: 5000, HotDice: false, Style: Aggressive, MaxCycles: 6}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("env config mismatch (-want +got):\n%s", diff)
	}

	t.Setenv("FARKLE_CPU_STYLE", "reckless")
	if _, err := LoadConfigFromEnv(); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestNormalize(t *testing.T) {
	got := Config{MinEntry: -1, WinScore: 0, HotDice: true, Style: Style(9), MaxCycles: 0}.Normalize()
	if diff := cmp.Diff(DefaultConfig(), got); diff != "" {
		t.Errorf("normalized config mismatch (-want +got):\n%s", diff)
	}

	custom := Config{MinEntry: 1, WinScore: 2, Style: Conservative, MaxCycles: 3}
	if diff := cmp.Diff(custom, custom.Normalize()); diff != "" {
		t.Errorf("valid config changed (-want +got):\n%s", diff)
	}
}

func TestStyleText(t *testing.T) {
	for _, style := range []Style{Conservative, Standard, Aggressive} {
		buf, err := json.Marshal(style)
		if err != nil {
			t.Fatal(err)
		}
		var got Style
		if err := json.Unmarshal(buf, &got); err != nil {
			t.Fatal(err)
		}
		if got != style {
			t.Errorf("%s round-tripped to %s", style, got)
		}
	}
	if _, err := Style(5).MarshalText(); err == nil {
		t.Error("expected error marshaling unknown style")
	}
}
