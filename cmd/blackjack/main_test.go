package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/config"
)

func TestBuildSituation(t *testing.T) {
	tests := []struct {
		name     string
		player   string
		dealerUp string
		decks    int
		unseen   int
		hasError bool
	}{
		{name: "single deck", player: "Th6c", dealerUp: "9s", decks: 1, unseen: 49},
		{name: "four decks", player: "Th 6c", dealerUp: "9s", decks: 4, unseen: 205},
		{name: "ten notation", player: "10h6c", dealerUp: "10s", decks: 1, unseen: 49},
		{name: "duplicate in one deck", player: "9s6c", dealerUp: "9s", decks: 1, hasError: true},
		{name: "duplicate in two decks", player: "9s6c", dealerUp: "9s", decks: 2, unseen: 101},
		{name: "one card", player: "Th", dealerUp: "9s", decks: 1, hasError: true},
		{name: "already bust", player: "ThKc5d", dealerUp: "9s", decks: 1, hasError: true},
		{name: "bad card", player: "ThXy", dealerUp: "9s", decks: 1, hasError: true},
		{name: "bad dealer card", player: "Th6c", dealerUp: "Zz", decks: 1, hasError: true},
		{name: "no decks", player: "Th6c", dealerUp: "9s", decks: 0, hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sit, err := buildSituation(tt.player, tt.dealerUp, tt.decks)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, sit.Unseen, tt.unseen)
		})
	}
}

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test", "config_file": config.DefaultFilename})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestPlayFlagsOverrideConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.hcl")
	cli, ctx := parse(t, "play", "--config", missing, "--decks", "6", "--chips", "1000", "--log-level", "debug", "--no-color")
	assert.Equal(t, "play", ctx.Command())

	cfg, err := cli.Play.load()
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Table.Decks)
	assert.Equal(t, 1000, cfg.Table.StartingChips)
	assert.Equal(t, "debug", cfg.UI.LogLevel)
	assert.True(t, cfg.UI.NoColor)
	assert.Equal(t, 500, cfg.Table.TopUpThreshold, "unset values keep their defaults")
}

func TestPlayEnvOverridesConfig(t *testing.T) {
	t.Setenv("BLACKJACK_DECKS", "2")
	t.Setenv("BLACKJACK_ODDS_SAMPLES", "500")

	cli, _ := parse(t, "play", "--config", filepath.Join(t.TempDir(), "none.hcl"))
	cfg, err := cli.Play.load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Table.Decks)
	assert.Equal(t, 500, cfg.UI.OddsSamples)
}

func TestPlayBoolFlagsOverrideConfigBothWays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
ui {
  show_odds = true
  no_color  = true
}
`), 0o644))

	cli, _ := parse(t, "play", "--config", path)
	cfg, err := cli.Play.load()
	require.NoError(t, err)
	assert.True(t, cfg.UI.ShowOdds, "file value kept when the flag is unset")
	assert.True(t, cfg.UI.NoColor)

	cli, _ = parse(t, "play", "--config", path, "--show-odds=false", "--no-color=false")
	cfg, err = cli.Play.load()
	require.NoError(t, err)
	assert.False(t, cfg.UI.ShowOdds)
	assert.False(t, cfg.UI.NoColor)

	t.Setenv("BLACKJACK_SHOW_ODDS", "false")
	cli, _ = parse(t, "play", "--config", path)
	cfg, err = cli.Play.load()
	require.NoError(t, err)
	assert.False(t, cfg.UI.ShowOdds)
}

func TestPlayRejectsInvalidOverrides(t *testing.T) {
	cli, _ := parse(t, "play", "--config", filepath.Join(t.TempDir(), "none.hcl"), "--decks", "12")
	_, err := cli.Play.load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestHouseRules(t *testing.T) {
	lines := houseRules(config.DefaultConfig())
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "1 deck(s)")
}
