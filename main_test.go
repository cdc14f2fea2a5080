package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiihelp/internal/config"
)

func TestRootCmd_FlagsOverrideConfig(t *testing.T) {
	cfg := config.NewConfig()
	cmd := newRootCmd(cfg)

	require.NoError(t, cmd.ParseFlags([]string{
		"--answer-url", "https://fiihelp.example.ro",
		"--timeout", "15s",
		"--record-command", "parecord,--raw,-",
		"--plain",
		"-v",
	}))

	assert.Equal(t, "https://fiihelp.example.ro", cfg.AnswerURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"parecord", "--raw", "-"}, cfg.RecordCommand)
	assert.True(t, cfg.Plain)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "auto", cfg.Style)
}

func TestRootCmd_RejectsInvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.LogPath = ""
	cmd := newRootCmd(cfg)
	cmd.SetArgs([]string{"--answer-url", "not a url"})
	cmd.SilenceErrors = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration error")
}
