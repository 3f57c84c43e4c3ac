package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"so4tdelete/internal/deletion/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), &out, io.Discard, []string{"-h"})
	assert.NoError(t, err)
}

func TestRunInvalidConfig(t *testing.T) {
	t.Setenv("SO4T_URL", "")
	t.Setenv("SO4T_CSV", "")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing url", args: []string{"-csv", "users.csv"}},
		{name: "bad chunk size", args: []string{"-url", "https://acme.stackenterprise.co", "-csv", "users.csv", "-chunk-size", "0"}},
		{name: "unknown flag", args: []string{"-nope"}},
		{name: "list history without store", args: []string{"-url", "https://acme.stackenterprise.co", "-list-history"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), io.Discard, io.Discard, tt.args)
			var exitErr *app.ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, app.ExitInvalidInput, exitErr.Code)
		})
	}
}

func TestRunListHistoryEmpty(t *testing.T) {
	t.Setenv("SO4T_LOG_LEVEL", "error")
	var out bytes.Buffer
	err := run(context.Background(), &out, io.Discard, []string{
		"-url", "https://acme.stackenterprise.co",
		"-list-history",
		"-history-db", filepath.Join(t.TempDir(), "history.db"),
	})
	require.NoError(t, err)
	assert.Equal(t, "No deletion history recorded.\n", out.String())
}

func TestRunMissingCSVFile(t *testing.T) {
	t.Setenv("SO4T_LOG_LEVEL", "error")
	err := run(context.Background(), io.Discard, io.Discard, []string{
		"-url", "https://acme.stackenterprise.co",
		"-csv", filepath.Join(t.TempDir(), "missing.csv"),
	})
	var exitErr *app.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, app.ExitInvalidInput, exitErr.Code)
}
