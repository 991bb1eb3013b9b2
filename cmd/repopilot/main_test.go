package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	main "repopilot/cmd/repopilot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext returns a background context for tests.
func testContext() context.Context {
	return context.Background()
}

func TestMain_Run(t *testing.T) {
	t.Run("returns error when no command specified", func(t *testing.T) {
		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), nil, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("help exits cleanly", func(t *testing.T) {
		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"--help"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "repopilot")
	})

	t.Run("sessions command runs against a fresh database", func(t *testing.T) {
		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")
		defer m.Close()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"sessions"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No active sessions")
	})

	t.Run("rejects unknown command", func(t *testing.T) {
		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"bogus"}, stdout, stderr)

		require.Error(t, err)
	})
}
