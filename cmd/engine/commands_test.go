package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mroshb/filmorate/internal/config"
	"github.com/mroshb/filmorate/internal/engine"
	"github.com/mroshb/filmorate/internal/repositories/memory"
	"github.com/mroshb/filmorate/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    uint
		wantErr bool
	}{
		{"7", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseID("userId", tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPublicError(t *testing.T) {
	assert.NoError(t, publicError(nil))

	notFound := errors.NotFound("film", 4)
	assert.Equal(t, notFound, publicError(notFound))

	internal := errors.Internal(assert.AnError, "failed to add like")
	assert.EqualError(t, publicError(internal), "internal error")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "import", "top", "director", "search", "recommend", "feed", "common-friends", "common-films"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRunImportHidesInternalErrors(t *testing.T) {
	prev := eng
	eng = engine.New(memory.NewStore(), &config.Config{DefaultTopLimit: 10, DefaultReviewLimit: 10})
	t.Cleanup(func() { eng = prev })

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	err := runImport(cmd, []string{filepath.Join(t.TempDir(), "missing.xlsx")})
	assert.EqualError(t, err, "internal error")
}
