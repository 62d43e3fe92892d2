package clipboard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/startpage/internal/infrastructure/clipboard"
)

func TestAdapter_ReadWrite(t *testing.T) {
	var stored string
	a := clipboard.NewWithFuncs(
		func() (string, error) { return stored, nil },
		func(s string) error { stored = s; return nil },
	)

	require.NoError(t, a.WriteText(context.Background(), "https://go.dev\n"))
	text, err := a.ReadText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://go.dev", text)
}

func TestAdapter_Errors(t *testing.T) {
	boom := errors.New("exit status 1")
	a := clipboard.NewWithFuncs(
		func() (string, error) { return "", boom },
		func(string) error { return boom },
	)

	_, err := a.ReadText(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, a.WriteText(context.Background(), "x"), boom)
}
