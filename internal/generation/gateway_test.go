package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatchesSentinelByKind(t *testing.T) {
	cause := errors.New("connection refused")

	u := unavailable("http", cause)
	assert.ErrorIs(t, u, ErrUnavailable)
	assert.NotErrorIs(t, u, ErrFailed)
	assert.ErrorIs(t, u, cause)
	assert.Equal(t, "http backend: generation unavailable: connection refused", u.Error())

	f := failed("stub", nil)
	assert.ErrorIs(t, f, ErrFailed)
	assert.NotErrorIs(t, f, ErrUnavailable)
	assert.Equal(t, "stub backend: generation failed", f.Error())

	wrapped := fmt.Errorf("interpret: %w", u)
	var gerr *Error
	require.ErrorAs(t, wrapped, &gerr)
	assert.Equal(t, KindUnavailable, gerr.Kind)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnavailable, KindOf(unavailable("x", nil)))
	assert.Equal(t, KindFailed, KindOf(failed("x", nil)))
	assert.Equal(t, KindFailed, KindOf(errors.New("boom")))
}

func TestStatusVariants(t *testing.T) {
	r := ReadyStatus()
	assert.True(t, r.Ready())
	assert.False(t, r.Loading())
	assert.NoError(t, r.LastError())
	assert.Equal(t, "ready", r.String())

	l := LoadingStatus()
	assert.True(t, l.Loading())
	assert.False(t, l.Ready())

	u := UnavailableStatus("model not loaded")
	assert.False(t, u.Ready())
	require.Error(t, u.LastError())
	assert.Equal(t, "model not loaded", u.LastError().Error())
	assert.Equal(t, "unavailable (model not loaded)", u.String())

	f := Status{State: StateReady, Reason: "server returned 500"}
	assert.True(t, f.Ready())
	require.Error(t, f.LastError())
	assert.Equal(t, "ready (server returned 500)", f.String())
}

func TestDisabled(t *testing.T) {
	var gw Gateway = Disabled{}
	_, err := gw.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, StateUnavailable, gw.Status().State)
}
