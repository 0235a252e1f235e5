package welcome

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sockmount/sockmount/internal/ctxlog"
	"github.com/sockmount/sockmount/internal/testutil"
	"github.com/sockmount/sockmount/registry"
)

func TestGreet_UsesFirstStringExtra(t *testing.T) {
	t.Parallel()

	conn := testutil.NewStubConn("c1")

	require.NoError(t, Greet(nil, conn, 42, "hi there", "ignored"))

	events := conn.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "welcome", events[0].Event)
	assert.Equal(t, []any{"hi there", "c1"}, events[0].Args)
}

func TestGreet_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	conn := testutil.NewStubConn("c1")

	require.NoError(t, Greet(nil, conn, 42))

	events := conn.Events()
	require.Len(t, events, 1)
	assert.Equal(t, []any{DefaultGreeting, "c1"}, events[0].Args)
}

func TestModule_RegistersValidExports(t *testing.T) {
	t.Parallel()

	r := registry.New(&Module{})

	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, r.Validate(ctx))
	assert.Equal(t, []string{Name}, r.Names())
}
