package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testCommand struct {
	fail bool
}

func (c testCommand) Validate() error {
	if c.fail {
		return errors.New("invalid")
	}
	return nil
}

type otherCommand struct{}

func (c otherCommand) Validate() error { return nil }

func TestCommandBus(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches to the registered handler", func(t *testing.T) {
		b := NewCommandBus()
		var handled Command
		require.NoError(t, b.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			handled = cmd
			return nil
		})))

		require.NoError(t, b.Send(ctx, testCommand{}))
		assert.Equal(t, testCommand{}, handled)
	})

	t.Run("validates before dispatching", func(t *testing.T) {
		b := NewCommandBus()
		called := false
		require.NoError(t, b.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			called = true
			return nil
		})))

		err := b.Send(ctx, testCommand{fail: true})
		require.Error(t, err)
		assert.False(t, called)
	})

	t.Run("unregistered command type fails", func(t *testing.T) {
		b := NewCommandBus()
		err := b.Send(ctx, otherCommand{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no handler registered")
	})

	t.Run("double registration fails", func(t *testing.T) {
		b := NewCommandBus()
		handler := CommandHandlerFunc(func(ctx context.Context, cmd Command) error { return nil })
		require.NoError(t, b.Register(testCommand{}, handler))
		assert.Error(t, b.Register(testCommand{}, handler))
	})
}

func TestWrap(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	handler := Wrap(CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		order = append(order, "handler")
		return nil
	}), mw("outer"), mw("inner"))

	require.NoError(t, handler.Handle(context.Background(), testCommand{}))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestLoggingMiddleware(t *testing.T) {
	b := NewCommandBus()
	wrapped := Wrap(CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		return errors.New("boom")
	}), LoggingMiddleware(zap.NewNop()))
	require.NoError(t, b.Register(testCommand{}, wrapped))

	err := b.Send(context.Background(), testCommand{})
	assert.EqualError(t, err, "boom")
}
