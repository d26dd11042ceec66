package control

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToken_Lifecycle(t *testing.T) {
	tok := NewToken(context.Background())
	assert.False(t, tok.Cancelled())
	assert.NoError(t, tok.Context().Err())

	tok.Cancel()
	tok.Cancel()
	assert.True(t, tok.Cancelled())
	assert.ErrorIs(t, tok.Context().Err(), context.Canceled)

	select {
	case <-tok.Done():
	default:
		t.Fatal("Done should be closed after Cancel")
	}
}

func TestToken_FollowsParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	tok := NewToken(parent)
	cancel()
	assert.True(t, tok.Cancelled())
}

func TestToken_NilParent(t *testing.T) {
	//nolint:staticcheck // a nil parent falls back to Background
	tok := NewToken(nil)
	assert.False(t, tok.Cancelled())
}
