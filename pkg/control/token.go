package control

import "context"

// Token is a cooperative cancellation flag. The zero value is not usable; create
// one with NewToken.
type Token struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewToken creates a token that is also cancelled when parent is done.
func NewToken(parent context.Context) *Token {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Token{ctx: ctx, cancel: cancel}
}

// Cancel requests early termination. Safe to call multiple times and from any goroutine.
func (t *Token) Cancel() {
	t.cancel()
}

// Cancelled reports whether cancellation was requested.
func (t *Token) Cancelled() bool {
	return t.ctx.Err() != nil
}

// Context returns a context that is done once the token is cancelled. Runners pass it
// to Clock.Gate and Clock.Tick so that a cancel releases them.
func (t *Token) Context() context.Context {
	return t.ctx
}

// Done is shorthand for Context().Done().
func (t *Token) Done() <-chan struct{} {
	return t.ctx.Done()
}
