package tx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type plainRunner struct{}

func (plainRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestAtomic(t *testing.T) {
	assert.True(t, Atomic(NewPostgresRunner(nil, 0)))
	assert.False(t, Atomic(NewMemoryRunner()))
	assert.False(t, Atomic(plainRunner{}))
}
