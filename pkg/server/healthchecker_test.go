package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompositeHealthChecker(t *testing.T) {
	up := HealthFunc(func(context.Context) bool { return true })
	down := HealthFunc(func(context.Context) bool { return false })
	ctx := context.Background()

	assert.True(t, NewCompositeHealthChecker().Healthy(ctx))
	assert.True(t, NewCompositeHealthChecker(up, nil, NewOkHealthChecker()).Healthy(ctx))
	assert.False(t, NewCompositeHealthChecker(up, down).Healthy(ctx))
}
