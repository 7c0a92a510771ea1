package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}

// CompositeHealthChecker is healthy only when every checker is.
type CompositeHealthChecker []HealthChecker

func NewCompositeHealthChecker(checkers ...HealthChecker) CompositeHealthChecker {
	out := make(CompositeHealthChecker, 0, len(checkers))
	for _, c := range checkers {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (hc CompositeHealthChecker) Healthy(ctx context.Context) bool {
	for _, c := range hc {
		if !c.Healthy(ctx) {
			return false
		}
	}
	return true
}

// HealthFunc adapts a plain function to HealthChecker.
type HealthFunc func(ctx context.Context) bool

func (f HealthFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}
