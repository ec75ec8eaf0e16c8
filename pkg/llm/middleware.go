package llm

import (
	"context"
	"math/rand/v2"
	"time"

	"news-hallucination/config"

	"github.com/cenkalti/backoff/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RetryingRequester 失败时按随机指数退避重试，超过次数后把最后一次错误返回给调用方
type RetryingRequester struct {
	name  string
	next  Requester
	retry config.RetryConfig
}

func NewRetryingRequester(name string, next Requester, retry *config.RetryConfig) *RetryingRequester {
	return &RetryingRequester{name: name, next: next, retry: *retry}
}

func (r *RetryingRequester) Request(ctx context.Context, query string) (string, error) {
	b := newBoundedBackOff(r.retry.InitialInterval, r.retry.MaxInterval)

	attempt := 0
	res, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		return r.next.Request(ctx, query)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(r.retry.MaxAttempts)),
		backoff.WithMaxElapsedTime(time.Duration(r.retry.MaxAttempts)*r.retry.MaxInterval*2),
		backoff.WithNotify(func(err error, wait time.Duration) {
			zap.S().Warnf("%s 第 %d 次请求失败，%s 后重试: %v", r.name, attempt, wait.Round(time.Millisecond), err)
		}),
	)
	if err != nil {
		return "", errors.Wrapf(err, "%s 请求 %d 次后仍失败", r.name, attempt)
	}
	return res, nil
}

// boundedBackOff 第 n 次等待在 [floor, min(ceil, floor*2^(n-1))] 内均匀取值，
// 任何一次等待都不会小于 floor 或大于 ceil
type boundedBackOff struct {
	floor   time.Duration
	ceil    time.Duration
	attempt int
}

var _ backoff.BackOff = (*boundedBackOff)(nil)

func newBoundedBackOff(floor, ceil time.Duration) *boundedBackOff {
	if ceil < floor {
		ceil = floor
	}
	return &boundedBackOff{floor: floor, ceil: ceil}
}

func (b *boundedBackOff) NextBackOff() time.Duration {
	upper := b.ceil
	if b.attempt < 32 {
		if exp := b.floor << b.attempt; exp > 0 && exp < upper {
			upper = exp
		}
	}
	b.attempt++
	if upper <= b.floor {
		return b.floor
	}
	return b.floor + rand.N(upper-b.floor+1)
}

func (b *boundedBackOff) Reset() {
	b.attempt = 0
}

// RateLimitedRequester 限制每秒请求数
type RateLimitedRequester struct {
	next    Requester
	limiter *rate.Limiter
}

func NewRateLimitedRequester(next Requester, rps float64) *RateLimitedRequester {
	return &RateLimitedRequester{next: next, limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

func (r *RateLimitedRequester) Request(ctx context.Context, query string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "等待限流失败")
	}
	return r.next.Request(ctx, query)
}
