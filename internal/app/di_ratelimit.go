package app

import (
	ratelimitRepository "github.com/ryuqq/authhub/internal/ratelimit/repository"
	ratelimitUseCase "github.com/ryuqq/authhub/internal/ratelimit/usecase"
)

// CounterRepository returns the Redis-backed rate limit counter store.
func (c *Container) CounterRepository() ratelimitUseCase.CounterRepository {
	c.counterRepoInit.Do(func() {
		c.counterRepo = ratelimitRepository.NewRedisCounterRepository(
			c.RedisClient(), c.config.StoreTimeout)
	})
	return c.counterRepo
}

// RateLimitUseCase returns the rate limit use case instance.
func (c *Container) RateLimitUseCase() (ratelimitUseCase.RateLimitUseCase, error) {
	c.rateLimitUCInit.Do(func() {
		bm, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["rateLimitUseCase"] = err
			return
		}

		c.rateLimitUC = ratelimitUseCase.NewRateLimitUseCaseWithMetrics(
			ratelimitUseCase.NewRateLimitUseCase(c.CounterRepository(), c.Logger()), bm)
	})
	if err, exists := c.initErrors["rateLimitUseCase"]; exists {
		return nil, err
	}
	return c.rateLimitUC, nil
}
