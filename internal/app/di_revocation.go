package app

import (
	revocationRepository "github.com/ryuqq/authhub/internal/revocation/repository"
	revocationUseCase "github.com/ryuqq/authhub/internal/revocation/usecase"
)

// RevocationRepository returns the Redis-backed revocation store.
func (c *Container) RevocationRepository() revocationUseCase.RevocationRepository {
	c.revokedRepoInit.Do(func() {
		c.revokedRepo = revocationRepository.NewRedisRevocationRepository(
			c.RedisClient(), c.config.StoreTimeout)
	})
	return c.revokedRepo
}

// RevocationUseCase returns the revocation use case instance.
func (c *Container) RevocationUseCase() (revocationUseCase.RevocationUseCase, error) {
	c.revocationUCInit.Do(func() {
		bm, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["revocationUseCase"] = err
			return
		}

		c.revocationUC = revocationUseCase.NewRevocationUseCaseWithMetrics(
			revocationUseCase.NewRevocationUseCase(c.RevocationRepository(), c.Logger()), bm)
	})
	if err, exists := c.initErrors["revocationUseCase"]; exists {
		return nil, err
	}
	return c.revocationUC, nil
}
