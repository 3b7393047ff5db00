package app

import (
	tokenService "github.com/ryuqq/authhub/internal/token/service"
	tokenUseCase "github.com/ryuqq/authhub/internal/token/usecase"
)

// TokenService returns the JWT signing and verification service.
func (c *Container) TokenService() tokenService.TokenService {
	c.tokenSvcInit.Do(func() {
		c.tokenService = tokenService.NewJWTService(c.config.JWTSecretKey, c.config.JWTIssuer)
	})
	return c.tokenService
}

// TokenUseCase returns the token lifecycle use case instance.
func (c *Container) TokenUseCase() (tokenUseCase.TokenUseCase, error) {
	c.tokenUCInit.Do(func() {
		identityUC, err := c.IdentityUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		revocationUC, err := c.RevocationUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		bm, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}

		c.tokenUC = tokenUseCase.NewTokenUseCaseWithMetrics(
			tokenUseCase.NewTokenUseCase(
				identityUC,
				c.TokenService(),
				revocationUC,
				c.config.AccessTokenExpiration,
				c.config.RefreshTokenExpiration,
				c.Logger(),
			), bm)
	})
	if err, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, err
	}
	return c.tokenUC, nil
}
