package app

import (
	"fmt"

	identityRepository "github.com/ryuqq/authhub/internal/identity/repository"
	identityService "github.com/ryuqq/authhub/internal/identity/service"
	identityUseCase "github.com/ryuqq/authhub/internal/identity/usecase"
)

// UserRepository returns the user directory repository instance.
func (c *Container) UserRepository() (identityUseCase.UserRepository, error) {
	c.userRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["userRepo"] = fmt.Errorf("failed to get database for user repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.userRepo = identityRepository.NewMySQLUserRepository(db)
		case "postgres":
			c.userRepo = identityRepository.NewPostgreSQLUserRepository(db)
		default:
			c.initErrors["userRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["userRepo"]; exists {
		return nil, err
	}
	return c.userRepo, nil
}

// PasswordService returns the Argon2id password service.
func (c *Container) PasswordService() identityService.PasswordService {
	c.passwordSvcInit.Do(func() {
		c.passwordService = identityService.NewPasswordService()
	})
	return c.passwordService
}

// IdentityUseCase returns the identity use case instance.
func (c *Container) IdentityUseCase() (identityUseCase.IdentityUseCase, error) {
	c.identityUCInit.Do(func() {
		repo, err := c.UserRepository()
		if err != nil {
			c.initErrors["identityUseCase"] = err
			return
		}
		c.identityUC = identityUseCase.NewIdentityUseCase(repo, c.PasswordService(), c.Logger())
	})
	if err, exists := c.initErrors["identityUseCase"]; exists {
		return nil, err
	}
	return c.identityUC, nil
}
