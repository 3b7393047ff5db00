package app

import (
	"fmt"

	policyRepository "github.com/ryuqq/authhub/internal/policy/repository"
	policyUseCase "github.com/ryuqq/authhub/internal/policy/usecase"
)

// PolicyRepository returns the endpoint policy repository instance.
func (c *Container) PolicyRepository() (policyUseCase.PolicyRepository, error) {
	c.policyRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["policyRepo"] = fmt.Errorf("failed to get database for policy repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.policyRepo = policyRepository.NewMySQLPolicyRepository(db)
		case "postgres":
			c.policyRepo = policyRepository.NewPostgreSQLPolicyRepository(db)
		default:
			c.initErrors["policyRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["policyRepo"]; exists {
		return nil, err
	}
	return c.policyRepo, nil
}

// PolicyRegistry returns the active policy table registry. The table is empty
// until the first Reload.
func (c *Container) PolicyRegistry() (policyUseCase.PolicyRegistry, error) {
	c.policyRegistryInit.Do(func() {
		repo, err := c.PolicyRepository()
		if err != nil {
			c.initErrors["policyRegistry"] = err
			return
		}
		c.policyRegistry = policyUseCase.NewPolicyRegistry(repo, c.Logger())
	})
	if err, exists := c.initErrors["policyRegistry"]; exists {
		return nil, err
	}
	return c.policyRegistry, nil
}

// PolicyUseCase returns the policy management use case instance.
func (c *Container) PolicyUseCase() (policyUseCase.PolicyUseCase, error) {
	c.policyUCInit.Do(func() {
		repo, err := c.PolicyRepository()
		if err != nil {
			c.initErrors["policyUseCase"] = err
			return
		}
		registry, err := c.PolicyRegistry()
		if err != nil {
			c.initErrors["policyUseCase"] = err
			return
		}
		bm, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["policyUseCase"] = err
			return
		}

		c.policyUC = policyUseCase.NewPolicyUseCaseWithMetrics(
			policyUseCase.NewPolicyUseCase(repo, registry, c.Logger()), bm)
	})
	if err, exists := c.initErrors["policyUseCase"]; exists {
		return nil, err
	}
	return c.policyUC, nil
}

// AuthorizationUseCase returns the authorization use case instance.
func (c *Container) AuthorizationUseCase() (policyUseCase.AuthorizationUseCase, error) {
	c.authorizationInit.Do(func() {
		registry, err := c.PolicyRegistry()
		if err != nil {
			c.initErrors["authorizationUseCase"] = err
			return
		}
		bm, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["authorizationUseCase"] = err
			return
		}

		c.authorizationUC = policyUseCase.NewAuthorizationUseCaseWithMetrics(
			policyUseCase.NewAuthorizationUseCase(registry, c.Logger()), bm)
	})
	if err, exists := c.initErrors["authorizationUseCase"]; exists {
		return nil, err
	}
	return c.authorizationUC, nil
}
