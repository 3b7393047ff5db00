package app

import (
	"fmt"

	auditRepository "github.com/ryuqq/authhub/internal/audit/repository"
	auditUseCase "github.com/ryuqq/authhub/internal/audit/usecase"
)

// AuditRepository returns the audit trail repository instance.
func (c *Container) AuditRepository() (auditUseCase.AuditRepository, error) {
	c.auditRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["auditRepo"] = fmt.Errorf("failed to get database for audit repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.auditRepo = auditRepository.NewMySQLAuditRepository(db)
		case "postgres":
			c.auditRepo = auditRepository.NewPostgreSQLAuditRepository(db)
		default:
			c.initErrors["auditRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if err, exists := c.initErrors["auditRepo"]; exists {
		return nil, err
	}
	return c.auditRepo, nil
}

// AuditUseCase returns the audit use case instance.
func (c *Container) AuditUseCase() (auditUseCase.AuditUseCase, error) {
	c.auditUCInit.Do(func() {
		repo, err := c.AuditRepository()
		if err != nil {
			c.initErrors["auditUseCase"] = err
			return
		}
		bm, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["auditUseCase"] = err
			return
		}

		c.auditUC = auditUseCase.NewAuditUseCaseWithMetrics(
			auditUseCase.NewAuditUseCase(repo, c.Logger()), bm)
	})
	if err, exists := c.initErrors["auditUseCase"]; exists {
		return nil, err
	}
	return c.auditUC, nil
}
