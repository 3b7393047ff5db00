package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	apperrors "github.com/ryuqq/authhub/internal/errors"
	policyDomain "github.com/ryuqq/authhub/internal/policy/domain"
)

// policyTable is one immutable generation of compiled policies. Resolve walks
// the per-method slice, which is sorted most specific first.
type policyTable struct {
	byMethod map[policyDomain.Method][]*policyDomain.EndpointPolicy
	size     int
}

// registry implements PolicyRegistry with an atomically swapped table.
// In-flight Resolve calls keep reading the generation they loaded; a Reload
// never exposes a half-built table.
type registry struct {
	repository PolicyRepository
	logger     *slog.Logger
	table      atomic.Pointer[policyTable]
}

// NewPolicyRegistry creates a registry with an empty active table. Call Reload
// during startup to install the first real table; until then every Resolve
// reports ErrPolicyNotFound.
func NewPolicyRegistry(repository PolicyRepository, logger *slog.Logger) PolicyRegistry {
	r := &registry{
		repository: repository,
		logger:     logger,
	}
	r.table.Store(&policyTable{byMethod: map[policyDomain.Method][]*policyDomain.EndpointPolicy{}})
	return r
}

// Resolve returns the highest-specificity policy matching (method, path).
func (r *registry) Resolve(
	method policyDomain.Method,
	path string,
) (*policyDomain.EndpointPolicy, error) {
	table := r.table.Load()

	for _, policy := range table.byMethod[method] {
		if policy.Pattern.Matches(path) {
			return policy, nil
		}
	}

	return nil, policyDomain.ErrPolicyNotFound
}

// Reload rebuilds the table from the policy source and swaps it in atomically.
func (r *registry) Reload(ctx context.Context) error {
	definitions, err := r.repository.ListAll(ctx)
	if err != nil {
		return apperrors.Wrap(err, "failed to load policy definitions")
	}

	table, err := buildPolicyTable(definitions)
	if err != nil {
		return err
	}

	r.table.Store(table)
	r.logger.Info("policy table reloaded", slog.Int("policies", table.size))
	return nil
}

// Size returns the number of policies in the active table.
func (r *registry) Size() int {
	return r.table.Load().size
}

// buildPolicyTable compiles every definition and validates the table as a
// whole. Any error is fatal for the build: the caller keeps the previous
// table, and at startup the service refuses to become ready.
func buildPolicyTable(definitions []*policyDomain.PolicyDefinition) (*policyTable, error) {
	table := &policyTable{
		byMethod: make(map[policyDomain.Method][]*policyDomain.EndpointPolicy),
	}

	registered := make(map[string]struct{}, len(definitions))

	for _, definition := range definitions {
		method := policyDomain.ParseMethodOrDefault(definition.Method)

		pattern, err := policyDomain.CompilePattern(definition.Pattern)
		if err != nil {
			return nil, apperrors.Wrap(err, fmt.Sprintf("policy %q", definition.Pattern))
		}

		key := string(method) + " " + definition.Pattern
		if _, ok := registered[key]; ok {
			return nil, apperrors.Wrap(
				policyDomain.ErrDuplicatePolicy,
				fmt.Sprintf("%s %s", method, definition.Pattern),
			)
		}
		registered[key] = struct{}{}

		policy := &policyDomain.EndpointPolicy{
			ID:                  definition.ID,
			Method:              method,
			Pattern:             pattern,
			RequiredRoles:       policyDomain.NewRequirementSet(definition.RequiredRoles...),
			RequiredPermissions: policyDomain.NewRequirementSet(definition.RequiredPermissions...),
			Public:              definition.Public,
			Description:         definition.Description,
			CreatedAt:           definition.CreatedAt,
		}

		// Two patterns the specificity ranking cannot separate must never both
		// match a constructible path.
		for _, existing := range table.byMethod[method] {
			if policy.Pattern.CompareSpecificity(existing.Pattern) == 0 &&
				policy.Pattern.OverlapsWith(existing.Pattern) {
				return nil, apperrors.Wrap(
					policyDomain.ErrAmbiguousPolicy,
					fmt.Sprintf("%s %s ties with %s", method, definition.Pattern, existing.Pattern.String()),
				)
			}
		}

		table.byMethod[method] = append(table.byMethod[method], policy)
		table.size++
	}

	// Most specific first so Resolve can return the first match.
	for method := range table.byMethod {
		policies := table.byMethod[method]
		sort.SliceStable(policies, func(i, j int) bool {
			return policies[i].Pattern.CompareSpecificity(policies[j].Pattern) < 0
		})
	}

	return table, nil
}
