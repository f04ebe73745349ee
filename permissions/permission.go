// Package permissions loads the embedded route rules used by the RBAC
// middleware. Paths are chi route patterns, e.g. /api/reservations/{id}.
package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"vcardops/shared/constant"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleSuperAdmin, constant.RoleAdmin, constant.RoleFinance, constant.RoleUser}

// Permission is the rule for one route. Skip makes the route public; an empty
// Permissions list admits any authenticated role.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// PermissionData is the whole rule file. A top level Skip disables RBAC.
type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func routeKey(path, method string) string {
	return strings.ToUpper(method) + " " + strings.TrimSuffix(path, "/")
}

// FindPermissions returns the rule for path and method, ignoring a trailing
// slash. The zero Permission means no rule.
func (p *PermissionData) FindPermissions(path, method string) Permission {
	if p.index != nil {
		return p.index[routeKey(path, method)]
	}

	idx := slices.IndexFunc(p.Endpoints, func(rule Permission) bool {
		return routeKey(rule.Path, rule.Method) == routeKey(path, method)
	})
	if idx == -1 {
		return Permission{}
	}

	return p.Endpoints[idx]
}

// Parse decodes a rule file, rejecting duplicate routes and unknown roles.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData
	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	permissions.index = make(map[string]Permission, len(permissions.Endpoints))

	for _, rule := range permissions.Endpoints {
		key := routeKey(rule.Path, rule.Method)
		if _, dup := permissions.index[key]; dup {
			return nil, fmt.Errorf("duplicate permission for %s", key)
		}

		for _, role := range rule.Permissions {
			if !slices.Contains(knownRoles, role) {
				return nil, fmt.Errorf("unknown role %q for %s", role, key)
			}
		}

		permissions.index[key] = rule
	}

	return &permissions, nil
}

// Get returns the embedded rules, or nil when they cannot be parsed, which
// makes RBAC deny every request.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Loaded embedded permissions")

	return permissions
}
