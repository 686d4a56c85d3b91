package middleware

import (
	"fmt"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// rbacModel is the Casbin configuration model: role inheritance on the
// subject, path wildcard matching on the object, exact method matching on
// the action.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// adminPolicies grants the admin role the whole management API. Customers
// hold no grants here; the management surface is admin-only.
var adminPolicies = [][]string{
	{"admin", "/api/v1/*", "(GET)|(POST)|(PATCH)|(DELETE)"},
}

// RBACMiddleware authorizes authenticated requests by role using Casbin.
type RBACMiddleware struct {
	enforcer casbin.IEnforcer
}

// NewRBACMiddleware builds the enforcer from the embedded model and policy set.
func NewRBACMiddleware() (*RBACMiddleware, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("parse rbac model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create rbac enforcer: %w", err)
	}

	if _, err := enforcer.AddPolicies(adminPolicies); err != nil {
		return nil, fmt.Errorf("add rbac policies: %w", err)
	}

	return &RBACMiddleware{enforcer: enforcer}, nil
}

// Handler returns an HTTP middleware that enforces (role, path, method).
// Requests without a role in context were not authenticated and are
// rejected outright.
func (m *RBACMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := GetUserRoleFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		allowed, err := m.enforcer.Enforce(role, r.URL.Path, r.Method)
		if err != nil {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if !allowed {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
