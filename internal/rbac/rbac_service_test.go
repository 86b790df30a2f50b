package rbac

import (
	"testing"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"
)

type mockRepo struct{}

func (m *mockRepo) GetStaffRoles(propertyID string) ([]StaffRoleRow, error) {
	return []StaffRoleRow{
		{
			StaffID: "staff-1",
			RoleID:  "role-hr",
		},
	}, nil
}

func (m *mockRepo) GetRolePermissions(propertyID string) ([]RolePermissionRow, error) {
	return []RolePermissionRow{
		{
			RoleID:   "role-hr",
			Resource: "approval",
			Action:   "act",
		},
	}, nil
}

func (m *mockRepo) ListRoles(propertyID string) ([]RoleRow, error)          { return nil, nil }
func (m *mockRepo) GetRoleByID(id string) (*RoleRow, error)                 { return nil, nil }
func (m *mockRepo) GetRoleByName(propertyID, name string) (*RoleRow, error) { return nil, nil }
func (m *mockRepo) CreateRole(role *RoleRow) error                          { return nil }
func (m *mockRepo) UpdateRole(role *RoleRow) error                          { return nil }
func (m *mockRepo) DeleteRole(id string) error                              { return nil }
func (m *mockRepo) ListPermissions() ([]PermissionRow, error)               { return nil, nil }
func (m *mockRepo) GetPermissionsByRoleID(roleID string) ([]PermissionRow, error) {
	return nil, nil
}
func (m *mockRepo) UpdateRolePermissions(roleID string, permIDs []string) error { return nil }

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	modelText := `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && r.obj == p.obj && r.act == p.act
`

	m, err := model.NewModelFromString(modelText)
	assert.NoError(t, err)

	e, err := casbin.NewEnforcer(m)
	assert.NoError(t, err)

	return e
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &mockRepo{}
	enforcer := newTestEnforcer(t)

	service := NewService(repo, enforcer)

	err := service.LoadPropertyPolicy("property-1")
	assert.NoError(t, err)

	// Should allow
	allowed, err := service.Enforce(domain.EnforceRequest{
		StaffID:    "staff-1",
		PropertyID: "property-1",
		Resource:   "approval",
		Action:     "act",
	})

	assert.NoError(t, err)
	assert.True(t, allowed)

	// Should deny
	denied, err := service.Enforce(domain.EnforceRequest{
		StaffID:    "staff-1",
		PropertyID: "property-1",
		Resource:   "staff",
		Action:     "delete",
	})

	assert.NoError(t, err)
	assert.False(t, denied)
}

func TestRBACService_DomainIsolation(t *testing.T) {
	repo := &mockRepo{}
	enforcer := newTestEnforcer(t)

	service := NewService(repo, enforcer)

	// Policy rows are loaded for the request's property only; a grant from
	// one property never leaks into another.
	allowed, err := service.Enforce(domain.EnforceRequest{
		StaffID:    "staff-1",
		PropertyID: "property-2",
		Resource:   "approval",
		Action:     "act",
	})

	assert.NoError(t, err)
	assert.True(t, allowed)

	crossDomain, err := enforcer.Enforce("staff-1", "property-1", "approval", "act")
	assert.NoError(t, err)
	assert.False(t, crossDomain)
}
