package rbac

import (
	"log"
	"sync"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/domain"

	"github.com/casbin/casbin/v2"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPropertyPolicy(propertyID string) error
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
	}
}

func (s *service) LoadPropertyPolicy(propertyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPropertyPolicyUnlocked(propertyID)
}

func (s *service) loadPropertyPolicyUnlocked(propertyID string) error {
	s.enforcer.ClearPolicy()

	staffRoles, err := s.repo.GetStaffRoles(propertyID)
	if err != nil {
		return err
	}

	for _, sr := range staffRoles {
		_, err := s.enforcer.AddGroupingPolicy(
			sr.StaffID,
			sr.RoleID,
			propertyID,
		)
		if err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(propertyID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		_, err := s.enforcer.AddPolicy(
			rp.RoleID,
			propertyID,
			rp.Resource,
			rp.Action,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadPropertyPolicyUnlocked(req.PropertyID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.StaffID,
		req.PropertyID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		log.Printf("rbac enforce failed: staff_id=%s property_id=%s resource=%s action=%s err=%v",
			req.StaffID, req.PropertyID, req.Resource, req.Action, err)
		return false, err
	}

	return allowed, nil
}
