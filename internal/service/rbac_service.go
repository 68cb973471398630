package service

import "github.com/schoolsuite/institute-admin-api/internal/domain"

// RBACService derives boolean capabilities from codename sets. It replaces
// the per-screen string matching the admin UI used to re-implement inline.
type RBACService struct{}

func NewRBACService() *RBACService { return &RBACService{} }

func (s *RBACService) PermissionsFromGroup(group *domain.Group) []string {
	if group == nil {
		return nil
	}
	set := map[string]struct{}{}
	for _, p := range group.Permissions {
		set[p.Codename] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func (s *RBACService) HasPermission(codenames []string, required string) bool {
	for _, c := range codenames {
		if c == required {
			return true
		}
	}
	return false
}

func (s *RBACService) Can(codenames []string, action, resource string) bool {
	return s.HasPermission(codenames, domain.Codename(action, resource))
}
