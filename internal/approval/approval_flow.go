package approval

// Role labels used in flow configuration and on steps.
const (
	RoleSupervisor = "supervisor"
	RoleHR         = "hr"
)

// RoleSlot is one position in an approval chain: who acts (by role) and which
// pending status the request carries while that slot is active.
type RoleSlot struct {
	Role          string
	PendingStatus string
}

// Flows maps an entity type to its ordered approval chain. Resolution of the
// chain happens once, at submission; the action processor never branches on
// entity type.
type Flows map[string][]RoleSlot

// DefaultFlows covers the entity types the intranet submits for approval.
// Unknown types fall back to a single supervisor slot.
func DefaultFlows() Flows {
	twoStep := []RoleSlot{
		{Role: RoleSupervisor, PendingStatus: StatusPendingSupervisor},
		{Role: RoleHR, PendingStatus: StatusPendingHR},
	}
	return Flows{
		"document": twoStep,
		"training": twoStep,
		"policy":   {{Role: RoleSupervisor, PendingStatus: StatusPendingSupervisor}},
	}
}

func (f Flows) SlotsFor(entityType string) []RoleSlot {
	if slots, ok := f[entityType]; ok && len(slots) > 0 {
		return slots
	}
	return []RoleSlot{{Role: RoleSupervisor, PendingStatus: StatusPendingSupervisor}}
}

// PendingStatusFor returns the request status while a step of the given role
// is active within the entity type's chain.
func (f Flows) PendingStatusFor(entityType, role string) string {
	for _, slot := range f.SlotsFor(entityType) {
		if slot.Role == role {
			return slot.PendingStatus
		}
	}
	return StatusPendingSupervisor
}
