package ops

import (
	"strings"

	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
)

// StaffPatch carries the fields to change; nil fields are left alone.
type StaffPatch struct {
	Name    *string
	Role    *string
	StoreID *string
	Active  *bool
}

// AddStaffMember appends an active member with the next free id and zeroed counters.
func (s State) AddStaffMember(member Staff) (State, Staff, error) {
	if strings.TrimSpace(member.Name) == "" {
		return s, Staff{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	next := s.Clone()
	highest := 0
	for _, existing := range next.Staff {
		highest = max(highest, existing.ID)
	}
	member.ID = highest + 1
	member.Assigned = 0
	member.Completed = 0
	member.Active = true
	next.Staff = append(next.Staff, member)
	return next, member, nil
}

func (s State) UpdateStaffMember(id int, patch StaffPatch) (State, Staff, error) {
	idx := s.staffIndex(id)
	if idx < 0 {
		return s, Staff{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "staff member %d not found", id)
	}
	next := s.Clone()
	member := &next.Staff[idx]
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return s, Staff{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		member.Name = *patch.Name
	}
	if patch.Role != nil {
		member.Role = *patch.Role
	}
	if patch.StoreID != nil {
		member.StoreID = *patch.StoreID
	}
	if patch.Active != nil {
		member.Active = *patch.Active
	}
	return next, *member, nil
}

// RemoveStaffMember deactivates the member and returns their open orders to
// the pending pool. Terminal orders keep their assignee.
func (s State) RemoveStaffMember(id int) (State, error) {
	idx := s.staffIndex(id)
	if idx < 0 {
		return s, pkgerrors.Newf(pkgerrors.CodeNotFound, "staff member %d not found", id)
	}
	next := s.Clone()
	member := &next.Staff[idx]
	member.Active = false
	for i := range next.Orders {
		order := &next.Orders[i]
		if order.Assigned != member.Name || order.Status.IsTerminal() {
			continue
		}
		order.Assigned = ""
		order.Status = enums.OrderStatusPending
		member.Assigned = max(member.Assigned-1, 0)
	}
	return next, nil
}
