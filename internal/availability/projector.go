package availability

import (
	"fmt"

	"parking_reservation/internal/domain"
)

// Project trả về SlotView cho mọi slot trong inventory, theo đúng thứ tự inventory.
//
// Khi desired == nil mọi slot đều "available" và không tính xung đột. Reservation
// trỏ tới slot không có trong inventory bị bỏ qua. Reservation có interval sai
// (start >= end) làm Project trả lỗi thay vì hiển thị sai.
func Project(inventory []domain.Slot, reservations []domain.Reservation, actingUserID string, desired *domain.Interval) ([]domain.SlotView, error) {
	views := make([]domain.SlotView, 0, len(inventory))
	if desired == nil {
		for _, s := range inventory {
			views = append(views, domain.SlotView{
				SlotID:      s.ID,
				VehicleType: s.VehicleType,
				Status:      domain.SlotAvailable,
				ReservedBy:  domain.ReservedByNone,
			})
		}
		return views, nil
	}

	bySlot := make(map[string][]domain.Reservation, len(inventory))
	for _, s := range inventory {
		bySlot[s.ID] = nil
	}
	for _, r := range reservations {
		if _, known := bySlot[r.SlotID]; known {
			bySlot[r.SlotID] = append(bySlot[r.SlotID], r)
		}
	}

	for _, s := range inventory {
		view, err := projectSlot(s, bySlot[s.ID], actingUserID, *desired)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func projectSlot(s domain.Slot, held []domain.Reservation, actingUserID string, desired domain.Interval) (domain.SlotView, error) {
	view := domain.SlotView{
		SlotID:      s.ID,
		VehicleType: s.VehicleType,
		Status:      domain.SlotAvailable,
		ReservedBy:  domain.ReservedByNone,
	}

	var selfConflict, otherConflict, ownHint *domain.Reservation
	for i := range held {
		r := &held[i]
		conflict, err := Classify(desired, *r, actingUserID)
		if err != nil {
			return domain.SlotView{}, fmt.Errorf("reservation %s của slot %s: %w", r.ID, s.ID, err)
		}
		switch conflict {
		case ConflictSelf:
			if selfConflict == nil {
				selfConflict = r
			}
		case ConflictOther:
			if otherConflict == nil {
				otherConflict = r
			}
		default:
			if r.UserID == actingUserID && (ownHint == nil || r.StartTime.Before(ownHint.StartTime)) {
				ownHint = r
			}
		}
	}

	switch {
	case selfConflict != nil:
		// Người dùng đã giữ slot này trong khoảng thời gian này -> cho phép hủy
		view.Status = domain.SlotReserved
		view.ReservedBy = domain.ReservedByUser
		view.ReservationID = selfConflict.ID
	case otherConflict != nil:
		view.Status = domain.SlotOccupied
		view.ReservedBy = domain.ReservedByOther
	case ownHint != nil:
		view.ReservedBy = domain.ReservedByUser
		view.ReservationID = ownHint.ID
	}
	return view, nil
}

// UnknownSlotReferences trả về các reservation trỏ tới slot không có trong inventory.
func UnknownSlotReferences(inventory []domain.Slot, reservations []domain.Reservation) []domain.Reservation {
	known := make(map[string]struct{}, len(inventory))
	for _, s := range inventory {
		known[s.ID] = struct{}{}
	}
	var unknown []domain.Reservation
	for _, r := range reservations {
		if _, ok := known[r.SlotID]; !ok {
			unknown = append(unknown, r)
		}
	}
	return unknown
}
