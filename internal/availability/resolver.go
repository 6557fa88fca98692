// Package availability tính trạng thái chỗ đỗ cho một khoảng thời gian đặt chỗ.
package availability

import (
	"parking_reservation/internal/domain"
)

// Overlaps reports whether two half-open intervals share at least one instant.
// Touching endpoints ([9,10) and [10,11)) do not overlap.
func Overlaps(a, b domain.Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

type Conflict int

const (
	ConflictNone Conflict = iota
	ConflictSelf
	ConflictOther
)

func (c Conflict) String() string {
	switch c {
	case ConflictSelf:
		return "self"
	case ConflictOther:
		return "other"
	default:
		return "none"
	}
}

// Classify cho biết reservation có chồng lên desired không và ai là chủ.
func Classify(desired domain.Interval, r domain.Reservation, actingUserID string) (Conflict, error) {
	existing, err := r.Interval()
	if err != nil {
		return ConflictNone, err
	}
	if !Overlaps(desired, existing) {
		return ConflictNone, nil
	}
	if r.UserID == actingUserID {
		return ConflictSelf, nil
	}
	return ConflictOther, nil
}
