package service

import (
	"encoding/json"
	"log"
	"parking_reservation/internal/domain"
)

// ErrorReporter nhận các thao tác ghi bị từ chối để báo lại cho người dùng.
type ErrorReporter interface {
	Report(failure domain.WriteFailure)
}

// UserNotifier gửi message tới các kết nối của một người dùng.
// Interface cho WebSocket Manager để tránh circular dependency
type UserNotifier interface {
	SendToUser(userID string, message []byte)
}

type writeFailureMessage struct {
	Type    string              `json:"type"`
	Failure domain.WriteFailure `json:"failure"`
}

type NotifyingErrorReporter struct {
	notifier UserNotifier
}

// NewErrorReporter ghi log lỗi và, nếu notifier != nil, đẩy lỗi tới websocket của người dùng.
func NewErrorReporter(notifier UserNotifier) *NotifyingErrorReporter {
	return &NotifyingErrorReporter{notifier: notifier}
}

func (r *NotifyingErrorReporter) Report(failure domain.WriteFailure) {
	log.Printf("WriteFailure: %s %s (user %s): %s", failure.Operation, failure.Path, failure.UserID, failure.Message)
	if r.notifier == nil || failure.UserID == "" {
		return
	}
	message, err := json.Marshal(writeFailureMessage{Type: "write_failure", Failure: failure})
	if err != nil {
		log.Printf("Error marshaling write failure: %v", err)
		return
	}
	r.notifier.SendToUser(failure.UserID, message)
}
