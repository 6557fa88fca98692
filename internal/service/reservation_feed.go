package service

import (
	"context"
	"fmt"
	"log"
	"parking_reservation/internal/domain"
	"sync"
)

// SnapshotLoader đọc toàn bộ danh sách reservation hiện tại.
type SnapshotLoader func(ctx context.Context) ([]domain.Reservation, error)

// ReservationFeed phát snapshot đầy đủ của các reservation cho người đăng ký
// mỗi khi có thay đổi. Người đọc chậm chỉ nhận snapshot mới nhất.
// Snapshot được chia sẻ giữa các subscriber, không được sửa.
type ReservationFeed struct {
	load SnapshotLoader

	// refreshMu đảm bảo load + phát diễn ra tuần tự, snapshot cũ không ghi đè snapshot mới
	refreshMu sync.Mutex
	mu        sync.Mutex
	subs      map[int]*feedSubscription
	nextID    int
}

type feedSubscription struct {
	ch   chan []domain.Reservation
	done chan struct{}
	once sync.Once
}

func NewReservationFeed(load SnapshotLoader) *ReservationFeed {
	return &ReservationFeed{
		load: load,
		subs: make(map[int]*feedSubscription),
	}
}

// Subscribe trả về kênh nhận snapshot (snapshot đầu tiên có sẵn ngay) và hàm hủy đăng ký.
// Kênh bị đóng khi hủy đăng ký hoặc khi ctx kết thúc.
func (f *ReservationFeed) Subscribe(ctx context.Context) (<-chan []domain.Reservation, func(), error) {
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	snapshot, err := f.load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("lỗi tải snapshot reservation: %w", err)
	}

	sub := &feedSubscription{
		ch:   make(chan []domain.Reservation, 1),
		done: make(chan struct{}),
	}
	sub.ch <- snapshot

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = sub
	f.mu.Unlock()

	unsubscribe := func() {
		sub.once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			close(sub.ch)
			f.mu.Unlock()
			close(sub.done)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-sub.done:
		}
	}()

	return sub.ch, unsubscribe, nil
}

// Refresh tải lại snapshot và gửi cho mọi subscriber.
func (f *ReservationFeed) Refresh(ctx context.Context) error {
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	snapshot, err := f.load(ctx)
	if err != nil {
		log.Printf("ReservationFeed: Lỗi tải snapshot: %v", err)
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		deliverLatest(sub.ch, snapshot)
	}
	return nil
}

func (f *ReservationFeed) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// deliverLatest thay snapshot chưa đọc (nếu có) bằng snapshot mới.
// Chỉ gọi khi giữ f.mu, nên không có ai khác gửi vào ch cùng lúc.
func deliverLatest(ch chan []domain.Reservation, snapshot []domain.Reservation) {
	select {
	case ch <- snapshot:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snapshot:
	default:
	}
}
