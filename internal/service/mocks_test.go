package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"parking_reservation/internal/availability"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
)

// --- Fake ReservationRepository ---

type fakeReservationRepo struct {
	mu       sync.Mutex
	items    map[string]domain.Reservation
	createFn func(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
	deleteFn func(ctx context.Context, id string) error
	findAll  int
}

func newFakeReservationRepo(seed ...domain.Reservation) *fakeReservationRepo {
	repo := &fakeReservationRepo{items: make(map[string]domain.Reservation)}
	for _, r := range seed {
		repo.items[r.ID] = r
	}
	return repo
}

func (m *fakeReservationRepo) CreateIfNoConflict(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	candidate, err := r.Interval()
	if err != nil {
		return nil, err
	}
	for _, existing := range m.items {
		if existing.SlotID != r.SlotID || existing.UserID == r.UserID {
			continue
		}
		iv, _ := existing.Interval()
		if availability.Overlaps(candidate, iv) {
			return nil, fmt.Errorf("%w: slot '%s'", repository.ErrSlotConflict, r.SlotID)
		}
	}
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	r.CreatedAt, r.UpdatedAt = now, now
	m.items[r.ID] = *r
	return r, nil
}

func (m *fakeReservationRepo) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *fakeReservationRepo) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findAll++
	return m.sorted(func(domain.Reservation) bool { return true }), nil
}

func (m *fakeReservationRepo) FindByUserID(ctx context.Context, userID string) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(r domain.Reservation) bool { return r.UserID == userID }), nil
}

func (m *fakeReservationRepo) FindActiveBySlot(ctx context.Context, slotID string, at time.Time) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(r domain.Reservation) bool {
		return r.SlotID == slotID && r.Status(at) == domain.ReservationActive
	}), nil
}

func (m *fakeReservationRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *fakeReservationRepo) sorted(keep func(domain.Reservation) bool) []domain.Reservation {
	out := []domain.Reservation{}
	for _, r := range m.items {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	createFn         func(ctx context.Context, user *domain.User) (*domain.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	findAllFn        func(ctx context.Context) ([]domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return m.createFn(ctx, user)
}
func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.findByUsernameFn(ctx, username)
}
func (m *mockUserRepo) FindByID(ctx context.Context, id int) (*domain.User, error) {
	return nil, repository.ErrNotFound
}
func (m *mockUserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	return m.findAllFn(ctx)
}

// --- Mock ViolationRepository ---

type mockViolationRepo struct {
	created []domain.Violation
}

func (m *mockViolationRepo) Create(ctx context.Context, v *domain.Violation) (*domain.Violation, error) {
	v.CreatedAt = v.ReportedAt
	m.created = append(m.created, *v)
	return v, nil
}
func (m *mockViolationRepo) FindAll(ctx context.Context) ([]domain.Violation, error) {
	return m.created, nil
}

// --- Recording collaborators ---

type recordingReporter struct {
	mu       sync.Mutex
	failures []domain.WriteFailure
}

func (r *recordingReporter) Report(f domain.WriteFailure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
}

type recordingPublisher struct {
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(routingKey string, payload any) error {
	p.keys = append(p.keys, routingKey)
	return p.err
}

type recordingNotifier struct {
	userID  string
	message []byte
}

func (n *recordingNotifier) SendToUser(userID string, message []byte) {
	n.userID, n.message = userID, message
}

type stubAnalyzer struct {
	info *domain.VehicleInfo
	err  error
}

func (a *stubAnalyzer) AnalyzeVehicle(ctx context.Context, imageBytes []byte) (*domain.VehicleInfo, error) {
	return a.info, a.err
}
