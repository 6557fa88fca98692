package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"parking_reservation/internal/domain"

	"gopkg.in/yaml.v3"
)

type inventoryFile struct {
	Slots []domain.Slot `yaml:"slots"`
}

// DefaultSlots là inventory mặc định: C1..C10 cho ô tô, B1..B10 cho xe máy.
func DefaultSlots() []domain.Slot {
	slots := make([]domain.Slot, 0, 20)
	for i := 1; i <= 10; i++ {
		slots = append(slots, domain.Slot{ID: fmt.Sprintf("C%d", i), VehicleType: domain.VehicleCar})
	}
	for i := 1; i <= 10; i++ {
		slots = append(slots, domain.Slot{ID: fmt.Sprintf("B%d", i), VehicleType: domain.VehicleBike})
	}
	return slots
}

// LoadSlotInventory đọc danh sách slot từ file YAML. Nếu file không tồn tại thì dùng DefaultSlots.
func LoadSlotInventory(path string) ([]domain.Slot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("Không tìm thấy file inventory '%s', sử dụng inventory mặc định", path)
			return DefaultSlots(), nil
		}
		return nil, fmt.Errorf("lỗi đọc file inventory: %w", err)
	}
	return ParseSlotInventory(data)
}

func ParseSlotInventory(data []byte) ([]domain.Slot, error) {
	var f inventoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("lỗi parse inventory YAML: %w", err)
	}
	if len(f.Slots) == 0 {
		return nil, errors.New("inventory không có slot nào")
	}

	seen := make(map[string]struct{}, len(f.Slots))
	slots := make([]domain.Slot, 0, len(f.Slots))
	for i, s := range f.Slots {
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			return nil, fmt.Errorf("slot thứ %d thiếu id", i+1)
		}
		if !s.VehicleType.Valid() {
			return nil, fmt.Errorf("slot '%s' có vehicle_type không hợp lệ: '%s'", s.ID, s.VehicleType)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("slot '%s' bị trùng trong inventory", s.ID)
		}
		seen[s.ID] = struct{}{}
		slots = append(slots, s)
	}
	return slots, nil
}
