package config

import (
	"os"
	"path/filepath"
	"testing"

	"parking_reservation/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotInventory(t *testing.T) {
	slots, err := ParseSlotInventory([]byte(`
slots:
  - id: C1
    vehicle_type: car
  - id: " B7 "
    vehicle_type: bike
`))
	require.NoError(t, err)
	assert.Equal(t, []domain.Slot{
		{ID: "C1", VehicleType: domain.VehicleCar},
		{ID: "B7", VehicleType: domain.VehicleBike},
	}, slots)
}

func TestParseSlotInventory_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":        "slots: []",
		"missing id":   "slots:\n  - vehicle_type: car\n",
		"bad type":     "slots:\n  - id: T1\n    vehicle_type: truck\n",
		"duplicate id": "slots:\n  - id: C1\n    vehicle_type: car\n  - id: C1\n    vehicle_type: bike\n",
		"not yaml":     "slots: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSlotInventory([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadSlotInventory_FallsBackToDefault(t *testing.T) {
	slots, err := LoadSlotInventory(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Len(t, slots, 20)
	assert.Equal(t, "C1", slots[0].ID)
	assert.Equal(t, domain.VehicleBike, slots[19].VehicleType)
}

func TestLoadSlotInventory_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slots:\n  - id: C1\n    vehicle_type: car\n"), 0o600))

	slots, err := LoadSlotInventory(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Slot{{ID: "C1", VehicleType: domain.VehicleCar}}, slots)
}
