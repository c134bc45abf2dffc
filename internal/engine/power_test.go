package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPower(t *testing.T) {
	tests := []struct {
		name string
		m    Member
		want int
	}{
		{
			name: "level one no extras",
			m:    Member{Stats: Stats{Str: 78, Int: 65, Ldr: 75}, Level: 1},
			want: 218,
		},
		{
			name: "evolution and equipment",
			m:    Member{Stats: Stats{Str: 85, Int: 96, Ldr: 99}, Level: 3, Evolution: 2, EquipBonus: []int{50}},
			want: 280*3*12/10 + 50,
		},
		{
			name: "fractional evolution factor is floored",
			m:    Member{Stats: Stats{Str: 1, Int: 1, Ldr: 1}, Level: 1, Evolution: 1},
			want: 3,
		},
		{
			name: "three slots",
			m:    Member{Stats: Stats{Str: 10, Int: 10, Ldr: 10}, Level: 2, EquipBonus: []int{10, 20, 30}},
			want: 120,
		},
		{
			name: "zero level",
			m:    Member{Stats: Stats{Str: 10, Int: 10, Ldr: 10}},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Power(tt.m))
		})
	}
}

func TestPowerNeverNegativeAndMonotone(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		m := randomMember(rng)
		p := Power(m)
		assert.GreaterOrEqual(t, p, 0)

		up := m
		up.Level++
		assert.GreaterOrEqual(t, Power(up), p, "level")

		up = m
		up.Evolution++
		assert.GreaterOrEqual(t, Power(up), p, "evolution")

		up = m
		up.EquipBonus = append([]int{rng.Intn(60)}, m.EquipBonus...)
		assert.GreaterOrEqual(t, Power(up), p, "equipment")
	}
}

func TestBasePowerIgnoresEquipment(t *testing.T) {
	m := Member{Stats: Stats{Str: 50, Int: 50, Ldr: 50}, Level: 2, EquipBonus: []int{40}}
	assert.Equal(t, 300, BasePower(m))
	assert.Equal(t, 340, Power(m))
}
