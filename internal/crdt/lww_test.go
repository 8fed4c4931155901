package crdt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/screensync/internal/models"
)

func TestNewer(t *testing.T) {
	now := time.Now()

	tests := []struct {
		a        *models.Entity
		b        *models.Entity
		name     string
		expected bool
	}{
		{
			name:     "later update wins",
			a:        &models.Entity{UpdatedAt: now.Add(time.Second), Version: 1},
			b:        &models.Entity{UpdatedAt: now, Version: 5},
			expected: true,
		},
		{
			name:     "earlier update loses",
			a:        &models.Entity{UpdatedAt: now, Version: 5},
			b:        &models.Entity{UpdatedAt: now.Add(time.Second), Version: 1},
			expected: false,
		},
		{
			name:     "same time, higher version wins",
			a:        &models.Entity{UpdatedAt: now, Version: 3},
			b:        &models.Entity{UpdatedAt: now, Version: 2},
			expected: true,
		},
		{
			name:     "nil loses",
			a:        nil,
			b:        &models.Entity{},
			expected: false,
		},
		{
			name:     "anything beats nil",
			a:        &models.Entity{},
			b:        nil,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Newer(tt.a, tt.b))
		})
	}
}

func TestNewer_DeterministicTieBreak(t *testing.T) {
	now := time.Now()
	a := &models.Entity{UpdatedAt: now, Version: 2, Payload: []byte("a")}
	b := &models.Entity{UpdatedAt: now, Version: 2, Payload: []byte("b")}

	// Ровно одна сторона должна выигрывать независимо от порядка аргументов
	assert.NotEqual(t, Newer(a, b), Newer(b, a))
}

func TestResolveLWW(t *testing.T) {
	now := time.Now()
	local := &models.Entity{ID: "A", UpdatedAt: now.Add(time.Minute), Version: 2}
	remote := &models.Entity{ID: "A", UpdatedAt: now, Version: 3}

	c := &models.ConflictCase{Local: local, Remote: remote}
	assert.Equal(t, models.UseLocal(), ResolveLWW(c))

	c = &models.ConflictCase{Local: remote, Remote: local}
	assert.Equal(t, models.UseRemote(), ResolveLWW(c))

	// Одинаковое содержимое - остается удаленная версия
	c = &models.ConflictCase{Local: remote.Clone(), Remote: remote}
	assert.Equal(t, models.UseRemote(), ResolveLWW(c))
}
