package sync

import "sync"

// entityLocks - мьютекс на каждую сущность. Все записи в локальный кэш и
// очередь по одной сущности проходят через него: цикл синхронизации,
// realtime-события, локальные изменения и разрешение конфликтов.
type entityLocks struct {
	locks map[string]*entityLock
	mu    sync.Mutex
}

type entityLock struct {
	mu   sync.Mutex
	refs int
}

func newEntityLocks() *entityLocks {
	return &entityLocks{locks: make(map[string]*entityLock)}
}

// Lock blocks until the entity is free and returns the unlock function.
func (l *entityLocks) Lock(entityID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[entityID]
	if !ok {
		lock = &entityLock{}
		l.locks[entityID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, entityID)
		}
		l.mu.Unlock()
	}
}
