package models

import (
	"fmt"
	"time"
)

// Operation is the kind of local mutation carried by a SyncItem.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Valid reports whether op is one of the known operations.
func (op Operation) Valid() bool {
	switch op {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	default:
		return false
	}
}

// SyncItem - локальное изменение, которое еще не подтверждено бэкендом.
//
// Запись живет в очереди с момента локальной мутации и до подтверждения
// бэкендом (или явной очистки). BaseVersion - версия, которую клиент видел
// последней на сервере; по ней бэкенд определяет расхождение.
type SyncItem struct {
	CreatedAt   time.Time `json:"created_at"`            // CreatedAt локальное время постановки в очередь
	Entity      *Entity   `json:"entity,omitempty"`      // Entity снимок записи (nil для delete)
	ID          string    `json:"id"`                    // ID локально сгенерированный UUID
	EntityID    string    `json:"entity_id"`             // EntityID идентификатор целевой записи
	Operation   Operation `json:"operation"`             // Operation create/update/delete
	LastError   string    `json:"last_error,omitempty"`  // LastError текст последней ошибки
	ConflictID  string    `json:"conflict_id,omitempty"` // ConflictID открытый конфликт, удерживающий запись
	BaseVersion int64     `json:"base_version"`          // BaseVersion последняя известная серверная версия
	RetryCount  int       `json:"retry_count"`           // RetryCount количество неудачных попыток
	IsSyncing   bool      `json:"is_syncing"`            // IsSyncing флаг взаимного исключения загрузки
}

// Validate checks the structural invariants of an item.
func (i *SyncItem) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("sync item: empty id")
	}
	if i.EntityID == "" {
		return fmt.Errorf("sync item %s: empty entity id", i.ID)
	}
	if !i.Operation.Valid() {
		return fmt.Errorf("sync item %s: unknown operation %q", i.ID, i.Operation)
	}
	if i.Operation != OperationDelete && i.Entity == nil {
		return fmt.Errorf("sync item %s: %s requires an entity snapshot", i.ID, i.Operation)
	}
	if i.Operation == OperationDelete && i.Entity != nil {
		return fmt.Errorf("sync item %s: delete must not carry a snapshot", i.ID)
	}
	if i.RetryCount < 0 {
		return fmt.Errorf("sync item %s: negative retry count", i.ID)
	}
	return nil
}

// Held reports whether the item waits for a conflict resolution.
func (i *SyncItem) Held() bool {
	return i.ConflictID != ""
}

// Clone создает глубокую копию элемента очереди.
func (i *SyncItem) Clone() *SyncItem {
	if i == nil {
		return nil
	}
	c := *i
	c.Entity = i.Entity.Clone()
	return &c
}
