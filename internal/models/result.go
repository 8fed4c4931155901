package models

import "time"

// ItemError describes the failure of one SyncItem inside a cycle or a batch.
type ItemError struct {
	Cause     error     `json:"-"` // Cause исходная ошибка (если известна)
	ItemID    string    `json:"item_id"`
	EntityID  string    `json:"entity_id"`
	Operation Operation `json:"operation"`
	Message   string    `json:"message"`
}

func (e ItemError) Error() string {
	return e.Message
}

func (e ItemError) Unwrap() error {
	return e.Cause
}

// SyncResult - итог одного цикла синхронизации (или одного вызова SyncBatch).
// Создается один раз и после этого не изменяется.
type SyncResult struct {
	CompletedAt time.Time   `json:"completed_at"`
	Errors      []ItemError `json:"errors,omitempty"`
	Synced      int         `json:"synced"`    // Synced подтвержденные бэкендом элементы
	Failed      int         `json:"failed"`    // Failed элементы, оставшиеся в очереди с ошибкой
	Conflicts   int         `json:"conflicts"` // Conflicts новые ConflictCase за цикл
	Pulled      int         `json:"pulled"`    // Pulled удаленные записи, слитые в локальный кэш
	Pending     int         `json:"pending"`   // Pending размер очереди (информационно, для offline)
	Offline     bool        `json:"offline"`   // Offline цикл пропущен: бэкенд не подключен
}

// FailedItem looks up the error reported for the given item, if any.
func (r *SyncResult) FailedItem(itemID string) (ItemError, bool) {
	for _, e := range r.Errors {
		if e.ItemID == itemID {
			return e, true
		}
	}
	return ItemError{}, false
}
