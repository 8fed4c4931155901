package api

import "time"

// Entity представляет запись на проводе
type Entity struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Checksum  string    `json:"checksum,omitempty"` // BLAKE2b-256 от payload (hex)
	Payload   []byte    `json:"payload"`
	Version   int64     `json:"version"`
	IsActive  bool      `json:"is_active"`
}

// EntityList ответ GET /api/v1/entities
type EntityList struct {
	Entities []Entity `json:"entities"`
	Limit    int      `json:"limit"`
	Offset   int      `json:"offset"`
}

// ChangesResponse ответ GET /api/v1/changes
type ChangesResponse struct {
	Entities []Entity `json:"entities"`
	Cursor   int64    `json:"cursor"` // Cursor передается как since в следующем запросе
}

// SyncItem элемент очереди клиента на проводе
type SyncItem struct {
	CreatedAt   time.Time `json:"created_at"`
	Entity      *Entity   `json:"entity,omitempty"`
	ID          string    `json:"id"`
	EntityID    string    `json:"entity_id"`
	Operation   string    `json:"operation"`
	BaseVersion int64     `json:"base_version"`
}

// BatchRequest тело POST /api/v1/sync/batch
type BatchRequest struct {
	Items []SyncItem `json:"items"`
}

// ItemResult описывает неуспешный элемент пакета
type ItemResult struct {
	Local     *Entity `json:"local,omitempty"`  // Local только для кода conflict
	Remote    *Entity `json:"remote,omitempty"` // Remote только для кода conflict
	ItemID    string  `json:"item_id"`
	EntityID  string  `json:"entity_id"`
	Operation string  `json:"operation"`
	Code      string  `json:"code"` // Code класс ошибки: conflict, not_found, blocked, ...
	Message   string  `json:"message"`
}

// BatchResponse ответ POST /api/v1/sync/batch. Элементы, отсутствующие в Errors, применены.
type BatchResponse struct {
	CompletedAt time.Time    `json:"completed_at"`
	Errors      []ItemResult `json:"errors,omitempty"`
	Synced      int          `json:"synced"`
	Failed      int          `json:"failed"`
	Conflicts   int          `json:"conflicts"`
}

// PendingResponse ответ GET /api/v1/sync/pending
type PendingResponse struct {
	Items []SyncItem `json:"items"`
}

// ConflictCase конфликт, передаваемый серверу за подсказкой
type ConflictCase struct {
	DetectedAt time.Time `json:"detected_at"`
	Local      *Entity   `json:"local"`
	Remote     *Entity   `json:"remote"`
	ID         string    `json:"id"`
	EntityID   string    `json:"entity_id"`
	ItemID     string    `json:"item_id"`
	Operation  string    `json:"operation"`
}

// Resolution подсказка сервера по конфликту
type Resolution struct {
	Kind    string `json:"kind"`
	Payload []byte `json:"payload,omitempty"`
}

// Event сообщение потока изменений (Server-Sent Events)
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Entity    *Entity   `json:"entity"`
	Kind      string    `json:"kind"`
	UserID    string    `json:"user_id,omitempty"`
}

// HealthResponse ответ GET /api/v1/health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Code    string `json:"code,omitempty"`    // класс ошибки, см. ItemResult.Code
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// TokenResponse выпущенный syncd token доступа
type TokenResponse struct {
	ExpiresAt   time.Time `json:"expires_at"`
	AccessToken string    `json:"access_token"`
	Subject     string    `json:"subject"`
	Scopes      []string  `json:"scopes"`
}
