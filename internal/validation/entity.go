package validation

import (
	"fmt"
	"regexp"
)

// EntityIDPattern определяет допустимый формат идентификатора записи
// Латинские буквы, цифры и символы _ . : -
// Длина: 1-128 символов
var EntityIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]{1,128}$`)

// SubjectPattern определяет формат subject токена (идентификатор клиента)
// Только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_)
// Длина: 3-32 символа
var SubjectPattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	// MaxEntityIDLen максимальная длина идентификатора записи
	MaxEntityIDLen = 128
	// MaxPayloadSize максимальный размер payload (1 MiB)
	MaxPayloadSize = 1 << 20
	// MinSubjectLen минимальная длина subject
	MinSubjectLen = 3
	// MaxSubjectLen максимальная длина subject
	MaxSubjectLen = 32
)

// ValidateEntityID checks that id can be used as a bbolt key, a URL path
// segment and a SQLite primary key without escaping.
func ValidateEntityID(id string) error {
	if id == "" {
		return fmt.Errorf("entity id cannot be empty")
	}

	if len(id) > MaxEntityIDLen {
		return fmt.Errorf("entity id must not exceed %d characters", MaxEntityIDLen)
	}

	if !EntityIDPattern.MatchString(id) {
		return fmt.Errorf("entity id can only contain letters, numbers and the characters _ . : -")
	}

	return nil
}

// ValidatePayload проверяет только размер: содержимое payload непрозрачно
func ValidatePayload(payload []byte) error {
	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("payload must not exceed %d bytes, got %d", MaxPayloadSize, len(payload))
	}
	return nil
}

// ValidateSubject проверяет идентификатор клиента, для которого выпускается токен
func ValidateSubject(subject string) error {
	if subject == "" {
		return fmt.Errorf("subject cannot be empty")
	}

	if len(subject) < MinSubjectLen {
		return fmt.Errorf("subject must be at least %d characters long", MinSubjectLen)
	}

	if len(subject) > MaxSubjectLen {
		return fmt.Errorf("subject must not exceed %d characters", MaxSubjectLen)
	}

	if !SubjectPattern.MatchString(subject) {
		return fmt.Errorf("subject can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)")
	}

	return nil
}
