package models

import "time"

// Institution представляет организацию (вуз, библиотеку, компанию),
// подписка которой покрывает всех её студентов.
type Institution struct {
	UID       string    // Уникальный идентификатор организации
	Name      string    // Название организации
	Email     string    // Контактная почта для уведомлений
	CreatedAt time.Time // Дата создания
}

// DummyInstitution используется для приёма данных из JSON-запроса
// при создании организации администратором.
type DummyInstitution struct {
	Name  string `json:"name" validate:"required,min=2,max=200"` // Название организации
	Email string `json:"email" validate:"required,email"`        // Контактная почта
}
