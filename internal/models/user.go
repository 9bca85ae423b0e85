// Package models содержит доменные структуры цифровой библиотеки:
// пользователей, организации, подписки, ресурсы и категории.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Возможные роли учетной записи.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Типы актора, определяющие владельца биллинга при проверке доступа.
const (
	ActorIndividual  = "individual"  // обычный читатель со своей подпиской
	ActorStudent     = "student"     // студент, доступ через подписку организации
	ActorInstitution = "institution" // учетная запись самой организации
)

// User представляет зарегистрированную учетную запись системы.
// Для студентов и организаций поле InstitutionUID указывает
// на связанную организацию.
type User struct {
	UID            string    // Уникальный идентификатор пользователя
	Email          string    // Электронная почта
	Username       string    // Имя пользователя (уникальное)
	PasswordHash   string    // Хэш пароля пользователя
	Role           string    // Роль: admin или user
	ActorType      string    // Тип актора: individual, student, institution
	InstitutionUID *string   // UID организации (для student и institution)
	CreatedAt      time.Time // Дата создания учетной записи
}

// Actor описывает аутентифицированного участника запроса,
// восстановленного из access-токена.
type Actor struct {
	UID            string // UID пользователя
	Username       string // Имя пользователя
	Role           string // Роль учетной записи
	Type           string // Тип актора
	InstitutionUID string // UID организации, пустая строка если нет
}

// BillingOwner определяет владельца биллинга для проверки подписки.
// Студент и учетная запись организации проверяются по подписке организации,
// остальные — по собственной. Второе значение — тип владельца,
// третье — false, если владельца определить нельзя.
func (a Actor) BillingOwner() (string, string, bool) {
	switch a.Type {
	case ActorStudent, ActorInstitution:
		if a.InstitutionUID == "" {
			return "", "", false
		}
		return a.InstitutionUID, OwnerInstitution, true
	default:
		if a.UID == "" {
			return "", "", false
		}
		return a.UID, OwnerUser, true
	}
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
// Студент обязан указать UID организации, к которой он относится.
type DummyRegister struct {
	Email          string `json:"email" validate:"required,email"`                   // Электронная почта
	Username       string `json:"username" validate:"required,min=3,max=50"`         // Имя пользователя
	Password       string `json:"password" validate:"required,min=6"`                // Пароль
	ActorType      string `json:"actor_type" validate:"required,oneof=individual student"` // Тип актора
	InstitutionUID string `json:"institution_uid,omitempty" validate:"omitempty,uuid"`     // UID организации (для студентов)
}
