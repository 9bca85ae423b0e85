package models

import "time"

// Типы владельца подписки. Подписка принадлежит либо пользователю,
// либо организации, но не обоим сразу.
const (
	OwnerUser        = "user"
	OwnerInstitution = "institution"
)

// Subscription представляет оплаченный период доступа к платному контенту.
// EndDate вычисляется при создании как StartDate + DurationDays и хранится
// в базе. Подписка активна, если текущий момент лежит в [StartDate, EndDate].
type Subscription struct {
	ID           int       // Идентификатор записи
	OwnerUID     string    // UID владельца (пользователь или организация)
	OwnerType    string    // Тип владельца: user или institution
	PlanName     string    // Название тарифа
	Price        int       // Цена тарифа
	DurationDays int       // Длительность в днях
	StartDate    time.Time // Дата начала действия
	EndDate      time.Time // Дата окончания действия
}

// DummySubscription используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Subscription. Дата приходит строкой,
// чтобы её можно было валидировать и парсить вручную.
type DummySubscription struct {
	OwnerUID     string `json:"owner_uid" validate:"required,uuid"`                    // UID владельца
	OwnerType    string `json:"owner_type" validate:"required,oneof=user institution"` // Тип владельца
	PlanName     string `json:"plan_name" validate:"required"`                         // Название тарифа
	Price        int    `json:"price" validate:"required,gt=0"`                        // Цена (>0)
	DurationDays int    `json:"duration_days" validate:"required,gt=0"`                // Длительность в днях (>0)
	StartDate    string `json:"start_date" validate:"required"`                        // Дата начала в формате 02-01-2006
}

// SubscriptionInfo агрегирует данные истекающей подписки вместе с
// контактной почтой владельца. Используется планировщиком уведомлений.
type SubscriptionInfo struct {
	Email     string    `json:"email"`
	OwnerName string    `json:"owner_name"`
	PlanName  string    `json:"plan_name"`
	EndDate   time.Time `json:"end_date"`
}
