package models

import "time"

// Уровни доступа к ресурсу.
const (
	TierFree    = "free"    // ресурс доступен без подписки
	TierPremium = "premium" // требуется активная подписка
)

// Resource представляет единицу каталога: книгу, статью или журнал.
// StorageKey — непрозрачный идентификатор файла в приватном объектном
// хранилище; сам файл никогда не отдается напрямую.
type Resource struct {
	ID            int       // Идентификатор ресурса
	Title         string    // Название
	Authors       string    // Авторы (строкой, через запятую)
	Abstract      string    // Аннотация
	CategoryID    int       // Категория (many-to-one)
	Language      string    // Язык издания
	Year          int       // Год публикации
	Tier          string    // Уровень доступа: free или premium
	StorageKey    string    // Ключ файла в объектном хранилище
	DownloadCount int       // Счетчик выдач ссылок на скачивание
	CreatedAt     time.Time // Дата добавления в каталог
}

// DummyResource используется для приёма метаданных ресурса из
// multipart-формы админской загрузки.
type DummyResource struct {
	Title      string `json:"title" validate:"required,min=1,max=500"`     // Название
	Authors    string `json:"authors" validate:"required"`                 // Авторы
	Abstract   string `json:"abstract"`                                    // Аннотация
	CategoryID int    `json:"category_id" validate:"required,gt=0"`        // Категория
	Language   string `json:"language" validate:"required,min=2,max=32"`   // Язык
	Year       int    `json:"year" validate:"required,gte=1000,lte=2100"`  // Год публикации
	Tier       string `json:"tier" validate:"required,oneof=free premium"` // Уровень доступа
}

// ResourceFilter задает параметры выборки каталога.
type ResourceFilter struct {
	CategoryID int // 0 — без фильтра по категории
	Limit      int
	Offset     int
}
