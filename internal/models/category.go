package models

// Category представляет плоскую метку каталога, на которую
// ссылаются ресурсы.
type Category struct {
	ID   int    // Идентификатор категории
	Name string // Название (уникальное)
}

// DummyCategory используется для приёма данных из JSON-запроса
// при создании категории администратором.
type DummyCategory struct {
	Name string `json:"name" validate:"required,min=2,max=100"` // Название категории
}
