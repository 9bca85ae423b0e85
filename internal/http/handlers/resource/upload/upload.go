// Package upload реализует HTTP-обработчик админской загрузки ресурса.
//
// Запрос приходит multipart-формой: поле file с документом и текстовые
// поля метаданных. Формат и размер файла проверяются до записи в хранилище.
package upload

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/axmetovrr/elibrary/internal/http/response"
	"github.com/axmetovrr/elibrary/internal/lib/sl"
	"github.com/axmetovrr/elibrary/internal/models"
)

// Память на разбор multipart-формы, остальное уходит во временные файлы.
const maxFormMemory = 32 << 20

// Handler обрабатывает HTTP-запросы загрузки ресурсов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики каталога
	validate *validator.Validate // Валидатор для проверки метаданных
}

// Service описывает интерфейс загрузки ресурса.
type Service interface {
	Upload(ctx context.Context, meta models.DummyResource,
		filename string, size int64, file io.Reader) (int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Загрузить новый ресурс
// @Description Принимает multipart-форму с файлом и метаданными, сохраняет файл в объектное хранилище и создает запись каталога. Только для администратора.
// @Tags Resources
// @Accept  mpfd
// @Produce  json
// @Param file formData file true "Файл документа"
// @Param title formData string true "Название"
// @Param authors formData string true "Авторы"
// @Param abstract formData string false "Аннотация"
// @Param category_id formData int true "ID категории"
// @Param language formData string true "Язык"
// @Param year formData int true "Год публикации"
// @Param tier formData string true "Уровень доступа: free или premium"
// @Success 200 {object} map[string]any "ID созданного ресурса"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма или файл"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации метаданных"
// @Failure 502 {object} response.ErrorResponse "Отказ провайдера хранилища"
// @Router /admin/resources [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.upload"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	meta, err := MetaFromForm(r)
	if err != nil {
		log.Error("failed to read metadata from form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid resource metadata"))
		return
	}

	if err := h.validate.Struct(meta); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error("file is missing in form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	id, err := h.service.Upload(r.Context(), meta, header.Filename, header.Size, file)
	if err != nil {
		log.Error("failed to upload resource", sl.Err(err))
		response.AppError(w, r, err)
		return
	}

	log.Info("resource uploaded", slog.Int("id", id), slog.String("filename", header.Filename))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}

// MetaFromForm собирает метаданные ресурса из текстовых полей формы.
func MetaFromForm(r *http.Request) (models.DummyResource, error) {
	categoryID, err := strconv.Atoi(r.FormValue("category_id"))
	if err != nil {
		return models.DummyResource{}, err
	}
	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil {
		return models.DummyResource{}, err
	}
	return models.DummyResource{
		Title:      r.FormValue("title"),
		Authors:    r.FormValue("authors"),
		Abstract:   r.FormValue("abstract"),
		CategoryID: categoryID,
		Language:   r.FormValue("language"),
		Year:       year,
		Tier:       r.FormValue("tier"),
	}, nil
}
