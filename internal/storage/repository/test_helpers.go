package repository

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/axmetovrr/elibrary/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateInstitution создает тестовую организацию и возвращает её UID
func (f *TestDataFactory) CreateInstitution(t *testing.T, name, email string) string {
	uid := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO institutions (uid, name, email) VALUES ($1, $2, $3)`,
		uid, name, email)
	require.NoError(t, err)
	return uid
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, username, email, role, actorType string, institutionUID *string) string {
	uid := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, email, username, password_hash, role, actor_type, institution_uid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uid, email, username, "hashedpassword", role, actorType, institutionUID)
	require.NoError(t, err)
	return uid
}

// CreateSubscription создает тестовую подписку
func (f *TestDataFactory) CreateSubscription(t *testing.T, ownerUID, ownerType string, start, end time.Time) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO subscriptions
		(owner_uid, owner_type, plan_name, price, duration_days, start_date, end_date)
		VALUES ($1, $2, 'basic', 500, 30, $3, $4) RETURNING id`,
		ownerUID, ownerType, start, end).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateCategory создает тестовую категорию
func (f *TestDataFactory) CreateCategory(t *testing.T, name string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateResource создает тестовый ресурс каталога
func (f *TestDataFactory) CreateResource(t *testing.T, title string, categoryID int, tier, storageKey string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO resources
		(title, authors, abstract, category_id, language, year, tier, storage_key)
		VALUES ($1, 'Test Author', '', $2, 'en', 2020, $3, $4) RETURNING id`,
		title, categoryID, tier, storageKey).Scan(&id)
	require.NoError(t, err)
	return id
}

// TestResource возвращает стандартные тестовые данные ресурса
func TestResource(categoryID int) models.Resource {
	return models.Resource{
		Title:      "Introduction to Algorithms",
		Authors:    "Cormen, Leiserson, Rivest, Stein",
		Abstract:   "A comprehensive textbook",
		CategoryID: categoryID,
		Language:   "en",
		Year:       2009,
		Tier:       models.TierPremium,
		StorageKey: "resources/" + uuid.New().String() + ".pdf",
	}
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort(nat.Port("5432/tcp")),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        DROP TABLE IF EXISTS resources CASCADE;
        DROP TABLE IF EXISTS categories CASCADE;
        DROP TABLE IF EXISTS subscriptions CASCADE;
        DROP TABLE IF EXISTS users CASCADE;
        DROP TABLE IF EXISTS institutions CASCADE;

        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE institutions (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            email TEXT NOT NULL UNIQUE,
            username TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user',
            actor_type TEXT NOT NULL DEFAULT 'individual',
            institution_uid UUID REFERENCES institutions(uid),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE TABLE subscriptions (
            id SERIAL PRIMARY KEY,
            owner_uid UUID NOT NULL,
            owner_type TEXT NOT NULL CHECK (owner_type IN ('user', 'institution')),
            plan_name TEXT NOT NULL,
            price INT NOT NULL,
            duration_days INT NOT NULL,
            start_date TIMESTAMPTZ NOT NULL,
            end_date TIMESTAMPTZ NOT NULL
        );

        CREATE TABLE categories (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL UNIQUE
        );

        CREATE TABLE resources (
            id SERIAL PRIMARY KEY,
            title TEXT NOT NULL,
            authors TEXT NOT NULL,
            abstract TEXT NOT NULL DEFAULT '',
            category_id INT REFERENCES categories(id),
            language TEXT NOT NULL,
            year INT NOT NULL,
            tier TEXT NOT NULL CHECK (tier IN ('free', 'premium')),
            storage_key TEXT NOT NULL,
            download_count INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE INDEX idx_users_institution_uid ON users(institution_uid);
        CREATE INDEX idx_subscriptions_owner ON subscriptions(owner_uid, owner_type);
        CREATE INDEX idx_subscriptions_end_date ON subscriptions(end_date);
        CREATE INDEX idx_resources_category_id ON resources(category_id);
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
