// Package objectstore реализует приватное хранилище файлов поверх
// S3-совместимого API (AWS S3, MinIO, Yandex Object Storage и т.п.).
//
// Файлы каталога лежат в закрытом бакете и никогда не читаются сервером:
// клиент получает подписанную ссылку с ограниченным сроком жизни
// и скачивает объект напрямую у провайдера.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/axmetovrr/elibrary/internal/config"
)

// Store описывает операции хранилища, которые нужны бизнес-логике.
type Store interface {
	// Save загружает объект по ключу.
	Save(ctx context.Context, key string, body io.Reader) error
	// Delete удаляет объект по ключу.
	Delete(ctx context.Context, key string) error
	// SignedDownloadURL возвращает подписанную ссылку на скачивание
	// объекта с принудительным attachment-режимом.
	SignedDownloadURL(ctx context.Context, key, filename string) (string, error)
}

// S3Store реализует Store через AWS SDK v2.
type S3Store struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	expiry        time.Duration // срок жизни подписанной ссылки
}

// New создает S3Store из конфигурации приложения.
func New(ctx context.Context, cfg config.ObjectStorage) (*S3Store, error) {
	const op = "objectstore.New"

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var client *s3.Client
	if cfg.S3Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			// MinIO и часть S3-совместимых сервисов требуют path-style.
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Store{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.S3Bucket,
		expiry:        cfg.DownloadExpiry,
	}, nil
}

// Save загружает объект в бакет.
func (s *S3Store) Save(ctx context.Context, key string, body io.Reader) error {
	const op = "objectstore.Save"
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет объект из бакета.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	const op = "objectstore.Delete"
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SignedDownloadURL подписывает GetObject для одного объекта.
// Content-Disposition: attachment запрещает inline-отображение в браузере.
func (s *S3Store) SignedDownloadURL(ctx context.Context, key, filename string) (string, error) {
	const op = "objectstore.SignedDownloadURL"
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	disposition := fmt.Sprintf("attachment; filename=%q", filename)
	presignedReq, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(disposition),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.expiry
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return presignedReq.URL, nil
}
