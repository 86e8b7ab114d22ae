// Package receipts grava os comprovantes PIX em um bucket S3-compatível.
package receipts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Limite de tamanho do comprovante
const MaxSize = 5 << 20

var (
	ErrMissingReceipt  = errors.New("comprovante obrigatório")
	ErrUnsupportedType = errors.New("formato de comprovante não suportado")
	ErrTooLarge        = errors.New("comprovante excede 5 MB")
	ErrUploadFailed    = errors.New("falha ao enviar comprovante")
)

// Store é o armazenamento de objetos usado pelo fluxo de compra
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (publicURL string, err error)
	Remove(ctx context.Context, key string) error
}

// ValidateContentType aceita imagens e PDF
func ValidateContentType(ct string) error {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if strings.HasPrefix(ct, "image/") || ct == "application/pdf" {
		return nil
	}
	return ErrUnsupportedType
}

// ObjectKey gera "<userID>/<unixMillis>.<ext>"
func ObjectKey(userID string, now time.Time, filename, contentType string) string {
	return fmt.Sprintf("%s/%d.%s", userID, now.UnixMilli(), extension(filename, contentType))
}

func extension(filename, contentType string) string {
	if ext := strings.TrimPrefix(filepath.Ext(filename), "."); ext != "" {
		return strings.ToLower(ext)
	}
	switch strings.ToLower(contentType) {
	case "application/pdf":
		return "pdf"
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	}
	return "bin"
}
