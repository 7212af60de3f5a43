package repository

import (
	"context"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
)

// StorageRepository grava o binário de um relatório e devolve sua localização.
type StorageRepository interface {
	Upload(ctx context.Context, data []byte, name, folder string) (entity.StoredObject, error)
}
