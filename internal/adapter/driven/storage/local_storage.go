package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
)

// LocalStorage grava os relatórios num diretório, para desenvolvimento.
type LocalStorage struct {
	dir           string
	publicBaseURL string
}

var _ repository.StorageRepository = (*LocalStorage)(nil)

func NewLocalStorage(dir, publicBaseURL string) *LocalStorage {
	return &LocalStorage{dir: dir, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *LocalStorage) Upload(_ context.Context, data []byte, name, folder string) (entity.StoredObject, error) {
	key := ObjectKey(folder, name)
	target := filepath.Join(s.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return entity.StoredObject{}, fmt.Errorf("error creating output directory '%s': %w", filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return entity.StoredObject{}, fmt.Errorf("error writing %s: %w", target, err)
	}

	url := s.publicBaseURL + "/" + escapeKey(key)
	if s.publicBaseURL == "" {
		abs, err := filepath.Abs(target)
		if err != nil {
			return entity.StoredObject{}, err
		}
		url = "file://" + filepath.ToSlash(abs)
	}
	return entity.StoredObject{URL: url, ObjectID: key, Size: int64(len(data))}, nil
}
