package repository

import (
	"github.com/diillson/maternity-reports-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	Load(filePath, envFile string) (*types.Config, error)
}
