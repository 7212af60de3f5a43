package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/diillson/maternity-reports-go/internal/shared/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixa todas as variáveis de ambiente lidas pela aplicação.
const EnvPrefix = "MATERNITY_"

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	validate *validator.Validate
}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{validate: validator.New()}
}

// Load monta a configuração final: arquivo (opcional), depois .env e
// variáveis MATERNITY_*, depois valores padrão, e por fim validação.
func (r *ConfigRepositoryImpl) Load(filePath, envFile string) (*types.Config, error) {
	config := &types.Config{}
	if filePath != "" {
		loaded, err := r.LoadConfigFile(filePath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("error loading env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	if err := env.Parse(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	ApplyDefaults(config)

	if err := r.validate.Struct(config); err != nil {
		return nil, fmt.Errorf("%w: invalid configuration: %v", types.ErrValidation, err)
	}
	return config, nil
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := filepath.Ext(filePath)
	fileExtension = strings.ToLower(fileExtension)

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return &config, nil
}

// ApplyDefaults preenche os campos vazios.
func ApplyDefaults(c *types.Config) {
	setString(&c.Server.Address, ":8080")

	setString(&c.Store.Driver, "memory")
	setString(&c.Store.MongoDatabase, "maternity")

	setString(&c.Storage.Driver, "local")
	setString(&c.Storage.Region, "us-east-1")
	setString(&c.Storage.Folder, "rapports")
	setString(&c.Storage.LocalDir, "reports-output")

	setString(&c.Report.Organization, "Maternité")
	setString(&c.Report.Timezone, "UTC")
	setString(&c.Report.IDPrefix, "RPT")

	setInt(&c.Trigger.Concurrency, 1)
	setString(&c.Trigger.Deliverer, "local")

	setInt(&c.Scheduler.MonthlyDay, 1)
	setInt(&c.Scheduler.CatchUpHour, 6)
	setInt(&c.Scheduler.ReminderHour, 8)

	setInt(&c.Mail.Port, 587)

	if c.Audit.LogGroup != "" {
		setString(&c.Audit.LogStream, "trigger-runs")
	}

	setString(&c.Log.Level, "info")
	setString(&c.Log.Format, "text")
	setString(&c.Log.Output, "stdout")
	setString(&c.Log.File, filepath.Join("logs", "maternity-reports.log"))
	setInt(&c.Log.MaxSizeMB, 50)
	setInt(&c.Log.MaxBackups, 5)
	setInt(&c.Log.MaxAgeDays, 30)
}

func setString(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}

func setInt(field *int, value int) {
	if *field == 0 {
		*field = value
	}
}
