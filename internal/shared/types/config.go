package types

import (
	"fmt"
	"time"
)

// Config represents the application configuration that can be loaded from a
// file and overlaid by MATERNITY_* environment variables.
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server" toml:"server" envPrefix:"SERVER_"`
	Store     StoreConfig     `json:"store" yaml:"store" toml:"store" envPrefix:"STORE_"`
	Storage   StorageConfig   `json:"storage" yaml:"storage" toml:"storage" envPrefix:"STORAGE_"`
	Report    ReportConfig    `json:"report" yaml:"report" toml:"report" envPrefix:"REPORT_"`
	Trigger   TriggerConfig   `json:"trigger" yaml:"trigger" toml:"trigger" envPrefix:"TRIGGER_"`
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler" toml:"scheduler" envPrefix:"SCHEDULER_"`
	Mail      MailConfig      `json:"mail" yaml:"mail" toml:"mail" envPrefix:"MAIL_"`
	Audit     AuditConfig     `json:"audit" yaml:"audit" toml:"audit" envPrefix:"AUDIT_"`
	Log       LogConfig       `json:"log" yaml:"log" toml:"log" envPrefix:"LOG_"`
}

// ServerConfig configura a superfície HTTP.
type ServerConfig struct {
	Address    string `json:"address" yaml:"address" toml:"address" env:"ADDRESS"`
	CronSecret string `json:"cron_secret" yaml:"cron_secret" toml:"cron_secret" env:"CRON_SECRET"`
}

// StoreConfig seleciona o banco de documentos.
type StoreConfig struct {
	Driver             string `json:"driver" yaml:"driver" toml:"driver" env:"DRIVER" validate:"omitempty,oneof=mongo firestore memory"`
	MongoURI           string `json:"mongo_uri" yaml:"mongo_uri" toml:"mongo_uri" env:"MONGO_URI" validate:"required_if=Driver mongo"`
	MongoDatabase      string `json:"mongo_database" yaml:"mongo_database" toml:"mongo_database" env:"MONGO_DATABASE"`
	FirestoreProjectID string `json:"firestore_project_id" yaml:"firestore_project_id" toml:"firestore_project_id" env:"FIRESTORE_PROJECT_ID" validate:"required_if=Driver firestore"`
	CredentialsFile    string `json:"credentials_file" yaml:"credentials_file" toml:"credentials_file" env:"CREDENTIALS_FILE"`
}

// StorageConfig configura o armazenamento dos PDFs.
type StorageConfig struct {
	Driver        string `json:"driver" yaml:"driver" toml:"driver" env:"DRIVER" validate:"omitempty,oneof=s3 local"`
	Bucket        string `json:"bucket" yaml:"bucket" toml:"bucket" env:"BUCKET" validate:"required_if=Driver s3"`
	Region        string `json:"region" yaml:"region" toml:"region" env:"REGION"`
	Profile       string `json:"profile" yaml:"profile" toml:"profile" env:"PROFILE"`
	Endpoint      string `json:"endpoint" yaml:"endpoint" toml:"endpoint" env:"ENDPOINT"`
	PublicBaseURL string `json:"public_base_url" yaml:"public_base_url" toml:"public_base_url" env:"PUBLIC_BASE_URL"`
	Folder        string `json:"folder" yaml:"folder" toml:"folder" env:"FOLDER"`
	LocalDir      string `json:"local_dir" yaml:"local_dir" toml:"local_dir" env:"LOCAL_DIR"`
}

// ReportConfig contém os parâmetros dos relatórios gerados.
type ReportConfig struct {
	Organization string `json:"organization" yaml:"organization" toml:"organization" env:"ORGANIZATION"`
	Timezone     string `json:"timezone" yaml:"timezone" toml:"timezone" env:"TIMEZONE"`
	IDPrefix     string `json:"id_prefix" yaml:"id_prefix" toml:"id_prefix" env:"ID_PREFIX" validate:"omitempty,alphanum"`
}

// Location resolve o fuso horário configurado.
func (c ReportConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid report timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// TriggerConfig configura a execução do gatilho mensal.
type TriggerConfig struct {
	Concurrency    int    `json:"concurrency" yaml:"concurrency" toml:"concurrency" env:"CONCURRENCY" validate:"gte=0,lte=32"`
	Deliverer      string `json:"deliverer" yaml:"deliverer" toml:"deliverer" env:"DELIVERER" validate:"omitempty,oneof=local http lambda"`
	RemoteURL      string `json:"remote_url" yaml:"remote_url" toml:"remote_url" env:"REMOTE_URL" validate:"required_if=Deliverer http"`
	LambdaFunction string `json:"lambda_function" yaml:"lambda_function" toml:"lambda_function" env:"LAMBDA_FUNCTION" validate:"required_if=Deliverer lambda"`
}

// SchedulerConfig define os horários das tarefas periódicas.
type SchedulerConfig struct {
	Enabled         bool `json:"enabled" yaml:"enabled" toml:"enabled" env:"ENABLED"`
	MonthlyDay      int  `json:"monthly_day" yaml:"monthly_day" toml:"monthly_day" env:"MONTHLY_DAY" validate:"gte=0,lte=28"`
	MonthlyHour     int  `json:"monthly_hour" yaml:"monthly_hour" toml:"monthly_hour" env:"MONTHLY_HOUR" validate:"gte=0,lte=23"`
	CatchUpWeekday  int  `json:"catch_up_weekday" yaml:"catch_up_weekday" toml:"catch_up_weekday" env:"CATCH_UP_WEEKDAY" validate:"gte=0,lte=6"`
	CatchUpHour     int  `json:"catch_up_hour" yaml:"catch_up_hour" toml:"catch_up_hour" env:"CATCH_UP_HOUR" validate:"gte=0,lte=23"`
	ReminderHour    int  `json:"reminder_hour" yaml:"reminder_hour" toml:"reminder_hour" env:"REMINDER_HOUR" validate:"gte=0,lte=23"`
	RemindersActive bool `json:"reminders_active" yaml:"reminders_active" toml:"reminders_active" env:"REMINDERS_ACTIVE"`
}

// MailConfig configura o envio de e-mails via SMTP.
type MailConfig struct {
	Host       string   `json:"host" yaml:"host" toml:"host" env:"HOST"`
	Port       int      `json:"port" yaml:"port" toml:"port" env:"PORT"`
	Username   string   `json:"username" yaml:"username" toml:"username" env:"USERNAME"`
	Password   string   `json:"password" yaml:"password" toml:"password" env:"PASSWORD"`
	From       string   `json:"from" yaml:"from" toml:"from" env:"FROM" validate:"omitempty,email"`
	FromName   string   `json:"from_name" yaml:"from_name" toml:"from_name" env:"FROM_NAME"`
	Recipients []string `json:"recipients" yaml:"recipients" toml:"recipients" env:"RECIPIENTS" envSeparator:","`
}

// AuditConfig habilita o histórico de execuções no CloudWatch Logs.
type AuditConfig struct {
	LogGroup  string `json:"log_group" yaml:"log_group" toml:"log_group" env:"LOG_GROUP"`
	LogStream string `json:"log_stream" yaml:"log_stream" toml:"log_stream" env:"LOG_STREAM"`
}

// LogConfig configura o logger da aplicação.
type LogConfig struct {
	Level      string `json:"level" yaml:"level" toml:"level" env:"LEVEL"`
	Format     string `json:"format" yaml:"format" toml:"format" env:"FORMAT" validate:"omitempty,oneof=text json"`
	Output     string `json:"output" yaml:"output" toml:"output" env:"OUTPUT" validate:"omitempty,oneof=stdout file both"`
	File       string `json:"file" yaml:"file" toml:"file" env:"FILE"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups" toml:"max_backups" env:"MAX_BACKUPS"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days" toml:"max_age_days" env:"MAX_AGE_DAYS"`
	Compress   bool   `json:"compress" yaml:"compress" toml:"compress" env:"COMPRESS"`
}
