package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/diillson/maternity-reports-go/internal/adapter/driven/audit"
	awsrepo "github.com/diillson/maternity-reports-go/internal/adapter/driven/aws"
	"github.com/diillson/maternity-reports-go/internal/adapter/driven/export"
	"github.com/diillson/maternity-reports-go/internal/adapter/driven/firestorestore"
	"github.com/diillson/maternity-reports-go/internal/adapter/driven/memory"
	"github.com/diillson/maternity-reports-go/internal/adapter/driven/mongostore"
	"github.com/diillson/maternity-reports-go/internal/adapter/driven/notify"
	"github.com/diillson/maternity-reports-go/internal/adapter/driven/remote"
	"github.com/diillson/maternity-reports-go/internal/adapter/driven/storage"
	"github.com/diillson/maternity-reports-go/internal/adapter/driving/httpapi"
	"github.com/diillson/maternity-reports-go/internal/adapter/driving/scheduler"
	"github.com/diillson/maternity-reports-go/internal/application/usecase"
	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/diillson/maternity-reports-go/internal/shared/types"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Container é a raiz de composição: monta os adaptadores a partir da
// configuração e guarda o estado do agendador.
type Container struct {
	Config    *types.Config
	Log       logrus.FieldLogger
	Location  *time.Location
	Store     repository.Store
	Storage   repository.StorageRepository
	Notifier  repository.Notifier
	Recorder  repository.RunRecorder
	Exporter  repository.RunExporter
	Cloud     repository.CloudIdentityRepository
	Delivery  *usecase.DeliveryUseCase
	Deliverer repository.Deliverer
	Trigger   *usecase.TriggerUseCase
	Reminders *usecase.ReminderUseCase

	aws *awsrepo.AWSRepositoryImpl

	mu        sync.Mutex
	started   bool
	scheduler *scheduler.Scheduler
	cancel    context.CancelFunc
}

// NewContainer monta todas as dependências. Falhas de conexão com o banco
// ou com a AWS interrompem a montagem.
func NewContainer(ctx context.Context, cfg *types.Config, log logrus.FieldLogger) (*Container, error) {
	loc, err := cfg.Report.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrValidation, err)
	}

	c := &Container{
		Config:   cfg,
		Log:      log,
		Location: loc,
		Exporter: export.NewExportRepository(),
		aws:      awsrepo.NewAWSRepository(cfg.Storage.Endpoint),
	}
	c.Cloud = c.aws

	if c.Store, err = c.openStore(ctx); err != nil {
		return nil, err
	}
	if c.Storage, err = c.openStorage(ctx); err != nil {
		return nil, err
	}
	if cfg.Mail.Host != "" {
		sender := notify.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password)
		c.Notifier = notify.NewMailNotifier(sender, cfg.Mail.From, cfg.Mail.FromName, cfg.Report.Organization, cfg.Mail.Recipients, loc)
	}
	if c.Recorder, err = c.openRecorder(ctx); err != nil {
		return nil, err
	}

	c.Delivery = usecase.NewDeliveryUseCase(
		c.Store,
		export.NewPDFRenderer(cfg.Report.Organization, loc, nil),
		c.Storage,
		c.Notifier,
		usecase.DeliveryOptions{Location: loc, IDPrefix: cfg.Report.IDPrefix, Folder: cfg.Storage.Folder},
		nil,
		log,
	)
	if c.Deliverer, err = c.openDeliverer(ctx); err != nil {
		return nil, err
	}
	c.Trigger = usecase.NewTriggerUseCase(
		c.Store,
		c.Store,
		c.Deliverer,
		c.Recorder,
		usecase.TriggerOptions{Concurrency: cfg.Trigger.Concurrency, Location: loc},
		nil,
		log,
	)
	c.Reminders = usecase.NewReminderUseCase(c.Store, c.Notifier, c.clock, log)
	return c, nil
}

func (c *Container) clock() time.Time {
	return time.Now().In(c.Location)
}

func (c *Container) openStore(ctx context.Context) (repository.Store, error) {
	cfg := c.Config.Store
	switch cfg.Driver {
	case "", "memory":
		c.Log.Warn("using in-memory record store; data is lost on exit")
		return memory.NewStore(), nil
	case "mongo":
		store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("ensuring indexes: %w", err)
		}
		return store, nil
	case "firestore":
		store, err := firestorestore.Open(ctx, cfg.FirestoreProjectID, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unsupported store driver %q", types.ErrValidation, cfg.Driver)
	}
}

func (c *Container) openStorage(ctx context.Context) (repository.StorageRepository, error) {
	cfg := c.Config.Storage
	switch cfg.Driver {
	case "", "local":
		return storage.NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL), nil
	case "s3":
		client, err := c.aws.S3Client(ctx, cfg.Profile, cfg.Region)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Storage(client, cfg.Bucket, cfg.Region, cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("%w: unsupported storage driver %q", types.ErrValidation, cfg.Driver)
	}
}

func (c *Container) openRecorder(ctx context.Context) (repository.RunRecorder, error) {
	cfg := c.Config.Audit
	if cfg.LogGroup == "" {
		return audit.NewLogRecorder(c.Log), nil
	}
	client, err := c.aws.CloudWatchLogsClient(ctx, c.Config.Storage.Profile, c.Config.Storage.Region)
	if err != nil {
		return nil, err
	}
	return audit.NewCloudWatchRecorder(client, cfg.LogGroup, cfg.LogStream), nil
}

func (c *Container) openDeliverer(ctx context.Context) (repository.Deliverer, error) {
	cfg := c.Config.Trigger
	switch cfg.Deliverer {
	case "", "local":
		return c.Delivery, nil
	case "http":
		return remote.NewHTTPDeliverer(nil, cfg.RemoteURL, c.Config.Server.CronSecret), nil
	case "lambda":
		client, err := c.aws.LambdaClient(ctx, c.Config.Storage.Profile, c.Config.Storage.Region)
		if err != nil {
			return nil, err
		}
		return remote.NewLambdaDeliverer(client, cfg.LambdaFunction), nil
	default:
		return nil, fmt.Errorf("%w: unsupported deliverer %q", types.ErrValidation, cfg.Deliverer)
	}
}

// Server monta o servidor HTTP. A geração avulsa sempre roda localmente.
func (c *Container) Server() *echo.Echo {
	h := httpapi.NewHandler(c.Trigger, c.Delivery, c.Store, c.Store, c.Config.Server.CronSecret, c.Log)
	return httpapi.NewServer(h, c.Log)
}

// Jobs devolve as tarefas periódicas habilitadas na configuração.
func (c *Container) Jobs() []scheduler.Job {
	cfg := c.Config.Scheduler
	jobs := []scheduler.Job{
		{
			Name: "monthly-reports",
			Next: scheduler.Monthly(cfg.MonthlyDay, cfg.MonthlyHour, c.Location),
			Run:  c.runTrigger("scheduler"),
		},
		{
			Name: "weekly-catch-up",
			Next: scheduler.Weekly(time.Weekday(cfg.CatchUpWeekday), cfg.CatchUpHour, c.Location),
			Run:  c.runTrigger("catch-up"),
		},
	}
	if cfg.RemindersActive && c.Notifier != nil {
		jobs = append(jobs, scheduler.Job{
			Name: "daily-reminders",
			Next: scheduler.Daily(cfg.ReminderHour, c.Location),
			Run: func(ctx context.Context) error {
				_, err := c.Reminders.SendDailyReminders(ctx)
				return err
			},
		})
	}
	return jobs
}

func (c *Container) runTrigger(source string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		result := c.Trigger.Run(ctx, entity.TriggerRequest{Source: source})
		if !result.Success {
			return fmt.Errorf("trigger run %s: %s", result.RunID, result.Error)
		}
		return nil
	}
}

// StartScheduler inicia as tarefas periódicas uma única vez por Container.
func (c *Container) StartScheduler(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return types.ErrSchedulerStarted
	}

	jobs := c.Jobs()
	ctx, cancel := context.WithCancel(ctx)
	c.scheduler = scheduler.New(c.Log, c.clock, jobs...)
	c.scheduler.Start(ctx)
	c.cancel = cancel
	c.started = true
	c.Log.WithField("jobs", len(jobs)).Info("scheduler started")
	return nil
}

// Close para o agendador e fecha o banco.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.scheduler.Wait()
		c.cancel = nil
	}
	c.mu.Unlock()
	return c.Store.Close(ctx)
}
