package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/diillson/maternity-reports-go/internal/adapter/driven/config"
	"github.com/diillson/maternity-reports-go/internal/application/usecase"
	"github.com/diillson/maternity-reports-go/internal/bootstrap"
	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/diillson/maternity-reports-go/internal/shared/types"
	"github.com/diillson/maternity-reports-go/pkg/logger"
	"github.com/diillson/maternity-reports-go/pkg/version"
	"github.com/spf13/cobra"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd *cobra.Command
	console types.ConsoleInterface
	configs repository.ConfigRepository
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(console types.ConsoleInterface) *CLIApp {
	app := &CLIApp{
		console: console,
		configs: config.NewConfigRepository(),
	}

	rootCmd := &cobra.Command{
		Use:           "maternity-reports",
		Short:         "Monthly maternity reports: generation, delivery and scheduling",
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "Maternity Reports version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("env-file", "e", "", "Path to a .env file (default: ./.env when present)")

	rootCmd.AddCommand(
		app.serveCommand(),
		app.triggerCommand(),
		app.deliverCommand(),
		app.statusCommand(),
		app.checkCommand(),
		app.versionCommand(),
	)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

func periodFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("month", "m", "", "Month name (e.g. février, fevrier, february) or number; default: previous month")
	cmd.Flags().IntP("year", "y", 0, "Year of the period (default: year of the month)")
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	envFile, _ := flags.GetString("env-file")
	month, _ := flags.GetString("month")
	year, _ := flags.GetInt("year")
	centers, _ := flags.GetStringSlice("centers")
	reportType, _ := flags.GetString("type")
	concurrency, _ := flags.GetInt("concurrency")
	reportName, _ := flags.GetString("report-name")
	export, _ := flags.GetStringSlice("export")
	dir, _ := flags.GetString("dir")

	if center, _ := flags.GetString("center"); center != "" {
		centers = []string{center}
	}

	for _, format := range export {
		if format != "csv" && format != "json" {
			return nil, fmt.Errorf("%w: unsupported export format %q (use csv or json)", types.ErrValidation, format)
		}
	}

	if len(export) > 0 {
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			dir = cwd
		} else {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return nil, err
			}
			dir = absDir
		}
	}

	return &types.CLIArgs{
		ConfigFile:  configFile,
		EnvFile:     envFile,
		Month:       strings.TrimSpace(month),
		Year:        year,
		CenterIDs:   centers,
		ReportType:  reportType,
		Concurrency: concurrency,
		ReportName:  reportName,
		Export:      export,
		Dir:         dir,
	}, nil
}

// setup carrega a configuração e monta o Container.
func (app *CLIApp) setup(ctx context.Context, args *types.CLIArgs) (*bootstrap.Container, error) {
	cfg, err := app.configs.Load(args.ConfigFile, args.EnvFile)
	if err != nil {
		return nil, err
	}
	if args.Concurrency > 0 {
		cfg.Trigger.Concurrency = args.Concurrency
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return bootstrap.NewContainer(ctx, cfg, log)
}

func (app *CLIApp) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and, when enabled, the scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := app.setup(ctx, args)
			if err != nil {
				return err
			}
			defer c.Close(context.Background())

			displayWelcomeBanner(c.Config.Report.Organization)

			if c.Config.Scheduler.Enabled {
				if err := c.StartScheduler(ctx); err != nil {
					return err
				}
				app.console.LogInfo("Scheduler enabled (%d jobs)", len(c.Jobs()))
			}

			server := c.Server()
			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start(c.Config.Server.Address)
			}()
			app.console.LogSuccess("Listening on %s", c.Config.Server.Address)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			app.console.LogInfo("Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

func (app *CLIApp) triggerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Generate every missing report of a period for all (or selected) centers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			c, err := app.setup(cmd.Context(), args)
			if err != nil {
				return err
			}
			defer c.Close(context.Background())

			status := app.console.Status("Generating missing reports...")
			result := c.Trigger.Run(cmd.Context(), entity.TriggerRequest{
				Month:     args.Month,
				Year:      args.Year,
				CenterIDs: args.CenterIDs,
				Source:    "cli",
			})
			status.Stop()

			if !result.Success {
				return fmt.Errorf("trigger run failed: %s", result.Error)
			}
			app.displayRun(result)

			for _, format := range args.Export {
				if err := app.exportRun(c.Exporter, result, format, args); err != nil {
					app.console.LogError("Export failed: %v", err)
				}
			}

			if failed := result.TotalAttempted - result.GeneratedCount; failed > 0 {
				app.console.LogWarning("%d report(s) failed; the weekly catch-up or a new run will retry them", failed)
			}
			return nil
		},
	}
	periodFlags(cmd)
	cmd.Flags().StringSliceP("centers", "c", nil, "Restrict the run to these center IDs (comma-separated)")
	cmd.Flags().IntP("concurrency", "j", 0, "Number of centers processed in parallel (default: from config)")
	cmd.Flags().StringSliceP("export", "x", nil, "Export the run result: csv, json")
	cmd.Flags().StringP("report-name", "n", "", "Base name for the export file (without extension)")
	cmd.Flags().StringP("dir", "d", "", "Directory to save the export files (default: current directory)")
	return cmd
}

func (app *CLIApp) exportRun(exporter repository.RunExporter, result entity.TriggerResult, format string, args *types.CLIArgs) error {
	name := args.ReportName
	if name == "" {
		name = fmt.Sprintf("trigger_%s_%d", result.Month, result.Year)
	}

	var path string
	var err error
	switch format {
	case "csv":
		path, err = exporter.ExportRunToCSV(result, name, args.Dir)
	case "json":
		path, err = exporter.ExportRunToJSON(result, name, args.Dir)
	}
	if err != nil {
		return err
	}
	app.console.LogSuccess("Run exported to %s", path)
	return nil
}

func (app *CLIApp) displayRun(result entity.TriggerResult) {
	table := app.console.CreateTable()
	table.AddColumn("Center")
	table.AddColumn("Report")
	table.AddColumn("State")
	table.AddColumn("Report ID")
	table.AddColumn("Document / Error")

	for _, tr := range result.Results {
		detail := tr.DocumentURL
		if !tr.Success {
			detail = tr.Error
		}
		table.AddRow(tr.CenterID, string(tr.Type), string(tr.State), tr.ReportID, detail)
	}

	app.console.LogInfo("Run %s - %s %d", result.RunID, result.Month, result.Year)
	if len(result.Results) > 0 {
		app.console.Println(table.Render())
	}
	app.console.LogSuccess("%d/%d report(s) generated, %d center(s) already complete",
		result.GeneratedCount, result.TotalAttempted, result.SkippedCenters)
}

func (app *CLIApp) deliverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deliver",
		Short: "Generate, upload and record one report (or all three types) for a center",
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			reportTypes, err := parseReportTypes(args.ReportType)
			if err != nil {
				return err
			}

			c, err := app.setup(cmd.Context(), args)
			if err != nil {
				return err
			}
			defer c.Close(context.Background())

			period, err := usecase.ResolvePeriod(args.Month, args.Year, time.Now().In(c.Location))
			if err != nil {
				return err
			}
			centerID := ""
			if len(args.CenterIDs) > 0 {
				centerID = args.CenterIDs[0]
			}

			progress := app.console.ProgressWithTotal(len(reportTypes), "Delivering reports")
			results := make([]entity.DeliverResult, len(reportTypes))
			for i, t := range reportTypes {
				results[i] = c.Deliverer.Deliver(cmd.Context(), entity.DeliverRequest{
					Type:        t,
					PeriodLabel: period.Label(),
					Year:        period.Year,
					CenterID:    centerID,
					GeneratedBy: "cli",
				})
				progress.Increment()
			}
			progress.Stop()

			failed := 0
			for i, res := range results {
				if res.Success {
					app.console.LogSuccess("%s %s: %s (%s)", reportTypes[i], period, res.ReportID, res.DocumentURL)
					continue
				}
				failed++
				app.console.LogError("%s %s failed at %s: %s", reportTypes[i], period, res.FailedStep, res.Error)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d report(s) failed", failed, len(results))
			}
			return nil
		},
	}
	periodFlags(cmd)
	cmd.Flags().StringP("type", "t", "all", "Report type: PrenatalConsultation, Delivery, FamilyPlanning or all")
	cmd.Flags().String("center", "", "Center ID (default: all centers combined)")
	return cmd
}

func parseReportTypes(s string) ([]entity.ReportType, error) {
	if s == "" || strings.EqualFold(s, "all") {
		return entity.AllReportTypes, nil
	}
	t, err := entity.ParseReportType(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrValidation, err)
	}
	return []entity.ReportType{t}, nil
}

func (app *CLIApp) statusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which reports already exist for each center in a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			c, err := app.setup(cmd.Context(), args)
			if err != nil {
				return err
			}
			defer c.Close(context.Background())

			period, err := usecase.ResolvePeriod(args.Month, args.Year, time.Now().In(c.Location))
			if err != nil {
				return err
			}
			rows, err := coverage(cmd.Context(), c.Store, period)
			if err != nil {
				return err
			}
			app.console.DisplayCoverage(period.String(), rows)
			return nil
		},
	}
	periodFlags(cmd)
	return cmd
}

// coverage monta uma linha por centro com os tipos já gerados no período.
func coverage(ctx context.Context, store repository.Store, period entity.Period) ([]types.CoverageRow, error) {
	centers, err := store.ListCenters(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]types.CoverageRow, 0, len(centers))
	for _, center := range centers {
		existing, err := store.FindReports(ctx, center.ID, period.Label(), period.Year)
		if err != nil {
			return nil, fmt.Errorf("reading reports of %s: %w", center.ID, err)
		}
		missing := usecase.MissingTypes(existing)
		names := make([]string, len(missing))
		for i, t := range missing {
			names[i] = string(t)
		}

		label := center.ID
		if center.Name != "" {
			label = fmt.Sprintf("%s (%s)", center.Name, center.ID)
		}
		rows = append(rows, types.CoverageRow{
			Center:    label,
			Generated: len(entity.AllReportTypes) - len(missing),
			Expected:  len(entity.AllReportTypes),
			Missing:   names,
		})
	}
	return rows, nil
}

func (app *CLIApp) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the AWS credentials used for storage, remote delivery and audit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			c, err := app.setup(cmd.Context(), args)
			if err != nil {
				return err
			}
			defer c.Close(context.Background())

			profiles := c.Cloud.GetAWSProfiles()
			if len(profiles) == 0 {
				app.console.LogWarning("No AWS profiles found in the shared config files")
			} else {
				app.console.LogInfo("AWS profiles: %s", strings.Join(profiles, ", "))
			}

			profile := c.Config.Storage.Profile
			accountID, err := c.Cloud.GetAccountID(cmd.Context(), profile)
			if err != nil {
				return fmt.Errorf("AWS credentials check failed: %w", err)
			}
			if profile == "" {
				profile = "default chain"
			}
			app.console.LogSuccess("Credentials valid for account %s (%s)", accountID, profile)
			return nil
		},
	}
}

func (app *CLIApp) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("Maternity Reports version: " + version.FormatVersion())
		},
	}
}
