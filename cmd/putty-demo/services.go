package main

import (
	"fmt"
	"io"

	"github.com/km-arc/go-putty/framework/config"
	"github.com/km-arc/go-putty/framework/container"
	"github.com/km-arc/go-putty/framework/logging"
)

// ── Services ──────────────────────────────────────────────────────────────────

type ILogger interface {
	Log(format string, args ...any)
}

type ConsoleLogger struct {
	logger *logging.Logger
}

func NewConsoleLogger(logger *logging.Logger) *ConsoleLogger {
	return &ConsoleLogger{logger: logger}
}

func (l *ConsoleLogger) Log(format string, args ...any) {
	l.logger.Infof(format, args...)
}

type IRepo interface {
	Name() string
}

type SqlRepo struct {
	dsn string
}

func NewSqlRepo(dsn string) *SqlRepo {
	return &SqlRepo{dsn: dsn}
}

func (r *SqlRepo) Name() string { return "sql(" + r.dsn + ")" }

type MemRepo struct {
	items map[string]string
}

func NewMemRepo() *MemRepo {
	return &MemRepo{items: map[string]string{}}
}

func (r *MemRepo) Name() string { return "memory" }

// ReportService receives the SQL repository through its constrained binding.
type ReportService struct {
	Repo   IRepo
	Logger ILogger
}

// AuditService falls back to the unconstrained repository.
type AuditService struct {
	Repo IRepo
}

type Mailer interface {
	Send(to, subject string) string
}

type SmtpMailer struct {
	logger  ILogger
	host    string
	timeout int
}

func NewSmtpMailer(logger ILogger, host string, timeout int) *SmtpMailer {
	return &SmtpMailer{logger: logger, host: host, timeout: timeout}
}

func (m *SmtpMailer) Send(to, subject string) string {
	m.logger.Log("sending %q to %s via %s", subject, to, m.host)
	return fmt.Sprintf("%s via %s (timeout %ds)", to, m.host, m.timeout)
}

// ── Wiring ────────────────────────────────────────────────────────────────────

// Catalog registers the constructors of the demo services.
func Catalog() *container.Catalog {
	return container.NewCatalog().
		MustRegister(NewConsoleLogger, container.Arg("logger")).
		MustRegister(NewSqlRepo, container.Arg("dsn")).
		MustRegister(NewMemRepo).
		MustRegister(NewSmtpMailer,
			container.Arg("logger"),
			container.Arg("host"),
			container.OptionalArg("timeout", 10),
		)
}

// Modules declares the demo bindings. Settings come from DEMO_DSN,
// DEMO_SMTP_HOST and DEMO_SMTP_TIMEOUT.
func Modules() []container.Module {
	return []container.Module{
		container.NewModule("logging", func(b *container.Binder) {
			container.BindType[ILogger](b).To(container.TypeOf[*ConsoleLogger]())
		}),
		container.NewModule("repositories", func(b *container.Binder) {
			container.BindType[IRepo](b).
				To(container.TypeOf[*SqlRepo]()).
				When(container.TypeOf[*ReportService]()).
				WithArg("dsn", config.Get("DEMO_DSN", "postgres://localhost/reports"))
			container.BindType[IRepo](b).To(container.TypeOf[*MemRepo]())
		}),
		container.NewModule("mail", func(b *container.Binder) {
			container.BindType[Mailer](b).
				To(container.TypeOf[*SmtpMailer]()).
				WithArgs(map[string]any{
					"host":    config.Get("DEMO_SMTP_HOST", "smtp.localhost"),
					"timeout": config.GetInt("DEMO_SMTP_TIMEOUT", 30),
				})
		}),
	}
}

// describe resolves the demo services and prints what each one received.
func describe(out io.Writer, c *container.Container) error {
	reports, err := container.Resolve[*ReportService](c)
	if err != nil {
		return err
	}
	audit, err := container.Resolve[*AuditService](c)
	if err != nil {
		return err
	}
	mailer, err := container.Resolve[Mailer](c)
	if err != nil {
		return err
	}
	again, err := container.Resolve[*ReportService](c)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "ReportService.Repo: %s\n", reports.Repo.Name())
	fmt.Fprintf(out, "AuditService.Repo:  %s\n", audit.Repo.Name())
	fmt.Fprintf(out, "Mailer:             %s\n", mailer.Send("ops@example.com", "weekly report"))
	fmt.Fprintf(out, "shared repository:  %t\n", reports.Repo == again.Repo)
	fmt.Fprintf(out, "shared logger:      %t\n", reports.Logger == again.Logger)
	return nil
}
