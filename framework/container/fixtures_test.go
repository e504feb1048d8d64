package container_test

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/km-arc/go-putty/framework/container"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type Logger interface {
	Log(msg string) string
}

// ConsoleLogger has a field so every allocation gets its own address.
type ConsoleLogger struct {
	id int
}

func (l *ConsoleLogger) Log(msg string) string { return "console: " + msg }

type FileLogger struct {
	path string
}

func (l *FileLogger) Log(msg string) string { return "file: " + msg }

type Repo interface {
	Name() string
}

type SqlRepo struct{ dsn string }

func (r *SqlRepo) Name() string { return "sql" }

type MemRepo struct{ items []string }

func (r *MemRepo) Name() string { return "mem" }

type ReportService struct {
	Repo Repo
}

type OtherService struct {
	Repo Repo
}

type Service struct {
	Logger Logger
}

type Mailer interface {
	Send(to string) string
}

type SmtpMailer struct {
	Logger  Logger
	Timeout int
}

func (m *SmtpMailer) Send(to string) string { return fmt.Sprintf("%s (%ds)", to, m.Timeout) }

func NewSmtpMailer(logger Logger, timeout int) *SmtpMailer {
	return &SmtpMailer{Logger: logger, Timeout: timeout}
}

// Client has an optional parameter in the middle of its constructor.
type Client struct {
	Retries int
	Logger  Logger
}

func NewClient(retries int, logger Logger) *Client {
	return &Client{Retries: retries, Logger: logger}
}

// Worker has an optional trailing parameter.
type Worker struct {
	Logger  Logger
	Retries int
}

func NewWorker(logger Logger, retries int) *Worker {
	return &Worker{Logger: logger, Retries: retries}
}

// Pair has two optional parameters of the same type.
type Pair struct {
	First, Second int
}

func NewPair(first, second int) *Pair {
	return &Pair{First: first, Second: second}
}

// Counter takes an unsigned count.
type Counter struct {
	N uint
}

type Named struct {
	Name string
}

type Chicken struct{ Egg *Egg }
type Egg struct{ Chicken *Chicken }

// counted builds a *ConsoleLogger constructor that counts its calls.
func counted(calls *atomic.Int32) func() *ConsoleLogger {
	return func() *ConsoleLogger {
		n := calls.Add(1)
		return &ConsoleLogger{id: int(n)}
	}
}

// flaky fails on its first call only.
func flaky(calls *atomic.Int32) func() (*ConsoleLogger, error) {
	return func() (*ConsoleLogger, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("warming up")
		}
		return &ConsoleLogger{}, nil
	}
}

var (
	loggerType        = container.TypeOf[Logger]()
	consoleLoggerType = container.TypeOf[*ConsoleLogger]()
	fileLoggerType    = container.TypeOf[*FileLogger]()
	repoType          = container.TypeOf[Repo]()
	sqlRepoType       = container.TypeOf[*SqlRepo]()
	memRepoType       = container.TypeOf[*MemRepo]()
	reportServiceType = container.TypeOf[*ReportService]()
	otherServiceType  = container.TypeOf[*OtherService]()
	serviceType       = container.TypeOf[*Service]()
	mailerType        = container.TypeOf[Mailer]()
	smtpMailerType    = container.TypeOf[*SmtpMailer]()
)

func classBinding(parent, target, constraint reflect.Type) *container.Binding {
	return container.NewClassBinding(parent, target, constraint, nil)
}
