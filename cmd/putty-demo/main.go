package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gookit/color"
	"github.com/gookit/slog"
	"github.com/urfave/cli"

	"github.com/km-arc/go-putty/framework/app"
	"github.com/km-arc/go-putty/framework/logging"
)

var (
	envFile string
	serve   bool
	addr    string
	verbose bool
)

func main() {
	cliApp := &cli.App{
		Name:  "putty-demo",
		Usage: "Resolve a small service graph and optionally serve the container inspection API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "env,e",
				Value:       ".env",
				Usage:       "Load environment from `FILE`",
				Destination: &envFile,
			},
			&cli.BoolFlag{
				Name:        "serve",
				Usage:       "Serve the inspection API until interrupted",
				Destination: &serve,
			},
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "Inspection API address, overrides INSPECT_ADDR",
				Destination: &addr,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "Show debug output of the container",
				Destination: &verbose,
			},
		},
		Action: start,
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func start(*cli.Context) error {
	application, err := app.New(Modules(), app.WithEnvFiles(envFile), app.WithCatalog(Catalog()))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Container couldn't be created: %v", err), 3)
	}
	if verbose {
		logging.SetLevel(slog.DebugLevel)
	}

	color.Cyan.Printf("%s [%s]: %d bindings\n",
		application.Config.App.Name, application.Config.App.Env, application.Container.Registry().Len())
	if err := describe(os.Stdout, application.Container); err != nil {
		return cli.NewExitError(fmt.Sprintf("Services couldn't be resolved: %v", err), 4)
	}

	if !serve {
		return nil
	}
	application.Config.Inspect.Enabled = true
	if addr != "" {
		application.Config.Inspect.Addr = addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		return cli.NewExitError(fmt.Sprintf("Inspection API failed: %v", err), 5)
	}
	return nil
}
