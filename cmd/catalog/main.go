// Command catalog serves the account and catalog API.
//
//	catalog [-config config.yml] [-env-file .env] [serve]
//	catalog [-config config.yml] migrate up|down|version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kbukum/catalog/config"
	"github.com/kbukum/catalog/logger"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		logger.NewDefault(serviceName).Error("catalog exited", logger.Fields("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	configFile := fs.String("config", "", "path to config.yml (default: searched)")
	envFile := fs.String("env-file", "", "path to .env (default: searched)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}
	cfg, err := loadConfig(opts...)
	if err != nil {
		return err
	}

	switch cmd := fs.Arg(0); cmd {
	case "", "serve":
		app, err := newApp(cfg, stdout)
		if err != nil {
			return err
		}
		return app.Run(ctx)
	case "migrate":
		return runMigrate(ctx, cfg, fs.Arg(1), stdout)
	default:
		return fmt.Errorf("unknown command %q (want serve or migrate)", cmd)
	}
}

var errUsage = errors.New("usage: catalog migrate up|down|version")
