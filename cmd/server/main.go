// @title Daily Digest API
// @version 1.0.0
// @description Operator API for the daily commit digest service: users, GitHub credentials, reports and jobs.
// @BasePath /digest
// @securityDefinitions.apikey OperatorAuth
// @in header
// @name Authorization
// @description Provide the operator bearer token as `Bearer <token>`.

// @Tag.name Operators Auth
// @Tag.description Authentication flows for API operators.

// @Tag.name Digest Users
// @Tag.description Developers and their report configuration.

// @Tag.name Digest GitHub
// @Tag.description Credentials, repository sync and commit fetching.

// @Tag.name Digest Reports
// @Tag.description Generated reports, deliveries and test email.

// @Tag.name Digest Jobs
// @Tag.description On-demand runs of the scheduled jobs.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dailydigest/internal"
	"dailydigest/internal/env"
	"dailydigest/internal/logger"
)

func main() {
	deployment := flag.String("deployment", "", "deployment profile (dev|test|prod)")
	portFlag := flag.String("port", "", "port to listen on")
	envRoot := flag.String("env-root", "", "directory containing environment files")
	appVersion := flag.String("app-version", "", "application version override")
	noScheduler := flag.Bool("no-scheduler", false, "serve the API without running periodic jobs")

	flag.Parse()

	deploy := strings.TrimSpace(*deployment)
	if deploy == "" {
		args := flag.Args()
		if len(args) == 0 {
			fmt.Println("Usage: server --deployment <type> --port <port> [--env-root <dir>] [--app-version <version>] [--no-scheduler]")
			os.Exit(1)
		}
		deploy = strings.TrimSpace(args[0])
	}

	port := strings.TrimSpace(*portFlag)
	if port == "" {
		log.Fatal("port is required")
	}

	app, rt := internal.SetupApp(deploy, *envRoot, *appVersion)
	defer rt.Close()

	ctx := context.Background()
	if !*noScheduler {
		rt.Scheduler.Start()
		logger.Info(ctx, "scheduler started", "jobs", rt.Scheduler.Jobs())
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		logger.Info(ctx, "shutting down")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			logger.Error(ctx, "server shutdown failed", err)
		}
	}()

	fmt.Println("APP VERSION:", env.VERSION)

	if err := app.Listen(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatalf("Error listening on port %s: %v", port, err)
	}
}
