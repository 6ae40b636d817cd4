package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/frostcart/frostcart/config"
	"github.com/frostcart/frostcart/internal/adminapi"
	"github.com/frostcart/frostcart/internal/app"
	"github.com/frostcart/frostcart/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	showVer  = flag.Bool("v", false, "show version")
	conffile = flag.String("c", "", "config yaml file")
	initdb   = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
)

var (
	BuildVersion = "dev"
	ReleaseDate  = ""
)

func printVersion() {
	fmt.Printf("frostcart %s %s\n", BuildVersion, ReleaseDate)
}

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		return
	}
	if *showVer {
		printVersion()
		return
	}

	cfg := config.LoadConfig(*conffile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	webserver.Init(application)
	adminapi.InitRouter()
	application.StartBackgroundJobs(ctx)

	errChan := make(chan error, 1)
	go func() {
		errChan <- webserver.Listen()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zap.S().Errorf("web server failed: %v", err)
		}
	case sig := <-sigChan:
		zap.S().Infof("received signal %s, shutting down", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := webserver.Shutdown(shutdownCtx); err != nil {
			zap.S().Errorf("shutdown error: %v", err)
		}
	}
}
