// @title Todo Reminder API
// @version 1.0
// @description 有序任务列表、倒计时与到期提醒
// @host localhost:7789
// @BasePath /api/v1
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"todo-reminder/api"
	"todo-reminder/app"
	"todo-reminder/config"
	"todo-reminder/handler"
	"todo-reminder/reminder"
)

func main() {
	configPath := flag.String("config", "", "path to todo.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer a.Close()

	// 服务端没有交互式确认，未决定的权限保持 default，需要通过 API 授权
	if a.Signal.Permission() == reminder.PermissionDefault {
		log.Println("Notification permission undecided; PUT /api/v1/notifications/permission to grant")
	}

	h := handler.NewHandler(a.List, a.Signal)
	mux := api.SetupRoutes(h)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Engine.Run(gctx)
	})

	g.Go(func() error {
		log.Printf("Server started on %s (storage: %s)", cfg.Server.Addr, cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 优雅关闭
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return server.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
