package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anoixa/imgdrop/api/core"
	"github.com/anoixa/imgdrop/internal/app"
	"github.com/anoixa/imgdrop/storage"
	"github.com/anoixa/imgdrop/utils"
	"github.com/anoixa/imgdrop/utils/format"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container := app.NewContainer(cfg)
	if err := container.Init(); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	InitDatabase(container)

	// 启动时清理残留暂存文件
	staging := container.GetStaging()
	log.Printf("Staging area: %s (%s)", staging.BasePath(), staging.Name())
	maxAge := cfg.StagingMaxAge
	utils.SafeGo(func() {
		sweepStaging(staging, maxAge)
	})

	server := core.StartServer(container.ServerDependencies())
	go func() {
		log.Printf("Server started on %s, public base URL %s, upload limit %s",
			cfg.Addr(), cfg.BaseURL(), format.HumanReadableSize(format.MegabytesToBytes(cfg.UploadMaxSizeMB)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// 处理退出signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	// 关闭 DI 容器
	if err := container.Close(); err != nil {
		log.Errorf("Error closing container: %v", err)
	}

	log.Println("Server exited successfully")
}

// InitDatabase 自动建表
func InitDatabase(container *app.Container) {
	factory := container.GetDatabaseFactory()
	log.Printf("Initializing database, database type: %s", factory.GetProvider().Name())

	if err := factory.AutoMigrate(); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	log.Println("Database initialized successfully")
}

// sweepStaging 清理超过 maxAge 的暂存文件，maxAge 不大于 0 时跳过
func sweepStaging(staging *storage.LocalStorage, maxAge time.Duration) {
	if staging == nil || maxAge <= 0 {
		return
	}
	removed, err := staging.CleanOlderThan(time.Now().Add(-maxAge), false)
	if err != nil {
		log.Warnf("Failed to sweep staging directory: %v", err)
		return
	}
	if len(removed) > 0 {
		log.Printf("Removed %d stale staging files", len(removed))
	}
}
