// @title SphereView 后端 API
// @version 1.0
// @description SphereView 灵修进度服务：观看进度、反思回答与统计。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"log"
	"sphereview_backend/internal/app"
	"sphereview_backend/internal/config"
	"sphereview_backend/pkg/logger"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Version     kong.VersionFlag
	ConfigDir   string `help:"配置文件所在目录" type:"path" default:"configs" name:"config-dir"`
	Migrate     bool   `help:"启动时强制执行数据库迁移（即使是 release 模式）"`
	MigrateOnly bool   `help:"只执行数据库迁移，完成后退出" name:"migrate-only"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("sphereview"),
		kong.Description("SphereView devotional progress server"),
		kong.UsageOnError(),
		kong.Vars{"version": "v1.0.0"},
	)

	cfg, err := config.LoadConfig(CLI.ConfigDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = CLI.Migrate || CLI.MigrateOnly
	cfg.MigrateOnly = CLI.MigrateOnly

	application, err := app.NewApp(cfg, CLI.ConfigDir)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if CLI.MigrateOnly {
		if application.DB == nil {
			log.Println("数据库未配置，跳过迁移")
		} else {
			log.Println("数据库迁移完成，退出程序")
		}
		return
	}

	if err := application.Run(); err != nil {
		logger.Log.Sync()
		log.Fatalf("Server error: %v", err)
	}
}
