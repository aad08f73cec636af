package main

import (
	"fmt"
	"net/http"

	"github.com/SlpAus/meal-battle-backend/api"
	"github.com/SlpAus/meal-battle-backend/internal/battle"
	"github.com/SlpAus/meal-battle-backend/internal/platform/config"
	"github.com/SlpAus/meal-battle-backend/internal/platform/database"
	"github.com/SlpAus/meal-battle-backend/internal/platform/health"
	"github.com/SlpAus/meal-battle-backend/internal/platform/shutdown"
	"github.com/SlpAus/meal-battle-backend/internal/platform/startup"
	"github.com/SlpAus/meal-battle-backend/pkg/lifecycle"
	"github.com/joho/godotenv"
)

func main() {
	// 0. 先加载.env，再由viper读取配置（环境变量可覆盖配置文件）
	if err := godotenv.Load(); err != nil {
		fmt.Println("未找到.env文件，直接读取环境变量。")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("配置加载失败: %v", err))
	}

	// 1. 初始化数据库和Redis
	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Database.Redis)

	// 2. 阻塞式获取初始Run ID
	health.InitializeRunID()

	// 3. 配置battle模块并执行应用首次启动初始化流程
	battle.ConfigureModule(cfg.Battle)
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 4. 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 5. 注册并异步启动后台的持续健康检查器
	manager := lifecycle.NewManager()
	healthHandle, err := manager.NewServiceHandle("redis-health-checker")
	if err != nil {
		panic(err)
	}
	go health.StartRedisHealthCheck(healthHandle)

	// 6. 构造Gin引擎并启动HTTP服务器
	r := api.NewRouter(cfg.Server)
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	// 7. 阻塞等待停机信号，执行优雅停机
	coordinator := shutdown.NewCoordinator(manager)
	coordinator.ListenForSignalsAndShutdown(server)
}
