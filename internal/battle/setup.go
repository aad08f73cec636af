package battle

import (
	"fmt"

	"github.com/SlpAus/meal-battle-backend/internal/platform/config"
	"github.com/SlpAus/meal-battle-backend/internal/platform/database"
)

// defaultEngine 是handler使用的全局引擎实例
// 名单的作用域是整个服务进程，与原始系统的行为一致
var defaultEngine *Engine

// ConfigureModule 根据配置构造battle模块的全局引擎
// 必须在路由注册前调用一次
func ConfigureModule(cfg config.BattleConfig) {
	defaultEngine = NewEngine(
		NewRoster(),
		NewScorePolicy(cfg),
		NewPseudoRandomSource(),
		cfg.MirrorRetryLimit,
	)
	fmt.Println("Battle引擎已配置。")
}

// PrimeDB 负责初始化battle模块的数据库部分
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Battle{}); err != nil {
		return fmt.Errorf("无法迁移battle表: %w", err)
	}
	fmt.Println("Battle数据库表迁移成功。")
	return nil
}
