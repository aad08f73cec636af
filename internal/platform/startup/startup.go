package startup

import (
	"fmt"

	"github.com/SlpAus/meal-battle-backend/internal/battle"
	"github.com/SlpAus/meal-battle-backend/internal/meal"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := meal.PrimeCachedDB(); err != nil {
		return err
	}
	if err := battle.PrimeDB(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 在运行时热重建Redis镜像。
// 数据库是唯一的权威数据源，所以重建只是把活跃餐品的统计重新写入Redis。
func RebuildCache() error {
	fmt.Println("开始Redis镜像热重建...")

	if err := meal.WarmupCache(); err != nil {
		return err
	}

	fmt.Println("Redis镜像热重建完成。")
	return nil
}
