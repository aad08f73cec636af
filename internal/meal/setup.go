package meal

import (
	"fmt"

	"github.com/SlpAus/meal-battle-backend/internal/platform/database"
)

// PrimeCachedDB 负责初始化meal模块的数据库和Redis镜像
func PrimeCachedDB() error {
	// 1. 迁移数据库表结构
	if err := database.DB.AutoMigrate(&Meal{}); err != nil {
		return fmt.Errorf("无法迁移meal表: %w", err)
	}
	fmt.Println("Meal数据库表迁移成功。")

	// 2. 将活跃餐品预热到Redis镜像
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}
