package meal

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/SlpAus/meal-battle-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
)

// --- Redis-specific Definitions ---
// 这些定义归属于仓库，它们描述了仓库所管理的外部镜像数据结构
// 数据库是唯一权威数据源，Redis中只保存派生的热镜像

const (
	// InfoKey 是一个Redis Hash，存储所有活跃餐品的静态信息
	InfoKey = "meal_info"
	// StatsKey 是一个Redis Hash，存储所有活跃餐品的动态统计数据
	StatsKey = "meal_stats"
	// RankingWinsKey 是按获胜场次排序的Redis Sorted Set
	RankingWinsKey = "meal_ranking:wins"
	// RankingWinPctKey 是按胜率排序的Redis Sorted Set
	RankingWinPctKey = "meal_ranking:win_pct"
)

// MealInfo 定义了在meal_info Hash中存储的静态数据
type MealInfo struct {
	Name       string  `json:"name"`
	Cuisine    string  `json:"cuisine"`
	Price      float64 `json:"price"`
	Difficulty string  `json:"difficulty"`
}

// MealStats 定义了在meal_stats Hash中存储的动态数据
type MealStats struct {
	Wins    int     `json:"wins"`
	Battles int     `json:"battles"`
	WinPct  float64 `json:"winPct"`
}

// cacheField 返回餐品在各个Hash中使用的字段名
func cacheField(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// MirrorMeal 将单个餐品的镜像写操作追加到pipe中
// 调用方负责执行pipe并处理错误
func MirrorMeal(pipe redis.Pipeliner, m *Meal) {
	info := MealInfo{
		Name:       m.Name,
		Cuisine:    m.Cuisine,
		Price:      m.Price,
		Difficulty: m.Difficulty,
	}
	stats := MealStats{
		Wins:    m.Wins,
		Battles: m.Battles,
		WinPct:  m.WinPct(),
	}
	infoJSON, _ := json.Marshal(info)
	statsJSON, _ := json.Marshal(stats)

	field := cacheField(m.ID)
	pipe.HSet(database.Ctx, InfoKey, field, infoJSON)
	pipe.HSet(database.Ctx, StatsKey, field, statsJSON)
	pipe.ZAdd(database.Ctx, RankingWinsKey, redis.Z{Score: float64(m.Wins), Member: field})
	pipe.ZAdd(database.Ctx, RankingWinPctKey, redis.Z{Score: m.WinRatio(), Member: field})
}

// UnmirrorMeal 将单个餐品的镜像删除操作追加到pipe中
func UnmirrorMeal(pipe redis.Pipeliner, id uint) {
	field := cacheField(id)
	pipe.HDel(database.Ctx, InfoKey, field)
	pipe.HDel(database.Ctx, StatsKey, field)
	pipe.ZRem(database.Ctx, RankingWinsKey, field)
	pipe.ZRem(database.Ctx, RankingWinPctKey, field)
}

// WarmupCache 从数据库加载所有活跃餐品，整体重建Redis镜像
// 注意：此函数不加锁，调用方需要保证在安全的时机（启动或健康检查重建）调用
func WarmupCache() error {
	meals, err := ListActiveMeals()
	if err != nil {
		return fmt.Errorf("无法从数据库读取餐品数据: %w", err)
	}

	pipe := database.RDB.TxPipeline()
	pipe.Del(database.Ctx, InfoKey, StatsKey, RankingWinsKey, RankingWinPctKey)
	for i := range meals {
		MirrorMeal(pipe, &meals[i])
	}

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热餐品镜像到Redis失败: %w", err)
	}

	fmt.Printf("成功预热 %d 条餐品数据到Redis镜像。\n", len(meals))
	return nil
}

// CachedActiveMeals 从Redis镜像还原所有活跃餐品
// 返回的Meal只填充镜像中存在的字段，ID来自Hash的字段名
func CachedActiveMeals() ([]Meal, error) {
	pipe := database.RDB.Pipeline()
	infoCmd := pipe.HGetAll(database.Ctx, InfoKey)
	statsCmd := pipe.HGetAll(database.Ctx, StatsKey)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return nil, fmt.Errorf("无法从Redis读取餐品镜像: %w", err)
	}

	infoMap := infoCmd.Val()
	statsMap := statsCmd.Val()

	meals := make([]Meal, 0, len(infoMap))
	for field, infoJSON := range infoMap {
		statsJSON, ok := statsMap[field]
		if !ok {
			// 两个Hash不同步说明镜像损坏，交给调用方回退到数据库
			return nil, fmt.Errorf("餐品 %s 的镜像数据不完整", field)
		}
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("非法的镜像字段名 %q", field)
		}

		var info MealInfo
		var stats MealStats
		if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
			return nil, fmt.Errorf("无法解析餐品 %s 的静态镜像: %w", field, err)
		}
		if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
			return nil, fmt.Errorf("无法解析餐品 %s 的统计镜像: %w", field, err)
		}

		meals = append(meals, Meal{
			ID:         uint(id),
			Name:       info.Name,
			Cuisine:    info.Cuisine,
			Price:      info.Price,
			Difficulty: info.Difficulty,
			Wins:       stats.Wins,
			Battles:    stats.Battles,
		})
	}
	return meals, nil
}

// mirrorAfterWrite 在创建后尽力同步镜像，失败时标记镜像为脏
func mirrorAfterWrite(m *Meal) {
	if database.RDB == nil {
		return
	}
	pipe := database.RDB.TxPipeline()
	MirrorMeal(pipe, m)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		fmt.Printf("警告: 餐品 %d 的镜像写入失败: %v\n", m.ID, err)
		database.RequestMirrorRebuild()
	}
}

// unmirrorAfterDelete 在软删除后尽力同步镜像，失败时标记镜像为脏
func unmirrorAfterDelete(id uint) {
	if database.RDB == nil {
		return
	}
	pipe := database.RDB.TxPipeline()
	UnmirrorMeal(pipe, id)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		fmt.Printf("警告: 餐品 %d 的镜像删除失败: %v\n", id, err)
		database.RequestMirrorRebuild()
	}
}
