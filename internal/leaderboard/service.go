package leaderboard

import (
	"errors"
	"fmt"
	"sort"

	"github.com/SlpAus/meal-battle-backend/internal/meal"
	"github.com/SlpAus/meal-battle-backend/internal/platform/database"
)

// 排行榜支持的排序键
const (
	SortByWins   = "wins"
	SortByWinPct = "win_pct"
)

// ErrInvalidSortKey 表示请求了未知的排序键
var ErrInvalidSortKey = errors.New("invalid leaderboard sort key")

// Entry 是排行榜中单个餐品的只读投影
type Entry struct {
	Rank       int     `json:"rank"`
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Cuisine    string  `json:"cuisine"`
	Price      float64 `json:"price"`
	Difficulty string  `json:"difficulty"`
	Wins       int     `json:"wins"`
	Battles    int     `json:"battles"`
	WinPct     float64 `json:"winPct"`
}

// Rank 生成按指定键排序的排行榜
// 排序规则: 按所选键降序，平局先比获胜场次降序，再按ID升序保证确定性
// 读取的是最近一次已提交对战之后的完整快照，不会出现半更新的计数器
func Rank(sortKey string) ([]Entry, error) {
	// 1. 验证排序键
	if sortKey != SortByWins && sortKey != SortByWinPct {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortKey, sortKey)
	}

	// 2. 获取所有活跃餐品的统计快照
	// Redis镜像健康时走镜像，否则直接读数据库（数据库是权威数据源）
	meals, err := loadSnapshot()
	if err != nil {
		return nil, err
	}

	// 3. 多键排序
	sort.Slice(meals, func(i, j int) bool {
		a, b := &meals[i], &meals[j]

		var keyA, keyB float64
		switch sortKey {
		case SortByWinPct:
			keyA, keyB = a.WinRatio(), b.WinRatio()
		default:
			keyA, keyB = float64(a.Wins), float64(b.Wins)
		}

		if keyA != keyB {
			return keyA > keyB
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.ID < b.ID
	})

	// 4. 组装排行榜条目
	entries := make([]Entry, 0, len(meals))
	for i := range meals {
		m := &meals[i]
		entries = append(entries, Entry{
			Rank:       i + 1,
			ID:         m.ID,
			Name:       m.Name,
			Cuisine:    m.Cuisine,
			Price:      m.Price,
			Difficulty: m.Difficulty,
			Wins:       m.Wins,
			Battles:    m.Battles,
			WinPct:     m.WinPct(),
		})
	}
	return entries, nil
}

// loadSnapshot 返回一份一致的活跃餐品快照
func loadSnapshot() ([]meal.Meal, error) {
	if database.RDB != nil && database.IsRedisHealthy() {
		meals, err := meal.CachedActiveMeals()
		if err == nil {
			return meals, nil
		}
		// 镜像损坏：标记重建并回退到数据库
		fmt.Printf("警告: 读取排行榜镜像失败，回退到数据库: %v\n", err)
		database.RequestMirrorRebuild()
	}
	return meal.ListActiveMeals()
}
