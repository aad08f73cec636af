package meal

import (
	"math"
	"time"
)

// 难度的合法取值，难度只影响对战分数中的惩罚项
const (
	DifficultyLow  = "LOW"
	DifficultyMed  = "MED"
	DifficultyHigh = "HIGH"
)

// Meal 定义了数据库中餐品的数据结构
type Meal struct {
	// ID 是餐品的唯一数字标识，创建后不可变
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Name 是餐品的唯一名称，也作为备用查询键
	Name string `gorm:"uniqueIndex;not null" json:"name"`

	// Cuisine 是菜系标签，自由文本
	Cuisine string `json:"cuisine"`

	// Price 是餐品价格，必须为正数
	Price float64 `json:"price"`

	// Difficulty 是制作难度，取值为 LOW / MED / HIGH
	Difficulty string `json:"difficulty"`

	// --- 以下是用于排名的字段 ---

	// Wins 是餐品获胜的场次
	Wins int `json:"wins"`

	// Battles 是餐品参与的总场次，不变量: Wins <= Battles
	Battles int `json:"battles"`

	// Deleted 是软删除标记
	// 被删除的餐品不再出现在查询、对战和排行榜中，但记录本身保留以供审计
	// 注意这里没有使用gorm.DeletedAt，排除逻辑由仓库显式控制
	Deleted bool `gorm:"index;default:false" json:"-"`
}

// ValidDifficulty 判断难度取值是否合法
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyLow, DifficultyMed, DifficultyHigh:
		return true
	}
	return false
}

// WinPct 返回胜率百分比，保留一位小数
// 没有参与过对战的餐品胜率记为0
func (m *Meal) WinPct() float64 {
	if m.Battles == 0 {
		return 0
	}
	return math.Round(float64(m.Wins)/float64(m.Battles)*1000) / 10
}

// WinRatio 返回未经舍入的原始胜率，供排序比较使用
func (m *Meal) WinRatio() float64 {
	if m.Battles == 0 {
		return 0
	}
	return float64(m.Wins) / float64(m.Battles)
}
