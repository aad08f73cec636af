package battle

import (
	"math"

	"github.com/SlpAus/meal-battle-backend/internal/meal"
	"github.com/SlpAus/meal-battle-backend/internal/platform/config"
)

// ScorePolicy 持有对战分数公式的策略常量
// 常量本身是配置而非结构不变量，代码只依赖单调性：
// 价格越高分数越高，难度惩罚越低分数越高
type ScorePolicy struct {
	modifierLow  float64
	modifierMed  float64
	modifierHigh float64
	squashScale  float64
}

// NewScorePolicy 从配置构造分数策略
func NewScorePolicy(cfg config.BattleConfig) ScorePolicy {
	p := ScorePolicy{
		modifierLow:  cfg.ModifierLow,
		modifierMed:  cfg.ModifierMed,
		modifierHigh: cfg.ModifierHigh,
		squashScale:  cfg.SquashScale,
	}
	if p.squashScale <= 0 {
		p.squashScale = 50.0
	}
	return p
}

// DefaultScorePolicy 返回使用默认常量的策略，主要供测试使用
func DefaultScorePolicy() ScorePolicy {
	return ScorePolicy{
		modifierLow:  3.0,
		modifierMed:  2.0,
		modifierHigh: 1.0,
		squashScale:  50.0,
	}
}

// difficultyModifier 返回难度对应的分数惩罚值
func (p ScorePolicy) difficultyModifier(difficulty string) float64 {
	switch difficulty {
	case meal.DifficultyLow:
		return p.modifierLow
	case meal.DifficultyHigh:
		return p.modifierHigh
	default:
		return p.modifierMed
	}
}

// Score 计算餐品的对战分数
// 公式: 价格 × 菜系名长度 − 难度惩罚
// 不含任何随机成分，相同输入永远得到相同分数
func (p ScorePolicy) Score(m *meal.Meal) float64 {
	return m.Price*float64(len(m.Cuisine)) - p.difficultyModifier(m.Difficulty)
}

// WinProbability 把非负的分差压缩为高分方的获胜概率
// 公式: 1 / (1 + 10^(-d/scale))，d=0时为0.5，d越大越接近1
// 与ELO期望胜率是同一族函数，保证分差到概率的映射单调
func (p ScorePolicy) WinProbability(delta float64) float64 {
	if delta < 0 {
		delta = -delta
	}
	return 1.0 / (1.0 + math.Pow(10, -delta/p.squashScale))
}
