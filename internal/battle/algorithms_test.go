package battle

import (
	"fmt"
	"testing"

	"github.com/SlpAus/meal-battle-backend/internal/meal"
	"github.com/stretchr/testify/assert"
)

func sampleMeal(price float64, cuisine, difficulty string) meal.Meal {
	return meal.Meal{ID: 1, Name: "Pizza", Cuisine: cuisine, Price: price, Difficulty: difficulty}
}

func TestScoreIsDeterministic(t *testing.T) {
	policy := DefaultScorePolicy()
	m := sampleMeal(12.99, "Italian", meal.DifficultyMed)

	first := policy.Score(&m)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, policy.Score(&m), "相同输入必须得到相同分数")
	}

	// 默认常量下的期望值: 价格×菜系长度−MED惩罚
	assert.InDelta(t, 12.99*7-2, first, 1e-9)
}

func TestScoreMonotonicInPrice(t *testing.T) {
	policy := DefaultScorePolicy()

	cheap := sampleMeal(5.0, "Italian", meal.DifficultyMed)
	pricey := sampleMeal(15.0, "Italian", meal.DifficultyMed)

	assert.Greater(t, policy.Score(&pricey), policy.Score(&cheap))
}

func TestScoreMonotonicInDifficulty(t *testing.T) {
	policy := DefaultScorePolicy()

	low := sampleMeal(10.0, "Italian", meal.DifficultyLow)
	med := sampleMeal(10.0, "Italian", meal.DifficultyMed)
	high := sampleMeal(10.0, "Italian", meal.DifficultyHigh)

	// LOW惩罚最大，HIGH惩罚最小
	assert.Less(t, policy.Score(&low), policy.Score(&med))
	assert.Less(t, policy.Score(&med), policy.Score(&high))
}

func TestWinProbabilityShape(t *testing.T) {
	policy := DefaultScorePolicy()

	// 分差为0时是均等的掷硬币
	assert.InDelta(t, 0.5, policy.WinProbability(0), 1e-9)

	// 对分差单调递增，且始终落在[0.5, 1)内
	prev := 0.0
	for _, delta := range []float64{0, 1, 5, 20, 50, 100, 500} {
		p := policy.WinProbability(delta)
		assert.GreaterOrEqual(t, p, 0.5)
		assert.Less(t, p, 1.0)
		assert.GreaterOrEqual(t, p, prev, "概率必须随分差单调不减")
		prev = p
	}

	// 符号无关：只看分差的大小
	assert.Equal(t, policy.WinProbability(30), policy.WinProbability(-30))
}

func TestEmpiricalWinRateMatchesProbability(t *testing.T) {
	policy := DefaultScorePolicy()
	random := NewSeededRandomSource(42)

	// 对若干个分差档位，用大量抽签验证经验胜率收敛到压缩函数的预测值
	for _, delta := range []float64{0, 10, 30, 80} {
		p := policy.WinProbability(delta)

		const trials = 200000
		wins := 0
		for i := 0; i < trials; i++ {
			if random.Float64() < p {
				wins++
			}
		}
		rate := float64(wins) / trials
		assert.InDelta(t, p, rate, 0.01, fmt.Sprintf("分差%v的经验胜率应接近%v", delta, p))
	}
}
