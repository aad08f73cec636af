package battle

import (
	"fmt"
	"testing"

	"github.com/SlpAus/meal-battle-backend/internal/meal"
	"github.com/SlpAus/meal-battle-backend/internal/platform/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixedRandomSource 返回固定值，使对战结果可被精确预测
type fixedRandomSource struct{ value float64 }

func (s fixedRandomSource) Float64() float64 { return s.value }

// setupEngineTestDB 为每个测试准备一个独立的内存数据库
func setupEngineTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&meal.Meal{}, &Battle{}))
	database.DB = db
}

func createTestMeal(t *testing.T, name, cuisine string, price float64, difficulty string) *meal.Meal {
	t.Helper()
	m, err := meal.CreateMeal(name, cuisine, price, difficulty)
	require.NoError(t, err)
	return m
}

func newTestEngine(roster *Roster, draw float64) *Engine {
	return NewEngine(roster, DefaultScorePolicy(), fixedRandomSource{value: draw}, 1)
}

func TestBattleHigherScoreWinsOnLowDraw(t *testing.T) {
	setupEngineTestDB(t)

	pizza := createTestMeal(t, "Pizza", "Italian", 12.99, meal.DifficultyMed)
	burger := createTestMeal(t, "Burger", "American", 9.99, meal.DifficultyLow)

	roster := NewRoster()
	require.NoError(t, roster.Prepare(*pizza))
	require.NoError(t, roster.Prepare(*burger))

	// Pizza的分数更高，抽签值远小于获胜概率时高分方必胜
	engine := newTestEngine(roster, 0.0)
	outcome, err := engine.Battle()
	require.NoError(t, err)

	assert.Equal(t, pizza.ID, outcome.Winner.ID)
	assert.Equal(t, burger.ID, outcome.Loser.ID)
	assert.Greater(t, outcome.WinnerScore, outcome.LoserScore)
	assert.GreaterOrEqual(t, outcome.WinProbability, 0.5)
	assert.NotEmpty(t, outcome.BattleID)
}

func TestBattleUpsetOnHighDraw(t *testing.T) {
	setupEngineTestDB(t)

	pizza := createTestMeal(t, "Pizza", "Italian", 12.99, meal.DifficultyMed)
	burger := createTestMeal(t, "Burger", "American", 9.99, meal.DifficultyLow)

	roster := NewRoster()
	require.NoError(t, roster.Prepare(*pizza))
	require.NoError(t, roster.Prepare(*burger))

	// 抽签值大于等于获胜概率时低分方爆冷
	engine := newTestEngine(roster, 0.999)
	outcome, err := engine.Battle()
	require.NoError(t, err)

	assert.Equal(t, burger.ID, outcome.Winner.ID)
	assert.Equal(t, pizza.ID, outcome.Loser.ID)
}

func TestBattleUpdatesCountersExactlyOnce(t *testing.T) {
	setupEngineTestDB(t)

	pizza := createTestMeal(t, "Pizza", "Italian", 12.99, meal.DifficultyMed)
	burger := createTestMeal(t, "Burger", "American", 9.99, meal.DifficultyLow)

	roster := NewRoster()
	require.NoError(t, roster.Prepare(*pizza))
	require.NoError(t, roster.Prepare(*burger))

	engine := newTestEngine(roster, 0.0)
	_, err := engine.Battle()
	require.NoError(t, err)

	// 双方battles都+1，只有胜者wins+1
	winner, err := meal.GetMealByID(pizza.ID)
	require.NoError(t, err)
	loser, err := meal.GetMealByID(burger.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, winner.Battles)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 1, loser.Battles)
	assert.Equal(t, 0, loser.Wins)

	// 不变量: wins <= battles
	assert.LessOrEqual(t, winner.Wins, winner.Battles)
	assert.LessOrEqual(t, loser.Wins, loser.Battles)

	// 落库一条对战记录
	var count int64
	require.NoError(t, database.DB.Model(&Battle{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBattleRemovesLoserKeepsWinner(t *testing.T) {
	setupEngineTestDB(t)

	pizza := createTestMeal(t, "Pizza", "Italian", 12.99, meal.DifficultyMed)
	burger := createTestMeal(t, "Burger", "American", 9.99, meal.DifficultyLow)

	roster := NewRoster()
	require.NoError(t, roster.Prepare(*pizza))
	require.NoError(t, roster.Prepare(*burger))

	engine := newTestEngine(roster, 0.0)
	outcome, err := engine.Battle()
	require.NoError(t, err)

	// 败者出局，胜者留任等待下一场
	combatants := roster.Combatants()
	require.Len(t, combatants, 1)
	assert.Equal(t, outcome.Winner.ID, combatants[0].ID)
}

func TestBattleInsufficientCombatantsLeavesStateUntouched(t *testing.T) {
	setupEngineTestDB(t)

	pizza := createTestMeal(t, "Pizza", "Italian", 12.99, meal.DifficultyMed)

	roster := NewRoster()
	engine := newTestEngine(roster, 0.0)

	// 名单为空
	_, err := engine.Battle()
	assert.ErrorIs(t, err, ErrInsufficientCombatants)

	// 名单只有一个
	require.NoError(t, roster.Prepare(*pizza))
	_, err = engine.Battle()
	assert.ErrorIs(t, err, ErrInsufficientCombatants)

	// 统计和名单都不能被改动
	m, err := meal.GetMealByID(pizza.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Battles)
	assert.Equal(t, 0, m.Wins)
	assert.Len(t, roster.Combatants(), 1)

	var count int64
	require.NoError(t, database.DB.Model(&Battle{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestBattleWithDeletedCombatantRollsBack(t *testing.T) {
	setupEngineTestDB(t)

	pizza := createTestMeal(t, "Pizza", "Italian", 12.99, meal.DifficultyMed)
	burger := createTestMeal(t, "Burger", "American", 9.99, meal.DifficultyLow)

	roster := NewRoster()
	require.NoError(t, roster.Prepare(*pizza))
	require.NoError(t, roster.Prepare(*burger))

	// 备战后餐品被软删除，事务必须整体回滚
	require.NoError(t, meal.SoftDeleteMeal(pizza.ID))

	engine := newTestEngine(roster, 0.0)
	_, err := engine.Battle()
	assert.ErrorIs(t, err, meal.ErrNotFound)

	// 另一方的计数器不能留下半次更新
	var survivor meal.Meal
	require.NoError(t, database.DB.First(&survivor, burger.ID).Error)
	assert.Equal(t, 0, survivor.Battles)
	assert.Equal(t, 0, survivor.Wins)

	// 名单保持原状
	assert.Len(t, roster.Combatants(), 2)
}
