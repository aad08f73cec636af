package meal

import (
	"fmt"
	"testing"

	"github.com/SlpAus/meal-battle-backend/internal/platform/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 为每个测试准备一个独立的内存数据库
func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Meal{}))
	database.DB = db
}

func TestCreateMeal(t *testing.T) {
	setupTestDB(t)

	m, err := CreateMeal("Pizza", "Italian", 12.99, DifficultyMed)
	require.NoError(t, err)

	assert.NotZero(t, m.ID)
	assert.Equal(t, "Pizza", m.Name)
	assert.Equal(t, 0, m.Wins)
	assert.Equal(t, 0, m.Battles)
	assert.False(t, m.Deleted)
}

func TestCreateMealValidation(t *testing.T) {
	setupTestDB(t)

	_, err := CreateMeal("Pizza", "Italian", -1, DifficultyMed)
	assert.ErrorIs(t, err, ErrInvalidMeal)

	_, err = CreateMeal("Pizza", "Italian", 12.99, "INVALID")
	assert.ErrorIs(t, err, ErrInvalidMeal)

	_, err = CreateMeal("", "Italian", 12.99, DifficultyMed)
	assert.ErrorIs(t, err, ErrInvalidMeal)
}

func TestCreateMealDuplicateName(t *testing.T) {
	setupTestDB(t)

	_, err := CreateMeal("Pizza", "Italian", 12.99, DifficultyMed)
	require.NoError(t, err)

	_, err = CreateMeal("Pizza", "American", 9.99, DifficultyLow)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateMealDuplicateWithDeleted(t *testing.T) {
	setupTestDB(t)

	m, err := CreateMeal("Pizza", "Italian", 12.99, DifficultyMed)
	require.NoError(t, err)
	require.NoError(t, SoftDeleteMeal(m.ID))

	// 名称唯一性覆盖已软删除的记录，它们仍占用名称
	_, err = CreateMeal("Pizza", "American", 9.99, DifficultyLow)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGetMealByIDAndName(t *testing.T) {
	setupTestDB(t)

	created, err := CreateMeal("Pizza", "Italian", 12.99, DifficultyMed)
	require.NoError(t, err)

	byID, err := GetMealByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, byID.Name)

	byName, err := GetMealByName("Pizza")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = GetMealByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = GetMealByName("Sushi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSoftDeleteHidesMeal(t *testing.T) {
	setupTestDB(t)

	m, err := CreateMeal("Pizza", "Italian", 12.99, DifficultyMed)
	require.NoError(t, err)

	require.NoError(t, SoftDeleteMeal(m.ID))

	// 软删除后按ID和名称都查不到
	_, err = GetMealByID(m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = GetMealByName("Pizza")
	assert.ErrorIs(t, err, ErrNotFound)

	// 重复删除视为不存在
	assert.ErrorIs(t, SoftDeleteMeal(m.ID), ErrNotFound)
	assert.ErrorIs(t, SoftDeleteMeal(9999), ErrNotFound)

	// 记录本身仍然保留
	var raw Meal
	require.NoError(t, database.DB.First(&raw, m.ID).Error)
	assert.True(t, raw.Deleted)
}

func TestListActiveMealsExcludesDeleted(t *testing.T) {
	setupTestDB(t)

	pizza, err := CreateMeal("Pizza", "Italian", 12.99, DifficultyMed)
	require.NoError(t, err)
	_, err = CreateMeal("Burger", "American", 9.99, DifficultyLow)
	require.NoError(t, err)

	require.NoError(t, SoftDeleteMeal(pizza.ID))

	meals, err := ListActiveMeals()
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Burger", meals[0].Name)
}

func TestIncrementStatsTx(t *testing.T) {
	setupTestDB(t)

	winner, err := CreateMeal("Pizza", "Italian", 12.99, DifficultyMed)
	require.NoError(t, err)
	loser, err := CreateMeal("Burger", "American", 9.99, DifficultyLow)
	require.NoError(t, err)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := IncrementStatsTx(tx, winner.ID, true); err != nil {
			return err
		}
		_, err := IncrementStatsTx(tx, loser.ID, false)
		return err
	})
	require.NoError(t, err)

	w, err := GetMealByID(winner.ID)
	require.NoError(t, err)
	l, err := GetMealByID(loser.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, w.Wins)
	assert.Equal(t, 1, w.Battles)
	assert.Equal(t, 0, l.Wins)
	assert.Equal(t, 1, l.Battles)
}

func TestIncrementStatsTxDeletedMeal(t *testing.T) {
	setupTestDB(t)

	m, err := CreateMeal("Pizza", "Italian", 12.99, DifficultyMed)
	require.NoError(t, err)
	require.NoError(t, SoftDeleteMeal(m.ID))

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		_, err := IncrementStatsTx(tx, m.ID, true)
		return err
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWinPct(t *testing.T) {
	m := Meal{Wins: 2, Battles: 3}
	assert.InDelta(t, 66.7, m.WinPct(), 1e-9)

	// 零场次记为0，而不是除零
	empty := Meal{}
	assert.Zero(t, empty.WinPct())
	assert.Zero(t, empty.WinRatio())
}
