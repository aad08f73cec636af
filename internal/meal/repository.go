package meal

import (
	"errors"
	"fmt"

	"github.com/SlpAus/meal-battle-backend/internal/platform/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 仓库层的错误分类，handler据此映射到不同的HTTP状态码
var (
	// ErrNotFound 表示餐品不存在或已被软删除
	ErrNotFound = errors.New("meal not found")
	// ErrDuplicate 表示创建时名称冲突
	ErrDuplicate = errors.New("meal name already exists")
	// ErrInvalidMeal 表示创建参数不合法
	ErrInvalidMeal = errors.New("invalid meal attributes")
	// ErrStoreUnavailable 表示底层存储暂时不可用
	ErrStoreUnavailable = errors.New("meal store unavailable")
)

// CreateMeal 在数据库中创建一个新的餐品
// 名称冲突（包括与已软删除的记录冲突）返回ErrDuplicate
func CreateMeal(name, cuisine string, price float64, difficulty string) (*Meal, error) {
	// 1. 验证输入
	if name == "" {
		return nil, fmt.Errorf("%w: 名称不能为空", ErrInvalidMeal)
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: 价格必须为正数, 收到 %v", ErrInvalidMeal, price)
	}
	if !ValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: 难度必须为 LOW/MED/HIGH, 收到 %q", ErrInvalidMeal, difficulty)
	}

	newMeal := Meal{
		Name:       name,
		Cuisine:    cuisine,
		Price:      price,
		Difficulty: difficulty,
	}

	// 2. 在事务中检查重名并插入
	// 唯一索引是最终防线，这里先显式查询以便返回明确的错误类别
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Meal{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if count > 0 {
			return ErrDuplicate
		}
		if err := tx.Create(&newMeal).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. 尽力把新餐品同步进Redis镜像，失败只标记镜像为脏
	mirrorAfterWrite(&newMeal)

	fmt.Printf("餐品已创建: %s (ID %d)\n", newMeal.Name, newMeal.ID)
	return &newMeal, nil
}

// GetMealByID 按ID查询餐品，已软删除的记录视为不存在
func GetMealByID(id uint) (*Meal, error) {
	var m Meal
	err := database.DB.First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if m.Deleted {
		return nil, ErrNotFound
	}
	return &m, nil
}

// GetMealByName 按名称查询餐品，已软删除的记录视为不存在
func GetMealByName(name string) (*Meal, error) {
	var m Meal
	err := database.DB.Where("name = ?", name).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if m.Deleted {
		return nil, ErrNotFound
	}
	return &m, nil
}

// SoftDeleteMeal 将餐品标记为已删除
// 记录本身保留，之后的查询、对战和排行榜都不再包含它
func SoftDeleteMeal(id uint) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var m Meal
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if m.Deleted {
			return ErrNotFound
		}
		if err := tx.Model(&m).Update("deleted", true).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// 从Redis镜像中移除，失败只标记镜像为脏
	unmirrorAfterDelete(id)

	fmt.Printf("餐品 ID %d 已标记为删除。\n", id)
	return nil
}

// IncrementStatsTx 在调用方提供的事务中原子地更新单个餐品的胜负统计
// battles恒+1，won为真时wins再+1，两个计数器在同一行更新中落盘
// 调用方必须按ID升序依次锁定参战双方，避免并发对战互相死锁
func IncrementStatsTx(tx *gorm.DB, id uint, won bool) (*Meal, error) {
	var m Meal
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if m.Deleted {
		return nil, ErrNotFound
	}

	m.Battles++
	if won {
		m.Wins++
	}
	if err := tx.Model(&m).Updates(map[string]interface{}{
		"battles": m.Battles,
		"wins":    m.Wins,
	}).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &m, nil
}

// ListActiveMeals 返回所有未被软删除的餐品，按ID升序
func ListActiveMeals() ([]Meal, error) {
	var meals []Meal
	if err := database.DB.Where("deleted = ?", false).Order("id asc").Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return meals, nil
}
