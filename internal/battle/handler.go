package battle

import (
	"errors"
	"net/http"

	"github.com/SlpAus/meal-battle-backend/internal/meal"
	"github.com/gin-gonic/gin"
)

// PrepareCombatantRequest 定义了备战请求体的JSON结构
type PrepareCombatantRequest struct {
	Meal string `json:"meal" binding:"required"`
}

// BattleResponse 是对战结果的API响应结构
type BattleResponse struct {
	BattleID       string            `json:"battleId"`
	Winner         meal.MealResponse `json:"winner"`
	Loser          meal.MealResponse `json:"loser"`
	WinnerScore    float64           `json:"winnerScore"`
	LoserScore     float64           `json:"loserScore"`
	WinProbability float64           `json:"winProbability"`
}

// formatCombatants 把名单格式化为API响应
func formatCombatants(combatants []meal.Meal) []meal.MealResponse {
	out := make([]meal.MealResponse, 0, len(combatants))
	for i := range combatants {
		out = append(out, meal.FormatMeal(&combatants[i]))
	}
	return out
}

// HandlePrepareCombatant 按名称把一个餐品加入出战名单
func HandlePrepareCombatant(c *gin.Context) {
	var body PrepareCombatantRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	// 1. 解析餐品，软删除的餐品在这里表现为不存在
	m, err := meal.GetMealByName(body.Meal)
	if err != nil {
		switch {
		case errors.Is(err, meal.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "找不到指定的餐品"})
		case errors.Is(err, meal.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "存储服务暂时不可用，请稍后重试"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		}
		return
	}

	// 2. 加入名单
	if err := defaultEngine.Roster().Prepare(*m); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "出战名单已满，无法加入更多参战餐品"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "备战成功",
		"combatants": formatCombatants(defaultEngine.Roster().Combatants()),
	})
}

// HandleGetCombatants 返回当前出战名单
func HandleGetCombatants(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"combatants": formatCombatants(defaultEngine.Roster().Combatants()),
	})
}

// HandleClearCombatants 清空出战名单
func HandleClearCombatants(c *gin.Context) {
	defaultEngine.Roster().Clear()
	c.JSON(http.StatusOK, gin.H{"message": "出战名单已清空"})
}

// HandleBattle 解算一场对战
func HandleBattle(c *gin.Context) {
	outcome, err := defaultEngine.Battle()
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientCombatants):
			c.JSON(http.StatusBadRequest, gin.H{"error": "需要两个参战餐品才能开战"})
		case errors.Is(err, meal.ErrNotFound):
			// 名单中的餐品在备战后被删除
			c.JSON(http.StatusNotFound, gin.H{"error": "参战餐品已不存在"})
		case errors.Is(err, meal.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "存储服务暂时不可用，请稍后重试"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "处理对战失败"})
		}
		return
	}

	c.JSON(http.StatusOK, BattleResponse{
		BattleID:       outcome.BattleID,
		Winner:         meal.FormatMeal(&outcome.Winner),
		Loser:          meal.FormatMeal(&outcome.Loser),
		WinnerScore:    outcome.WinnerScore,
		LoserScore:     outcome.LoserScore,
		WinProbability: outcome.WinProbability,
	})
}
