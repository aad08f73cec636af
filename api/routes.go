package api

import (
	"github.com/SlpAus/meal-battle-backend/internal/battle"
	"github.com/SlpAus/meal-battle-backend/internal/leaderboard"
	"github.com/SlpAus/meal-battle-backend/internal/meal"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 餐品目录相关的路由组 /api/meals
		mealRoutes := api.Group("/meals")
		{
			mealRoutes.POST("", meal.HandleCreateMeal)
			mealRoutes.GET("/:id", meal.HandleGetMealByID)
			mealRoutes.DELETE("/:id", meal.HandleDeleteMeal)
		}
		// 按名称查询单独挂在/api下，避免与/:id参数路由冲突
		api.GET("/meal-by-name/:name", meal.HandleGetMealByName)

		// 对战相关的路由组 /api/battle
		battleRoutes := api.Group("/battle")
		{
			battleRoutes.POST("/combatants", battle.HandlePrepareCombatant)
			battleRoutes.GET("/combatants", battle.HandleGetCombatants)
			battleRoutes.DELETE("/combatants", battle.HandleClearCombatants)
			battleRoutes.POST("", battle.HandleBattle)
		}

		// 排行榜路由
		api.GET("/leaderboard", leaderboard.HandleGetLeaderboard)
	}
}
