package leaderboard

import (
	"errors"
	"net/http"

	"github.com/SlpAus/meal-battle-backend/internal/meal"
	"github.com/gin-gonic/gin"
)

// HandleGetLeaderboard 返回按指定键排序的排行榜
// 排序键通过query参数sort指定，缺省为wins
func HandleGetLeaderboard(c *gin.Context) {
	sortKey := c.DefaultQuery("sort", SortByWins)

	entries, err := Rank(sortKey)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSortKey):
			c.JSON(http.StatusBadRequest, gin.H{"error": "排序键必须是 wins 或 win_pct"})
		case errors.Is(err, meal.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "存储服务暂时不可用，请稍后重试"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "获取排行榜数据失败"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
