package meal

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CreateMealRequest 定义了创建餐品时请求体的JSON结构
type CreateMealRequest struct {
	Name       string  `json:"name" binding:"required"`
	Cuisine    string  `json:"cuisine" binding:"required"`
	Price      float64 `json:"price" binding:"required,gt=0"`
	Difficulty string  `json:"difficulty" binding:"required,oneof=LOW MED HIGH"`
}

// MealResponse 是餐品在API层的展示结构
type MealResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Cuisine    string  `json:"cuisine"`
	Price      float64 `json:"price"`
	Difficulty string  `json:"difficulty"`
	Wins       int     `json:"wins"`
	Battles    int     `json:"battles"`
	WinPct     float64 `json:"winPct"`
}

// FormatMeal 把仓库层的Meal格式化为API响应
func FormatMeal(m *Meal) MealResponse {
	return MealResponse{
		ID:         m.ID,
		Name:       m.Name,
		Cuisine:    m.Cuisine,
		Price:      m.Price,
		Difficulty: m.Difficulty,
		Wins:       m.Wins,
		Battles:    m.Battles,
		WinPct:     m.WinPct(),
	}
}

// respondRepositoryError 把仓库层的错误分类映射为HTTP状态码
// 每类错误都有独立的状态码，不会吞成统一的500
func respondRepositoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "找不到指定的餐品"})
	case errors.Is(err, ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "同名餐品已存在"})
	case errors.Is(err, ErrInvalidMeal):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "存储服务暂时不可用，请稍后重试"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
	}
}

// HandleCreateMeal 处理创建餐品的请求
func HandleCreateMeal(c *gin.Context) {
	var body CreateMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	newMeal, err := CreateMeal(body.Name, body.Cuisine, body.Price, body.Difficulty)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, FormatMeal(newMeal))
}

// HandleGetMealByID 按ID查询单个餐品
func HandleGetMealByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID必须是正整数"})
		return
	}

	m, err := GetMealByID(uint(id))
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, FormatMeal(m))
}

// HandleGetMealByName 按名称查询单个餐品
func HandleGetMealByName(c *gin.Context) {
	m, err := GetMealByName(c.Param("name"))
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, FormatMeal(m))
}

// HandleDeleteMeal 处理软删除餐品的请求
func HandleDeleteMeal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID必须是正整数"})
		return
	}

	if err := SoftDeleteMeal(uint(id)); err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "餐品已删除"})
}
