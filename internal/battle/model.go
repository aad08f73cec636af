package battle

import "time"

// Battle 定义了单场对战记录的数据结构
// 它记录参战双方、计算出的分数和最终结果，落库保留以供审计
type Battle struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"createdAt"`

	// BattleID 是对战的UUID，对外暴露的唯一标识
	BattleID string `gorm:"uniqueIndex;not null" json:"battleId"`

	// WinnerID 和 LoserID 是参战双方的餐品ID
	WinnerID uint `json:"winnerId"`
	LoserID  uint `json:"loserId"`

	// 双方在本场对战中的分数
	WinnerScore float64 `json:"winnerScore"`
	LoserScore  float64 `json:"loserScore"`

	// WinProbability 是本场对战中高分方的理论获胜概率
	WinProbability float64 `json:"winProbability"`
}
