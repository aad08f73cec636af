package battle

import (
	"fmt"
	"sync"
	"time"

	"github.com/SlpAus/meal-battle-backend/internal/meal"
	"github.com/SlpAus/meal-battle-backend/internal/platform/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Outcome 是一场对战的结果，派生数据，不直接落库
type Outcome struct {
	BattleID       string
	Winner         meal.Meal
	Loser          meal.Meal
	WinnerScore    float64
	LoserScore     float64
	WinProbability float64
}

// Engine 负责在出战名单上解算对战并持久化统计更新
// 同一个Engine上的对战彼此串行，这同时保护了名单和统计更新的原子性
type Engine struct {
	mu               sync.Mutex
	roster           *Roster
	policy           ScorePolicy
	random           RandomSource
	mirrorRetryLimit int
}

// NewEngine 构造一个对战引擎
// random以接口注入，测试可以传入确定性的随机序列
func NewEngine(roster *Roster, policy ScorePolicy, random RandomSource, mirrorRetryLimit int) *Engine {
	if mirrorRetryLimit <= 0 {
		mirrorRetryLimit = 5
	}
	return &Engine{
		roster:           roster,
		policy:           policy,
		random:           random,
		mirrorRetryLimit: mirrorRetryLimit,
	}
}

// Roster 返回引擎持有的出战名单
func (e *Engine) Roster() *Roster {
	return e.roster
}

// Battle 解算一场对战并返回结果
// 流程:
//  1. 要求名单满员，否则返回ErrInsufficientCombatants且不改变任何状态
//  2. 计算双方分数，把分差压缩为高分方的获胜概率
//  3. 抽取一个[0,1)随机数，小于该概率则高分方获胜，否则低分方爆冷
//  4. 在同一个数据库事务中更新双方计数器并写入对战记录，要么全部可见要么全不可见
//  5. 败者移出名单，胜者留下等待下一场
//
// 存储失败时返回ErrStoreUnavailable，名单与计数器均保持原状
func (e *Engine) Battle() (*Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// 1. 取出参战双方
	first, second, err := e.roster.Pair()
	if err != nil {
		return nil, err
	}

	// 2. 计算分数并确定高低分方
	scoreFirst := e.policy.Score(&first)
	scoreSecond := e.policy.Score(&second)

	high, low := first, second
	highScore, lowScore := scoreFirst, scoreSecond
	if scoreSecond > scoreFirst {
		high, low = second, first
		highScore, lowScore = scoreSecond, scoreFirst
	}

	// 3. 压缩分差并抽签
	probability := e.policy.WinProbability(highScore - lowScore)
	draw := e.random.Float64()

	winner, loser := high, low
	winnerScore, loserScore := highScore, lowScore
	if draw >= probability {
		// 爆冷：分差越小越容易发生
		winner, loser = low, high
		winnerScore, loserScore = lowScore, highScore
	}

	battleUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成对战ID: %w", err)
	}

	// 4. 原子地更新双方统计并写入对战记录
	var updatedWinner, updatedLoser *meal.Meal
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// 始终按ID升序锁定，避免并发对战死锁
		ids := []struct {
			id  uint
			won bool
		}{
			{winner.ID, true},
			{loser.ID, false},
		}
		if loser.ID < winner.ID {
			ids[0], ids[1] = ids[1], ids[0]
		}

		for _, entry := range ids {
			m, err := meal.IncrementStatsTx(tx, entry.id, entry.won)
			if err != nil {
				return err
			}
			if entry.won {
				updatedWinner = m
			} else {
				updatedLoser = m
			}
		}

		record := Battle{
			BattleID:       battleUUID.String(),
			WinnerID:       winner.ID,
			LoserID:        loser.ID,
			WinnerScore:    winnerScore,
			LoserScore:     loserScore,
			WinProbability: probability,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("%w: %v", meal.ErrStoreUnavailable, err)
		}
		return nil
	})
	if err != nil {
		// 事务已整体回滚，名单保持原状
		return nil, err
	}

	// 5. 败者出局，胜者留任
	e.roster.Remove(loser.ID)

	// 6. 同步Redis镜像，失败不影响已提交的对战结果
	e.mirrorOutcome(updatedWinner, updatedLoser)

	fmt.Printf("对战 %s: %s 战胜 %s (%.2f vs %.2f, p=%.3f)\n",
		battleUUID.String(), winner.Name, loser.Name, winnerScore, loserScore, probability)

	return &Outcome{
		BattleID:       battleUUID.String(),
		Winner:         *updatedWinner,
		Loser:          *updatedLoser,
		WinnerScore:    winnerScore,
		LoserScore:     loserScore,
		WinProbability: probability,
	}, nil
}

// mirrorOutcome 带退避地把双方最新统计写入Redis镜像
// 重试次数用尽后标记镜像为脏，由健康检查器负责后续重建
func (e *Engine) mirrorOutcome(winner, loser *meal.Meal) {
	if database.RDB == nil {
		return
	}

	delay := 8 * time.Millisecond
	for attempt := 0; attempt < e.mirrorRetryLimit; attempt++ {
		pipe := database.RDB.TxPipeline()
		meal.MirrorMeal(pipe, winner)
		meal.MirrorMeal(pipe, loser)
		if _, err := pipe.Exec(database.Ctx); err == nil {
			return
		} else if attempt == e.mirrorRetryLimit-1 {
			fmt.Printf("警告: 对战镜像写入重试%d次后仍失败: %v\n", e.mirrorRetryLimit, err)
		}
		time.Sleep(delay)
		delay *= 2
	}

	database.RequestMirrorRebuild()
}
