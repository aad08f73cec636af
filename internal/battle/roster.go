package battle

import (
	"errors"
	"sync"

	"github.com/SlpAus/meal-battle-backend/internal/meal"
)

// RosterCapacity 是出战名单的容量上限
const RosterCapacity = 2

var (
	// ErrRosterFull 表示名单已满，无法再加入新的参战餐品
	ErrRosterFull = errors.New("combatant roster is full")
	// ErrInsufficientCombatants 表示发起对战时名单中不足两个参战餐品
	ErrInsufficientCombatants = errors.New("two combatants must be prepared for a battle")
)

// Roster 是出战名单：一个容量为2的有序参战餐品列表
// 它是显式持有的对象而非进程级全局状态，多个独立会话可以各建一份
// 所有方法都是并发安全的
type Roster struct {
	mu         sync.Mutex
	combatants []meal.Meal
}

// NewRoster 创建一个空的出战名单
func NewRoster() *Roster {
	return &Roster{combatants: make([]meal.Meal, 0, RosterCapacity)}
}

// Prepare 把一个餐品快照追加到名单末尾
// 名单已满时返回ErrRosterFull，且不改变任何状态
func (r *Roster) Prepare(m meal.Meal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.combatants) >= RosterCapacity {
		return ErrRosterFull
	}
	r.combatants = append(r.combatants, m)
	return nil
}

// Combatants 返回当前名单的一个副本，无副作用
func (r *Roster) Combatants() []meal.Meal {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]meal.Meal, len(r.combatants))
	copy(out, r.combatants)
	return out
}

// Clear 无条件清空名单，幂等
func (r *Roster) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.combatants = r.combatants[:0]
}

// Pair 返回名单中的两个参战餐品
// 名单未满员时返回ErrInsufficientCombatants
func (r *Roster) Pair() (meal.Meal, meal.Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.combatants) < RosterCapacity {
		return meal.Meal{}, meal.Meal{}, ErrInsufficientCombatants
	}
	return r.combatants[0], r.combatants[1], nil
}

// Remove 把指定ID的餐品从名单中移除，保持其余条目的顺序
// 对战结束后引擎用它移除败者，胜者留在名单中等待下一场
func (r *Roster) Remove(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.combatants {
		if r.combatants[i].ID == id {
			r.combatants = append(r.combatants[:i], r.combatants[i+1:]...)
			return
		}
	}
}
