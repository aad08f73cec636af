package battle

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource 是对战引擎使用的随机数来源
// 抽象成接口是为了让测试可以注入确定性的序列
type RandomSource interface {
	// Float64 返回[0, 1)区间内均匀分布的随机数
	Float64() float64
}

// lockedRandSource 用互斥锁包装math/rand，保证并发安全
type lockedRandSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedRandSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// NewPseudoRandomSource 返回以当前时间为种子的默认随机源
func NewPseudoRandomSource() RandomSource {
	return &lockedRandSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRandomSource 返回使用固定种子的随机源，供可复现的测试场景使用
func NewSeededRandomSource(seed int64) RandomSource {
	return &lockedRandSource{r: rand.New(rand.NewSource(seed))}
}
