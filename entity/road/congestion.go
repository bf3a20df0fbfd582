package road

import (
	"maps"

	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
)

const (
	DefaultCongestionThreshold = 3 // 路段车辆数达到该值即视为拥堵
)

// CongestionTracker 路段拥堵统计
// 功能：记录每个路段当前占用的车辆数，为改道提供参考
// 说明：计数只影响改道决策，不阻止车辆通行（与封路不同）
type CongestionTracker struct {
	threshold int32
	counts    map[entity.Segment]int32
}

// NewCongestionTracker 创建拥堵统计，threshold<1时使用默认阈值
func NewCongestionTracker(threshold int32) *CongestionTracker {
	if threshold < 1 {
		threshold = DefaultCongestionThreshold
	}
	return &CongestionTracker{
		threshold: threshold,
		counts:    make(map[entity.Segment]int32),
	}
}

// Enter 车辆驶入路段
func (t *CongestionTracker) Enter(from, to int32) {
	t.counts[entity.Segment{From: from, To: to}]++
}

// Leave 车辆驶离路段，计数不会小于0
func (t *CongestionTracker) Leave(from, to int32) {
	key := entity.Segment{From: from, To: to}
	c := t.counts[key]
	if c <= 1 {
		if c <= 0 {
			log.Debugf("leave empty segment %v", key)
		}
		delete(t.counts, key)
		return
	}
	t.counts[key] = c - 1
}

// Count 路段当前车辆数，未知路段为0
func (t *CongestionTracker) Count(from, to int32) int32 {
	return t.counts[entity.Segment{From: from, To: to}]
}

// IsCongested 路段车辆数是否达到拥堵阈值
func (t *CongestionTracker) IsCongested(from, to int32) bool {
	return t.Count(from, to) >= t.threshold
}

// Threshold 拥堵阈值
func (t *CongestionTracker) Threshold() int32 {
	return t.threshold
}

// Snapshot 复制所有非零计数
func (t *CongestionTracker) Snapshot() map[entity.Segment]int32 {
	return maps.Clone(t.counts)
}
