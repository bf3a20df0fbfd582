package road

import (
	"fmt"

	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
)

const (
	DefaultRepairWindow = 10 // 维修中路段的封闭时长（仿真步）
)

type closureRecord struct {
	status     entity.ClosureStatus
	blockStart int32
}

// blocked 按查询时刻惰性判断是否封闭
func (r closureRecord) blocked(now, repairWindow int32) bool {
	switch r.status {
	case entity.ClosureBlocked:
		return true
	case entity.ClosureUnderRepair:
		return now-r.blockStart < repairWindow
	default:
		return false
	}
}

// ClosureRegistry 封路登记
// 功能：记录路段的封闭/维修状态，供寻路排除不可通行的路段
// 说明：Blocked需外部显式解除；UnderRepair在维修窗口结束后自动视为畅通，无需定时任务
type ClosureRegistry struct {
	network      *Network
	repairWindow int32
	records      map[entity.Segment]closureRecord
}

// NewClosureRegistry 创建封路登记，repairWindow<1时使用默认窗口
func NewClosureRegistry(network *Network, repairWindow int32) *ClosureRegistry {
	if repairWindow < 1 {
		repairWindow = DefaultRepairWindow
	}
	return &ClosureRegistry{
		network:      network,
		repairWindow: repairWindow,
		records:      make(map[entity.Segment]closureRecord),
	}
}

// SetStatus 设置路段状态
// 参数：now-封闭开始时刻（用于UnderRepair计时）
// 返回：路口越界时返回ErrInvalidNode，状态不变
func (r *ClosureRegistry) SetStatus(from, to int32, status entity.ClosureStatus, now int32) error {
	if !r.network.Valid(from) || !r.network.Valid(to) {
		return fmt.Errorf("%w: closure %d->%d", entity.ErrInvalidNode, from, to)
	}
	key := entity.Segment{From: from, To: to}
	if status == entity.ClosureClear {
		delete(r.records, key)
		return nil
	}
	r.records[key] = closureRecord{status: status, blockStart: now}
	return nil
}

// IsBlocked 路段在now时刻是否不可通行
func (r *ClosureRegistry) IsBlocked(from, to int32, now int32) bool {
	rec, ok := r.records[entity.Segment{From: from, To: to}]
	return ok && rec.blocked(now, r.repairWindow)
}

// Status 路段在now时刻的有效状态，维修结束的路段返回Clear
func (r *ClosureRegistry) Status(from, to int32, now int32) entity.ClosureStatus {
	rec, ok := r.records[entity.Segment{From: from, To: to}]
	if !ok || !rec.blocked(now, r.repairWindow) {
		return entity.ClosureClear
	}
	return rec.status
}

// Remaining 维修中路段剩余的封闭时长，其他状态返回0
func (r *ClosureRegistry) Remaining(from, to int32, now int32) int32 {
	rec, ok := r.records[entity.Segment{From: from, To: to}]
	if !ok || rec.status != entity.ClosureUnderRepair {
		return 0
	}
	return max(0, r.repairWindow-(now-rec.blockStart))
}

// Snapshot 返回now时刻所有非畅通路段的有效状态
func (r *ClosureRegistry) Snapshot(now int32) map[entity.Segment]entity.ClosureStatus {
	res := make(map[entity.Segment]entity.ClosureStatus, len(r.records))
	for key, rec := range r.records {
		if rec.blocked(now, r.repairWindow) {
			res[key] = rec.status
		}
	}
	return res
}
