package task

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/junction"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/vehicle"
)

// ClosureState 非畅通路段状态
type ClosureState struct {
	Segment   entity.Segment
	Status    entity.ClosureStatus
	Remaining int32 // 维修剩余时长，Blocked为0
}

// Snapshot 某一时刻的完整仿真状态（只读）
// 功能：每次仿真步或外部修改后生成，供观察者无锁读取
// 说明：发布后不再修改，所有切片与map均为副本
type Snapshot struct {
	RunID      string
	Tick       int32
	Signals    []junction.SignalState   // 按加入顺序
	Vehicles   []vehicle.VehicleView    // 按加入顺序
	Congestion map[entity.Segment]int32 // 有车辆的路段及其车辆数
	Closures   []ClosureState           // 按路段排序
	Collisions []entity.CollisionEvent

	signalIndex  map[int32]int
	vehicleIndex map[string]int
	closureIndex map[entity.Segment]int
}

func (s *Snapshot) index() {
	s.signalIndex = make(map[int32]int, len(s.Signals))
	for i, sig := range s.Signals {
		s.signalIndex[sig.Intersection] = i
	}
	s.vehicleIndex = make(map[string]int, len(s.Vehicles))
	for i, v := range s.Vehicles {
		s.vehicleIndex[v.ID] = i
	}
	s.closureIndex = make(map[entity.Segment]int, len(s.Closures))
	for i, c := range s.Closures {
		s.closureIndex[c.Segment] = i
	}
}

// Signal 路口信号灯状态，ok=false表示该路口没有信号灯
func (s *Snapshot) Signal(intersection int32) (junction.SignalState, bool) {
	i, ok := s.signalIndex[intersection]
	if !ok {
		return junction.SignalState{}, false
	}
	return s.Signals[i], true
}

// Vehicle 车辆状态
func (s *Snapshot) Vehicle(id string) (vehicle.VehicleView, bool) {
	i, ok := s.vehicleIndex[id]
	if !ok {
		return vehicle.VehicleView{}, false
	}
	return s.Vehicles[i], true
}

// Closure 路段封闭状态，未登记的路段为Clear
func (s *Snapshot) Closure(from, to int32) ClosureState {
	seg := entity.Segment{From: from, To: to}
	i, ok := s.closureIndex[seg]
	if !ok {
		return ClosureState{Segment: seg, Status: entity.ClosureClear}
	}
	return s.Closures[i]
}

// CountByStatus 各状态的车辆数
func (s *Snapshot) CountByStatus() map[entity.VehicleStatus]int {
	return lo.CountValuesBy(s.Vehicles, func(v vehicle.VehicleView) entity.VehicleStatus { return v.Status })
}

// closureStates 导出now时刻所有非畅通路段，调用方需持有锁
func (ctx *Context) closureStates(now int32) []ClosureState {
	states := lo.MapToSlice(ctx.closures.Snapshot(now), func(seg entity.Segment, status entity.ClosureStatus) ClosureState {
		return ClosureState{
			Segment:   seg,
			Status:    status,
			Remaining: ctx.closures.Remaining(seg.From, seg.To, now),
		}
	})
	slices.SortFunc(states, func(a, b ClosureState) int {
		return cmp.Or(cmp.Compare(a.Segment.From, b.Segment.From), cmp.Compare(a.Segment.To, b.Segment.To))
	})
	return states
}

// 观察者查询接口，均读取最新发布的快照

// Snapshot 最新发布的快照
func (ctx *Context) Snapshot() *Snapshot {
	return ctx.snapshot.Load()
}

// SignalStatus 路口信号灯状态，ok=false表示该路口没有信号灯
func (ctx *Context) SignalStatus(intersection int32) (junction.SignalState, bool) {
	return ctx.Snapshot().Signal(intersection)
}

// CongestionLevel 路段车辆数，未知路段为0
func (ctx *Context) CongestionLevel(from, to int32) int32 {
	return ctx.Snapshot().Congestion[entity.Segment{From: from, To: to}]
}

// ClosureStatus 路段封闭状态，未登记的路段为Clear
func (ctx *Context) ClosureStatus(from, to int32) entity.ClosureStatus {
	return ctx.Snapshot().Closure(from, to).Status
}

// VehicleStatus 车辆状态，车辆不存在时返回ErrUnknownEntity
func (ctx *Context) VehicleStatus(id string) (vehicle.VehicleView, error) {
	v, ok := ctx.Snapshot().Vehicle(id)
	if !ok {
		return vehicle.VehicleView{}, fmt.Errorf("%w: vehicle %s", entity.ErrUnknownEntity, id)
	}
	return v, nil
}

// CollisionLog 碰撞记录
func (ctx *Context) CollisionLog() []entity.CollisionEvent {
	return slices.Clone(ctx.Snapshot().Collisions)
}
