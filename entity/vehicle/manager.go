package vehicle

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/road"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/vehicle/route"
)

// Fleet 车辆管理器
// 功能：管理普通车辆与紧急车辆的路线规划、改道、前进与信号抢占
// 说明：车辆按加入顺序处理，同一仿真步内顺序执行，结果可复现
type Fleet struct {
	network    *road.Network
	signals    entity.ISignalController
	congestion entity.ICongestionTracker
	closures   entity.IClosureRegistry

	data     map[string]*Vehicle
	vehicles []*Vehicle // 按加入顺序
}

// NewFleet 创建车辆管理器
func NewFleet(
	network *road.Network,
	signals entity.ISignalController,
	congestion entity.ICongestionTracker,
	closures entity.IClosureRegistry,
) *Fleet {
	return &Fleet{
		network:    network,
		signals:    signals,
		congestion: congestion,
		closures:   closures,
		data:       make(map[string]*Vehicle),
		vehicles:   make([]*Vehicle, 0),
	}
}

// AddVehicle 加入普通车辆
// 功能：按当前封路情况规划初始路线；无可行路径时车辆以空路线停止，等待后续重试
// 返回：路口越界返回ErrInvalidNode，ID重复返回ErrDuplicateVehicleID（保留已有车辆）
func (f *Fleet) AddVehicle(id string, start, dest, now int32) (*Vehicle, error) {
	return f.add(id, KindRegular, entity.PriorityNormal, start, dest, now)
}

// AddEmergencyVehicle 加入紧急车辆
func (f *Fleet) AddEmergencyVehicle(id string, start, dest int32, priority entity.Priority, now int32) (*Vehicle, error) {
	return f.add(id, KindEmergency, priority, start, dest, now)
}

func (f *Fleet) add(id string, kind Kind, priority entity.Priority, start, dest, now int32) (*Vehicle, error) {
	if !f.network.Valid(start) || !f.network.Valid(dest) {
		return nil, fmt.Errorf("%w: vehicle %s from %d to %d", entity.ErrInvalidNode, id, start, dest)
	}
	if _, ok := f.data[id]; ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrDuplicateVehicleID, id)
	}
	v := &Vehicle{
		id:        id,
		kind:      kind,
		priority:  priority,
		start:     start,
		dest:      dest,
		status:    entity.StatusHalted,
		halt:      haltNoRoute,
		addedAt:   now,
		arrivedAt: -1,
	}
	if !f.assignRoute(v, now) {
		log.Warnf("%v: %v", v, entity.ErrNoPathFound)
	}
	f.data[id] = v
	f.vehicles = append(f.vehicles, v)
	return v, nil
}

// assignRoute 从起点规划完整路线，排除当前不可通行的路段
// 返回：是否找到路线
func (f *Fleet) assignRoute(v *Vehicle, now int32) bool {
	r, ok := route.ShortestPath(f.network, v.start, v.dest, f.blocked(now))
	if !ok {
		return false
	}
	if v.setRoute(r, now) {
		from, to, _ := r.Segment(0)
		f.congestion.Enter(from, to)
	}
	return true
}

// Get 根据ID获取车辆，不存在时返回ErrUnknownEntity
func (f *Fleet) Get(id string) (*Vehicle, error) {
	v, ok := f.data[id]
	if !ok {
		return nil, fmt.Errorf("%w: vehicle %s", entity.ErrUnknownEntity, id)
	}
	return v, nil
}

// Vehicles 按加入顺序返回所有车辆
func (f *Fleet) Vehicles() []*Vehicle {
	return f.vehicles
}

// Len 车辆数量
func (f *Fleet) Len() int {
	return len(f.vehicles)
}

// ForceSignals 紧急车辆信号抢占
// 功能：每辆行驶中的紧急车辆将所在路口置为绿灯；高优先级车辆另将路线上一个路口置为红灯
// 说明：多辆紧急车辆竞争同一路口时，后处理者生效
func (f *Fleet) ForceSignals(now int32) {
	for _, v := range f.vehicles {
		if v.kind != KindEmergency || v.status != entity.StatusInTransit {
			continue
		}
		f.signals.Override(v.Current(), now)
		if v.priority == entity.PriorityHigh && v.position > 0 {
			f.signals.ForceRed(v.route.Nodes[v.position-1], now)
		}
	}
}

// Advance 前进阶段，推进指定类型的所有行驶中车辆
// 功能：红灯等待；否则路段内进度+1，达到路段通行时间后驶入下一路段并更新拥堵计数
// 返回：本步到达终点的车辆ID
func (f *Fleet) Advance(now int32, kind Kind) []string {
	arrivals := make([]string, 0)
	for _, v := range f.vehicles {
		if v.kind != kind || v.status != entity.StatusInTransit {
			continue
		}
		if f.advance(v, now) {
			arrivals = append(arrivals, v.id)
		}
	}
	return arrivals
}

// advance 推进单辆车，返回是否到达终点
func (f *Fleet) advance(v *Vehicle, now int32) bool {
	cur := v.Current()
	if green, ok := f.signals.IsGreen(cur); ok && !green {
		return false
	}
	v.progress++
	if v.progress < v.SegmentWeight() {
		return false
	}
	next, _ := v.Next()
	f.congestion.Leave(cur, next)
	v.position++
	v.progress = 0
	if v.position == v.route.Len()-1 {
		v.status = entity.StatusArrived
		v.arrivedAt = now
		log.Debugf("%v arrived at t=%d", v, now)
		return true
	}
	from, to, _ := v.route.Segment(v.position)
	f.congestion.Enter(from, to)
	return false
}

// Views 导出所有车辆快照
func (f *Fleet) Views() []VehicleView {
	return lo.Map(f.vehicles, func(v *Vehicle, _ int) VehicleView { return v.View() })
}

// blocked 当前时刻不可通行路段的排除谓词
func (f *Fleet) blocked(now int32) route.EdgePredicate {
	return func(from, to int32) bool {
		return f.closures.IsBlocked(from, to, now)
	}
}
