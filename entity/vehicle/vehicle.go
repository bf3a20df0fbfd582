package vehicle

import (
	"fmt"
	"slices"

	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/vehicle/route"
)

// Kind 车辆类型
type Kind int32

const (
	KindRegular   Kind = iota // 普通车辆
	KindEmergency             // 紧急车辆
)

func (k Kind) String() string {
	if k == KindEmergency {
		return "Emergency"
	}
	return "Regular"
}

// haltReason 车辆停止原因
type haltReason int32

const (
	haltNone      haltReason = iota
	haltNoRoute              // 无可行路径，等待改道检查时重试
	haltCollision            // 碰撞，不再恢复
)

// Vehicle 车辆实体
// 功能：记录车辆的路线、所在路段与路段内进度
// 说明：
//   - 0 <= position < len(route)（无路可走时路线为空）
//   - InTransit时 position < len(route)-1
//   - progress在每次驶入新路段时归零
type Vehicle struct {
	id       string
	kind     Kind
	priority entity.Priority
	start    int32
	dest     int32

	route    route.Route
	position int   // 当前所在路口在路线中的下标
	progress int32 // 在当前路段内已行驶的步数
	status   entity.VehicleStatus
	halt     haltReason

	addedAt   int32
	arrivedAt int32
	reroutes  int32
}

// VehicleView 车辆状态快照
type VehicleView struct {
	ID            string
	Kind          Kind
	Priority      entity.Priority
	Start         int32
	Dest          int32
	Route         []int32
	Position      int
	Progress      int32
	SegmentWeight int32 // 当前路段的有效通行时间，不在路段上时为0
	Current       int32 // 当前路口，无路线时为起点
	Next          int32 // 下一路口，没有时为-1
	Status        entity.VehicleStatus
	AddedAt       int32
	ArrivedAt     int32 // 未到达时为-1
	Reroutes      int32
}

func (v *Vehicle) ID() string {
	return v.id
}

func (v *Vehicle) Kind() Kind {
	return v.kind
}

func (v *Vehicle) Status() entity.VehicleStatus {
	return v.status
}

func (v *Vehicle) Position() int {
	return v.position
}

func (v *Vehicle) Progress() int32 {
	return v.progress
}

// Route 当前路线（只读）
func (v *Vehicle) Route() route.Route {
	return v.route
}

// Current 当前所在路口，无路线时返回起点
func (v *Vehicle) Current() int32 {
	if v.route.Len() == 0 {
		return v.start
	}
	return v.route.Nodes[v.position]
}

// Next 下一路口，已在路线终点或无路线时ok=false
func (v *Vehicle) Next() (int32, bool) {
	if v.position+1 >= v.route.Len() {
		return -1, false
	}
	return v.route.Nodes[v.position+1], true
}

// SegmentWeight 当前路段的有效通行时间
// 说明：紧急车辆通行时间减半，至少为1
func (v *Vehicle) SegmentWeight() int32 {
	if v.position+1 >= v.route.Len() {
		return 0
	}
	w := v.route.Weights[v.position]
	if v.kind == KindEmergency {
		return max(1, w/2)
	}
	return w
}

// waitingForRoute 是否因无可行路径而停止，等待重试
func (v *Vehicle) waitingForRoute() bool {
	return v.status == entity.StatusHalted && v.halt == haltNoRoute
}

// setRoute 设置完整路线并从起点出发
// 返回：车辆是否处于行驶状态（起终点相同时直接到达）
func (v *Vehicle) setRoute(r route.Route, now int32) bool {
	v.route = r
	v.position = 0
	v.progress = 0
	v.halt = haltNone
	if r.Len() <= 1 {
		v.status = entity.StatusArrived
		v.arrivedAt = now
		return false
	}
	v.status = entity.StatusInTransit
	return true
}

func (v *Vehicle) stop(reason haltReason) {
	v.status = entity.StatusHalted
	v.halt = reason
}

// View 导出快照，路线为副本
func (v *Vehicle) View() VehicleView {
	next, _ := v.Next()
	return VehicleView{
		ID:            v.id,
		Kind:          v.kind,
		Priority:      v.priority,
		Start:         v.start,
		Dest:          v.dest,
		Route:         slices.Clone(v.route.Nodes),
		Position:      v.position,
		Progress:      v.progress,
		SegmentWeight: v.SegmentWeight(),
		Current:       v.Current(),
		Next:          next,
		Status:        v.status,
		AddedAt:       v.addedAt,
		ArrivedAt:     v.arrivedAt,
		Reroutes:      v.reroutes,
	}
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("%v vehicle %s (%d->%d) [%v]", v.kind, v.id, v.start, v.dest, v.status)
}
