package vehicle

import (
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/vehicle/route"
)

// CheckReroute 改道检查阶段
// 功能：对指定类型的行驶中车辆，若下一路段拥堵（仅普通车辆）或封闭，则从当前路口重新规划剩余路线
// 返回：本步成功改道的车辆ID
// 算法说明：
// 1. 首选ShortestPath，排除封闭路段、拥堵路段与触发改道的路段
// 2. 失败时退化为ReachablePath，仅排除封闭路段与触发改道的路段，以可达性换取最优性
//   - 退化时不再排除拥堵路段：相同排除条件下第1步已证明不可达，BFS也必然失败
// 3. 仍失败则保留原路线继续行驶，不原地死锁
// 说明：因无路可走而停止的车辆在此阶段从起点重新尝试规划
func (f *Fleet) CheckReroute(now int32, kind Kind) []string {
	rerouted := make([]string, 0)
	for _, v := range f.vehicles {
		if v.kind != kind {
			continue
		}
		if v.waitingForRoute() {
			if f.assignRoute(v, now) {
				log.Infof("%v found a route at t=%d: %v", v, now, v.route)
			}
			continue
		}
		if v.status != entity.StatusInTransit {
			continue
		}
		if f.reroute(v, now) {
			rerouted = append(rerouted, v.id)
		}
	}
	return rerouted
}

// needsReroute 判断车辆的下一路段是否需要绕行
func (f *Fleet) needsReroute(v *Vehicle, now int32) bool {
	cur := v.Current()
	next, ok := v.Next()
	if !ok {
		return false
	}
	if f.closures.IsBlocked(cur, next, now) {
		return true
	}
	return v.kind == KindRegular && f.congestion.IsCongested(cur, next)
}

// reroute 尝试为单辆车替换剩余路线，返回是否改道
func (f *Fleet) reroute(v *Vehicle, now int32) bool {
	if !f.needsReroute(v, now) {
		return false
	}
	cur := v.Current()
	next, _ := v.Next()
	blocked := f.blocked(now)
	trigger := func(from, to int32) bool {
		return from == cur && to == next
	}

	var rest route.Route
	var ok bool
	if v.kind == KindEmergency {
		rest, ok = route.ShortestPath(f.network, cur, v.dest, blocked)
	} else {
		rest, ok = route.ShortestPath(f.network, cur, v.dest, func(from, to int32) bool {
			return trigger(from, to) || blocked(from, to) || f.congestion.IsCongested(from, to)
		})
		if !ok {
			rest, ok = route.ReachablePath(f.network, cur, v.dest, func(from, to int32) bool {
				return trigger(from, to) || blocked(from, to)
			})
		}
	}
	if !ok || rest.Len() < 2 {
		log.Debugf("%v keeps its route at t=%d: no detour around %d->%d", v, now, cur, next)
		return false
	}

	f.congestion.Leave(cur, next)
	v.route = v.route.Splice(v.position, rest)
	v.progress = 0
	v.reroutes++
	from, to, _ := v.route.Segment(v.position)
	f.congestion.Enter(from, to)
	log.Debugf("%v rerouted at t=%d: %v", v, now, v.route)
	return true
}
