package vehicle

import (
	"slices"

	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
)

// Conflict 同一仿真步内两辆车争用同一路段
type Conflict struct {
	A, B     *Vehicle
	Location int32 // 共同的当前路口
	Next     int32 // 共同的下一路口
}

// CollisionDetector 碰撞检测
// 功能：检测当前路口与下一路口均相同的行驶中车辆对，记录碰撞、停止车辆并封闭路段
// 说明：碰撞引起的封闭为Blocked，需外部显式解除
type CollisionDetector struct {
	closures entity.IClosureRegistry
	events   []entity.CollisionEvent
}

func NewCollisionDetector(closures entity.IClosureRegistry) *CollisionDetector {
	return &CollisionDetector{
		closures: closures,
		events:   make([]entity.CollisionEvent, 0),
	}
}

// Scan 两两比较行驶中车辆，找出所有冲突
// 参数：vehicles-按加入顺序的车辆列表
// 说明：以扫描开始时的行驶状态为准，同一车辆可出现在多个冲突中
func (d *CollisionDetector) Scan(vehicles []*Vehicle) []Conflict {
	moving := make([]*Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.status == entity.StatusInTransit {
			moving = append(moving, v)
		}
	}
	conflicts := make([]Conflict, 0)
	for i, a := range moving {
		aNext, ok := a.Next()
		if !ok {
			continue
		}
		for _, b := range moving[i+1:] {
			bNext, ok := b.Next()
			if ok && a.Current() == b.Current() && aNext == bNext {
				conflicts = append(conflicts, Conflict{A: a, B: b, Location: a.Current(), Next: aNext})
			}
		}
	}
	return conflicts
}

// Resolve 处理冲突：记录碰撞事件，停止双方车辆，封闭其共同的出口路段
// 返回：本步新增的碰撞事件
func (d *CollisionDetector) Resolve(conflicts []Conflict, now int32) []entity.CollisionEvent {
	added := make([]entity.CollisionEvent, 0, len(conflicts))
	for _, c := range conflicts {
		ev := entity.CollisionEvent{
			VehicleA: c.A.id,
			VehicleB: c.B.id,
			Location: c.Location,
			Tick:     now,
		}
		c.A.stop(haltCollision)
		c.B.stop(haltCollision)
		if err := d.closures.SetStatus(c.Location, c.Next, entity.ClosureBlocked, now); err != nil {
			log.Errorf("block %d->%d after collision: %v", c.Location, c.Next, err)
		}
		log.Warnf("collision between %s and %s at %d (t=%d)", ev.VehicleA, ev.VehicleB, ev.Location, now)
		added = append(added, ev)
	}
	d.events = append(d.events, added...)
	return added
}

// Log 碰撞记录副本（只追加）
func (d *CollisionDetector) Log() []entity.CollisionEvent {
	return slices.Clone(d.events)
}
