package task

import (
	"context"
	"flag"
	"maps"
	"time"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/vehicle"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// TickSummary 一个仿真步的结果
type TickSummary struct {
	Tick       int32
	Arrivals   []string                 // 本步到达终点的车辆
	Collisions []entity.CollisionEvent  // 本步新增的碰撞
	Reroutes   []string                 // 本步改道的车辆
	Congestion map[entity.Segment]int32 // 步末各路段车辆数
}

// Tick 执行一个仿真步
// 功能：按固定顺序推进所有组件，发布步末快照
// 参数：now-本步的仿真时刻
// 返回：本步结果
// 算法说明：
// 1. 应用缓冲区中的人工信号抢占
// 2. 信号灯周期切换
// 3. 紧急车辆信号抢占
// 4. 碰撞检测与处理，碰撞车辆在前进前停止
// 5. 普通车辆改道检查与前进，改道先于前进，车辆不会驶入即将绕开的路段
// 6. 紧急车辆改道检查（仅绕开封闭路段）与前进
// 7. 汇总结果并发布快照
// 说明：不会失败；步内所有车辆按加入顺序依次处理
func (ctx *Context) Tick(now int32) TickSummary {
	ctx.mtx.Lock()
	defer ctx.mtx.Unlock()
	ctx.clock.InternalStep = now

	for _, i := range ctx.overrides.Prepare() {
		if ctx.signals.Override(i, now) {
			log.Infof("manual override at intersection %d (t=%d)", i, now)
		}
	}
	ctx.signals.Advance(now)
	ctx.fleet.ForceSignals(now)

	collisions := ctx.detector.Resolve(ctx.detector.Scan(ctx.fleet.Vehicles()), now)

	reroutes := ctx.fleet.CheckReroute(now, vehicle.KindRegular)
	arrivals := ctx.fleet.Advance(now, vehicle.KindRegular)
	reroutes = append(reroutes, ctx.fleet.CheckReroute(now, vehicle.KindEmergency)...)
	arrivals = append(arrivals, ctx.fleet.Advance(now, vehicle.KindEmergency)...)

	summary := TickSummary{
		Tick:       now,
		Arrivals:   arrivals,
		Collisions: collisions,
		Reroutes:   reroutes,
		Congestion: ctx.congestion.Snapshot(),
	}
	ctx.publish(now, &summary)
	ctx.heartbeat(now)
	return summary
}

// heartbeat 心跳日志
func (ctx *Context) heartbeat(now int32) {
	if *heartBeatInterval <= 0 || now%int32(*heartBeatInterval) != 0 {
		return
	}
	counts := lo.CountValuesBy(ctx.fleet.Vehicles(), func(v *vehicle.Vehicle) entity.VehicleStatus { return v.Status() })
	hour, minute, second := ctx.clock.GetHourMinuteSecond()
	log.Infof(
		"STEP: %d(%d:%d:%.2f) in transit: %d, arrived: %d, halted: %d, collisions: %d",
		now, hour, minute, second,
		counts[entity.StatusInTransit], counts[entity.StatusArrived], counts[entity.StatusHalted],
		len(ctx.Snapshot().Collisions),
	)
}

// Run 运行
// 功能：按时钟间隔连续执行仿真步，直到到达结束步、runCtx被取消或调用Close
// 说明：取消只在两步之间检查，正在执行的一步总会完成，快照始终一致
func (ctx *Context) Run(runCtx context.Context) {
	var tick <-chan time.Time
	if ctx.clock.Interval > 0 {
		ticker := time.NewTicker(ctx.clock.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	log.Infof("run %v start at step %d", ctx.runID, ctx.clock.Now())
	for !ctx.clock.Finished() && !ctx.closed.Load() {
		if tick != nil {
			select {
			case <-runCtx.Done():
			case <-tick:
			}
		}
		if runCtx.Err() != nil {
			log.Infof("run %v cancelled: %v", ctx.runID, runCtx.Err())
			break
		}
		ctx.Tick(ctx.clock.Now() + 1)
	}
	log.Infof("engine complete at step %d", ctx.clock.Now())
}

// publish 生成并发布快照，调用方需持有锁
func (ctx *Context) publish(now int32, summary *TickSummary) {
	congestion := ctx.congestion.Snapshot()
	if summary != nil {
		congestion = maps.Clone(summary.Congestion)
	}
	s := &Snapshot{
		RunID:      ctx.runID.String(),
		Tick:       now,
		Signals:    ctx.signals.Snapshot(now),
		Vehicles:   ctx.fleet.Views(),
		Congestion: congestion,
		Closures:   ctx.closureStates(now),
		Collisions: ctx.detector.Log(),
	}
	s.index()
	ctx.snapshot.Store(s)
}
