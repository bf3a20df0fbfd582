package task

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/citytraffic-sim/clock"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/junction"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/road"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/citytraffic-sim/utils/config"
	"github.com/tsinghua-fib-lab/citytraffic-sim/utils/container"
	"github.com/tsinghua-fib-lab/citytraffic-sim/utils/input"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态
// 说明：
//   - 仿真步与所有外部修改操作由同一把互斥锁保护
//   - 观察者只读取每次修改后发布的不可变快照，不持有锁
//   - 人工信号抢占写入缓冲区，在下一步开始时统一生效
type Context struct {
	// 运行ID，每次创建上下文时生成
	runID uuid.UUID
	// 关闭指令
	closed atomic.Bool
	// 仿真步与外部修改的互斥锁
	mtx sync.Mutex

	// 时钟
	clock *clock.Clock
	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig

	// 路网
	network *road.Network
	// 信号灯管理器
	signals *junction.SignalController
	// 拥堵统计
	congestion *road.CongestionTracker
	// 封路登记
	closures *road.ClosureRegistry
	// 车辆管理器
	fleet *vehicle.Fleet
	// 碰撞检测
	detector *vehicle.CollisionDetector

	// 待处理的人工信号抢占
	overrides *container.Buffer[int32]
	// 最新发布的快照
	snapshot atomic.Pointer[Snapshot]
}

// NewContext 创建新的仿真任务上下文
// 功能：根据配置与输入记录初始化仿真系统的所有组件
// 参数：c-配置对象，in-已校验的输入记录
// 返回：初始化完成的Context实例；路网无法构建时返回错误
// 算法说明：
// 1. 补全配置默认值，创建时钟
// 2. 构建路网（路口数量取输入给定值与道路记录推断值中的较大者），创建拥堵统计、封路登记、信号灯管理器
// 3. 在起始步加入信号灯（初始红灯）与初始封路
// 4. 加入输入中的车辆与紧急车辆，按配置追加随机生成的出行
// 5. 发布初始快照
// 说明：单条信号灯、封路、车辆记录非法时记录警告并跳过，不影响整体初始化
func NewContext(c config.Config, in *input.Input) (*Context, error) {
	ctx := &Context{
		runID:     uuid.New(),
		overrides: container.NewBuffer[int32](),
	}
	ctx.runtimeConfig = config.NewRuntimeConfig(c)
	ctx.clock = clock.New(ctx.runtimeConfig.C.Step)

	network, err := road.BuildSizedNetwork(in.Intersections, in.Roads)
	if err != nil {
		return nil, fmt.Errorf("build road network: %w", err)
	}
	ctx.network = network
	ctx.signals = junction.NewSignalController(network.NumNodes())
	ctx.congestion = road.NewCongestionTracker(ctx.runtimeConfig.C.CongestionThreshold)
	ctx.closures = road.NewClosureRegistry(network, ctx.runtimeConfig.C.RepairWindow)
	ctx.fleet = vehicle.NewFleet(network, ctx.signals, ctx.congestion, ctx.closures)
	ctx.detector = vehicle.NewCollisionDetector(ctx.closures)

	ctx.Init(in)
	return ctx, nil
}

// Init 加载信号灯、封路与车辆，并发布初始快照
func (ctx *Context) Init(in *input.Input) {
	ctx.mtx.Lock()
	defer ctx.mtx.Unlock()

	now := ctx.clock.Now()
	log.Infof("run %v: intersections=%d roads=%d", ctx.runID, ctx.network.NumNodes(), ctx.network.NumEdges())

	for _, s := range in.Signals {
		if err := ctx.signals.AddSignal(s.Intersection, s.GreenDuration, now); err != nil {
			log.Warnf("skip signal: %v", err)
		}
	}
	for _, cl := range in.Closures {
		if err := ctx.closures.SetStatus(cl.From, cl.To, cl.Status, now); err != nil {
			log.Warnf("skip closure: %v", err)
		}
	}

	vehicles, emergencies := in.Vehicles, in.EmergencyVehicles
	if g := ctx.runtimeConfig.All.Generator; g != nil && g.Count > 0 {
		genVehicles, genEmergencies := input.Generate(ctx.network.NumNodes(), *g)
		vehicles = append(append([]input.Trip{}, vehicles...), genVehicles...)
		emergencies = append(append([]input.EmergencyTrip{}, emergencies...), genEmergencies...)
	}
	for _, v := range vehicles {
		if _, err := ctx.fleet.AddVehicle(v.ID, v.Start, v.End, now); err != nil {
			log.Warnf("skip vehicle: %v", err)
		}
	}
	for _, e := range emergencies {
		if _, err := ctx.fleet.AddEmergencyVehicle(e.ID, e.Start, e.End, e.Priority, now); err != nil {
			log.Warnf("skip emergency vehicle: %v", err)
		}
	}
	log.Infof("Signal: %v", len(ctx.signals.Snapshot(now)))
	log.Infof("Vehicle: %v", ctx.fleet.Len())

	ctx.publish(now, nil)
}

func (ctx *Context) RunID() uuid.UUID {
	return ctx.runID
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) Network() *road.Network {
	return ctx.network
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// AddVehicle 在当前步加入普通车辆
func (ctx *Context) AddVehicle(id string, start, dest int32) error {
	ctx.mtx.Lock()
	defer ctx.mtx.Unlock()
	now := ctx.clock.Now()
	if _, err := ctx.fleet.AddVehicle(id, start, dest, now); err != nil {
		return err
	}
	ctx.publish(now, nil)
	return nil
}

// AddEmergencyVehicle 在当前步加入紧急车辆
func (ctx *Context) AddEmergencyVehicle(id string, start, dest int32, priority entity.Priority) error {
	ctx.mtx.Lock()
	defer ctx.mtx.Unlock()
	now := ctx.clock.Now()
	if _, err := ctx.fleet.AddEmergencyVehicle(id, start, dest, priority, now); err != nil {
		return err
	}
	ctx.publish(now, nil)
	return nil
}

// SetClosure 设置路段封闭状态，封闭计时从当前步开始
// 说明：碰撞引起的Blocked只能通过此接口设置为Clear解除
func (ctx *Context) SetClosure(from, to int32, status entity.ClosureStatus) error {
	ctx.mtx.Lock()
	defer ctx.mtx.Unlock()
	now := ctx.clock.Now()
	if err := ctx.closures.SetStatus(from, to, status, now); err != nil {
		return err
	}
	log.Infof("closure %d->%d set to %v at t=%d", from, to, status, now)
	ctx.publish(now, nil)
	return nil
}

// ManualOverrideSignal 人工强制路口绿灯
// 功能：写入缓冲区，在下一步开始时生效
// 返回：路口越界返回ErrInvalidNode，路口没有信号灯返回ErrUnknownEntity
func (ctx *Context) ManualOverrideSignal(intersection int32) error {
	if !ctx.network.Valid(intersection) {
		return fmt.Errorf("%w: override at %d", entity.ErrInvalidNode, intersection)
	}
	if _, ok := ctx.Snapshot().Signal(intersection); !ok {
		return fmt.Errorf("%w: no signal at %d", entity.ErrUnknownEntity, intersection)
	}
	ctx.overrides.Add(intersection)
	return nil
}

// Close 停止运行，Run在当前步完成后退出
func (ctx *Context) Close() {
	if ctx.closed.Swap(true) {
		return
	}
	log.Infof("run %v closing", ctx.runID)
}
