package junction

import (
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/junction/trafficlight"
)

// SignalState 信号灯状态快照
type SignalState struct {
	Intersection  int32
	IsGreen       bool
	GreenDuration int32
	LastChange    int32
	Remaining     int32 // 距离下一次切换的剩余时长
}

// signal 路口与其信号灯
type signal struct {
	intersection int32
	light        ITrafficLight
}

// SignalController 信号灯管理器
// 功能：管理所有路口的两相位信号灯，负责周期切换与抢占
// 说明：每个路口最多一个信号灯；没有信号灯的路口视为始终可通行
type SignalController struct {
	numNodes int32

	data    map[int32]*signal
	signals []*signal // 按加入顺序
}

// NewSignalController 创建信号灯管理器
// 参数：numNodes-路网路口数量，用于校验路口下标
func NewSignalController(numNodes int32) *SignalController {
	return &SignalController{
		numNodes: numNodes,
		data:     make(map[int32]*signal),
		signals:  make([]*signal, 0),
	}
}

// AddSignal 为路口加入信号灯
// 功能：创建初始为红灯、计时从now开始的信号灯；路口已有信号灯时替换
// 返回：路口越界返回ErrInvalidNode，时长小于1返回ErrInvalidDuration
func (m *SignalController) AddSignal(intersection, greenDuration, now int32) error {
	if intersection < 0 || intersection >= m.numNodes {
		return fmt.Errorf("%w: signal at %d", entity.ErrInvalidNode, intersection)
	}
	if greenDuration < 1 {
		return fmt.Errorf("%w: signal at %d duration %d", entity.ErrInvalidDuration, intersection, greenDuration)
	}
	light := trafficlight.NewTwoPhaseLight(intersection, greenDuration, now)
	if s, ok := m.data[intersection]; ok {
		log.Warnf("replace signal at intersection %d", intersection)
		s.light = light
		return nil
	}
	s := &signal{intersection: intersection, light: light}
	m.data[intersection] = s
	m.signals = append(m.signals, s)
	return nil
}

// Advance 更新阶段，切换所有到期的信号灯
// 说明：各信号灯相互独立，并行更新
func (m *SignalController) Advance(now int32) {
	parallel.GoFor(m.signals, func(s *signal) { s.light.Update(now) })
}

// Override 强制路口绿灯并重置计时，路口没有信号灯时返回false
// 说明：人工抢占与紧急车辆抢占共用，后写者生效，不排队
func (m *SignalController) Override(intersection, now int32) bool {
	s, ok := m.data[intersection]
	if !ok {
		return false
	}
	s.light.Override(now)
	return true
}

// ForceRed 强制路口红灯并重置计时，路口没有信号灯时返回false
func (m *SignalController) ForceRed(intersection, now int32) bool {
	s, ok := m.data[intersection]
	if !ok {
		return false
	}
	s.light.ForceRed(now)
	return true
}

// IsGreen 查询路口信号灯，ok=false表示该路口没有信号灯
func (m *SignalController) IsGreen(intersection int32) (green bool, ok bool) {
	s, ok := m.data[intersection]
	if !ok {
		return false, false
	}
	return s.light.IsGreen(), true
}

// Snapshot 按加入顺序导出所有信号灯状态
func (m *SignalController) Snapshot(now int32) []SignalState {
	return lo.Map(m.signals, func(s *signal, _ int) SignalState {
		return SignalState{
			Intersection:  s.intersection,
			IsGreen:       s.light.IsGreen(),
			GreenDuration: s.light.GreenDuration(),
			LastChange:    s.light.LastChange(),
			Remaining:     s.light.RemainingTime(now),
		}
	})
}
