package entity

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidNode        = errors.New("intersection index out of network bounds")
	ErrInvalidWeight      = errors.New("road weight must be at least 1")
	ErrInvalidDuration    = errors.New("signal green duration must be at least 1")
	ErrNoPathFound        = errors.New("no path found")
	ErrDuplicateVehicleID = errors.New("duplicate vehicle id")
	ErrUnknownEntity      = errors.New("unknown entity")
)

// Segment 有向路段，拥堵与封路统计的基本单元
type Segment struct {
	From int32
	To   int32
}

func (s Segment) String() string {
	return fmt.Sprintf("%d->%d", s.From, s.To)
}

// ClosureStatus 路段封闭状态
type ClosureStatus int32

const (
	ClosureClear       ClosureStatus = iota // 畅通
	ClosureBlocked                          // 封闭，需外部显式解除
	ClosureUnderRepair                      // 维修中，超过维修窗口后自动恢复
)

func (s ClosureStatus) String() string {
	switch s {
	case ClosureClear:
		return "Clear"
	case ClosureBlocked:
		return "Blocked"
	case ClosureUnderRepair:
		return "UnderRepair"
	default:
		return fmt.Sprintf("ClosureStatus(%d)", int32(s))
	}
}

// ParseClosureStatus 解析封闭状态，兼容"Under Repair"写法
func ParseClosureStatus(s string) (ClosureStatus, error) {
	switch s {
	case "Clear":
		return ClosureClear, nil
	case "Blocked":
		return ClosureBlocked, nil
	case "UnderRepair", "Under Repair":
		return ClosureUnderRepair, nil
	default:
		return ClosureClear, fmt.Errorf("unknown closure status %q", s)
	}
}

// VehicleStatus 车辆状态
type VehicleStatus int32

const (
	StatusInTransit VehicleStatus = iota // 行驶中
	StatusArrived                        // 已到达终点
	StatusHalted                         // 停止（碰撞或无可行路径）
)

func (s VehicleStatus) String() string {
	switch s {
	case StatusInTransit:
		return "InTransit"
	case StatusArrived:
		return "Arrived"
	case StatusHalted:
		return "Halted"
	default:
		return fmt.Sprintf("VehicleStatus(%d)", int32(s))
	}
}

// Priority 紧急车辆优先级
type Priority int32

const (
	PriorityNormal Priority = iota
	PriorityHigh
)

func (p Priority) String() string {
	if p == PriorityHigh {
		return "High"
	}
	return "Normal"
}

// ParsePriority 解析紧急车辆优先级
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "Normal":
		return PriorityNormal, nil
	case "High":
		return PriorityHigh, nil
	default:
		return PriorityNormal, fmt.Errorf("unknown priority %q", s)
	}
}

// CollisionEvent 碰撞事件，只追加不修改
type CollisionEvent struct {
	VehicleA string
	VehicleB string
	Location int32 // 发生碰撞的路口
	Tick     int32
}
