package trafficlight

// twoPhaseRuntime 两相位信号灯运行时数据
type twoPhaseRuntime struct {
	isGreen    bool
	lastChange int32 // 上一次切换（或被抢占）的时刻
}

// TwoPhaseLight 两相位定时信号灯
// 功能：红绿两个相位按固定时长周期交替，可被人工或紧急车辆抢占
// 说明：纯周期切换，不根据交通状况自适应；抢占不改变绿灯时长，只重置计时
type TwoPhaseLight struct {
	Intersection  int32 // 所属路口
	greenDuration int32 // 相位保持时长（仿真步）

	runtime twoPhaseRuntime
}

// NewTwoPhaseLight 创建两相位信号灯
// 参数：intersection-路口，greenDuration-相位时长，now-创建时刻
// 说明：初始为红灯，计时从创建时刻开始
func NewTwoPhaseLight(intersection, greenDuration, now int32) *TwoPhaseLight {
	return &TwoPhaseLight{
		Intersection:  intersection,
		greenDuration: greenDuration,
		runtime:       twoPhaseRuntime{isGreen: false, lastChange: now},
	}
}

// Update 更新阶段，相位时长已到则切换
// 返回：本次是否发生切换
func (l *TwoPhaseLight) Update(now int32) bool {
	if now-l.runtime.lastChange < l.greenDuration {
		return false
	}
	l.runtime.isGreen = !l.runtime.isGreen
	l.runtime.lastChange = now
	return true
}

// Override 强制绿灯并重置计时
func (l *TwoPhaseLight) Override(now int32) {
	l.runtime = twoPhaseRuntime{isGreen: true, lastChange: now}
}

// ForceRed 强制红灯并重置计时
func (l *TwoPhaseLight) ForceRed(now int32) {
	l.runtime = twoPhaseRuntime{isGreen: false, lastChange: now}
}

// IsGreen 当前是否为绿灯
func (l *TwoPhaseLight) IsGreen() bool {
	return l.runtime.isGreen
}

// GreenDuration 相位时长
func (l *TwoPhaseLight) GreenDuration() int32 {
	return l.greenDuration
}

// LastChange 上一次切换时刻
func (l *TwoPhaseLight) LastChange() int32 {
	return l.runtime.lastChange
}

// RemainingTime 距离下一次切换的剩余时长
func (l *TwoPhaseLight) RemainingTime(now int32) int32 {
	return max(0, l.greenDuration-(now-l.runtime.lastChange))
}
