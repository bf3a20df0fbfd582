package junction

// 依赖倒置，表达junction对信号灯实现的接口需求

// 给观察者提供的信控读取接口
type ITrafficLightGetter interface {
	IsGreen() bool                 // 当前是否绿灯
	GreenDuration() int32          // 相位时长
	LastChange() int32             // 上一次切换时刻
	RemainingTime(now int32) int32 // 距离下一次切换的剩余时长
}

// 信号灯接口
type ITrafficLight interface {
	ITrafficLightGetter
	Update(now int32) bool // 更新阶段，返回是否切换

	Override(now int32) // 强制绿灯（人工或紧急抢占）
	ForceRed(now int32) // 强制红灯
}
