package entity

// Manager依赖倒置

// entity/junction的依赖倒置，车辆读取与抢占信号灯的接口
type ISignalController interface {
	// 查询路口信号灯，ok=false表示该路口没有信号灯
	IsGreen(intersection int32) (green bool, ok bool)
	// 强制绿灯并重置计时（人工或紧急抢占）
	Override(intersection int32, now int32) bool
	// 强制红灯并重置计时（高优先级紧急车辆封堵后方路口）
	ForceRed(intersection int32, now int32) bool
}

// entity/road拥堵统计的依赖倒置
type ICongestionTracker interface {
	Enter(from, to int32)
	Leave(from, to int32)
	IsCongested(from, to int32) bool
	Count(from, to int32) int32
}

// entity/road封路登记的依赖倒置
type IClosureRegistry interface {
	SetStatus(from, to int32, status ClosureStatus, now int32) error
	IsBlocked(from, to int32, now int32) bool
	Status(from, to int32, now int32) ClosureStatus
}
