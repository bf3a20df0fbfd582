package config

// Input 指定模拟器输入数据的配置项
// 说明：路网、车辆、信号灯、封路记录均来自同一YAML文件
type Input struct {
	File string `yaml:"file"` // 输入记录文件路径
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数，<=0表示一直运行直到被取消
	Interval float64 `yaml:"interval"` // 每步的实际时间间隔（秒），0表示不限速
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
type Control struct {
	Step                ControlStep `yaml:"step"`
	CongestionThreshold int32       `yaml:"congestion_threshold,omitempty"` // 拥堵阈值（路段车辆数），默认3
	RepairWindow        int32       `yaml:"repair_window,omitempty"`        // 维修中路段的封闭时长（步），默认10
}

// Generator 随机出行需求生成配置
// 说明：Count为0时不生成
type Generator struct {
	Count             int32   `yaml:"count"`
	Seed              uint64  `yaml:"seed"`
	EmergencyRatio    float64 `yaml:"emergency_ratio,omitempty"`     // 紧急车辆比例
	HighPriorityRatio float64 `yaml:"high_priority_ratio,omitempty"` // 紧急车辆中高优先级的比例
}

// Config YAML配置文件的根结构
type Config struct {
	Input     Input      `yaml:"input"`               // 输入
	Control   Control    `yaml:"control"`             // 模拟过程控制
	Generator *Generator `yaml:"generator,omitempty"` // 随机需求
}
