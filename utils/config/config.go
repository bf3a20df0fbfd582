package config

const (
	defaultCongestionThreshold = 3
	defaultRepairWindow        = 10
)

// RuntimeConfig 运行时配置
// 功能：存储补全默认值后的配置
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置生成运行时配置
// 参数：config-原始配置对象
// 返回：补全默认值后的运行时配置
// 算法说明：
// 1. 拥堵阈值未指定或非法时取3
// 2. 维修窗口未指定或非法时取10
// 3. 步间隔为负时视为不限速
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	if config.Control.CongestionThreshold < 1 {
		config.Control.CongestionThreshold = defaultCongestionThreshold
	}
	if config.Control.RepairWindow < 1 {
		config.Control.RepairWindow = defaultRepairWindow
	}
	if config.Control.Step.Interval < 0 {
		config.Control.Step.Interval = 0
	}

	rc.All = config
	rc.C = config.Control

	return rc
}
