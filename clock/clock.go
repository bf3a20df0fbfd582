package clock

import (
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/citytraffic-sim/utils/config"
)

// Clock 仿真时钟
// 功能：管理仿真步的推进，每一步对应1个仿真秒
// 说明：Interval为两步之间的实际时间间隔，为0时不限速
type Clock struct {
	Interval   time.Duration // 每步的实际时间间隔
	START_STEP int32         // 起始步
	END_STEP   int32         // 结束步，模拟区间[START, END)

	InternalStep int32 // 当前步
}

// New 根据配置创建时钟
// 参数：stepConfig-控制步配置
// 说明：Total<=0时不设结束步，只能通过取消停止
func New(stepConfig config.ControlStep) *Clock {
	endStep := stepConfig.Start + stepConfig.Total
	if stepConfig.Total <= 0 {
		endStep = -1
	}
	c := &Clock{
		Interval:   time.Duration(stepConfig.Interval * float64(time.Second)),
		START_STEP: stepConfig.Start,
		END_STEP:   endStep,
	}
	c.Init()
	return c
}

// Init 重置为起始步
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
}

// Now 当前步
func (c *Clock) Now() int32 {
	return c.InternalStep
}

// Next 推进一步并返回新的当前步
func (c *Clock) Next() int32 {
	c.InternalStep++
	return c.InternalStep
}

// Finished 当前步是否已到达结束步
func (c *Clock) Finished() bool {
	return c.END_STEP >= 0 && c.InternalStep >= c.END_STEP
}

// String 格式化为HH:MM:SS
func (c *Clock) String() string {
	h, m, s := c.GetHourMinuteSecond()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, int(s))
}

// GetHourMinuteSecond 获取当前仿真时间的小时、分钟、秒
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	t := int(c.InternalStep)
	hour := t / 3600
	minute := t % 3600 / 60
	second := float64(t - hour*3600 - minute*60)
	return hour, minute, second
}
