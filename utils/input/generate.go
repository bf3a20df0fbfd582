package input

import (
	"fmt"

	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
	"github.com/tsinghua-fib-lab/citytraffic-sim/utils/config"
	"github.com/tsinghua-fib-lab/citytraffic-sim/utils/randengine"
)

// Generate 随机生成出行需求
// 功能：在numNodes个路口之间生成cfg.Count次起终点不同的出行，按比例分配为紧急车辆
// 参数：numNodes-路口数量，cfg-生成配置
// 返回：普通车辆出行与紧急车辆出行，ID形如gen-0
// 说明：同一种子生成同一序列；路口少于2个时不生成
func Generate(numNodes int32, cfg config.Generator) ([]Trip, []EmergencyTrip) {
	vehicles := make([]Trip, 0)
	emergencies := make([]EmergencyTrip, 0)
	engine := randengine.New(cfg.Seed)
	for i := range cfg.Count {
		start, end, ok := engine.DistinctPair(int(numNodes))
		if !ok {
			log.Warnf("cannot generate trips in a network of %d intersections", numNodes)
			break
		}
		trip := Trip{ID: fmt.Sprintf("gen-%d", i), Start: int32(start), End: int32(end)}
		if engine.PTrue(cfg.EmergencyRatio) {
			priority := entity.PriorityNormal
			if engine.PTrue(cfg.HighPriorityRatio) {
				priority = entity.PriorityHigh
			}
			emergencies = append(emergencies, EmergencyTrip{Trip: trip, Priority: priority})
		} else {
			vehicles = append(vehicles, trip)
		}
	}
	log.Infof("generated %d vehicles and %d emergency vehicles", len(vehicles), len(emergencies))
	return vehicles, emergencies
}
