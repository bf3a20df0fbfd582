package input

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/road"
	"gopkg.in/yaml.v2"
)

// 文件中的原始记录

type roadRecord struct {
	From     int32 `yaml:"from"`
	To       int32 `yaml:"to"`
	Weight   int32 `yaml:"weight"`
	Directed *bool `yaml:"directed,omitempty"` // 默认为单向
}

type vehicleRecord struct {
	ID    string `yaml:"id"`
	Start int32  `yaml:"start"`
	End   int32  `yaml:"end"`
}

type emergencyRecord struct {
	vehicleRecord `yaml:",inline"`
	Priority      string `yaml:"priority"`
}

type signalRecord struct {
	Intersection  int32 `yaml:"intersection"`
	GreenDuration int32 `yaml:"green_duration"`
}

type closureRecord struct {
	From   int32  `yaml:"from"`
	To     int32  `yaml:"to"`
	Status string `yaml:"status"`
}

type file struct {
	Intersections     int32             `yaml:"intersections,omitempty"` // 路口数量，可省略
	Roads             []roadRecord      `yaml:"roads"`
	Vehicles          []vehicleRecord   `yaml:"vehicles"`
	EmergencyVehicles []emergencyRecord `yaml:"emergency_vehicles"`
	Signals           []signalRecord    `yaml:"signals"`
	Closures          []closureRecord   `yaml:"closures"`
}

// Trip 车辆出行
type Trip struct {
	ID    string
	Start int32
	End   int32
}

// EmergencyTrip 紧急车辆出行
type EmergencyTrip struct {
	Trip
	Priority entity.Priority
}

// Signal 信号灯定义
type Signal struct {
	Intersection  int32
	GreenDuration int32
}

// Closure 初始封路
type Closure struct {
	From   int32
	To     int32
	Status entity.ClosureStatus
}

// Input 输入数据
// 功能：存储仿真所需的所有输入记录，均已通过校验
// 说明：非法记录在加载时跳过并记录警告，不会进入仿真核心
type Input struct {
	Intersections     int32 // 路口数量下限，为0时由道路记录推断
	Roads             []road.EdgeRecord
	Vehicles          []Trip
	EmergencyVehicles []EmergencyTrip
	Signals           []Signal
	Closures          []Closure
}

// Load 从YAML文件加载输入数据
func Load(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}
	return Parse(data)
}

// Parse 解析YAML格式的输入数据
// 返回：校验后的输入数据；YAML格式错误时返回错误
// 算法说明：
// 0. 路口数量：为负时忽略，路网大小由道路记录推断
// 1. 道路：路口下标为负或权重<1时跳过
// 2. 车辆：ID为空、路口下标为负、ID重复（含普通与紧急车辆之间）时跳过
// 3. 紧急车辆：优先级无法识别时跳过
// 4. 信号灯：路口下标为负或绿灯时长<1时跳过，同一路口以最后一条为准
// 5. 封路：路口下标为负或状态无法识别时跳过
func Parse(data []byte) (*Input, error) {
	var f file
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	res := &Input{}

	if f.Intersections < 0 {
		log.Warnf("ignore negative intersection count %d", f.Intersections)
	} else {
		res.Intersections = f.Intersections
	}

	res.Roads = lo.FilterMap(f.Roads, func(r roadRecord, i int) (road.EdgeRecord, bool) {
		if r.From < 0 || r.To < 0 {
			log.Warnf("skip road #%d %d->%d: %v", i, r.From, r.To, entity.ErrInvalidNode)
			return road.EdgeRecord{}, false
		}
		if r.Weight < 1 {
			log.Warnf("skip road #%d %d->%d: %v %d", i, r.From, r.To, entity.ErrInvalidWeight, r.Weight)
			return road.EdgeRecord{}, false
		}
		return road.EdgeRecord{
			From:     r.From,
			To:       r.To,
			Weight:   r.Weight,
			Directed: lo.FromPtrOr(r.Directed, true),
		}, true
	})

	seen := make(map[string]struct{})
	checkTrip := func(kind string, r vehicleRecord) bool {
		if r.ID == "" {
			log.Warnf("skip %s without id", kind)
			return false
		}
		if r.Start < 0 || r.End < 0 {
			log.Warnf("skip %s %s %d->%d: %v", kind, r.ID, r.Start, r.End, entity.ErrInvalidNode)
			return false
		}
		if _, ok := seen[r.ID]; ok {
			log.Warnf("skip %s %s: %v", kind, r.ID, entity.ErrDuplicateVehicleID)
			return false
		}
		seen[r.ID] = struct{}{}
		return true
	}
	res.Vehicles = lo.FilterMap(f.Vehicles, func(r vehicleRecord, _ int) (Trip, bool) {
		return Trip(r), checkTrip("vehicle", r)
	})
	res.EmergencyVehicles = lo.FilterMap(f.EmergencyVehicles, func(r emergencyRecord, _ int) (EmergencyTrip, bool) {
		p, err := entity.ParsePriority(r.Priority)
		if err != nil {
			log.Warnf("skip emergency vehicle %s: %v", r.ID, err)
			return EmergencyTrip{}, false
		}
		if !checkTrip("emergency vehicle", r.vehicleRecord) {
			return EmergencyTrip{}, false
		}
		return EmergencyTrip{Trip: Trip(r.vehicleRecord), Priority: p}, true
	})

	res.Signals = lo.FilterMap(f.Signals, func(r signalRecord, _ int) (Signal, bool) {
		if r.Intersection < 0 {
			log.Warnf("skip signal at %d: %v", r.Intersection, entity.ErrInvalidNode)
			return Signal{}, false
		}
		if r.GreenDuration < 1 {
			log.Warnf("skip signal at %d: %v %d", r.Intersection, entity.ErrInvalidDuration, r.GreenDuration)
			return Signal{}, false
		}
		return Signal(r), true
	})

	res.Closures = lo.FilterMap(f.Closures, func(r closureRecord, _ int) (Closure, bool) {
		if r.From < 0 || r.To < 0 {
			log.Warnf("skip closure %d->%d: %v", r.From, r.To, entity.ErrInvalidNode)
			return Closure{}, false
		}
		status, err := entity.ParseClosureStatus(r.Status)
		if err != nil {
			log.Warnf("skip closure %d->%d: %v", r.From, r.To, err)
			return Closure{}, false
		}
		return Closure{From: r.From, To: r.To, Status: status}, true
	})

	log.Infof(
		"input loaded: %d roads, %d vehicles, %d emergency vehicles, %d signals, %d closures",
		len(res.Roads), len(res.Vehicles), len(res.EmergencyVehicles), len(res.Signals), len(res.Closures),
	)
	return res, nil
}
