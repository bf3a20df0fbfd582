package route

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// EdgePredicate 路段排除谓词，返回true的路段在搜索中视为不存在
type EdgePredicate func(from, to int32) bool

// Route 导航路线
// 功能：记录途经路口序列，以及每段所用道路在规划时刻的权重
// 说明：Weights[i]对应Nodes[i]->Nodes[i+1]，长度比Nodes少1；空路线表示无路可走
type Route struct {
	Nodes   []int32
	Weights []int32
}

// Len 途经路口数量
func (r Route) Len() int {
	return len(r.Nodes)
}

// Cost 路线总通行时间
func (r Route) Cost() int64 {
	return lo.SumBy(r.Weights, func(w int32) int64 { return int64(w) })
}

// Segment 第i段的起止路口与权重
func (r Route) Segment(i int) (from, to, weight int32) {
	return r.Nodes[i], r.Nodes[i+1], r.Weights[i]
}

// Splice 保留前keep个路口（不含第keep个），拼接新的剩余路线
// 说明：rest的起点必须是r.Nodes[keep]，已走过的部分保持不变
func (r Route) Splice(keep int, rest Route) Route {
	nodes := make([]int32, 0, keep+len(rest.Nodes))
	nodes = append(nodes, r.Nodes[:keep]...)
	nodes = append(nodes, rest.Nodes...)
	weights := make([]int32, 0, keep+len(rest.Weights))
	weights = append(weights, r.Weights[:keep]...)
	weights = append(weights, rest.Weights...)
	return Route{Nodes: nodes, Weights: weights}
}

func (r Route) String() string {
	return strings.Join(lo.Map(r.Nodes, func(n int32, _ int) string { return fmt.Sprint(n) }), " -> ")
}
