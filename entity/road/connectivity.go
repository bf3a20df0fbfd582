package road

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Gonum 将路网转换为gonum带权有向图
// 说明：平行道路取最小权重，自环被忽略（gonum simple图不支持自环）
func (g *Network) Gonum() *simple.WeightedDirectedGraph {
	wg := simple.NewWeightedDirectedGraph(0, 0)
	for u := range g.out {
		wg.AddNode(simple.Node(u))
	}
	for u, es := range g.out {
		for _, e := range es {
			if e.From == e.To {
				continue
			}
			from, to := simple.Node(u), simple.Node(e.To)
			if old := wg.WeightedEdge(from.ID(), to.ID()); old != nil && old.Weight() <= float64(e.Weight) {
				continue
			}
			wg.SetWeightedEdge(wg.NewWeightedEdge(from, to, float64(e.Weight)))
		}
	}
	return wg
}

// Components 计算路网的强连通分量
// 功能：使用Tarjan算法求强连通分量，分量数大于1说明存在无法互达的路口
// 返回：每个分量内的路口按升序排列，分量按最小路口升序排列
func (g *Network) Components() [][]int32 {
	sccs := topo.TarjanSCC(g.Gonum())
	comps := lo.Map(sccs, func(c []graph.Node, _ int) []int32 {
		ids := lo.Map(c, func(n graph.Node, _ int) int32 { return int32(n.ID()) })
		slices.Sort(ids)
		return ids
	})
	slices.SortFunc(comps, func(a, b []int32) int { return int(a[0] - b[0]) })
	return comps
}
