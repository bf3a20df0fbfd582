package road

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/citytraffic-sim/entity"
)

// Edge 有向道路
type Edge struct {
	From   int32
	To     int32
	Weight int32 // 通行时间（仿真步）
}

// EdgeRecord 外部加载得到的道路记录
type EdgeRecord struct {
	From     int32
	To       int32
	Weight   int32
	Directed bool
}

// Network 路网
// 功能：以路口为节点、道路为有向边的带权图，拓扑构建完成后不再修改
// 说明：每个路口的出边按插入顺序保存在切片中，遍历顺序确定；封路与拥堵作为叠加层单独维护
type Network struct {
	out [][]Edge // 路口id->出边列表
}

// NewNetwork 创建包含n个路口、没有道路的路网
func NewNetwork(n int32) *Network {
	if n < 0 {
		n = 0
	}
	return &Network{out: make([][]Edge, n)}
}

// BuildNetwork 根据道路记录构建路网
// 功能：路口数量取记录中出现的最大下标+1，依次加入所有道路
// 参数：edges-道路记录
// 返回：路网，任一记录非法时返回错误
func BuildNetwork(edges []EdgeRecord) (*Network, error) {
	return BuildSizedNetwork(0, edges)
}

// BuildSizedNetwork 根据道路记录构建至少包含numNodes个路口的路网
// 说明：没有道路连接的路口仍是合法路口，车辆可以以其为起终点（无路可走时停止）
func BuildSizedNetwork(numNodes int32, edges []EdgeRecord) (*Network, error) {
	n := max(numNodes, 0)
	for _, e := range edges {
		if e.From < 0 || e.To < 0 {
			return nil, fmt.Errorf("%w: road %d->%d", entity.ErrInvalidNode, e.From, e.To)
		}
		n = max(n, e.From+1, e.To+1)
	}
	g := NewNetwork(n)
	for _, e := range edges {
		if err := g.AddEdge(e.From, e.To, e.Weight, e.Directed); err != nil {
			return nil, err
		}
	}
	if comps := g.Components(); len(comps) > 1 {
		log.Warnf("road network with %d intersections is not strongly connected: %d components", n, len(comps))
	}
	log.Infof("road network built: %d intersections, %d roads", g.NumNodes(), g.NumEdges())
	return g, nil
}

// NumNodes 路口数量
func (g *Network) NumNodes() int32 {
	return int32(len(g.out))
}

// NumEdges 有向道路数量
func (g *Network) NumEdges() int {
	return lo.SumBy(g.out, func(es []Edge) int { return len(es) })
}

// Valid 判断路口下标是否在路网范围内
func (g *Network) Valid(u int32) bool {
	return u >= 0 && u < int32(len(g.out))
}

// AddEdge 加入道路
// 功能：加入u->v，directed为false时同时加入v->u
// 返回：路口越界返回ErrInvalidNode，权重小于1返回ErrInvalidWeight
func (g *Network) AddEdge(u, v, weight int32, directed bool) error {
	if !g.Valid(u) || !g.Valid(v) {
		return fmt.Errorf("%w: road %d->%d in network of %d", entity.ErrInvalidNode, u, v, len(g.out))
	}
	if weight < 1 {
		return fmt.Errorf("%w: road %d->%d weight %d", entity.ErrInvalidWeight, u, v, weight)
	}
	g.out[u] = append(g.out[u], Edge{From: u, To: v, Weight: weight})
	if !directed {
		g.out[v] = append(g.out[v], Edge{From: v, To: u, Weight: weight})
	}
	return nil
}

// Edges 按插入顺序返回路口u的出边，越界返回nil
func (g *Network) Edges(u int32) []Edge {
	if !g.Valid(u) {
		return nil
	}
	return g.out[u]
}

// Weight 查询u->v的道路权重，存在平行道路时取最先插入的一条
func (g *Network) Weight(u, v int32) (int32, bool) {
	e, ok := lo.Find(g.Edges(u), func(e Edge) bool { return e.To == v })
	return e.Weight, ok
}
