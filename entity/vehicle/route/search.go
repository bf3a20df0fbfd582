package route

import (
	"math"
	"slices"

	"github.com/tsinghua-fib-lab/citytraffic-sim/entity/road"
	"github.com/tsinghua-fib-lab/citytraffic-sim/utils/container"
)

// parentEdge 搜索树中到达某路口所用的道路
type parentEdge struct {
	from   int32
	weight int32
}

// ShortestPath 最短路搜索
// 功能：Dijkstra算法求source到dest通行时间最短的路线
// 参数：network-路网，source/dest-起终点，exclude-排除谓词（可为nil）
// 返回：路线及是否可达
// 算法说明：
// 1. 只在严格更短时松弛，等长路径保留先被松弛的一条（即出边插入顺序靠前者）
// 2. 优先队列中同距离的路口按入队顺序出队，保证结果确定
// 3. 被exclude排除的道路视为不存在
// 说明：纯函数，不依赖任何隐藏状态
func ShortestPath(network *road.Network, source, dest int32, exclude EdgePredicate) (Route, bool) {
	if !network.Valid(source) || !network.Valid(dest) {
		return Route{}, false
	}
	n := network.NumNodes()
	dist := make([]int64, n)
	for i := range dist {
		dist[i] = math.MaxInt64
	}
	visited := make([]bool, n)
	parent := make([]parentEdge, n)
	dist[source] = 0

	pq := container.NewPriorityQueue[int32]()
	pq.HeapPush(source, 0)
	for pq.Len() > 0 {
		u, d := pq.HeapPop()
		if visited[u] || d > dist[u] {
			continue
		}
		visited[u] = true
		if u == dest {
			break
		}
		for _, e := range network.Edges(u) {
			if visited[e.To] || (exclude != nil && exclude(e.From, e.To)) {
				continue
			}
			if alt := d + int64(e.Weight); alt < dist[e.To] {
				dist[e.To] = alt
				parent[e.To] = parentEdge{from: u, weight: e.Weight}
				pq.HeapPush(e.To, alt)
			}
		}
	}
	if !visited[dest] {
		return Route{}, false
	}
	return buildRoute(parent, source, dest), true
}

// ReachablePath 可达路线搜索
// 功能：广度优先搜索经过路段数最少的路线，不考虑通行时间
// 说明：用于拥堵改道的兜底，牺牲最优性换取可达性；出边按插入顺序扩展
func ReachablePath(network *road.Network, source, dest int32, exclude EdgePredicate) (Route, bool) {
	if !network.Valid(source) || !network.Valid(dest) {
		return Route{}, false
	}
	visited := make([]bool, network.NumNodes())
	parent := make([]parentEdge, network.NumNodes())
	visited[source] = true
	queue := []int32{source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if u == dest {
			return buildRoute(parent, source, dest), true
		}
		for _, e := range network.Edges(u) {
			if visited[e.To] || (exclude != nil && exclude(e.From, e.To)) {
				continue
			}
			visited[e.To] = true
			parent[e.To] = parentEdge{from: u, weight: e.Weight}
			queue = append(queue, e.To)
		}
	}
	return Route{}, false
}

// buildRoute 从终点沿搜索树回溯出路线
func buildRoute(parent []parentEdge, source, dest int32) Route {
	nodes := []int32{dest}
	weights := []int32{}
	for u := dest; u != source; {
		p := parent[u]
		nodes = append(nodes, p.from)
		weights = append(weights, p.weight)
		u = p.from
	}
	slices.Reverse(nodes)
	slices.Reverse(weights)
	return Route{Nodes: nodes, Weights: weights}
}
