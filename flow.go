// Copyright 2024 The University of Queensland
// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sortinghat

import (
	"container/heap"
	"context"
	"math"
)

const unreachable = math.MaxInt / 4

// flowArc is one direction of a residual arc. Arcs are stored in pairs so
// the reverse of arc a is a^1.
type flowArc struct {
	to       int
	capacity int
	cost     int
	// variable is the formulation index carried by the arc, or -1
	variable int
}

type flowNetwork struct {
	arcs []flowArc
	out  [][]int
}

func newFlowNetwork(nodes int) *flowNetwork {
	return &flowNetwork{out: make([][]int, nodes)}
}

func (n *flowNetwork) addArc(from, to, capacity, cost, variable int) {
	n.out[from] = append(n.out[from], len(n.arcs))
	n.arcs = append(n.arcs, flowArc{to: to, capacity: capacity, cost: cost, variable: variable})
	n.out[to] = append(n.out[to], len(n.arcs))
	n.arcs = append(n.arcs, flowArc{to: from, cost: -cost, variable: -1})
}

// flow returns the units pushed through arc a.
func (n *flowNetwork) flow(a int) int {
	return n.arcs[a^1].capacity
}

// tail returns the node arc a leaves.
func (n *flowNetwork) tail(a int) int {
	return n.arcs[a^1].to
}

// minCostFlow pushes up to demand units from source to sink along
// successive shortest paths. Arc costs must be non-negative. Each
// augmentation counts as one step.
//
// The returned error is ctx.Err() or errStepLimit when the budget ran out
// first; flow and cost then describe the partial state.
func (n *flowNetwork) minCostFlow(ctx context.Context, source, sink, demand, maxSteps int) (flow, cost, steps int, err error) {
	nodes := len(n.out)
	potential := make([]int, nodes)
	dist := make([]int, nodes)
	via := make([]int, nodes)

	for flow < demand {
		if err := ctx.Err(); err != nil {
			return flow, cost, steps, err
		}
		if maxSteps > 0 && steps >= maxSteps {
			return flow, cost, steps, errStepLimit
		}
		steps++

		n.shortestPaths(source, potential, dist, via)
		if dist[sink] == unreachable {
			break
		}
		for v := range potential {
			if dist[v] < unreachable {
				potential[v] += dist[v]
			}
		}

		push := demand - flow
		for v := sink; v != source; v = n.tail(via[v]) {
			push = min(push, n.arcs[via[v]].capacity)
		}
		for v := sink; v != source; v = n.tail(via[v]) {
			a := via[v]
			n.arcs[a].capacity -= push
			n.arcs[a^1].capacity += push
			cost += push * n.arcs[a].cost
		}
		flow += push
	}
	return flow, cost, steps, nil
}

// shortestPaths runs Dijkstra over reduced costs cost + p[u] - p[v].
func (n *flowNetwork) shortestPaths(source int, potential, dist, via []int) {
	for v := range dist {
		dist[v] = unreachable
		via[v] = -1
	}
	dist[source] = 0
	queue := &nodeQueue{{node: source}}
	for queue.Len() > 0 {
		item := heap.Pop(queue).(nodeDistance)
		u := item.node
		if item.dist > dist[u] {
			continue
		}
		for _, a := range n.out[u] {
			arc := n.arcs[a]
			if arc.capacity == 0 {
				continue
			}
			d := dist[u] + arc.cost + potential[u] - potential[arc.to]
			if d < dist[arc.to] {
				dist[arc.to] = d
				via[arc.to] = a
				heap.Push(queue, nodeDistance{node: arc.to, dist: d})
			}
		}
	}
}

// maxFlow saturates the network with breadth-first augmenting paths and
// ignores costs.
func (n *flowNetwork) maxFlow(source, sink int) int {
	total := 0
	via := make([]int, len(n.out))
	for {
		for v := range via {
			via[v] = -1
		}
		queue := []int{source}
		for len(queue) > 0 && via[sink] < 0 {
			u := queue[0]
			queue = queue[1:]
			for _, a := range n.out[u] {
				arc := n.arcs[a]
				if arc.capacity > 0 && arc.to != source && via[arc.to] < 0 {
					via[arc.to] = a
					queue = append(queue, arc.to)
				}
			}
		}
		if via[sink] < 0 {
			return total
		}

		push := unreachable
		for v := sink; v != source; v = n.tail(via[v]) {
			push = min(push, n.arcs[via[v]].capacity)
		}
		for v := sink; v != source; v = n.tail(via[v]) {
			n.arcs[via[v]].capacity -= push
			n.arcs[via[v]^1].capacity += push
		}
		total += push
	}
}

// residualReach marks the nodes reachable from source over arcs with
// remaining capacity. After maxFlow this is the source side of a minimum cut.
func (n *flowNetwork) residualReach(source int) []bool {
	seen := make([]bool, len(n.out))
	seen[source] = true
	stack := []int{source}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, a := range n.out[u] {
			arc := n.arcs[a]
			if arc.capacity > 0 && !seen[arc.to] {
				seen[arc.to] = true
				stack = append(stack, arc.to)
			}
		}
	}
	return seen
}

type nodeDistance struct {
	node int
	dist int
}

type nodeQueue []nodeDistance

func (q nodeQueue) Len() int           { return len(q) }
func (q nodeQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q nodeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) {
	*q = append(*q, x.(nodeDistance))
}

func (q *nodeQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

// assignmentNetwork lays a formulation out as a flow network:
//
//	source -> student (1 unit)
//	student -> course (1 unit, variable cost)
//	student -> sink (1 unit, unassigned penalty)
//	course -> sink (capacity units)
type assignmentNetwork struct {
	*flowNetwork
	source, sink int

	students     []Name
	courses      []Name
	studentNodes map[Name]int
	courseNodes  map[Name]int
}

const (
	flowSource = 0
	flowSink   = 1
)

// newAssignmentNetwork builds the network for f. Unassigned indicators are
// included only when withUnassigned is set; courses in closed get no arcs.
func newAssignmentNetwork(f *Formulation, withUnassigned bool, closed map[Name]bool) *assignmentNetwork {
	p := f.problem
	net := &assignmentNetwork{
		flowNetwork:  newFlowNetwork(2 + p.NumStudents() + p.NumCourses()),
		source:       flowSource,
		sink:         flowSink,
		studentNodes: make(map[Name]int, p.NumStudents()),
		courseNodes:  make(map[Name]int, p.NumCourses()),
	}

	node := 2
	for s := range p.Students() {
		net.students = append(net.students, s.Name)
		net.studentNodes[s.Name] = node
		net.addArc(flowSource, node, 1, 0, -1)
		node++
	}
	for c := range p.Courses() {
		net.courses = append(net.courses, c.Name)
		net.courseNodes[c.Name] = node
		if c.Capacity > 0 && !closed[c.Name] {
			net.addArc(node, flowSink, c.Capacity, 0, -1)
		}
		node++
	}

	for _, v := range f.vars {
		from := net.studentNodes[v.Student]
		switch {
		case v.Kind == VarUnassigned:
			if withUnassigned {
				net.addArc(from, flowSink, 1, v.Cost, v.Index)
			}
		case !closed[v.Course]:
			net.addArc(from, net.courseNodes[v.Course], 1, v.Cost, v.Index)
		}
	}
	return net
}

// values reads the variable assignment off the arc flows.
func (net *assignmentNetwork) values(numVariables int) []bool {
	values := make([]bool, numVariables)
	for a := 0; a < len(net.arcs); a += 2 {
		if v := net.arcs[a].variable; v >= 0 && net.flow(a) > 0 {
			values[v] = true
		}
	}
	return values
}
