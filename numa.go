package workshare

import "fmt"

// Topology describes which team members are resident on which NUMA node:
// for each node, the set of team indices resident on it, and for each
// thread its node id and index within that node (spec.md §9: "an optional
// capability supplied by the thread-pool collaborator"). A nil *Topology
// on a Config leaves adaptive victim selection uniform over the whole
// team.
//
// Modeled after the node/topology vocabulary used by NUMA-aware runtime
// optimizers, simplified to just what victim selection needs: membership,
// not memory sizes or inter-node distances.
type Topology struct {
	members [][]int
	nodeOf  []int
	indexOf []int
}

// NewTopology builds a Topology from a list of team-index slices, one per
// NUMA node: members[n] lists the team indices resident on node n. Every
// team index in [0, teamSize) must appear in exactly one node's slice;
// NewTopology panics otherwise, since a malformed topology is a
// programming error in the caller that built it, not a runtime condition
// this package can recover from.
func NewTopology(teamSize int, members [][]int) *Topology {
	if teamSize <= 0 {
		panic(`workshare: numa: teamSize must be positive`)
	}

	nodeOf := make([]int, teamSize)
	indexOf := make([]int, teamSize)
	seen := make([]bool, teamSize)
	for i := range nodeOf {
		nodeOf[i] = -1
	}

	for node, ids := range members {
		for idx, id := range ids {
			if id < 0 || id >= teamSize {
				panic(fmt.Sprintf(`workshare: numa: team id %d out of range [0,%d)`, id, teamSize))
			}
			if seen[id] {
				panic(fmt.Sprintf(`workshare: numa: team id %d assigned to more than one node`, id))
			}
			seen[id] = true
			nodeOf[id] = node
			indexOf[id] = idx
		}
	}

	for id, ok := range seen {
		if !ok {
			panic(fmt.Sprintf(`workshare: numa: team id %d not assigned to any node`, id))
		}
	}

	t := &Topology{
		members: make([][]int, len(members)),
		nodeOf:  nodeOf,
		indexOf: indexOf,
	}
	for i, ids := range members {
		t.members[i] = append([]int(nil), ids...)
	}
	return t
}

// NodeOf returns the NUMA node id a team member is resident on.
func (t *Topology) NodeOf(teamID int) int { return t.nodeOf[teamID] }

// IndexInNode returns a team member's index within its resident node's
// member list, as returned by Members.
func (t *Topology) IndexInNode(teamID int) int { return t.indexOf[teamID] }

// Members returns the team indices resident on the given node. The
// returned slice must not be mutated by the caller.
func (t *Topology) Members(node int) []int { return t.members[node] }
