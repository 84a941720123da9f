package htrie

import (
	"fmt"

	"gopkg.in/gholt/brimtext.v1"
)

// Stats is a snapshot of a Store's shape and occupancy, gathered by
// walking the whole trie. Debug fields beyond RecordCount/
// BurstAliasFallbacks are only populated when Stats is called with debug
// set, since gathering them costs extra bookkeeping during the walk.
type Stats struct {
	// RecordCount is the number of live records found.
	RecordCount uint64
	// BurstAliasFallbacks is the running total of bucket bursts that
	// exhausted every key bit still colliding, each of which failed its
	// Insert with ErrNoSpace (see burstLevel). No burst aliases a bucket,
	// so this counts no other fallback.
	BurstAliasFallbacks uint64

	statsDebug  bool
	workers     uint32
	rootBits    uint32
	varlen      bool
	inplace     bool
	nodes       uint64
	buckets     uint64
	depthCounts []uint64
	usedSlots   uint64
	freeSlots   uint64
	arenaNodes  int
	arenaBkts   int
}

// Stats walks the trie and reports its current shape. Pass debug=true to
// additionally gather node/bucket/depth counts, which costs more time to
// collect than the plain record and fallback counts.
func (s *Store) Stats(debug bool) *Stats {
	st := &Stats{
		BurstAliasFallbacks: s.burstAliasFallbacks.Load(),
		statsDebug:          debug,
		workers:             uint32(len(s.workers)),
		rootBits:            s.rootBits,
		varlen:              s.varlen,
		inplace:             s.inplace,
		arenaNodes:          s.nodes.len(),
		arenaBkts:           s.buckets.len(),
	}
	s.statsNode(st, s.root, 0)
	return st
}

func (s *Store) statsNode(st *Stats, n *indexNode, depth int) {
	if st.statsDebug {
		st.nodes++
		for len(st.depthCounts) <= depth {
			st.depthCounts = append(st.depthCounts, 0)
		}
		st.depthCounts[depth]++
	}
	for i := range n.shifts {
		val := n.shifts[i].Load()
		if val == 0 {
			continue
		}
		if isData(val) {
			s.statsBucket(st, s.bucketAt(val))
			continue
		}
		s.statsNode(st, s.nodes.get(offsetOf(val)), depth+1)
	}
}

func (s *Store) statsBucket(st *Stats, b *bucket) {
	if st.statsDebug {
		st.buckets++
	}
	m := b.occupiedBits()
	for i := 0; i < bucketSlots; i++ {
		if !liveBit(m, i) {
			if st.statsDebug {
				st.freeSlots++
			}
			continue
		}
		st.RecordCount++
		if st.statsDebug {
			st.usedSlots++
		}
	}
}

func (s *Stats) String() string {
	report := [][]string{
		{"RecordCount", fmt.Sprintf("%d", s.RecordCount)},
		{"BurstAliasFallbacks", fmt.Sprintf("%d", s.BurstAliasFallbacks)},
	}
	if s.statsDebug {
		depthCounts := fmt.Sprintf("%d", s.depthCounts[0])
		for i := 1; i < len(s.depthCounts); i++ {
			depthCounts += fmt.Sprintf(" %d", s.depthCounts[i])
		}
		mode := "fixed-indirect"
		if s.varlen {
			mode = "variable-length"
		} else if s.inplace {
			mode = "fixed-inplace"
		}
		report = append(report, [][]string{
			{"mode", mode},
			{"workers", fmt.Sprintf("%d", s.workers)},
			{"rootBits", fmt.Sprintf("%d", s.rootBits)},
			{"nodes", fmt.Sprintf("%d", s.nodes)},
			{"depth", fmt.Sprintf("%d", len(s.depthCounts))},
			{"depthCounts", depthCounts},
			{"buckets", fmt.Sprintf("%d", s.buckets)},
			{"usedSlots", fmt.Sprintf("%d %.1f%%", s.usedSlots, 100*float64(s.usedSlots)/float64(s.usedSlots+s.freeSlots))},
			{"freeSlots", fmt.Sprintf("%d", s.freeSlots)},
			{"arenaNodesEverAllocated", fmt.Sprintf("%d", s.arenaNodes)},
			{"arenaBucketsEverAllocated", fmt.Sprintf("%d (includes reclaimed/reused)", s.arenaBkts)},
		}...)
	}
	return brimtext.Align(report, nil)
}
