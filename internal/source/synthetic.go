package source

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/machq/internal/query"
)

// DefaultCount is the number of machines generated when Count is zero.
const DefaultCount = 45

// Statuses lists the lifecycle states, from most to least advanced.
var Statuses = []string{
	"Testing", "Releasing", "Deploying", "Deployed", "Ready",
	"Failed commissioning", "Commissioning", "New",
}

var (
	zones       = []string{"default", "zone-1", "zone-2", "zone-3"}
	fabrics     = []string{"fabric-1", "fabric-2", "fabric-3", "fabric-4", "fabric-5"}
	coreChoices = []int{2, 4, 6, 8, 12, 16, 24, 32}
	ramChoices  = []int{2, 3, 4, 5, 6, 7, 9, 10}
)

const (
	firstHost   = 45
	tagPoolSize = 20
	maxTags     = 3
)

// Synthetic generates a reproducible fake inventory.
type Synthetic struct {
	Count int
	Seed  uint64
	Log   logr.Logger
}

// Records implements Source. Machines are ordered New first, Testing last.
func (s *Synthetic) Records(ctx context.Context) ([]query.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := s.Count
	if n <= 0 {
		n = DefaultCount
	}
	seed := s.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	records := make([]query.Record, 0, n)
	for i := range n {
		records = append(records, machine(rng, i))
	}
	priority := statusPriority()
	sort.SliceStable(records, func(i, j int) bool {
		return priority[records[i].Value(query.Status).Text()] < priority[records[j].Value(query.Status).Text()]
	})
	s.Log.V(1).Info("generated synthetic records", "count", n, "seed", seed)
	return records, nil
}

func machine(rng *rand.Rand, i int) query.Record {
	fqdn := fmt.Sprintf("sin73l%05d.maas", firstHost+i)
	return query.NewRecord(fqdn, map[query.Field]any{
		query.Status:  pick(rng, Statuses),
		query.Tags:    sampleTags(rng),
		query.Zone:    pick(rng, zones),
		query.Fabric:  pick(rng, fabrics),
		query.Cores:   pick(rng, coreChoices),
		query.RAM:     pick(rng, ramChoices),
		query.Disks:   5 + rng.IntN(5),
		query.Storage: math.Round((0.5+rng.Float64()*49.5)*100) / 100,
	})
}

func pick[T any](rng *rand.Rand, from []T) T {
	return from[rng.IntN(len(from))]
}

// sampleTags draws zero to three distinct tags from the mlod2s pool.
func sampleTags(rng *rand.Rand) []string {
	k := rng.IntN(maxTags + 1)
	idx := rng.Perm(tagPoolSize)[:k]
	tags := make([]string, k)
	for i, n := range idx {
		tags[i] = fmt.Sprintf("mlod2s%03d", n+1)
	}
	return tags
}

// statusPriority ranks statuses in reverse lifecycle order.
func statusPriority() map[string]int {
	p := make(map[string]int, len(Statuses))
	for i, s := range Statuses {
		p[s] = len(Statuses) - 1 - i
	}
	return p
}
