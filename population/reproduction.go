package population

import (
	"fmt"

	"github.com/pthm-cable/creatures/dna"
)

// selectParents marks each creature as a parent with probability
// ProcreateRate and returns the parents' DNA.
func (m *Manager) selectParents() []dna.DNA {
	var parents []dna.DNA

	query := m.filter.Query()
	for query.Next() {
		_, _, _, genome := query.Get()
		if m.rng.Float64() < m.settings.ProcreateRate {
			parents = append(parents, genome.DNA)
		}
	}

	return parents
}

// mate pairs every parent with a mate drawn uniformly from the parent set
// (possibly itself) and spawns one offspring per pair at a random position.
// Offspring are spawned after selection, so they take no part in this tick.
func (m *Manager) mate(parents []dna.DNA, f Frame) (int, error) {
	born := 0
	for _, parent := range parents {
		if m.settings.MaxPopulation > 0 && m.count >= m.settings.MaxPopulation {
			break
		}

		mate := parents[m.rng.IntN(len(parents))]
		child, err := dna.Breed(m.rng, parent, mate, m.settings.MutationRate)
		if err != nil {
			return born, fmt.Errorf("breeding offspring: %w", err)
		}

		c, err := m.factory.Create(m.randomPosition(f), f.Now, child)
		if err != nil {
			return born, err
		}
		m.Spawn(c)
		born++
	}
	return born, nil
}
