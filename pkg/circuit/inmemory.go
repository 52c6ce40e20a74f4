package circuit

import "sort"

// InMemoryModel is a straightforward in-process circuit.Model, suitable for
// tests, the cmd/placer demonstration binary, and any caller that already
// holds its netlist in memory. Production integrations typically implement
// Model against their own circuit database instead.
//
// The zero value is not usable; construct with NewInMemoryModel.
type InMemoryModel struct {
	region Region
	tech   Tech
	blocks []Block
	nets   []Net
}

// NewInMemoryModel creates an empty model over the given region and
// technology record.
func NewInMemoryModel(region Region, tech Tech) *InMemoryModel {
	return &InMemoryModel{region: region, tech: tech}
}

// AddBlock appends a block, assigning it the next sequential index.
// Returns ErrUnknownBlockType if b.Type is nil.
func (m *InMemoryModel) AddBlock(b Block) (int, error) {
	if b.Type == nil {
		return 0, ErrUnknownBlockType
	}
	b.Index = len(m.blocks)
	m.blocks = append(m.blocks, b)
	return b.Index, nil
}

// AddNet appends a net, assigning it the next sequential index, and
// registers the net's index against every block it touches.
func (m *InMemoryModel) AddNet(n Net) (int, error) {
	n.Index = len(m.nets)
	for _, p := range n.Pins {
		if p.BlockIndex < 0 || p.BlockIndex >= len(m.blocks) {
			return 0, ErrInvalidBlockIndex
		}
	}
	m.nets = append(m.nets, n)
	for _, p := range n.Pins {
		m.blocks[p.BlockIndex].NetIndices = append(m.blocks[p.BlockIndex].NetIndices, n.Index)
	}
	return n.Index, nil
}

// NumBlocks implements Model.
func (m *InMemoryModel) NumBlocks() int { return len(m.blocks) }

// NumNets implements Model.
func (m *InMemoryModel) NumNets() int { return len(m.nets) }

// Block implements Model.
func (m *InMemoryModel) Block(i int) *Block {
	if i < 0 || i >= len(m.blocks) {
		return nil
	}
	return &m.blocks[i]
}

// Net implements Model.
func (m *InMemoryModel) Net(i int) *Net {
	if i < 0 || i >= len(m.nets) {
		return nil
	}
	return &m.nets[i]
}

// MovableIndices implements Model.
func (m *InMemoryModel) MovableIndices() []int {
	out := make([]int, 0, len(m.blocks))
	for i := range m.blocks {
		if m.blocks[i].Movable() {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// FixedIndices implements Model.
func (m *InMemoryModel) FixedIndices() []int {
	out := make([]int, 0, len(m.blocks))
	for i := range m.blocks {
		if !m.blocks[i].Movable() {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// Region implements Model.
func (m *InMemoryModel) Region() Region { return m.region }

// Tech implements Model.
func (m *InMemoryModel) Tech() Tech { return m.tech }

// Position implements Model.
func (m *InMemoryModel) Position(p PinRef) (float64, float64) {
	b := m.Block(p.BlockIndex)
	if b == nil {
		return 0, 0
	}
	return b.PinPosition(p.PinIndex)
}

var _ Model = (*InMemoryModel)(nil)
