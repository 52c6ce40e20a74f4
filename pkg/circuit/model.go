package circuit

import "errors"

// Sentinel errors returned by Model implementations and InMemoryModel.
var (
	// ErrInvalidBlockIndex is returned when a block index is out of range.
	ErrInvalidBlockIndex = errors.New("circuit: invalid block index")

	// ErrInvalidNetIndex is returned when a net index is out of range.
	ErrInvalidNetIndex = errors.New("circuit: invalid net index")

	// ErrUnknownBlockType is returned when a block references a nil or
	// unregistered BlockType.
	ErrUnknownBlockType = errors.New("circuit: unknown block type")
)

// Model is the narrow read-write interface the placement engine consumes
// from an external circuit database. Implementations own the
// authoritative Block/Net storage; the engine only mutates coordinates and
// status through this interface and never assumes a particular backing
// representation.
type Model interface {
	// NumBlocks returns the number of blocks in the netlist.
	NumBlocks() int
	// NumNets returns the number of nets in the netlist.
	NumNets() int

	// Block returns a pointer to the block at index i. The returned pointer
	// may be mutated in place by the engine (coordinates, status).
	Block(i int) *Block
	// Net returns a pointer to the net at index i. Nets are never mutated
	// by the engine after construction.
	Net(i int) *Net
	// AddBlock instantiates a new block (used by well-tap insertion) and
	// returns its index.
	AddBlock(b Block) (int, error)

	// MovableIndices returns the indices of all movable blocks
	// (status in {UNPLACED, PLACED}), in ascending order.
	MovableIndices() []int
	// FixedIndices returns the indices of all non-movable blocks
	// (status in {FIXED, COVER}), in ascending order.
	FixedIndices() []int

	// Region returns the placement region.
	Region() Region
	// Tech returns the technology record (well rules, row height).
	Tech() Tech

	// Position resolves a pin reference to absolute coordinates. Used by
	// Net.HPWL and the netmodel builder.
	Position(PinRef) (x, y float64)
}
