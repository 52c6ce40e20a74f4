// Package pkg provides the core libraries for the well-aware quadratic
// placement engine.
//
// # Overview
//
// The engine turns an unplaced netlist and a die region into a legal,
// well-rule-compliant layout minimizing half-perimeter wirelength (HPWL).
// Placement runs in two stages:
//
//  1. Global placement — alternates quadratic wirelength minimization
//     (a sparse linear solve per axis) with look-ahead legalization (LAL),
//     which nudges cells toward white space using recursive bin bisection.
//  2. Cluster legalization — packs the roughly-placed cells into
//     variable-height clusters that respect p-well/n-well abutment rules,
//     inserting well-tap cells and locally reordering cells within a
//     stripe to recover HPWL lost to legalization.
//
// # Architecture
//
// The typical data flow through the engine:
//
//	circuit.Model (netlist + die region + tech rules)
//	         ↓
//	    [globalplace] orchestrator: QUAD ⇄ LAL ⇄ ANCHOR loop
//	         ↓
//	    [stripe] + [legalize] + [welltap]: well-aware legalization
//	         ↓
//	    Final Block positions, orientations, and well-tap placements
//
// # Main Packages
//
// ## Geometry & Circuit Model
//
// [geometry] - Rectangles, grid bins, and the 2-D prefix-sum lookup table
// used for O(1) white-space and cell-area window queries.
//
// [circuit] - The Model interface global placement reads and writes:
// blocks, nets, pin offsets, orientation, well descriptors, and technology
// parameters (row height, tap spacing, well spacing rules).
//
// ## Quadratic Solve
//
// [netmodel] - Builds the B2B, Star, HPWL, and StarHPWL sparse net models
// and their per-axis right-hand sides.
//
// [cgsolve] - A conjugate-gradient adapter for the resulting symmetric
// positive-definite systems, with tolerance and iteration-cap parameters.
//
// ## Legalization
//
// [lal] - The look-ahead legalizer: grid-bin density accumulation, cluster
// detection over overflowing bins, and recursive box-bin bisection
// spreading.
//
// [anchor] - Creates per-cell anchor pseudo-nets after each LAL pass and
// grows their spring constant across outer iterations, driving the
// wirelength-only solve toward the legalized layout.
//
// [globalplace] - The orchestrator: drives the QUAD → LAL → CHECK → ANCHOR
// state machine to convergence or a bounded iteration budget.
//
// [stripe] - Partitions the die into vertical column stripes around fixed
// obstacles ahead of cluster legalization.
//
// [legalize] - The well-aware cluster legalizer: bottom-up and top-down
// row packing within a stripe, row-orientation assignment for well
// abutment, loose-x fallback when a stripe overflows.
//
// [welltap] - Well-tap insertion at bounded intervals and permutation-search
// local reordering within small sliding windows to recover HPWL.
//
// ## Ambient Stack
//
// [config] - Loads and validates engine options from a TOML file or an
// in-memory struct, with ValidateAndSetDefaults filling in unset knobs.
//
// [errors] - Five typed error codes (config, capacity, convergence,
// legalization, numeric) with wrap/unwrap support for diagnosing a failed
// run.
//
// [cache] - An optional content-addressed run cache with no-op (Null),
// file, and Redis-backed implementations, letting an unchanged
// circuit+config pair skip a re-solve.
//
// [recorder] - Optional persistence of run statistics — HPWL trajectory,
// iteration counts, timings — to MongoDB for offline analysis, keyed by a
// generated run ID.
//
// [ioexport] - Writers for the six output files a placement run produces:
// outline, cluster, p-well, n-well, well-rect, and router-cluster files.
//
// [observability] - Hooks for instrumenting orchestrator stages, cache
// operations, and solver calls without a hard dependency on any specific
// metrics backend.
//
// [buildinfo] - Build-time version information set via linker flags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/lal/...      # Specific package
//
// [geometry]: https://pkg.go.dev/github.com/opendali/placer/pkg/geometry
// [circuit]: https://pkg.go.dev/github.com/opendali/placer/pkg/circuit
// [netmodel]: https://pkg.go.dev/github.com/opendali/placer/pkg/netmodel
// [cgsolve]: https://pkg.go.dev/github.com/opendali/placer/pkg/cgsolve
// [lal]: https://pkg.go.dev/github.com/opendali/placer/pkg/lal
// [anchor]: https://pkg.go.dev/github.com/opendali/placer/pkg/anchor
// [globalplace]: https://pkg.go.dev/github.com/opendali/placer/pkg/globalplace
// [stripe]: https://pkg.go.dev/github.com/opendali/placer/pkg/stripe
// [legalize]: https://pkg.go.dev/github.com/opendali/placer/pkg/legalize
// [welltap]: https://pkg.go.dev/github.com/opendali/placer/pkg/welltap
// [config]: https://pkg.go.dev/github.com/opendali/placer/pkg/config
// [errors]: https://pkg.go.dev/github.com/opendali/placer/pkg/errors
// [cache]: https://pkg.go.dev/github.com/opendali/placer/pkg/cache
// [recorder]: https://pkg.go.dev/github.com/opendali/placer/pkg/recorder
// [ioexport]: https://pkg.go.dev/github.com/opendali/placer/pkg/ioexport
// [observability]: https://pkg.go.dev/github.com/opendali/placer/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/opendali/placer/pkg/buildinfo
package pkg
