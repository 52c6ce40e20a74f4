// Package config loads and validates the tunable parameters of the
// placement engine: net-model weights, convergence thresholds, iteration
// budgets, and well/legalization rules. Options are decoded from TOML with
// github.com/BurntSushi/toml, then defaulted and validated once before Run
// begins.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/opendali/placer/pkg/errors"
)

// NetModel selects the sparse system family built by pkg/netmodel.
type NetModel string

// The four net models the placer recognizes.
const (
	NetModelB2B      NetModel = "B2B"
	NetModelStar     NetModel = "Star"
	NetModelHPWL     NetModel = "HPWL"
	NetModelStarHPWL NetModel = "StarHPWL"
)

// ClusteringStyle chooses between compact and loose cluster-opening
// triggers in the bottom-up/top-down legalization passes.
type ClusteringStyle string

const (
	// ClusteringCompact ignores a block's LLY as a new-cluster trigger,
	// packing purely by contour and used-width overflow.
	ClusteringCompact ClusteringStyle = "compact"
	// ClusteringLoose additionally opens a new cluster whenever a block's
	// LLY sits above the stripe's current contour.
	ClusteringLoose ClusteringStyle = "loose"
)

// LogLevel names the charmbracelet/log level applied to the engine logger.
type LogLevel string

// Recognized log levels, mapped to charmbracelet/log levels in NewLogger.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Options holds every tunable parameter of the placement engine. Zero
// values mean "unset"; ValidateAndSetDefaults fills them with sensible
// defaults and rejects illegal combinations.
type Options struct {
	// Net model & matrix builder
	NetModel                     NetModel `toml:"net_model"`
	EpsilonFactor                float64  `toml:"epsilon_factor"`
	NetIgnoreThreshold           int      `toml:"net_ignore_threshold"`
	NetModelUpdateStopCriterion  float64  `toml:"net_model_update_stop_criterion"`
	B2BUpdateMaxIteration        int      `toml:"b2b_update_max_iteration"`

	// CG solver
	CGTolerance       float64 `toml:"cg_tolerance"`
	CGIteration       int     `toml:"cg_iteration"`
	CGIterationMaxNum int     `toml:"cg_iteration_max_num"`

	// Look-ahead legalizer
	NumberOfCellInBin int     `toml:"number_of_cell_in_bin"`
	FillingRate       float64 `toml:"filling_rate"`

	// Anchor pseudo-net manager
	AlphaStep float64 `toml:"alpha_step"`
	AlphaMax  float64 `toml:"alpha_max"`

	// Global placer orchestrator
	MaxIter                    int     `toml:"max_iter"`
	MinIter                    int     `toml:"min_iter"`
	SimplLALConvergeCriterion  float64 `toml:"simpl_lal_converge_criterion"`
	PolarConvergeCriterion     float64 `toml:"polar_converge_criterion"`
	ConvergenceWindow          int     `toml:"convergence_window"`

	// Column stripe builder
	StripeWidthFactor float64 `toml:"stripe_width_factor"`
	MinBlkWidth       float64 `toml:"min_blk_width"`

	// Cluster legalizer
	ClusteringStyle           ClusteringStyle `toml:"clustering_style"`
	ClusterLegalizeMaxIter    int             `toml:"cluster_legalize_max_iter"`

	// Well-tap insertion & local reorder
	LocalReorderRange   int `toml:"range"`
	LocalReorderPasses  int `toml:"local_reorder_passes"`

	// Ambient stack
	LogLevel      LogLevel `toml:"log_level"`
	RandomSeed    int64    `toml:"random_seed"`
	RandomInit    bool     `toml:"random_init"`
}

// Load decodes a TOML file into Options and validates it.
func Load(path string) (Options, error) {
	var opts Options
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Options{}, errors.Wrap(errors.ConfigError, err, "failed to decode config file %s", path)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// ValidateAndSetDefaults fills unset fields with their defaults and rejects
// illegal values with a ConfigError. It is idempotent: calling it twice on
// an already-defaulted Options is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.NetModel == "" {
		o.NetModel = NetModelB2B
	}
	switch o.NetModel {
	case NetModelB2B, NetModelStar, NetModelHPWL, NetModelStarHPWL:
	default:
		return errors.New(errors.ConfigError, "unknown net_model %q", o.NetModel)
	}

	if o.EpsilonFactor == 0 {
		o.EpsilonFactor = 1.5
	}
	if o.EpsilonFactor <= 0 {
		return errors.New(errors.ConfigError, "epsilon_factor must be positive, got %v", o.EpsilonFactor)
	}

	if o.NetIgnoreThreshold == 0 {
		o.NetIgnoreThreshold = 100
	}
	if o.NetModelUpdateStopCriterion == 0 {
		o.NetModelUpdateStopCriterion = 0.01
	}
	if o.B2BUpdateMaxIteration == 0 {
		o.B2BUpdateMaxIteration = 50
	}

	if o.CGTolerance == 0 {
		o.CGTolerance = 1e-35
	}
	if o.CGIteration == 0 {
		o.CGIteration = 10
	}
	if o.CGIterationMaxNum == 0 {
		o.CGIterationMaxNum = 1000
	}

	if o.NumberOfCellInBin == 0 {
		o.NumberOfCellInBin = 30
	}
	if o.FillingRate == 0 {
		o.FillingRate = 0.9
	}
	if o.FillingRate <= 0 || o.FillingRate > 1 {
		return errors.New(errors.ConfigError, "filling_rate must be in (0,1], got %v", o.FillingRate)
	}

	if o.AlphaStep == 0 {
		o.AlphaStep = 0.005
	}
	if o.AlphaMax == 0 {
		o.AlphaMax = 1.0
	}

	if o.MaxIter == 0 {
		o.MaxIter = 100
	}
	if o.MinIter == 0 {
		o.MinIter = 30
	}
	if o.SimplLALConvergeCriterion == 0 {
		o.SimplLALConvergeCriterion = 0.005
	}
	if o.PolarConvergeCriterion == 0 {
		o.PolarConvergeCriterion = 0.08
	}
	if o.ConvergenceWindow == 0 {
		o.ConvergenceWindow = 5
	}

	if o.StripeWidthFactor == 0 {
		o.StripeWidthFactor = 2.0
	}
	if o.MinBlkWidth == 0 {
		o.MinBlkWidth = 1.0
	}

	if o.ClusteringStyle == "" {
		o.ClusteringStyle = ClusteringCompact
	}
	switch o.ClusteringStyle {
	case ClusteringCompact, ClusteringLoose:
	default:
		return errors.New(errors.ConfigError, "unknown clustering_style %q", o.ClusteringStyle)
	}
	if o.ClusterLegalizeMaxIter == 0 {
		o.ClusterLegalizeMaxIter = 10
	}

	if o.LocalReorderRange == 0 {
		o.LocalReorderRange = 3
	}
	if o.LocalReorderPasses == 0 {
		o.LocalReorderPasses = 6
	}

	if o.LogLevel == "" {
		o.LogLevel = LogLevelInfo
	}
	switch o.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return errors.New(errors.ConfigError, "unknown log_level %q", o.LogLevel)
	}

	return nil
}
