package balance

// Balance table file names, resolved relative to the configured balance
// directory.
const (
	UpgradesFile = "upgrades.csv"
	LevelsFile   = "levels.csv"
	ProjectsFile = "projects.csv"
	StagesFile   = "stages.csv"
)

// Effects column micro-format tokens. An effects cell holds one or more
// `type:base` pairs separated by `;`, with an optional `:mult` marker:
//
//	exp_per_click:1;all_multiplier:0.1:mult
const (
	EffectSeparator      = ";"
	EffectFieldSeparator = ":"
	EffectMultiplierFlag = "mult"
)

// MultiplierTypeSuffix marks legacy effect types as multiplicative when the
// explicit mult flag is absent. The flag is canonical; the suffix keeps old
// table exports loading identically.
const MultiplierTypeSuffix = "multiplier"

// Error message constants
const (
	ErrMsgReadTableFailed = "failed to read balance table %s: %w"
	ErrMsgNoTablesLoaded  = "no balance tables could be loaded from %s"
	ErrMsgMissingHeader   = "table %s is missing required column %q"
)

// Log message constants
const (
	LogMsgTableMissing = "balance table missing, continuing degraded"
	LogMsgRowSkipped   = "balance row skipped"
	LogMsgDuplicateID  = "duplicate balance id, last row wins"
	LogMsgTablesLoaded = "balance tables loaded"
	LogMsgLookupMiss   = "balance lookup miss"
)
