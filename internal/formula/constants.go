package formula

// DefaultRequirementGrowth is the geometric growth factor used to
// extrapolate level requirements past the end of the level table when the
// table is too short to derive one.
const DefaultRequirementGrowth = 1.5

// MaxLevelIterations bounds the level-up loop so a corrupt table with
// non-increasing requirements can never spin forever.
const MaxLevelIterations = 10000
