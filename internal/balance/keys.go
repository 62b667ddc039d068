package balance

// Upgrade and project ids shipped in the standard balance tables
// This file is auto-generated from configs/balance/*.csv
// Do NOT edit manually - run: go run ./cmd/gen-balance-keys

const (
	// Skills
	UpgradeLearnCoding      = "learn_coding"
	UpgradeOnlineCourse     = "online_course"
	UpgradeGameDesignBasics = "game_design_basics"

	// Equipment
	UpgradeBetterLaptop   = "better_laptop"
	UpgradeDevTools       = "dev_tools"
	UpgradeErgonomicChair = "ergonomic_chair"

	// Team
	UpgradeHireIntern   = "hire_intern"
	UpgradeHireArtist   = "hire_artist"
	UpgradeHireMarketer = "hire_marketer"

	// Automation
	UpgradeCodeGenerator  = "code_generator"
	UpgradeBuildServer    = "build_server"
	UpgradeMarketingBot   = "marketing_bot"
	UpgradeAnalyticsSuite = "analytics_suite"

	// Projects
	ProjectTextAdventure = "text_adventure"
	ProjectPuzzleGame    = "puzzle_game"
	ProjectPlatformer    = "platformer"
	ProjectRpgDemo       = "rpg_demo"
	ProjectIndieHit      = "indie_hit"
	ProjectOnlineGame    = "online_game"
)
