package game

// Bounds applied to loaded tuning values. Out-of-range rows are clamped.
const (
	maxChasers         = 64      // chasers per pursuit, and the largest spawn entry count
	maxPatrols         = 32      // free-roaming patrols
	maxSpawnChance     = 1 << 20 // weight of one spawn entry
	maxTimerSeconds    = 3600.0  // longest delay, cooldown or lifetime
	minStrategySeconds = 1.0     // shortest watch of a started strategy
	maxCostRatio       = 1e9
	maxPassiveGain     = 10.0 // escalation per second
)
