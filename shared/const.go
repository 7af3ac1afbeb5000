package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	RoleUser  = "user"
	RoleAdmin = "admin"

	FrequencyOnce  = "ONCE"
	FrequencyDaily = "DAILY"

	GoalTypeLogMeal     = "log_meal"
	GoalTypeStreak      = "streak"
	GoalTypeSpendPoints = "spend_points"

	ItemTypeConsumable = "consumable"
	ItemTypeEquipment  = "equipment"

	EffectKindStreakShield = "streak_shield"
	EffectKindDoublePoints = "double_points"
	EffectKindPointSiphon  = "point_siphon"
	EffectKindInstantBoost = "instant_boost"

	SourceTypeQuest    = "quest"
	SourceTypeItem     = "item"
	SourceTypePurchase = "purchase"
	SourceTypeAdmin    = "admin"

	MealKindBreakfast = "breakfast"
	MealKindLunch     = "lunch"
	MealKindDinner    = "dinner"
	MealKindSnack     = "snack"
)
