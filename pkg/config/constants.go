package config

type Weekday = string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

// Weekdays in calendar order, index 0 = Sunday. Matches time.Weekday numbering.
var Weekdays = []Weekday{
	Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday,
}

const (
	Pending   = "pending"
	Confirmed = "confirmed"
	Cancelled = "cancelled"
)

const (
	OverrideTypeBlocked = "blocked"
)
