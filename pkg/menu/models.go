package menu

import "github.com/IonImpulse/fivec-scheduler-server/pkg/course"

// SchoolMenu is every dining hall of one school
type SchoolMenu struct {
	School course.School `json:"school"`
	Cafes  []Cafe        `json:"cafes"`
}

// Cafe is a dining hall or cafe
type Cafe struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DayMenus    []DayMenu `json:"day_menus"`
	ToGoItems   []Meal    `json:"to_go_items"`
}

// DayMenu holds the meal periods served on one date (YYYY-MM-DD)
type DayMenu struct {
	Date  string `json:"date"`
	Menus []Menu `json:"menus"`
}

// Menu is a single meal period such as lunch
type Menu struct {
	Date        string    `json:"date"`
	Description string    `json:"description"`
	TimeSlot    string    `json:"time_slot"` // Breakfast, Brunch, Lunch, Dinner, LateNight
	Opens       string    `json:"time_opens"`
	Closes      string    `json:"time_closes"`
	Stations    []Station `json:"stations"`
	Notes       string    `json:"notes"`
}

// Station is a serving line within a cafe
type Station struct {
	Name  string `json:"name"`
	Meals []Meal `json:"meals"`
}

// Meal represents a single food item
type Meal struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Dietary     []string `json:"dietary"`
}
