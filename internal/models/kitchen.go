package models

// Station names used by catalog ingredients and the kitchen floor.
const (
	StationOrder   = "ORDER"
	StationPrep    = "PREP"
	StationGrill   = "GRILL"
	StationTopping = "TOPPING"
	StationSides   = "SIDES"
	StationDrink   = "DRINK"
)

// CourseForStation returns the course assembled at a station. PREP and unknown
// stations build no course.
func CourseForStation(station string) (Course, bool) {
	switch station {
	case StationOrder, StationGrill, StationTopping:
		return CourseEntree, true
	case StationSides:
		return CourseSide, true
	case StationDrink:
		return CourseDrink, true
	}
	return 0, false
}
