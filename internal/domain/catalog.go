package domain

// ExerciseCatalog is the reference exercise library seeded on startup.
// Seeding is keyed by Name and ignores rows that already exist.
var ExerciseCatalog = []Exercise{
	{Name: "Squats", Category: "strength", Equipment: "barbell", Description: "Lower hips with a barbell, then stand.", GoalTag: "Muscle Gains", MuscleGroup: "legs", VideoURL: "https://www.youtube.com/watch?v=Dy28eq2PjcM"},
	{Name: "Leg Press", Category: "strength", Equipment: "gym", Description: "Push weight away with legs on a machine.", GoalTag: "Muscle Gains", MuscleGroup: "legs", VideoURL: "https://www.youtube.com/watch?v=IZxyjW7LWks"},
	{Name: "Lunges", Category: "strength", Equipment: "dumbbells", Description: "Step forward and lower one knee.", GoalTag: "Muscle Gains", MuscleGroup: "legs", VideoURL: "https://www.youtube.com/watch?v=QOVaHwm-Q6U"},
	{Name: "Step-Ups", Category: "strength", Equipment: "bench", Description: "Step onto a bench with weight.", GoalTag: "Muscle Gains", MuscleGroup: "legs", VideoURL: "https://www.youtube.com/watch?v=zvZHgjnl0u8"},
	{Name: "Leg Extensions", Category: "strength", Equipment: "gym", Description: "Extend legs against resistance.", GoalTag: "Muscle Gains", MuscleGroup: "legs", VideoURL: "https://www.youtube.com/watch?v=YyvSfVjQeL0"},
	{Name: "Calf Raises", Category: "strength", Equipment: "dumbbells", Description: "Raise heels off ground.", GoalTag: "Muscle Gains", MuscleGroup: "legs", VideoURL: "https://www.youtube.com/watch?v=3YFixsW1R8g"},
	{Name: "Hip Thrusts", Category: "strength", Equipment: "barbell", Description: "Thrust hips upward with weight on lap.", GoalTag: "Muscle Gains", MuscleGroup: "glutes", VideoURL: "https://www.youtube.com/watch?v=LNvEkoxk-w8"},
	{Name: "Glute Bridges", Category: "strength", Equipment: "bodyweight", Description: "Lift hips from ground.", GoalTag: "Muscle Gains", MuscleGroup: "glutes", VideoURL: "https://www.youtube.com/watch?v=8bbE64NuDTU"},
	{Name: "Romanian Deadlifts", Category: "strength", Equipment: "barbell", Description: "Hinge at hips with weight.", GoalTag: "Muscle Gains", MuscleGroup: "glutes", VideoURL: "https://www.youtube.com/watch?v=JCXUYuzwNrM"},
	{Name: "Bulgarian Split Squats", Category: "strength", Equipment: "dumbbells", Description: "Lunge with back foot elevated.", GoalTag: "Muscle Gains", MuscleGroup: "glutes", VideoURL: "https://www.youtube.com/watch?v=2C-uNgXrS1k"},
	{Name: "Donkey Kicks", Category: "strength", Equipment: "bodyweight", Description: "Kick leg back from all fours.", GoalTag: "Muscle Gains", MuscleGroup: "glutes", VideoURL: "https://www.youtube.com/watch?v=SJ1Xuz9D41Q"},
	{Name: "Cable Kickbacks", Category: "strength", Equipment: "gym", Description: "Kick leg back with cable resistance.", GoalTag: "Muscle Gains", MuscleGroup: "glutes", VideoURL: "https://www.youtube.com/watch?v=5s8l_NtWoA0"},
	{Name: "Plank", Category: "strength", Equipment: "bodyweight", Description: "Hold push-up position with elbows bent.", GoalTag: "Muscle Gains", MuscleGroup: "core", VideoURL: "https://www.youtube.com/watch?v=pSHjTRCQxIw"},
	{Name: "Russian Twists", Category: "strength", Equipment: "dumbbells", Description: "Twist torso with weight.", GoalTag: "Muscle Gains", MuscleGroup: "core", VideoURL: "https://www.youtube.com/watch?v=wkD8rjkodUI"},
	{Name: "Hanging Leg Raises", Category: "strength", Equipment: "gym", Description: "Raise legs while hanging.", GoalTag: "Muscle Gains", MuscleGroup: "core", VideoURL: "https://www.youtube.com/watch?v=Pr1-mMjR6kk"},
	{Name: "Bicycle Crunches", Category: "strength", Equipment: "bodyweight", Description: "Alternate elbow to knee.", GoalTag: "Muscle Gains", MuscleGroup: "core", VideoURL: "https://www.youtube.com/watch?v=9FGilxCbdz8"},
	{Name: "Dead Bug", Category: "strength", Equipment: "bodyweight", Description: "Extend opposite arm and leg.", GoalTag: "Muscle Gains", MuscleGroup: "core", VideoURL: "https://www.youtube.com/watch?v=8v0pLPn_6lQ"},
	{Name: "Cable Woodchoppers", Category: "strength", Equipment: "gym", Description: "Rotate torso with cable.", GoalTag: "Muscle Gains", MuscleGroup: "core", VideoURL: "https://www.youtube.com/watch?v=5L6eNk9H8sY"},
	{Name: "Bench Press", Category: "strength", Equipment: "barbell", Description: "Push barbell up from chest on bench.", GoalTag: "Muscle Gains", MuscleGroup: "chest", VideoURL: "https://www.youtube.com/watch?v=vcBig73ojpE"},
	{Name: "Incline Bench Press", Category: "strength", Equipment: "barbell", Description: "Press barbell on an incline.", GoalTag: "Muscle Gains", MuscleGroup: "chest", VideoURL: "https://www.youtube.com/watch?v=SrqOu55lrYU"},
	{Name: "Dumbbell Flys", Category: "strength", Equipment: "dumbbells", Description: "Open arms with weights.", GoalTag: "Muscle Gains", MuscleGroup: "chest", VideoURL: "https://www.youtube.com/watch?v=eozdVDA78K0"},
	{Name: "Chest Dips", Category: "strength", Equipment: "gym", Description: "Lower body between parallel bars.", GoalTag: "Muscle Gains", MuscleGroup: "chest", VideoURL: "https://www.youtube.com/watch?v=2z8JmcrW-As"},
	{Name: "Push-Ups", Category: "strength", Equipment: "bodyweight", Description: "Push body up from ground.", GoalTag: "Muscle Gains", MuscleGroup: "chest", VideoURL: "https://www.youtube.com/watch?v=IODxDxX7oi4"},
	{Name: "Cable Crossovers", Category: "strength", Equipment: "gym", Description: "Pull cables across chest.", GoalTag: "Muscle Gains", MuscleGroup: "chest", VideoURL: "https://www.youtube.com/watch?v=taI4XAnRqs4"},
	{Name: "Overhead Press", Category: "strength", Equipment: "barbell", Description: "Press barbell overhead.", GoalTag: "Muscle Gains", MuscleGroup: "shoulders", VideoURL: "https://www.youtube.com/watch?v=F3QY5vMz_6I"},
	{Name: "Lateral Raises", Category: "strength", Equipment: "dumbbells", Description: "Raise arms to sides.", GoalTag: "Muscle Gains", MuscleGroup: "shoulders", VideoURL: "https://www.youtube.com/watch?v=3VcKaXpzqRo"},
	{Name: "Front Raises", Category: "strength", Equipment: "dumbbells", Description: "Raise arms forward.", GoalTag: "Muscle Gains", MuscleGroup: "shoulders", VideoURL: "https://www.youtube.com/watch?v=-t7fuZ0KhDA"},
	{Name: "Arnold Press", Category: "strength", Equipment: "dumbbells", Description: "Rotate and press dumbbells overhead.", GoalTag: "Muscle Gains", MuscleGroup: "shoulders", VideoURL: "https://www.youtube.com/watch?v=6Z15_WdXmVw"},
	{Name: "Face Pulls", Category: "strength", Equipment: "gym", Description: "Pull cable towards face.", GoalTag: "Muscle Gains", MuscleGroup: "shoulders", VideoURL: "https://www.youtube.com/watch?v=H8HeV1mIQz0"},
	{Name: "Shrugs", Category: "strength", Equipment: "dumbbells", Description: "Lift shoulders with weight.", GoalTag: "Muscle Gains", MuscleGroup: "shoulders", VideoURL: "https://www.youtube.com/watch?v=cJRVVxmytaM"},
	{Name: "Deadlift", Category: "strength", Equipment: "barbell", Description: "Lift barbell from ground to hips.", GoalTag: "Muscle Gains", MuscleGroup: "back", VideoURL: "https://www.youtube.com/watch?v=rT7DgCr-3_I"},
	{Name: "Pull-Ups", Category: "strength", Equipment: "gym", Description: "Pull body up on a bar.", GoalTag: "Muscle Gains", MuscleGroup: "back", VideoURL: "https://www.youtube.com/watch?v=eGo4IYlbE5g"},
	{Name: "Bent-Over Rows", Category: "strength", Equipment: "barbell", Description: "Row barbell to torso.", GoalTag: "Muscle Gains", MuscleGroup: "back", VideoURL: "https://www.youtube.com/watch?v=pgGixv0R49k"},
	{Name: "Lat Pulldowns", Category: "strength", Equipment: "gym", Description: "Pull cable down to chest.", GoalTag: "Muscle Gains", MuscleGroup: "back", VideoURL: "https://www.youtube.com/watch?v=pYcpY20QaE8"},
	{Name: "Single-Arm Dumbbell Rows", Category: "strength", Equipment: "dumbbells", Description: "Row one dumbbell to side.", GoalTag: "Muscle Gains", MuscleGroup: "back", VideoURL: "https://www.youtube.com/watch?v=pYcpY20QaE8"},
	{Name: "Reverse Flys", Category: "strength", Equipment: "dumbbells", Description: "Raise arms backward.", GoalTag: "Muscle Gains", MuscleGroup: "back", VideoURL: "https://www.youtube.com/watch?v=2-LAMcpzODU"},
	{Name: "Barbell Curls", Category: "strength", Equipment: "barbell", Description: "Curl barbell up to shoulders.", GoalTag: "Muscle Gains", MuscleGroup: "biceps", VideoURL: "https://www.youtube.com/watch?v=kwG2ipFRgfo"},
	{Name: "Dumbbell Curls", Category: "strength", Equipment: "dumbbells", Description: "Curl dumbbells up to shoulders.", GoalTag: "Muscle Gains", MuscleGroup: "biceps", VideoURL: "https://www.youtube.com/watch?v=sAq_ocpRh_I"},
	{Name: "Hammer Curls", Category: "strength", Equipment: "dumbbells", Description: "Curl dumbbells with neutral grip.", GoalTag: "Muscle Gains", MuscleGroup: "biceps", VideoURL: "https://www.youtube.com/watch?v=TwD-YGVPceI"},
	{Name: "Preacher Curls", Category: "strength", Equipment: "gym", Description: "Curl weight on a preacher bench.", GoalTag: "Muscle Gains", MuscleGroup: "biceps", VideoURL: "https://www.youtube.com/watch?v=fIWP-FRFNU0"},
	{Name: "Concentration Curls", Category: "strength", Equipment: "dumbbells", Description: "Curl dumbbell while seated.", GoalTag: "Muscle Gains", MuscleGroup: "biceps", VideoURL: "https://www.youtube.com/watch?v=Jvj2wBcqMZg"},
	{Name: "Chin-Ups", Category: "strength", Equipment: "gym", Description: "Pull body up with palms facing you.", GoalTag: "Muscle Gains", MuscleGroup: "biceps", VideoURL: "https://www.youtube.com/watch?v=mRznU6wJzdA"},
	{Name: "Tricep Dips", Category: "strength", Equipment: "gym", Description: "Lower body on parallel bars.", GoalTag: "Muscle Gains", MuscleGroup: "triceps", VideoURL: "https://www.youtube.com/watch?v=2z8JmcrW-As"},
	{Name: "Overhead Tricep Extension", Category: "strength", Equipment: "dumbbells", Description: "Extend weight overhead.", GoalTag: "Muscle Gains", MuscleGroup: "triceps", VideoURL: "https://www.youtube.com/watch?v=-Vyt2QdsR7E"},
	{Name: "Close-Grip Bench Press", Category: "strength", Equipment: "barbell", Description: "Press barbell with narrow grip.", GoalTag: "Muscle Gains", MuscleGroup: "triceps", VideoURL: "https://www.youtube.com/watch?v=8wEJ1qDqdhI"},
	{Name: "Tricep Pushdowns", Category: "strength", Equipment: "gym", Description: "Push cable down with straight bar.", GoalTag: "Muscle Gains", MuscleGroup: "triceps", VideoURL: "https://www.youtube.com/watch?v=2-LAMcpzODU"},
	{Name: "Skull Crushers", Category: "strength", Equipment: "barbell", Description: "Lower barbell to forehead.", GoalTag: "Muscle Gains", MuscleGroup: "triceps", VideoURL: "https://www.youtube.com/watch?v=d_KZxkY_0LE"},
	{Name: "Diamond Push-Ups", Category: "strength", Equipment: "bodyweight", Description: "Push up with hands in diamond shape.", GoalTag: "Muscle Gains", MuscleGroup: "triceps", VideoURL: "https://www.youtube.com/watch?v=ZKHQG-uFU2Q"},
	{Name: "Long Run", Category: "endurance", Equipment: "none", Description: "Run at a steady pace.", GoalTag: "Marathon", MuscleGroup: "legs", VideoURL: "https://www.youtube.com/watch?v=MWdGxmW6NHw"},
	{Name: "Tempo Run", Category: "cardio", Equipment: "none", Description: "Run at a challenging pace.", GoalTag: "Half Marathon", MuscleGroup: "legs", VideoURL: "https://www.youtube.com/watch?v=Au-8JTYvf0M"},
	{Name: "Intervals", Category: "cardio", Equipment: "treadmill", Description: "Alternate fast running with recovery.", GoalTag: "10K", MuscleGroup: "legs", VideoURL: "https://www.youtube.com/watch?v=7eQ35TQX_n8"},
	{Name: "Easy Run", Category: "endurance", Equipment: "none", Description: "Run at a comfortable pace.", GoalTag: "5K", MuscleGroup: "legs", VideoURL: "https://www.youtube.com/watch?v=9L2whRXbg-A"},
	{Name: "Rowing", Category: "endurance", Equipment: "rower", Description: "Row on a machine.", GoalTag: "Hyrox", MuscleGroup: "full body", VideoURL: "https://www.youtube.com/watch?v=3DsF9BaYbJA"},
	{Name: "Wall Balls", Category: "strength", Equipment: "wallball", Description: "Squat and throw a ball.", GoalTag: "Hyrox", MuscleGroup: "legs", VideoURL: "https://www.youtube.com/watch?v=FYwr_Wpfrjw"},
	{Name: "Hill Sprints", Category: "cardio", Equipment: "none", Description: "Short, intense uphill sprints.", GoalTag: "Stay Lean", MuscleGroup: "legs", VideoURL: "https://www.youtube.com/watch?v=6QwKDJRrKHA"},
	{Name: "Circuit Training", Category: "strength", Equipment: "dumbbells", Description: "Cycle through exercises.", GoalTag: "Stay Lean", MuscleGroup: "full body", VideoURL: "https://www.youtube.com/watch?v=YXGQiW8lQZM"},
	{Name: "Jump Rope", Category: "cardio", Equipment: "none", Description: "Jump continuously over a rope.", GoalTag: "Lose Weight", MuscleGroup: "full body", VideoURL: "https://www.youtube.com/watch?v=0KzX8lQ24"},
	{Name: "Burpees", Category: "strength", Equipment: "bodyweight", Description: "Jump squat followed by push-up.", GoalTag: "Lose Weight", MuscleGroup: "full body", VideoURL: "https://www.youtube.com/watch?v=TU8QYVW0gDU"},
}

// ExerciseSubstitutes maps an exercise to alternatives, in preference order.
var ExerciseSubstitutes = map[string][]string{
	"Squat":          {"Lunges", "Leg Press"},
	"Bench":          {"Push-ups", "Dumbbell Press"},
	"Deadlift":       {"Romanian Deadlift", "Back Extensions"},
	"Squats":         {"Lunges", "Leg Press"},
	"Bench Press":    {"Push-ups", "Dumbbell Press"},
	"Overhead Press": {"Dumbbell Shoulder Press", "Pike Push-ups"},
	"Bent-Over Rows": {"Seated Rows", "Pull-ups"},
}

// HyroxStation is one race station with its standard workload.
type HyroxStation struct {
	Name      string
	Equipment string
	Amount    int
	Unit      string
}

// HyroxStations lists the stations in race order.
var HyroxStations = []HyroxStation{
	{Name: "SkiErg", Equipment: "skierg", Amount: 1000, Unit: "m"},
	{Name: "Sled Push", Equipment: "sled", Amount: 50, Unit: "m"},
	{Name: "Sled Pull", Equipment: "sled", Amount: 50, Unit: "m"},
	{Name: "Burpee Broad Jumps", Equipment: "bodyweight", Amount: 80, Unit: "m"},
	{Name: "Rowing", Equipment: "rower", Amount: 1000, Unit: "m"},
	{Name: "Farmer's Carry", Equipment: "kettlebell", Amount: 100, Unit: "m"},
	{Name: "Sandbag Lunges", Equipment: "sandbag", Amount: 100, Unit: "m"},
	{Name: "Wall Balls", Equipment: "wallball", Amount: 100, Unit: "reps"},
}

// HyroxFallbacks are bodyweight or running stand-ins for stations whose
// apparatus is missing.
var HyroxFallbacks = map[string]string{
	"skierg":     "Burpees",
	"sled":       "Walking Lunges",
	"rower":      "Running",
	"kettlebell": "Suitcase Carry",
	"sandbag":    "Bodyweight Lunges",
	"wallball":   "Air Squats",
}
