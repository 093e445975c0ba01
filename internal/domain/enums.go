package domain

type MissionCategory string

const (
	CategorySoilHealth      MissionCategory = "soil_health"
	CategoryWaterManagement MissionCategory = "water_management"
	CategoryPestControl     MissionCategory = "pest_control"
	CategoryCropRotation    MissionCategory = "crop_rotation"
	CategoryOrganicFarming  MissionCategory = "organic_farming"
	CategoryPostHarvest     MissionCategory = "post_harvest"
	CategoryMarketing       MissionCategory = "marketing"
)

// ValidCategories is the canonical set of accepted mission category strings.
var ValidCategories = map[string]bool{
	"soil_health": true, "water_management": true, "pest_control": true,
	"crop_rotation": true, "organic_farming": true, "post_harvest": true,
	"marketing": true,
}

// CategoryNames maps categories to display names.
var CategoryNames = map[MissionCategory]string{
	CategorySoilHealth:      "Soil Health",
	CategoryWaterManagement: "Water Management",
	CategoryPestControl:     "Pest Control",
	CategoryCropRotation:    "Crop Rotation",
	CategoryOrganicFarming:  "Organic Farming",
	CategoryPostHarvest:     "Post-Harvest",
	CategoryMarketing:       "Marketing",
}

type CardType string

const (
	CardText       CardType = "text"
	CardImage      CardType = "image"
	CardVideo      CardType = "video"
	CardQuiz       CardType = "quiz"
	CardChecklist  CardType = "checklist"
	CardPhotoProof CardType = "photo_proof"
)

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

type LeaderboardScope string

const (
	ScopeAll      LeaderboardScope = "all"
	ScopeVillage  LeaderboardScope = "village"
	ScopeDistrict LeaderboardScope = "district"
)

// CropOptions lists the crops offered during onboarding.
var CropOptions = []string{
	"Rice", "Wheat", "Corn", "Soybean",
	"Cotton", "Sugarcane", "Groundnut",
	"Pigeon Pea", "Chickpea", "Mustard",
	"Barley", "Red Gram", "Sesame", "Chili",
}

// LanguageOptions lists the supported interface languages as value/label pairs.
var LanguageOptions = [][2]string{
	{"english", "English"},
	{"hindi", "Hindi"},
	{"marathi", "Marathi"},
	{"gujarati", "Gujarati"},
	{"punjabi", "Punjabi"},
	{"bengali", "Bengali"},
	{"tamil", "Tamil"},
	{"telugu", "Telugu"},
}

// StateOptions lists the states offered during onboarding.
var StateOptions = []string{
	"Andhra Pradesh", "Assam", "Bihar", "Gujarat", "Haryana",
	"Karnataka", "Kerala", "Madhya Pradesh", "Maharashtra",
	"Punjab", "Rajasthan", "Tamil Nadu", "Telangana",
	"Uttar Pradesh", "West Bengal", "Other",
}
