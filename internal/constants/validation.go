package constants

// Gender range accepted by the directory (0 female, 1 male, 2 unknown)
const (
	MinGender = 0
	MaxGender = 2
)

// Date layout used for birthday fields in requests and responses
const (
	DateLayout = "2006-01-02"
)
