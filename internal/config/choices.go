package config

// Choice is one option of a review-form select, value plus display label.
type Choice struct {
	Value string
	Label string
}

// ClassificationChoices and CategoryChoices are the fixed enumerations of the
// review contract. The empty value renders as "-- None --" and is stored as
// an empty string.
var ClassificationChoices = []Choice{
	{"", "-- None --"},
	{"Potential Customer", "Potential Customer"},
	{"Unnecessary Call", "Unnecessary Call"},
}

var CategoryChoices = []Choice{
	{"", "-- None --"},
	{"Guaranteed Product", "Guaranteed Product"},
	{"Irrelevant Sector", "Irrelevant Sector"},
	{"Installation", "Installation"},
	{"Service Fee Rejected", "Service Fee Rejected"},
	{"Customer Asked for Price", "Customer Asked for Price"},
	{"Repeat Customer Call", "Repeat Customer Call"},
}
