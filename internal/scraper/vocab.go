package scraper

// sourceToken is the marker a submitted URL must contain before the fetcher
// is pointed at it. Cheap guard against scraping arbitrary targets.
const sourceToken = "airbnb"

// maxImages caps the image list after deduplication.
const maxImages = 15

// amenityVocabulary is the fixed set of amenity labels the extractor may
// emit. Detection is a case-insensitive substring scan over the raw page,
// so the result is always a subset of this list and never free text.
var amenityVocabulary = []string{
	"Wi-Fi", "Kitchen", "Parking", "Pool", "Air conditioning",
	"TV", "Washer", "Workspace", "Hot water", "Coffee maker",
	"Balcony", "Beach access", "Garden", "Gym", "Security",
}
