package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultCompanyName = "SimpleYM"

// Yard locations served when the locations collection is empty or unreachable.
var fallbackLocations = []string{
	"FRZ",
	"CLR",
	"SEAS",
	"DRY FRONT",
	"DRY BACK",
	"WAWA",
	"YARD",
	"HRTHSDE",
}

var localZone *time.Location

func init() {
	// Load env from .env
	godotenv.Load()

	// All "local" timestamps in the documents are rendered in EST.
	var err error
	localZone, err = time.LoadLocation("America/New_York")
	if err != nil {
		localZone = time.FixedZone("EST", -5*60*60)
	}
}

func CompanyName() string {
	if name := os.Getenv("COMPANY_NAME"); name != "" {
		return name
	}
	return defaultCompanyName
}

// LocalZone is the fixed zone used for the *_EST timestamp fields.
func LocalZone() *time.Location {
	return localZone
}

func FallbackLocations() []string {
	out := make([]string, len(fallbackLocations))
	copy(out, fallbackLocations)
	return out
}
