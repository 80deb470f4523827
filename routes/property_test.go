package routes

import (
	"strings"
	"testing"

	"github.com/foremostprojects1/Locatex-final-backend/models"
	"github.com/foremostprojects1/Locatex-final-backend/utils"
)

func TestApplyLandRecordSetsForLand(t *testing.T) {
	var property models.Property
	record := utils.FlexibleStringMap{"parcelNumber": "TF-1023", "registry": "Nouakchott"}

	applyLandRecord(&property, "land", record)

	if property.LandRecord == nil {
		t.Fatal("land listing should carry its record")
	}
	if !strings.Contains(string(property.LandRecord), "TF-1023") {
		t.Fatalf("record not persisted: %s", property.LandRecord)
	}
}

func TestApplyLandRecordClearedWhenTypeChanges(t *testing.T) {
	property := models.Property{PropertyType: "land"}
	applyLandRecord(&property, "land", utils.FlexibleStringMap{"parcelNumber": "TF-1023"})
	if property.LandRecord == nil {
		t.Fatal("setup: record not set")
	}

	// Relisting the parcel as a house must not keep the paperwork around.
	applyLandRecord(&property, "house", nil)
	if property.LandRecord != nil {
		t.Fatalf("stale land record survived type change: %s", property.LandRecord)
	}
}

func TestApplyLandRecordKeepsExistingWhenOmitted(t *testing.T) {
	property := models.Property{PropertyType: "land"}
	applyLandRecord(&property, "land", utils.FlexibleStringMap{"parcelNumber": "TF-1023"})

	applyLandRecord(&property, "land", nil)
	if property.LandRecord == nil {
		t.Fatal("omitting the record on an update should not wipe it")
	}
}
