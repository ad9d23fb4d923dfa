// Package scenario loads farm-year configuration files. YAML is the
// primary format; Hjson (JSON with comments and relaxed syntax) is
// accepted for hand-maintained scenario files.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	hjson "github.com/hjson/hjson-go/v4"
	yaml "gopkg.in/yaml.v2"

	"farmbudget/pkg/core/validate"
	"farmbudget/pkg/models"
)

// Load reads, parses, clamps and validates a scenario file. The format
// follows the file extension: .yaml/.yml, or .hjson/.json.
func Load(path string) (*models.FarmYear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	var fy models.FarmYear
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fy); err != nil {
			return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
		}
	case ".hjson", ".json":
		if err := hjson.Unmarshal(data, &fy); err != nil {
			return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported scenario format %q", ext)
	}

	applyDefaults(&fy)
	fy.ClampModelRunDate(time.Now().UTC())

	if errs := validate.FarmYear(&fy); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("scenario %s: %s", path, strings.Join(msgs, "; "))
	}
	return &fy, nil
}

func applyDefaults(fy *models.FarmYear) {
	if fy.PriceFactor == 0 {
		fy.PriceFactor = 1
	}
	if fy.YieldFactor == 0 {
		fy.YieldFactor = 1
	}
	if fy.EligiblePersonsForCap == 0 {
		fy.EligiblePersonsForCap = 1
	}
	if fy.ModelRunDate.IsZero() {
		fy.ModelRunDate = models.Date{Time: time.Now().UTC()}
	}
	for _, fc := range fy.FarmCrops() {
		if fc.ProtFactor == 0 {
			fc.ProtFactor = 1
		}
	}
}
