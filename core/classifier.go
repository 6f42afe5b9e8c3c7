package core

import (
	"errors"
	"strconv"
	"strings"

	"github.com/stellarsignal/orbitwatch/model"
)

// ErrMalformedRecord marks a three-line record whose element lines could
// not be parsed at the fixed offsets. Malformed records are skipped; they
// never fail a whole batch.
var ErrMalformedRecord = errors.New("malformed element record")

// DefaultRules is the ordered classification table applied to the display
// name of each record. First match wins; names matching nothing classify
// as Unknown. Debris markers come first so that e.g. "COSMOS 2251 DEB"
// lands in Debris rather than the COSMOS satellite rule.
var DefaultRules = []model.ClassificationRule{
	{Pattern: " DEB", Category: model.CategoryDebris},
	{Pattern: "DEBRIS", Category: model.CategoryDebris},
	{Pattern: "COOLANT", Category: model.CategoryDebris},
	{Pattern: "WESTFORD", Category: model.CategoryDebris},
	{Pattern: "FENGYUN 1C", Category: model.CategoryDebris, Country: "China"},
	{Pattern: " R/B", Category: model.CategoryRocketBody},
	{Pattern: "ROCKET", Category: model.CategoryRocketBody},
	{Pattern: " AKM", Category: model.CategoryRocketBody},
	{Pattern: " PKM", Category: model.CategoryRocketBody},
	{Pattern: "STARLINK", Category: model.CategorySatellite, Country: "US"},
	{Pattern: "ONEWEB", Category: model.CategorySatellite, Country: "UK"},
	{Pattern: "IRIDIUM", Category: model.CategorySatellite, Country: "US"},
	{Pattern: "GLOBALSTAR", Category: model.CategorySatellite, Country: "US"},
	{Pattern: "NAVSTAR", Category: model.CategorySatellite, Country: "US"},
	{Pattern: "GPS", Category: model.CategorySatellite, Country: "US"},
	{Pattern: "GLONASS", Category: model.CategorySatellite, Country: "Russia"},
	{Pattern: "COSMOS", Category: model.CategorySatellite, Country: "Russia"},
	{Pattern: "BEIDOU", Category: model.CategorySatellite, Country: "China"},
	{Pattern: "YAOGAN", Category: model.CategorySatellite, Country: "China"},
	{Pattern: "GALILEO", Category: model.CategorySatellite, Country: "EU"},
	{Pattern: "NOAA", Category: model.CategorySatellite, Country: "US"},
	{Pattern: "GOES", Category: model.CategorySatellite, Country: "US"},
	{Pattern: "METOP", Category: model.CategorySatellite, Country: "EU"},
	{Pattern: "METEOSAT", Category: model.CategorySatellite, Country: "EU"},
	{Pattern: "HIMAWARI", Category: model.CategorySatellite, Country: "Japan"},
	{Pattern: "LANDSAT", Category: model.CategorySatellite, Country: "US"},
	{Pattern: "SENTINEL", Category: model.CategorySatellite, Country: "EU"},
	{Pattern: "WORLDVIEW", Category: model.CategorySatellite, Country: "US"},
	{Pattern: "TERRA", Category: model.CategorySatellite, Country: "US"},
	{Pattern: "AQUA", Category: model.CategorySatellite, Country: "US"},
	{Pattern: "SPOT", Category: model.CategorySatellite, Country: "France"},
	{Pattern: "ZARYA", Category: model.CategorySatellite},
	{Pattern: "ISS", Category: model.CategorySatellite},
	{Pattern: "TIANGONG", Category: model.CategorySatellite, Country: "China"},
	{Pattern: "CSS", Category: model.CategorySatellite, Country: "China"},
}

// Classifier turns raw three-line records into TrackedObjects using an
// ordered rule table. The zero value is not usable; construct with
// NewClassifier.
type Classifier struct {
	rules []model.ClassificationRule
}

// NewClassifier builds a classifier over the given rule table, defaulting
// to DefaultRules when none are supplied.
func NewClassifier(rules []model.ClassificationRule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// ParseRecords splits a textual batch into three-line records and
// classifies each one. Malformed records are dropped; the skipped count is
// returned so callers can log it. Output order follows input order, and
// the same text always yields the same objects.
func (c *Classifier) ParseRecords(text string) (objects []*model.TrackedObject, skipped int) {
	lines := splitRecordLines(text)
	i := 0
	for ; i+2 < len(lines); i += 3 {
		obj, err := c.parseRecord(lines[i], lines[i+1], lines[i+2])
		if err != nil {
			skipped++
			continue
		}
		objects = append(objects, obj)
	}
	// A trailing one- or two-line remainder is a truncated record.
	if i < len(lines) {
		skipped++
	}
	return objects, skipped
}

// parseRecord converts one (name, line1, line2) triple. Catalog ID and
// epoch year live at fixed offsets of line 1; out-of-range offsets or
// non-numeric fields make the record malformed.
func (c *Classifier) parseRecord(name, line1, line2 string) (*model.TrackedObject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMalformedRecord
	}
	if len(line1) < 20 || line1[0] != '1' {
		return nil, ErrMalformedRecord
	}

	catalogID, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
	if err != nil {
		return nil, ErrMalformedRecord
	}
	epochYear, err := strconv.Atoi(strings.TrimSpace(line1[18:20]))
	if err != nil {
		return nil, ErrMalformedRecord
	}
	// Two-digit epoch years pivot at 57 (Sputnik), per element-set convention.
	if epochYear < 57 {
		epochYear += 2000
	} else {
		epochYear += 1900
	}

	category, country := c.classify(name)

	obj := &model.TrackedObject{
		Name:      name,
		CatalogID: catalogID,
		Category:  category,
		Country:   country,
		EpochYear: epochYear,
	}
	if ValidElements(line1, line2) {
		obj.Elements = &model.OrbitalElements{Line1: line1, Line2: line2}
	}
	return obj, nil
}

// classify scans the rule table against the upper-cased display name.
func (c *Classifier) classify(name string) (model.Category, string) {
	upper := strings.ToUpper(name)
	for _, rule := range c.rules {
		if strings.Contains(upper, rule.Pattern) {
			return rule.Category, rule.Country
		}
	}
	return model.CategoryUnknown, ""
}

// splitRecordLines normalizes line endings and drops blank lines so that
// records separated by extra whitespace still group correctly in threes.
func splitRecordLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
