package dataset

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
)

// Generator produces synthetic IoT privacy records. Two generators built
// with the same seed emit identical datasets.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a seeded generator.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Generate produces n records with the derived risk level already set.
func (g *Generator) Generate(n int) []Record {
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, g.record(i))
	}
	return records
}

func (g *Generator) record(i int) Record {
	f := g.faker

	r := Record{
		DeviceID:                fmt.Sprintf("device_%d", i),
		DeviceType:              f.RandomString(DeviceTypes),
		DataType:                f.RandomString(DataTypes),
		LocationType:            f.RandomString(LocationTypes),
		AccessFrequency:         f.IntRange(1, 99),
		UserConsent:             g.chance(0.7),
		NetworkSecurityLevel:    f.IntRange(1, 5),
		DataSensitivity:         f.IntRange(1, 5),
		EncryptionLevel:         f.IntRange(1, 3),
		RetentionPeriod:         f.IntRange(1, 364),
		DataVolume:              f.IntRange(1, 999), // MB
		AccessPattern:           f.RandomString(AccessPatterns),
		LastAuditDays:           f.IntRange(1, 89),
		DataAnonymization:       g.chance(0.6),
		DataPseudonymization:    g.chance(0.5),
		DataMinimization:        g.chance(0.7),
		PurposeLimitation:       g.chance(0.8),
		StorageDuration:         f.IntRange(1, 364),
		DataSharing:             g.weighted(SharingScopes, []float32{0.4, 0.4, 0.2}),
		ComplianceStatus:        g.weighted(ComplianceStates, []float32{0.6, 0.3, 0.1}),
		SecurityIncidents:       f.IntRange(0, 4),
		PrivacyImpactAssessment: g.chance(0.7),
		DataProtectionOfficer:   g.chance(0.8),
	}
	r.RiskLevel = RiskLevelFor(&r)
	return r
}

// chance returns true with probability p.
func (g *Generator) chance(p float64) bool {
	return g.faker.Float64Range(0, 1) < p
}

// weighted draws one of the values with the given weights.
func (g *Generator) weighted(values []string, weights []float32) string {
	options := make([]any, len(values))
	for i, v := range values {
		options[i] = v
	}
	picked, err := g.faker.Weighted(options, weights)
	if err != nil {
		return values[0]
	}
	return picked.(string)
}

// Split partitions records into train and test sets in order. ratio is the
// train fraction, e.g. 0.8 for an 80/20 split.
func Split(records []Record, ratio float64) (train, test []Record) {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	cut := int(ratio * float64(len(records)))
	return records[:cut], records[cut:]
}
