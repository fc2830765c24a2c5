package modelstesting

import (
	"math/rand"
	"strconv"

	"github.com/MichalMitros/printful-source/internal/platform/models"
	"github.com/go-faker/faker/v4"
)

// FakeProduct returns sync product models.Record with fake data and random number of fake variants.
func FakeProduct(ops ...func(r models.Record)) models.Record {
	product := models.Record{
		"id":            float64(rand.Intn(100000)),
		"external_id":   faker.UUIDDigit(),
		"name":          faker.Word(),
		"thumbnail_url": faker.URL(),
		"variants":      fakeVariants(),
	}

	for _, op := range ops {
		op(product)
	}

	return product
}

// FakeVariant returns sync variant models.Record with fake data.
func FakeVariant(ops ...func(r models.Record)) models.Record {
	variant := models.Record{
		"id":           float64(rand.Intn(100000)),
		"name":         faker.Word(),
		"retail_price": strconv.FormatFloat(rand.Float64()*100, 'f', 2, 64),
		"files":        []any{FakeFile()},
	}

	for _, op := range ops {
		op(variant)
	}

	return variant
}

// FakeFile returns variant file models.Record with fake data.
func FakeFile(ops ...func(r models.Record)) models.Record {
	file := models.Record{
		"id":            float64(rand.Intn(100000)),
		"thumbnail_url": faker.URL(),
		"preview_url":   faker.URL(),
	}

	for _, op := range ops {
		op(file)
	}

	return file
}

// FakeCountry returns country models.Record with fake data.
func FakeCountry(ops ...func(r models.Record)) models.Record {
	country := models.Record{
		"code": faker.Currency(),
		"name": faker.Word(),
	}

	for _, op := range ops {
		op(country)
	}

	return country
}

func fakeVariants() []any {
	variantsLen := rand.Intn(4) + 1
	variants := make([]any, 0, variantsLen)
	for i := 0; i < variantsLen; i++ {
		variants = append(variants, FakeVariant())
	}

	return variants
}
