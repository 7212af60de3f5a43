package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDeliveryMode(t *testing.T) {
	assert.Equal(t, ModeVaginal, ClassifyDeliveryMode("Voie basse naturelle"))
	assert.Equal(t, ModeVaginal, ClassifyDeliveryMode("accouchement NATUREL"))
	assert.Equal(t, ModeCesarean, ClassifyDeliveryMode("Césarienne programmée"))
	assert.Equal(t, ModeCesarean, ClassifyDeliveryMode("cesarienne d'urgence"))
	assert.Equal(t, ModeOther, ClassifyDeliveryMode("forceps"))
	assert.Equal(t, ModeOther, ClassifyDeliveryMode(""))
}

func TestClassifySex(t *testing.T) {
	assert.Equal(t, SexFemale, ClassifySex("Féminin"))
	assert.Equal(t, SexFemale, ClassifySex("feminin"))
	assert.Equal(t, SexFemale, ClassifySex("F"))
	assert.Equal(t, SexMale, ClassifySex("MASCULIN"))
	assert.Equal(t, SexMale, ClassifySex("m"))
	assert.Equal(t, SexUnknown, ClassifySex(""))
	assert.Equal(t, SexUnknown, ClassifySex("femme"))
}

func TestClassifyMethod(t *testing.T) {
	cases := map[string]Method{
		"Implant":                MethodImplant,
		"implant Jadelle":        MethodImplant,
		"Pilule":                 MethodPill,
		"contraceptif oral":      MethodPill,
		"Injectable (Depo)":      MethodInjectable,
		"DIU":                    MethodIUD,
		"stérilet":               MethodIUD,
		"Préservatif masculin":   MethodCondom,
		"Méthode Allaitement":    MethodOther,
		"":                       MethodOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, ClassifyMethod(in), in)
	}
}

func TestMethodCounts_AddAndCount(t *testing.T) {
	var c MethodCounts
	for _, m := range OrderedMethods {
		c.Add(m)
	}
	c.Add(MethodImplant)

	assert.Equal(t, 2, c.Count(MethodImplant))
	for _, m := range OrderedMethods[1:] {
		assert.Equal(t, 1, c.Count(m), m.Key())
	}
}

func TestParseReportType(t *testing.T) {
	rt, err := ParseReportType("delivery")
	assert.NoError(t, err)
	assert.Equal(t, ReportDelivery, rt)

	_, err = ParseReportType("vaccination")
	assert.Error(t, err)
}
