package entity

import "strings"

// DeliveryMode é o modo de accouchement reconhecido.
type DeliveryMode int

const (
	// ModeOther é o balde de fallback para textos não reconhecidos (inclui vazio).
	ModeOther DeliveryMode = iota
	ModeVaginal
	ModeCesarean
)

// ClassifyDeliveryMode reconhece o modo por substring, sem diferenciar maiúsculas.
func ClassifyDeliveryMode(raw string) DeliveryMode {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "césarienne"), strings.Contains(s, "cesarienne"):
		return ModeCesarean
	case strings.Contains(s, "voie basse"), strings.Contains(s, "naturel"):
		return ModeVaginal
	default:
		return ModeOther
	}
}

// Sex é o sexo registrado de uma pessoa.
type Sex int

const (
	// SexUnknown é o fallback para textos vazios ou não reconhecidos.
	SexUnknown Sex = iota
	SexFemale
	SexMale
)

// ClassifySex reconhece "féminin"/"masculin" por substring e as abreviações F/M.
func ClassifySex(raw string) Sex {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "féminin"), strings.Contains(s, "feminin"), s == "f":
		return SexFemale
	case strings.Contains(s, "masculin"), s == "m":
		return SexMale
	default:
		return SexUnknown
	}
}

// Method é um balde de método contraceptivo.
type Method int

const (
	MethodImplant Method = iota
	MethodPill
	MethodInjectable
	MethodIUD
	MethodCondom
	// MethodOther é o fallback ("autre").
	MethodOther
)

// OrderedMethods fixa a ordem dos baldes; o desempate do método mais
// popular segue esta ordem.
var OrderedMethods = []Method{
	MethodImplant, MethodPill, MethodInjectable, MethodIUD, MethodCondom, MethodOther,
}

var methodKeywords = map[Method][]string{
	MethodImplant:    {"implant"},
	MethodPill:       {"pilule", "contraceptif oral"},
	MethodInjectable: {"injectable", "injection", "depo"},
	MethodIUD:        {"diu", "stérilet", "sterilet"},
	MethodCondom:     {"préservatif", "preservatif", "condom"},
}

// Key é a chave usada em methodesCount.
func (m Method) Key() string {
	switch m {
	case MethodImplant:
		return "implant"
	case MethodPill:
		return "pilule"
	case MethodInjectable:
		return "injectable"
	case MethodIUD:
		return "diu"
	case MethodCondom:
		return "preservatif"
	default:
		return "autre"
	}
}

// Label é o nome exibido.
func (m Method) Label() string {
	switch m {
	case MethodImplant:
		return "Implant"
	case MethodPill:
		return "Pilule"
	case MethodInjectable:
		return "Injectable"
	case MethodIUD:
		return "DIU"
	case MethodCondom:
		return "Préservatif"
	default:
		return "Autre"
	}
}

// ClassifyMethod associa o texto livre a um balde, com fallback MethodOther.
func ClassifyMethod(raw string) Method {
	s := strings.ToLower(raw)
	for _, m := range OrderedMethods {
		for _, kw := range methodKeywords[m] {
			if strings.Contains(s, kw) {
				return m
			}
		}
	}
	return MethodOther
}

// Count devolve a contagem de um balde.
func (c MethodCounts) Count(m Method) int {
	switch m {
	case MethodImplant:
		return c.Implant
	case MethodPill:
		return c.Pill
	case MethodInjectable:
		return c.Injectable
	case MethodIUD:
		return c.IUD
	case MethodCondom:
		return c.Condom
	default:
		return c.Other
	}
}

// Add incrementa o balde m.
func (c *MethodCounts) Add(m Method) {
	switch m {
	case MethodImplant:
		c.Implant++
	case MethodPill:
		c.Pill++
	case MethodInjectable:
		c.Injectable++
	case MethodIUD:
		c.IUD++
	case MethodCondom:
		c.Condom++
	default:
		c.Other++
	}
}
