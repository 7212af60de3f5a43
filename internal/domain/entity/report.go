package entity

import (
	"fmt"
	"strings"
	"time"
)

// ReportType identifica um dos três relatórios mensais.
type ReportType string

const (
	ReportPrenatalConsultation ReportType = "PrenatalConsultation"
	ReportDelivery             ReportType = "Delivery"
	ReportFamilyPlanning       ReportType = "FamilyPlanning"
)

// AllReportTypes lista os tipos na ordem em que são gerados.
var AllReportTypes = []ReportType{
	ReportPrenatalConsultation,
	ReportDelivery,
	ReportFamilyPlanning,
}

// Title retorna o título exibido no PDF e nos e-mails.
func (t ReportType) Title() string {
	switch t {
	case ReportPrenatalConsultation:
		return "Consultations prénatales"
	case ReportDelivery:
		return "Accouchements"
	case ReportFamilyPlanning:
		return "Planification familiale"
	default:
		return string(t)
	}
}

// ParseReportType aceita o nome canônico sem diferenciar maiúsculas.
func ParseReportType(s string) (ReportType, error) {
	for _, t := range AllReportTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown report type %q", s)
}

// Report é o registro persistido de um relatório gerado. Imutável após a criação.
type Report struct {
	ID              string        `json:"id" bson:"_id" firestore:"-"`
	Type            ReportType    `json:"type" bson:"type" firestore:"type"`
	Month           string        `json:"month" bson:"mois" firestore:"mois"`
	Year            int           `json:"year" bson:"annee" firestore:"annee"`
	CenterID        string        `json:"centerId" bson:"centreId" firestore:"centreId"`
	Summary         ReportSummary `json:"summary" bson:"resume" firestore:"resume"`
	DocumentURL     string        `json:"documentUrl" bson:"documentUrl" firestore:"documentUrl"`
	StorageObjectID string        `json:"storageObjectId" bson:"storageObjectId" firestore:"storageObjectId"`
	SizeBytes       int64         `json:"sizeBytes" bson:"tailleOctets" firestore:"tailleOctets"`
	CreatedAt       time.Time     `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
	GeneratedBy     string        `json:"generatedBy" bson:"generatedBy" firestore:"generatedBy"`
}

// ReportSummary carrega exatamente um dos resumos, conforme o tipo do relatório.
type ReportSummary struct {
	Prenatal       *PrenatalSummary       `json:"prenatal,omitempty" bson:"prenatal,omitempty" firestore:"prenatal,omitempty"`
	Delivery       *DeliverySummary       `json:"delivery,omitempty" bson:"delivery,omitempty" firestore:"delivery,omitempty"`
	FamilyPlanning *FamilyPlanningSummary `json:"familyPlanning,omitempty" bson:"familyPlanning,omitempty" firestore:"familyPlanning,omitempty"`
}

// Center é um centro de saúde (maternidade) que recebe relatórios.
type Center struct {
	ID    string `json:"id" bson:"_id" firestore:"-"`
	Name  string `json:"name" bson:"nom" firestore:"nom"`
	Email string `json:"email,omitempty" bson:"email,omitempty" firestore:"email,omitempty"`
}

// StoredObject é o resultado de um upload no armazenamento de objetos.
type StoredObject struct {
	URL      string
	ObjectID string
	Size     int64
}

// DeliverRequest descreve um relatório a gerar.
type DeliverRequest struct {
	Type        ReportType `json:"type" validate:"required,oneof=PrenatalConsultation Delivery FamilyPlanning"`
	PeriodLabel string     `json:"periodLabel" validate:"required"`
	Year        int        `json:"year" validate:"required,gte=2000,lte=2100"`
	CenterID    string     `json:"centerId"`
	GeneratedBy string     `json:"generatedBy,omitempty"`
}

// DeliverResult é o retorno do pipeline de entrega.
type DeliverResult struct {
	Success     bool   `json:"success"`
	ReportID    string `json:"reportId,omitempty"`
	DocumentURL string `json:"documentUrl,omitempty"`
	Error       string `json:"error,omitempty"`
	ErrorKind   string `json:"errorKind,omitempty"`
	FailedStep  string `json:"failedStep,omitempty"`
}
