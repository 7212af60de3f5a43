package repository

import (
	"context"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
)

// Nomes das coleções do banco de documentos.
const (
	CollectionCenters             = "centres"
	CollectionConsultations       = "consultations"
	CollectionConsultationDetails = "detailsConsultation"
	CollectionDeliveries          = "accouchements"
	CollectionChildren            = "enfants"
	CollectionFamilyPlanning      = "planificationFamiliale"
	CollectionReports             = "rapports"
)

// RecordRepository lê os registros clínicos usados pelos agregadores.
// centerID vazio significa todos os centros.
type RecordRepository interface {
	FindConsultations(ctx context.Context, w entity.Window, centerID string) ([]entity.Consultation, error)
	HasConsultationDetail(ctx context.Context, consultationID string) (bool, error)
	FindDeliveries(ctx context.Context, w entity.Window, centerID string) ([]entity.Delivery, error)
	FindChildren(ctx context.Context, deliveryID string) ([]entity.Child, error)
	FindFamilyPlanning(ctx context.Context, w entity.Window, centerID string) ([]entity.FamilyPlanningEntry, error)
}

// ReportRepository persiste e consulta os relatórios gerados.
type ReportRepository interface {
	CreateReport(ctx context.Context, r entity.Report) error
	GetReport(ctx context.Context, id string) (*entity.Report, error)
	FindReports(ctx context.Context, centerID, month string, year int) ([]entity.Report, error)
}

// CenterRepository lista os centros de saúde.
type CenterRepository interface {
	ListCenters(ctx context.Context) ([]entity.Center, error)
	GetCenter(ctx context.Context, id string) (*entity.Center, error)
}

// IdentifierRepository verifica se uma chave já existe numa coleção.
type IdentifierRepository interface {
	IdentifierExists(ctx context.Context, collection, id string) (bool, error)
}

// Store agrega todas as capacidades de um banco de documentos.
type Store interface {
	RecordRepository
	ReportRepository
	CenterRepository
	IdentifierRepository
	Close(ctx context.Context) error
}
