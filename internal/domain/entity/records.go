package entity

import "time"

// Consultation é uma consulta pré-natal agendada.
type Consultation struct {
	ID          string    `json:"id" bson:"_id" firestore:"-"`
	PatientID   string    `json:"patientId" bson:"patienteId" firestore:"patienteId"`
	CenterID    string    `json:"centerId" bson:"centreId" firestore:"centreId"`
	ScheduledAt time.Time `json:"scheduledAt" bson:"dateConsultation" firestore:"dateConsultation"`
	Rank        int       `json:"rank,omitempty" bson:"rang,omitempty" firestore:"rang,omitempty"`
}

// ConsultationDetail é o registro preenchido quando a consulta é realizada.
type ConsultationDetail struct {
	ID             string    `json:"id" bson:"_id" firestore:"-"`
	ConsultationID string    `json:"consultationId" bson:"consultationId" firestore:"consultationId"`
	RecordedAt     time.Time `json:"recordedAt" bson:"dateSaisie" firestore:"dateSaisie"`
}

// Delivery é um accouchement.
type Delivery struct {
	ID          string    `json:"id" bson:"_id" firestore:"-"`
	PatientID   string    `json:"patientId" bson:"patienteId" firestore:"patienteId"`
	CenterID    string    `json:"centerId" bson:"centreId" firestore:"centreId"`
	DeliveredAt time.Time `json:"deliveredAt" bson:"dateAccouchement" firestore:"dateAccouchement"`
	Mode        string    `json:"mode" bson:"modeAccouchement" firestore:"modeAccouchement"`
}

// Child é um recém-nascido ligado a um accouchement.
type Child struct {
	ID         string `json:"id" bson:"_id" firestore:"-"`
	DeliveryID string `json:"deliveryId" bson:"accouchementId" firestore:"accouchementId"`
	Sex        string `json:"sex" bson:"sexe" firestore:"sexe"`
}

// FamilyPlanningEntry é uma visita de planificação familiale.
type FamilyPlanningEntry struct {
	ID        string    `json:"id" bson:"_id" firestore:"-"`
	PatientID string    `json:"patientId" bson:"patienteId" firestore:"patienteId"`
	CenterID  string    `json:"centerId" bson:"centreId" firestore:"centreId"`
	VisitedAt time.Time `json:"visitedAt" bson:"dateVisite" firestore:"dateVisite"`
	Method    string    `json:"method" bson:"methode" firestore:"methode"`
	Sex       string    `json:"sex" bson:"sexe" firestore:"sexe"`
}
