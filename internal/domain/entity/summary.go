package entity

// PrenatalSummary resume as consultas pré-natais de um período.
type PrenatalSummary struct {
	TotalConsultations int `json:"totalConsultations" bson:"totalConsultations" firestore:"totalConsultations"`
	Completed          int `json:"realisees" bson:"realisees" firestore:"realisees"`
	Pending            int `json:"enAttente" bson:"enAttente" firestore:"enAttente"`
	Planned            int `json:"planifiees" bson:"planifiees" firestore:"planifiees"`
	Missed             int `json:"manquees" bson:"manquees" firestore:"manquees"`
	CompletionRate     int `json:"tauxRealisation" bson:"tauxRealisation" firestore:"tauxRealisation"`
}

// DeliverySummary resume os accouchements de um período.
type DeliverySummary struct {
	TotalDeliveries     int     `json:"totalAccouchements" bson:"totalAccouchements" firestore:"totalAccouchements"`
	Vaginal             int     `json:"voieBasse" bson:"voieBasse" firestore:"voieBasse"`
	Cesarean            int     `json:"cesarienne" bson:"cesarienne" firestore:"cesarienne"`
	OtherMode           int     `json:"autreMode" bson:"autreMode" firestore:"autreMode"`
	TotalChildren       int     `json:"totalEnfants" bson:"totalEnfants" firestore:"totalEnfants"`
	Boys                int     `json:"garcons" bson:"garcons" firestore:"garcons"`
	Girls               int     `json:"filles" bson:"filles" firestore:"filles"`
	UnknownSex          int     `json:"sexeNonPrecise" bson:"sexeNonPrecise" firestore:"sexeNonPrecise"`
	CesareanRate        int     `json:"tauxCesarienne" bson:"tauxCesarienne" firestore:"tauxCesarienne"`
	ChildrenPerDelivery float64 `json:"moyenneEnfantsParAccouchement" bson:"moyenneEnfantsParAccouchement" firestore:"moyenneEnfantsParAccouchement"`
}

// MethodCounts conta as visitas por método contraceptivo.
type MethodCounts struct {
	Implant    int `json:"implant" bson:"implant" firestore:"implant"`
	Pill       int `json:"pilule" bson:"pilule" firestore:"pilule"`
	Injectable int `json:"injectable" bson:"injectable" firestore:"injectable"`
	IUD        int `json:"diu" bson:"diu" firestore:"diu"`
	Condom     int `json:"preservatif" bson:"preservatif" firestore:"preservatif"`
	Other      int `json:"autre" bson:"autre" firestore:"autre"`
}

// FamilyPlanningSummary resume as visitas de planificação familiar.
type FamilyPlanningSummary struct {
	TotalVisits   int          `json:"totalVisites" bson:"totalVisites" firestore:"totalVisites"`
	MethodCounts  MethodCounts `json:"methodesCount" bson:"methodesCount" firestore:"methodesCount"`
	PopularMethod string       `json:"methodePopulaire" bson:"methodePopulaire" firestore:"methodePopulaire"`
	Women         int          `json:"femmes" bson:"femmes" firestore:"femmes"`
	Men           int          `json:"hommes" bson:"hommes" firestore:"hommes"`
	UnknownSex    int          `json:"sexeNonPrecise" bson:"sexeNonPrecise" firestore:"sexeNonPrecise"`
}
