package mongostore

import (
	"testing"
	"time"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestWindowFilter(t *testing.T) {
	w := entity.Period{Month: time.February, Year: 2024}.Window(time.UTC)

	assert.Equal(t, bson.D{
		{Key: "dateAccouchement", Value: bson.D{{Key: "$gte", Value: w.Start}, {Key: "$lte", Value: w.End}}},
		{Key: "centreId", Value: "c1"},
	}, windowFilter("dateAccouchement", w, "c1"))

	assert.Len(t, windowFilter("dateVisite", w, ""), 1)
}

func TestReportFilter(t *testing.T) {
	assert.Equal(t, bson.D{}, reportFilter("", "", 0))
	assert.Equal(t, bson.D{
		{Key: "centreId", Value: "c1"},
		{Key: "mois", Value: "février"},
		{Key: "annee", Value: 2024},
	}, reportFilter("c1", "février", 2024))
}

func TestReportDocumentShape(t *testing.T) {
	raw, err := bson.Marshal(entity.Report{
		ID: "RPT010324AB", Type: entity.ReportDelivery, Month: "février", Year: 2024, CenterID: "c1",
		Summary: entity.ReportSummary{Delivery: &entity.DeliverySummary{TotalDeliveries: 3}},
	})
	assert.NoError(t, err)

	var doc bson.M
	assert.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "RPT010324AB", doc["_id"])
	assert.Equal(t, "février", doc["mois"])
	assert.Equal(t, int32(2024), doc["annee"])
	resume := doc["resume"].(bson.M)
	assert.Contains(t, resume, "delivery")
	assert.NotContains(t, resume, "prenatal")
}

func TestConnect_EmptyURI(t *testing.T) {
	_, err := Connect(t.Context(), "", "maternity")
	assert.EqualError(t, err, "database connection URL is empty")
}
