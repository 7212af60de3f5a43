// Package mongostore implementa o Store sobre MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/diillson/maternity-reports-go/internal/shared/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store lê os registros clínicos e grava os relatórios num banco MongoDB.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ repository.Store = (*Store)(nil)

// Connect abre a conexão, verifica com um ping e devolve o Store.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("database connection URL is empty")
	}

	clientOptions := options.Client().ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(2).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(30 * time.Second)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

// EnsureIndexes cria os índices usados pelas consultas por janela e pelo gatilho.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		repository.CollectionConsultations:       {{Keys: bson.D{{Key: "centreId", Value: 1}, {Key: "dateConsultation", Value: 1}}}},
		repository.CollectionConsultationDetails: {{Keys: bson.D{{Key: "consultationId", Value: 1}}}},
		repository.CollectionDeliveries:          {{Keys: bson.D{{Key: "centreId", Value: 1}, {Key: "dateAccouchement", Value: 1}}}},
		repository.CollectionChildren:            {{Keys: bson.D{{Key: "accouchementId", Value: 1}}}},
		repository.CollectionFamilyPlanning:      {{Keys: bson.D{{Key: "centreId", Value: 1}, {Key: "dateVisite", Value: 1}}}},
		repository.CollectionReports: {{Keys: bson.D{
			{Key: "centreId", Value: 1}, {Key: "mois", Value: 1}, {Key: "annee", Value: 1}, {Key: "type", Value: 1},
		}}},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating indexes on %s: %w", name, err)
		}
	}
	return nil
}

// windowFilter monta ts >= início AND ts <= fim, com o centro opcional.
func windowFilter(field string, w entity.Window, centerID string) bson.D {
	filter := bson.D{{Key: field, Value: bson.D{
		{Key: "$gte", Value: w.Start},
		{Key: "$lte", Value: w.End},
	}}}
	if centerID != "" {
		filter = append(filter, bson.E{Key: "centreId", Value: centerID})
	}
	return filter
}

func reportFilter(centerID, month string, year int) bson.D {
	filter := bson.D{}
	if centerID != "" {
		filter = append(filter, bson.E{Key: "centreId", Value: centerID})
	}
	if month != "" {
		filter = append(filter, bson.E{Key: "mois", Value: month})
	}
	if year != 0 {
		filter = append(filter, bson.E{Key: "annee", Value: year})
	}
	return filter
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", coll.Name(), err)
	}
	return results, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, id string) (*T, error) {
	var result T
	err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s %s: %w", coll.Name(), id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s %s: %w", coll.Name(), id, err)
	}
	return &result, nil
}

func (s *Store) FindConsultations(ctx context.Context, w entity.Window, centerID string) ([]entity.Consultation, error) {
	return findAll[entity.Consultation](ctx, s.db.Collection(repository.CollectionConsultations), windowFilter("dateConsultation", w, centerID))
}

func (s *Store) HasConsultationDetail(ctx context.Context, consultationID string) (bool, error) {
	n, err := s.db.Collection(repository.CollectionConsultationDetails).
		CountDocuments(ctx, bson.D{{Key: "consultationId", Value: consultationID}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("checking detail of consultation %s: %w", consultationID, err)
	}
	return n > 0, nil
}

func (s *Store) FindDeliveries(ctx context.Context, w entity.Window, centerID string) ([]entity.Delivery, error) {
	return findAll[entity.Delivery](ctx, s.db.Collection(repository.CollectionDeliveries), windowFilter("dateAccouchement", w, centerID))
}

func (s *Store) FindChildren(ctx context.Context, deliveryID string) ([]entity.Child, error) {
	return findAll[entity.Child](ctx, s.db.Collection(repository.CollectionChildren), bson.D{{Key: "accouchementId", Value: deliveryID}})
}

func (s *Store) FindFamilyPlanning(ctx context.Context, w entity.Window, centerID string) ([]entity.FamilyPlanningEntry, error) {
	return findAll[entity.FamilyPlanningEntry](ctx, s.db.Collection(repository.CollectionFamilyPlanning), windowFilter("dateVisite", w, centerID))
}

func (s *Store) CreateReport(ctx context.Context, r entity.Report) error {
	if _, err := s.db.Collection(repository.CollectionReports).InsertOne(ctx, r); err != nil {
		return fmt.Errorf("inserting report %s: %w", r.ID, err)
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, id string) (*entity.Report, error) {
	return findOne[entity.Report](ctx, s.db.Collection(repository.CollectionReports), id)
}

func (s *Store) FindReports(ctx context.Context, centerID, month string, year int) ([]entity.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[entity.Report](ctx, s.db.Collection(repository.CollectionReports), reportFilter(centerID, month, year), opts)
}

func (s *Store) ListCenters(ctx context.Context) ([]entity.Center, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findAll[entity.Center](ctx, s.db.Collection(repository.CollectionCenters), bson.D{}, opts)
}

func (s *Store) GetCenter(ctx context.Context, id string) (*entity.Center, error) {
	return findOne[entity.Center](ctx, s.db.Collection(repository.CollectionCenters), id)
}

func (s *Store) IdentifierExists(ctx context.Context, collection, id string) (bool, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, bson.D{{Key: "_id", Value: id}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("checking identifier %s in %s: %w", id, collection, err)
	}
	return n > 0, nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
