// Package firestorestore implementa o Store sobre Cloud Firestore.
package firestorestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/diillson/maternity-reports-go/internal/shared/types"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store usa as coleções do Firestore com os mesmos nomes do MongoDB.
type Store struct {
	client *firestore.Client
}

var _ repository.Store = (*Store)(nil)

// Open inicializa o app Firebase e o cliente Firestore. Sem
// credentialsFile, as Application Default Credentials são usadas.
func Open(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project ID is empty")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

// NewStore envolve um cliente já criado.
func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) windowQuery(collection, field string, w entity.Window, centerID string) firestore.Query {
	q := s.client.Collection(collection).
		Where(field, ">=", w.Start).
		Where(field, "<=", w.End)
	if centerID != "" {
		q = q.Where("centreId", "==", centerID)
	}
	return q
}

// getAll decodifica todos os documentos da consulta; o ID vem da referência.
func getAll[T any](ctx context.Context, q firestore.Query, setID func(*T, string)) ([]T, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		var v T
		if err := snap.DataTo(&v); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", snap.Ref.Path, err)
		}
		setID(&v, snap.Ref.ID)
		out = append(out, v)
	}
	return out, nil
}

func (s *Store) FindConsultations(ctx context.Context, w entity.Window, centerID string) ([]entity.Consultation, error) {
	q := s.windowQuery(repository.CollectionConsultations, "dateConsultation", w, centerID)
	res, err := getAll(ctx, q, func(c *entity.Consultation, id string) { c.ID = id })
	if err != nil {
		return nil, fmt.Errorf("querying consultations: %w", err)
	}
	return res, nil
}

func (s *Store) HasConsultationDetail(ctx context.Context, consultationID string) (bool, error) {
	snaps, err := s.client.Collection(repository.CollectionConsultationDetails).
		Where("consultationId", "==", consultationID).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return false, fmt.Errorf("checking detail of consultation %s: %w", consultationID, err)
	}
	return len(snaps) > 0, nil
}

func (s *Store) FindDeliveries(ctx context.Context, w entity.Window, centerID string) ([]entity.Delivery, error) {
	q := s.windowQuery(repository.CollectionDeliveries, "dateAccouchement", w, centerID)
	res, err := getAll(ctx, q, func(d *entity.Delivery, id string) { d.ID = id })
	if err != nil {
		return nil, fmt.Errorf("querying deliveries: %w", err)
	}
	return res, nil
}

func (s *Store) FindChildren(ctx context.Context, deliveryID string) ([]entity.Child, error) {
	q := s.client.Collection(repository.CollectionChildren).Where("accouchementId", "==", deliveryID)
	res, err := getAll(ctx, q, func(c *entity.Child, id string) { c.ID = id })
	if err != nil {
		return nil, fmt.Errorf("querying children of delivery %s: %w", deliveryID, err)
	}
	return res, nil
}

func (s *Store) FindFamilyPlanning(ctx context.Context, w entity.Window, centerID string) ([]entity.FamilyPlanningEntry, error) {
	q := s.windowQuery(repository.CollectionFamilyPlanning, "dateVisite", w, centerID)
	res, err := getAll(ctx, q, func(e *entity.FamilyPlanningEntry, id string) { e.ID = id })
	if err != nil {
		return nil, fmt.Errorf("querying family planning visits: %w", err)
	}
	return res, nil
}

func (s *Store) CreateReport(ctx context.Context, r entity.Report) error {
	if _, err := s.client.Collection(repository.CollectionReports).Doc(r.ID).Create(ctx, r); err != nil {
		return fmt.Errorf("creating report %s: %w", r.ID, err)
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, id string) (*entity.Report, error) {
	snap, err := s.client.Collection(repository.CollectionReports).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapGetError(repository.CollectionReports, id, err)
	}
	var r entity.Report
	if err := snap.DataTo(&r); err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", id, err)
	}
	r.ID = snap.Ref.ID
	return &r, nil
}

func (s *Store) FindReports(ctx context.Context, centerID, month string, year int) ([]entity.Report, error) {
	q := s.client.Collection(repository.CollectionReports).Query
	if centerID != "" {
		q = q.Where("centreId", "==", centerID)
	}
	if month != "" {
		q = q.Where("mois", "==", month)
	}
	if year != 0 {
		q = q.Where("annee", "==", year)
	}
	res, err := getAll(ctx, q, func(r *entity.Report, id string) { r.ID = id })
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	return res, nil
}

func (s *Store) ListCenters(ctx context.Context) ([]entity.Center, error) {
	q := s.client.Collection(repository.CollectionCenters).OrderBy(firestore.DocumentID, firestore.Asc)
	res, err := getAll(ctx, q, func(c *entity.Center, id string) { c.ID = id })
	if err != nil {
		return nil, fmt.Errorf("listing centers: %w", err)
	}
	return res, nil
}

func (s *Store) GetCenter(ctx context.Context, id string) (*entity.Center, error) {
	snap, err := s.client.Collection(repository.CollectionCenters).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapGetError(repository.CollectionCenters, id, err)
	}
	var c entity.Center
	if err := snap.DataTo(&c); err != nil {
		return nil, fmt.Errorf("decoding center %s: %w", id, err)
	}
	c.ID = snap.Ref.ID
	return &c, nil
}

func (s *Store) IdentifierExists(ctx context.Context, collection, id string) (bool, error) {
	_, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking identifier %s in %s: %w", id, collection, err)
	}
	return true, nil
}

func (s *Store) Close(context.Context) error {
	return s.client.Close()
}

// wrapGetError traduz NotFound do gRPC para types.ErrNotFound.
func wrapGetError(collection, id string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s %s: %w", collection, id, types.ErrNotFound)
	}
	return fmt.Errorf("reading %s %s: %w", collection, id, err)
}
