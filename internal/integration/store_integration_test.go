//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"transaction_api/internal/broker"
	"transaction_api/internal/cache"
	"transaction_api/internal/domain"
	"transaction_api/internal/logger"
	"transaction_api/internal/repository"
	"transaction_api/internal/service"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StoreIntegrationSuite struct {
	suite.Suite
	containers []testcontainers.Container
	mongo      *mongo.Client
	coll       *mongo.Collection
	audit      *pgxpool.Pool
}

func TestStoreIntegration(t *testing.T) {
	suite.Run(t, new(StoreIntegrationSuite))
}

func (s *StoreIntegrationSuite) start(req testcontainers.ContainerRequest, port string) string {
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	s.Require().NoError(err, "start %s", req.Image)
	s.containers = append(s.containers, c)

	host, err := c.Host(ctx)
	s.Require().NoError(err)
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	s.Require().NoError(err)
	return fmt.Sprintf("%s:%s", host, mapped.Port())
}

func (s *StoreIntegrationSuite) SetupSuite() {
	ctx := context.Background()

	mongoAddr := s.start(testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
	}, "27017")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://"+mongoAddr))
	s.Require().NoError(err)
	s.mongo = client
	s.coll = client.Database("transactions_test").Collection(repository.TransactionCollectionName)
	s.Require().NoError(repository.EnsureTransactionIndexes(ctx, s.coll))

	pgAddr := s.start(testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "audit",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}, "5432")

	pool, err := pgxpool.New(ctx, "postgres://postgres:password@"+pgAddr+"/audit?sslmode=disable")
	s.Require().NoError(err)
	s.audit = pool
	s.applyMigrations()
}

func (s *StoreIntegrationSuite) applyMigrations() {
	migDir := filepath.Join("..", "migrations")
	files, err := os.ReadDir(migDir)
	s.Require().NoError(err)
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		s.Require().NoError(err)
		_, err = s.audit.Exec(context.Background(), string(b))
		s.Require().NoError(err, "apply migration %s", f.Name())
	}
}

func (s *StoreIntegrationSuite) TearDownSuite() {
	ctx := context.Background()
	if s.audit != nil {
		s.audit.Close()
	}
	if s.mongo != nil {
		_ = s.mongo.Disconnect(ctx)
	}
	for _, c := range s.containers {
		_ = c.Terminate(ctx)
	}
}

func (s *StoreIntegrationSuite) SetupTest() {
	_, err := s.coll.DeleteMany(context.Background(), map[string]interface{}{})
	s.Require().NoError(err)
}

func (s *StoreIntegrationSuite) newRepo(pub broker.Publisher) *repository.TransactionRepository {
	return repository.NewTransactionRepository(repository.NewMongoCollection(s.coll), cache.NewMemory(time.Minute), pub, logger.Discard())
}

func input(ts time.Time) *domain.CreateTransactionInput {
	return &domain.CreateTransactionInput{
		CompanyID:   "c1",
		UserID:      "u1",
		WalletID:    "w1",
		Status:      domain.TransactionStatusCompleted,
		Timestamp:   ts,
		Asset:       "BTC",
		AssetType:   domain.TransactionAssetTypeCrypto,
		Type:        domain.TransactionTypeDeposit,
		Amount:      1.25,
		EuroAmount:  50000,
		ExternalID:  "ext-1",
		Fee:         0.0001,
		Destination: "bc1q",
	}
}

func (s *StoreIntegrationSuite) TestCreateFindAndDuplicate() {
	ctx := context.Background()
	repo := s.newRepo(broker.NewRecorder())
	ts := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, input(ts))
	s.Require().NoError(err)
	s.True(created.CreatedAt.Equal(created.UpdatedAt))

	found, err := repo.FindByID(ctx, created.ID.Hex())
	s.Require().NoError(err)
	s.Equal(created.ExternalID, found.ExternalID)

	_, err = repo.Create(ctx, input(ts))
	s.Require().Error(err)
	s.True(mongo.IsDuplicateKeyError(err))
}

func (s *StoreIntegrationSuite) TestListDateRangeAgainstMongo() {
	ctx := context.Background()
	repo := s.newRepo(broker.NewRecorder())

	first, err := repo.Create(ctx, input(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)))
	s.Require().NoError(err)
	_, err = repo.Create(ctx, input(time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC)))
	s.Require().NoError(err)

	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC)
	skip, limit := int32(1), int32(1)

	page, err := repo.List(ctx, &domain.TransactionsFilter{StartDate: &start, EndDate: &end}, &skip, &limit)
	s.Require().NoError(err)
	s.Equal(int64(2), page.TotalCount)
	s.Require().Len(page.Items, 1)
	s.Equal(first.ID, page.Items[0].ID)
}

func (s *StoreIntegrationSuite) TestUpdateAndDeleteAreAudited() {
	ctx := domain.WithIdentity(context.Background(), &domain.Identity{UserID: "svc", Role: domain.RoleService})
	auditRepo := repository.NewAuditRepository(s.audit)
	pub := service.NewAuditingPublisher(broker.NewRecorder(), service.NewAuditService(auditRepo, logger.Discard()))
	repo := s.newRepo(pub)

	created, err := repo.Create(ctx, input(time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)))
	s.Require().NoError(err)

	fee := 0.5
	updated, err := repo.Update(ctx, created.ID.Hex(), &domain.UpdateTransactionInput{Fee: &fee})
	s.Require().NoError(err)
	s.Equal(0.5, updated.Fee)
	s.Equal(created.Destination, updated.Destination)
	s.True(updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

	s.Require().NoError(repo.Delete(ctx, created.ID.Hex()))

	logs, err := auditRepo.GetByEntityID(ctx, created.ID.Hex(), 10)
	s.Require().NoError(err)
	s.Len(logs, 3)
	for _, l := range logs {
		s.Equal("svc", l.ActorUserID)
	}

	gone, err := repo.FindByID(ctx, created.ID.Hex())
	s.Require().NoError(err)
	s.Nil(gone)

	_, err = repo.FindByID(ctx, primitive.NewObjectID().Hex())
	s.NoError(err)
}
