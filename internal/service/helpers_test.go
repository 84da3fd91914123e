package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"coaching-checkout/internal/client"
	"coaching-checkout/internal/model"
	"coaching-checkout/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.Migrate(db))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedTestPlans(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, repository.NewPlanRepository(db).Seed(context.Background()))
}

// fakeGateway stands in for the hosted payment gateway.
type fakeGateway struct {
	mu          sync.Mutex
	payments    map[string]*model.MPPayment
	prefErr     error
	lookupErr   error
	createdRefs []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{payments: map[string]*model.MPPayment{}}
}

func (f *fakeGateway) CreatePreference(ctx context.Context, externalRef, itemTitle string, amountARS float64, baseURL string) (*client.CreatePreferenceResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.prefErr != nil {
		return nil, f.prefErr
	}
	f.createdRefs = append(f.createdRefs, externalRef)
	return &client.CreatePreferenceResponse{
		PreferenceID: "pref-" + externalRef,
		InitPoint:    "https://gateway.test/checkout/" + externalRef,
	}, nil
}

func (f *fakeGateway) GetPayment(ctx context.Context, paymentID string) (*model.MPPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	payment, ok := f.payments[paymentID]
	if !ok {
		return nil, errors.New("payment not found")
	}
	return payment, nil
}

// fakeStorage records uploads and deletes in memory.
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) SignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	return "https://storage.test/signed/" + key, nil
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}
