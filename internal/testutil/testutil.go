package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/apexcoatings/backoffice/internal/auth"
	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/pkg/crypto"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Service{},
		&models.Job{},
		&models.JobService{},
		&models.JobInventory{},
		&models.Estimate{},
		&models.EstimateService{},
		&models.Note{},
		&models.InventoryItem{},
		&models.Session{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestUser creates a local-password user with the given role
func CreateTestUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Username:     "test-" + uuid.New().String()[:8],
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
		IsActive:     true,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCustomer creates a customer row
func CreateTestCustomer(t *testing.T, db *gorm.DB, name string) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		Base: models.Base{ID: uuid.New()},
		Name: name,
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("failed to create test customer: %v", err)
	}
	return customer
}

// CreateTestService creates a catalog service
func CreateTestService(t *testing.T, db *gorm.DB, name string, category models.ServiceCategory, price float64) *models.Service {
	t.Helper()

	svc := &models.Service{
		Base:     models.Base{ID: uuid.New()},
		Name:     name,
		Category: category,
		Price:    price,
	}
	if err := db.Create(svc).Error; err != nil {
		t.Fatalf("failed to create test service: %v", err)
	}
	return svc
}

// CreateTestJob creates a job with the given status and received date
func CreateTestJob(t *testing.T, db *gorm.DB, trackingID string, status models.JobStatus, received time.Time) *models.Job {
	t.Helper()

	job := &models.Job{
		Base:         models.Base{ID: uuid.New()},
		TrackingID:   trackingID,
		ReceivedDate: received,
		CoatingType:  models.CoatingPowder,
		Status:       status,
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("failed to create test job: %v", err)
	}
	return job
}

// CreateTestEstimate creates an estimate in the given status
func CreateTestEstimate(t *testing.T, db *gorm.DB, customerName string, status models.EstimateStatus) *models.Estimate {
	t.Helper()

	est := &models.Estimate{
		Base:         models.Base{ID: uuid.New()},
		CustomerName: customerName,
		ServiceType:  models.CoatingPowder,
		Date:         time.Now(),
		Status:       status,
	}
	if err := db.Create(est).Error; err != nil {
		t.Fatalf("failed to create test estimate: %v", err)
	}
	return est
}

// NewTestSessions builds a session store over the test database with a
// throwaway encryption key and no token refresher
func NewTestSessions(t *testing.T, db *gorm.DB) *auth.Sessions {
	t.Helper()

	encryptor, err := crypto.NewEncryptor("")
	if err != nil {
		t.Fatalf("failed to create encryptor: %v", err)
	}
	return auth.NewSessions(db, encryptor, time.Hour, nil)
}

// IssueTestSession issues a session for the user and returns its ID
func IssueTestSession(t *testing.T, sessions *auth.Sessions, user *models.User) string {
	t.Helper()

	sess, err := sessions.Issue(context.Background(), user, models.SessionKindLocal, nil, nil)
	if err != nil {
		t.Fatalf("failed to issue test session: %v", err)
	}
	return sess.ID
}

// AuthenticatedRequest creates an HTTP request carrying a session cookie
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, sessionID string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
	}
	return req
}

// UnauthenticatedRequest creates an HTTP request without a session
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}
