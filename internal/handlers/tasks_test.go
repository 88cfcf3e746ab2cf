package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mara/routinely-api/internal/config"
	"github.com/mara/routinely-api/internal/database"
	"github.com/mara/routinely-api/internal/middleware"
	"github.com/mara/routinely-api/internal/models"
)

type completionFixture struct {
	app       *fiber.App
	token     string
	person    models.Person
	routineID uuid.UUID
}

// setupCompletionFixture boots an in-memory database with one household,
// one person and one daily routine, and returns an app serving the
// completion route behind real auth.
func setupCompletionFixture(t *testing.T) *completionFixture {
	t.Helper()

	// Shared cache keeps the in-memory database visible across pooled
	// connections.
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.DB = db
	require.NoError(t, database.Migrate())

	middleware.Setup(&config.Config{JWTSecret: "test-secret"})

	userID := uuid.New()
	household := models.Household{OwnerID: userID, Name: "Home"}
	require.NoError(t, db.Create(&household).Error)

	person := models.Person{HouseholdID: household.ID, Name: "Robin"}
	require.NoError(t, db.Create(&person).Error)

	routine := models.Routine{
		HouseholdID: household.ID,
		Title:       "Morning",
		Type:        models.RoutineStandard,
		Period:      models.PeriodDaily,
		Status:      "ACTIVE",
	}
	require.NoError(t, db.Create(&routine).Error)

	token, err := middleware.GenerateToken(userID, "casey@example.com")
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/tasks/:id/complete", middleware.Protected(), CompleteTask)

	f := &completionFixture{app: app, token: token, person: person, routineID: routine.ID}
	t.Cleanup(func() { database.DB = nil })
	return f
}

func (f *completionFixture) addTask(t *testing.T, taskType string) models.Task {
	t.Helper()
	task := models.Task{
		RoutineID: f.routineID,
		Position:  1,
		Title:     "Brush teeth",
		Type:      taskType,
		Status:    models.TaskActive,
	}
	require.NoError(t, database.DB.Create(&task).Error)
	return task
}

func (f *completionFixture) complete(t *testing.T, taskID uuid.UUID, body map[string]interface{}) int {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/tasks/"+taskID.String()+"/complete", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestCompleteSimpleTaskOncePerPeriod(t *testing.T) {
	f := setupCompletionFixture(t)
	task := f.addTask(t, models.TaskSimple)
	body := map[string]interface{}{"personId": f.person.ID}

	assert.Equal(t, fiber.StatusCreated, f.complete(t, task.ID, body))
	assert.Equal(t, fiber.StatusConflict, f.complete(t, task.ID, body))

	// The conflicting attempt must not have written a second row.
	var count int64
	require.NoError(t, database.DB.Model(&models.TaskCompletion{}).
		Where("task_id = ?", task.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCompleteMultipleCheckinUnlimited(t *testing.T) {
	f := setupCompletionFixture(t)
	task := f.addTask(t, models.TaskMultipleCheckin)
	body := map[string]interface{}{"personId": f.person.ID}

	assert.Equal(t, fiber.StatusCreated, f.complete(t, task.ID, body))
	assert.Equal(t, fiber.StatusCreated, f.complete(t, task.ID, body))
	assert.Equal(t, fiber.StatusCreated, f.complete(t, task.ID, body))
}

func TestCompleteProgressTaskRequiresValue(t *testing.T) {
	f := setupCompletionFixture(t)
	task := f.addTask(t, models.TaskProgress)

	assert.Equal(t, fiber.StatusBadRequest,
		f.complete(t, task.ID, map[string]interface{}{"personId": f.person.ID}))
	assert.Equal(t, fiber.StatusCreated,
		f.complete(t, task.ID, map[string]interface{}{"personId": f.person.ID, "value": 3.5}))
}
