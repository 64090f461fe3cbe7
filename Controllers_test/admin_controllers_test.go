package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/booknbite/backend/controllers"
	"github.com/booknbite/backend/models"
)

func setupAdminRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	adminCtrl := controllers.NewAdminController(db)

	router.Use(authAs(1, models.RoleAdmin))
	router.GET("/stats", adminCtrl.GetStats)
	router.GET("/users", adminCtrl.GetAllUsers)
	router.PATCH("/users/:user_id/status", adminCtrl.UpdateUserStatus)
	router.PATCH("/users/:user_id/role", adminCtrl.ChangeUserRole)
	router.DELETE("/users/:user_id", adminCtrl.DeleteUser)
	router.GET("/notifications", adminCtrl.GetNotifications)
	return router
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{
		Name: "Someone", Email: email, Password: "hashed",
		Role: role, Status: models.UserActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestGetStats(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "a@example.com", models.RoleCustomer)
	seedUser(t, db, "b@example.com", models.RoleAdmin)
	seedMenu(t, db, "Bagel", 3.00, 5)
	db.Create(&models.Table{TableNumber: "T1", Capacity: 4, Status: models.TableAvailable})

	router := setupAdminRouter(db)
	w, response := doJSON(t, router, "GET", "/stats", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["users"])
	assert.EqualValues(t, 1, data["menu_items"])
	assert.EqualValues(t, 1, data["tables"])
	assert.EqualValues(t, 0, data["orders"])
}

func TestGetAllUsersRoleFilter(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "a@example.com", models.RoleCustomer)
	seedUser(t, db, "b@example.com", models.RoleCustomer)
	seedUser(t, db, "c@example.com", models.RoleAdmin)

	router := setupAdminRouter(db)
	w, response := doJSON(t, router, "GET", "/users", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response["data"].([]interface{}), 3)

	w, response = doJSON(t, router, "GET", "/users?role=customer", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response["data"].([]interface{}), 2)
}

func TestUpdateUserStatus(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com", models.RoleCustomer)
	router := setupAdminRouter(db)

	w, response := doJSON(t, router, "PATCH", fmt.Sprintf("/users/%d/status", user.ID),
		map[string]string{"status": "blocked"})
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "blocked", data["status"])

	w, _ = doJSON(t, router, "PATCH", fmt.Sprintf("/users/%d/status", user.ID),
		map[string]string{"status": "suspended"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, "PATCH", "/users/999/status",
		map[string]string{"status": "blocked"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChangeUserRole(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com", models.RoleCustomer)
	router := setupAdminRouter(db)

	w, response := doJSON(t, router, "PATCH", fmt.Sprintf("/users/%d/role", user.ID),
		map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "admin", data["role"])

	w, _ = doJSON(t, router, "PATCH", fmt.Sprintf("/users/%d/role", user.ID),
		map[string]string{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteUser(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com", models.RoleCustomer)
	router := setupAdminRouter(db)

	w, _ := doJSON(t, router, "DELETE", fmt.Sprintf("/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, "DELETE", fmt.Sprintf("/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNotifications(t *testing.T) {
	db := newTestDB(t)
	db.Create(&models.Notification{Event: "booking_create", Message: "Booking #1"})
	db.Create(&models.Notification{Event: "order_create", Message: "Order #1"})

	router := setupAdminRouter(db)
	w, response := doJSON(t, router, "GET", "/notifications", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response["data"].([]interface{}), 2)
}
