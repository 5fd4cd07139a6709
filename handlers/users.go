package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/middleware"
	"github.com/jcconstruction/tracker/models"
)

type createUserReq struct {
	FirstName  string `json:"firstName"`
	Surname    string `json:"surname"`
	Role       string `json:"role"`
	ClientName string `json:"clientName"`
	Password   string `json:"password"`
}

// CreateUser is admin-only. The username is derived from the first
// initial plus the surname; collisions get a numeric suffix.
func CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.Surname = strings.TrimSpace(req.Surname)
	if req.FirstName == "" || req.Surname == "" || req.Password == "" {
		http.Error(w, "firstName, surname and password are required", http.StatusBadRequest)
		return
	}
	if !models.ValidUserRole(req.Role) {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}
	if req.Role == models.RoleClientViewer && strings.TrimSpace(req.ClientName) == "" {
		http.Error(w, "clientName is required for Client Viewer accounts", http.StatusBadRequest)
		return
	}
	if req.Role != models.RoleClientViewer {
		req.ClientName = ""
	}

	username := models.DeriveUsername(req.FirstName, req.Surname, func(candidate string) bool {
		var count int64
		config.DB.Model(&models.User{}).Where("username = ?", candidate).Count(&count)
		return count > 0
	})

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "error hashing password", http.StatusInternalServerError)
		return
	}
	u := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         req.Role,
		FirstName:    titleCase(req.FirstName),
		Surname:      titleCase(req.Surname),
		ClientName:   strings.TrimSpace(req.ClientName),
	}
	if err := config.DB.Create(&u).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "username already taken", http.StatusConflict)
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toUserPayload(&u))
}

func GetAllUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := 1, 10
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := (page - 1) * limit

	var users []models.User
	if err := config.DB.
		Order("username").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var total int64
	if err := config.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		http.Error(w, "db count error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]userPayload, len(users))
	for i := range users {
		out[i] = toUserPayload(&users[i])
	}
	response := map[string]interface{}{
		"total": total,
		"page":  page,
		"limit": limit,
		"data":  out,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// titleCase uppercases the first letter of each space-separated word,
// matching how names were stored historically.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		r := []rune(word)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

type updateUserReq struct {
	FirstName  string `json:"firstName"`
	Surname    string `json:"surname"`
	Role       string `json:"role"`
	ClientName string `json:"clientName"`
}

// UpdateUser edits name, role and client association. The username is
// fixed at creation.
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var u models.User
	if err := config.DB.First(&u, "id = ?", id).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	var req updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.Surname) == "" {
		http.Error(w, "firstName and surname are required", http.StatusBadRequest)
		return
	}
	if !models.ValidUserRole(req.Role) {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}
	if req.Role == models.RoleClientViewer && strings.TrimSpace(req.ClientName) == "" {
		http.Error(w, "clientName is required for Client Viewer accounts", http.StatusBadRequest)
		return
	}
	u.FirstName = strings.TrimSpace(req.FirstName)
	u.Surname = strings.TrimSpace(req.Surname)
	u.Role = req.Role
	if req.Role == models.RoleClientViewer {
		u.ClientName = strings.TrimSpace(req.ClientName)
	} else {
		u.ClientName = ""
	}
	if err := config.DB.Save(&u).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserPayload(&u))
}

// DeleteUser removes an account. An admin may not delete themselves or
// the bootstrap admin account.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var u models.User
	if err := config.DB.First(&u, "id = ?", id).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if u.Username == models.BootstrapAdminUsername {
		http.Error(w, "the bootstrap admin account cannot be deleted", http.StatusForbidden)
		return
	}
	if u.ID.String() == middleware.GetUserID(r) {
		http.Error(w, "you cannot delete your own account", http.StatusForbidden)
		return
	}
	if err := config.DB.Delete(&u).Error; err != nil {
		http.Error(w, "failed to delete user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resetPasswordReq struct {
	NewPassword string `json:"newPassword"`
}

// ResetPassword is the admin-side forced reset.
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var u models.User
	if err := config.DB.First(&u, "id = ?", id).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	var req resetPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		http.Error(w, "newPassword is required", http.StatusBadRequest)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "error hashing password", http.StatusInternalServerError)
		return
	}
	if err := config.DB.Model(&u).Update("password_hash", string(hash)).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
