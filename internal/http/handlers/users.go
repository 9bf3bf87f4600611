package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/domain/models"
	"trainbuddy/internal/http/middleware"
	"trainbuddy/internal/services"
	"trainbuddy/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxPhotoBytes = 5 << 20

var allowedPhotoExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".heic": true,
}

// UsersHandler manages the caller's profile.
type UsersHandler struct {
	Users      services.UserService
	UploadsDir string
}

func (h UsersHandler) GetProfile(c *gin.Context) {
	user, err := h.Users.GetProfile(middleware.GetPhoneNumber(c))
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"user": user})
}

type profileBody struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	AgeGroup         string `json:"ageGroup"`
	DOB              string `json:"dob"`
	AadhaarNumber    string `json:"aadhaarNumber"`
	EmergencyContact string `json:"emergencyContact"`
}

func (h UsersHandler) UpdateProfile(c *gin.Context) {
	var body profileBody
	if !BindJSONOrError(c, &body) {
		return
	}

	user, err := h.Users.UpdateProfile(middleware.GetPhoneNumber(c), models.User{
		Name:             body.Name,
		Email:            body.Email,
		AgeGroup:         body.AgeGroup,
		DOB:              body.DOB,
		AadhaarNumber:    body.AadhaarNumber,
		EmergencyContact: body.EmergencyContact,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"user": user})
}

func (h UsersHandler) UpdatePreferences(c *gin.Context) {
	var body models.Preferences
	if !BindJSONOrError(c, &body) {
		return
	}

	user, err := h.Users.UpdatePreferences(middleware.GetPhoneNumber(c), body)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"user": user})
}

func (h UsersHandler) UpdateVerification(c *gin.Context) {
	var body models.Verification
	if !BindJSONOrError(c, &body) {
		return
	}

	user, err := h.Users.UpdateVerification(middleware.GetPhoneNumber(c), body)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	OK(c, gin.H{"user": user})
}

// UploadPhoto stores the profile photo on local disk and records its served
// URL. Object storage stays an external concern.
func (h UsersHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		RespondValidation(c, domain.CodeInvalidInput, "Photo file is required (multipart field 'photo').")
		return
	}
	if file.Size > maxPhotoBytes {
		RespondValidation(c, domain.CodeInvalidInput, "Photo must be 5MB or smaller.")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPhotoExts[ext] {
		RespondValidation(c, domain.CodeInvalidInput, "Photo must be JPEG, PNG, WEBP or HEIC.")
		return
	}

	if err := os.MkdirAll(h.UploadsDir, 0o755); err != nil {
		RespondAPIError(c, domain.NewAPIError(domain.CodeInternal, "Failed to store photo.", http.StatusInternalServerError))
		return
	}

	filename := fmt.Sprintf("photo-%s%s", uuid.NewString(), ext)
	dst := filepath.Join(h.UploadsDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		RespondAPIError(c, domain.NewAPIError(domain.CodeInternal, "Failed to store photo.", http.StatusInternalServerError))
		return
	}

	photoURL := "/uploads/" + filename
	user, err := h.Users.UpdatePhoto(middleware.GetPhoneNumber(c), photoURL)
	if err != nil {
		RespondAPIError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "users", "photo_upload", "file="+filename)
	OK(c, gin.H{"user": user, "photoUrl": photoURL})
}
