package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	cldapi "github.com/cloudinary/cloudinary-go/v2/api"

	"github.com/mentorlink/mentorlink-api/config"
)

// CloudinaryHandler handles Cloudinary related requests
type CloudinaryHandler struct{}

// GenerateSignature generates a signature for Cloudinary uploads, used by
// clients attaching files to team chat messages.
func (c CloudinaryHandler) GenerateSignature(w http.ResponseWriter, r *http.Request) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	uploadPreset := os.Getenv("CLOUDINARY_UPLOAD_PRESET")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	signature, err := cldapi.SignParameters(url.Values{
		"timestamp":     {timestamp},
		"upload_preset": {uploadPreset},
	}, apiSecret)
	if err != nil {
		config.ErrorStatus("failed to sign upload parameters", http.StatusInternalServerError, w, err)
		return
	}

	response := map[string]string{
		"timestamp": timestamp,
		"signature": signature,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
