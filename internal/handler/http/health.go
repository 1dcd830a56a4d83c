package http

import (
	"net/http"

	"github.com/dayflow-hris/dayflow-backend/internal/handler/http/response"
)

type healthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, healthStatus{Status: "ok", Message: "Dayflow Backend is running"})
}
