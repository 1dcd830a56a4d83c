package http

import (
	"log/slog"
	"net/http"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hris/dayflow-backend/internal/handler/http/response"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/requestctx"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	accountService auth.AccountService
}

func NewAuthHandler(accountService auth.AccountService) AuthHandler {
	return &AuthHandlerImpl{
		accountService: accountService,
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if !decodeJSON(w, r, &loginReq, "Login") {
		return
	}

	// Validate DTO
	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	token, err := a.accountService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Login failed", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", token)
}

// ChangePassword implements AuthHandler.
func (a *AuthHandlerImpl) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestctx.GetIdentity(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrUnauthenticated)
		return
	}

	var changeReq auth.ChangePasswordRequest
	if !decodeJSON(w, r, &changeReq, "ChangePassword") {
		return
	}

	if err := changeReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.accountService.ChangePassword(r.Context(), identity.UID, changeReq); err != nil {
		slog.Error("ChangePassword service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Password changed", "uid", identity.UID)
	response.SuccessWithMessage(w, "Password changed successfully", nil)
}
