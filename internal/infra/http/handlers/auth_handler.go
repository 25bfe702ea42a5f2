package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/thelocaljewel/backend/internal/infra/http/middleware"
	"github.com/thelocaljewel/backend/internal/usecase"
)

type AuthHandler struct {
	OTP    *usecase.OTPUseCase
	Logger *zap.Logger

	// ExposeDevCode returns the raw code in the response for environments
	// without a delivery channel. Never enable in production.
	ExposeDevCode bool
}

func NewAuthHandler(otp *usecase.OTPUseCase, logger *zap.Logger, exposeDevCode bool) *AuthHandler {
	return &AuthHandler{OTP: otp, Logger: logger, ExposeDevCode: exposeDevCode}
}

type otpRequest struct {
	Identifier string `json:"identifier"`
}

type otpVerifyRequest struct {
	Identifier string `json:"identifier"`
	OTPCode    string `json:"otp_code"`
}

func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}

	code, err := h.OTP.RequestCode(r.Context(), req.Identifier)
	if err != nil {
		middleware.RecordOTP("request", "error")
		writeError(w, err)
		return
	}
	middleware.RecordOTP("request", "ok")

	// Delivery is an external concern; in dev the code is logged instead.
	h.Logger.Info("otp code ready for delivery", zap.String("identifier", req.Identifier))

	resp := map[string]string{
		"status":  "sent",
		"message": "OTP sent to your email/phone",
	}
	if h.ExposeDevCode {
		resp["otp_dev"] = code
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}

	output, err := h.OTP.VerifyCode(r.Context(), req.Identifier, req.OTPCode)
	if err != nil {
		middleware.RecordOTP("verify", "error")
		writeError(w, err)
		return
	}

	middleware.RecordOTP("verify", "ok")
	writeJSON(w, http.StatusOK, output)
}
