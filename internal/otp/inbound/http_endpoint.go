package inbound

import (
	"otpgate/internal/otp/usecase"
	"otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the one-time code workflows.
type HTTPEndpoint struct {
	uc uc
}

// Generate issues a one-time code bound to a key.
// @Summary Issue one-time code
// @Description Generates a 6-digit code for the key. Fails with a conflict when the key already has an outstanding code.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Generate payload"
// @Success 200 {object} router.successResponse{data=GenerateResponse} "Issued code"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Key already has an outstanding code"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/generate [post]
func (h *HTTPEndpoint) Generate(r *router.Request) (any, error) {
	var req GenerateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Generate(r.Context(), usecase.GenerateInput{
		Key: req.Key,
	})
	if err != nil {
		return nil, err
	}

	return GenerateResponse{
		Code:             resp.Code,
		ExpiresInSeconds: int64(resp.ExpiresIn.Seconds()),
	}, nil
}

// Verify checks a candidate code against the key's outstanding record.
// @Summary Verify one-time code
// @Description Consumes the key's outstanding code and reports whether the candidate matched. Wrong, expired, and unknown are indistinguishable.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=VerifyResponse} "Verification result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		Key:  req.Key,
		Code: req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{Valid: resp.Valid}, nil
}
