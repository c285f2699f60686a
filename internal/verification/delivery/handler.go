package delivery

import (
	"github.com/gin-gonic/gin"

	"rideshare-functions/internal/verification/dto"
	"rideshare-functions/internal/verification/usecase"
	"rideshare-functions/pkg/callable"
)

type VerificationHandler struct {
	verificationUsecase usecase.VerificationUsecase
}

func NewVerificationHandler(verificationUsecase usecase.VerificationUsecase) *VerificationHandler {
	return &VerificationHandler{verificationUsecase: verificationUsecase}
}

// VerifyInstitutionEmail handles the verifyByuiEmail callable
// POST /api/callable/verifyByuiEmail
func (h *VerificationHandler) VerifyInstitutionEmail(c *gin.Context) {
	var req dto.VerifyInstitutionEmailRequest
	if err := callable.BindData(c, &req); err != nil {
		callable.WriteError(c, err)
		return
	}

	resp, err := h.verificationUsecase.VerifyInstitutionEmail(c.Request.Context(), c.GetString(callerUIDKey), &req)
	if err != nil {
		callable.WriteError(c, err)
		return
	}

	callable.WriteResult(c, resp)
}
