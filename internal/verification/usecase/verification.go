package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	userdomain "rideshare-functions/internal/user/domain"
	userrepo "rideshare-functions/internal/user/repository"
	"rideshare-functions/internal/verification/dto"
	"rideshare-functions/pkg/callable"
	"rideshare-functions/pkg/identity"
	"rideshare-functions/pkg/metrics"
)

// VerificationUsecase binds an institution email to the caller's account
type VerificationUsecase interface {
	// VerifyInstitutionEmail requires the caller's uid plus an ID token from a
	// second session proving control of the claimed address.
	VerifyInstitutionEmail(ctx context.Context, callerUID string, req *dto.VerifyInstitutionEmailRequest) (*dto.VerifyInstitutionEmailResponse, error)
}

type verificationUsecase struct {
	profiles     userrepo.ProfileRepository
	identity     identity.Service
	emailPattern *regexp.Regexp
	domain       string
	logger       *slog.Logger
}

// NewVerificationUsecase creates a usecase accepting addresses at domain (e.g. byui.edu)
func NewVerificationUsecase(profiles userrepo.ProfileRepository, identitySvc identity.Service, domain string, logger *slog.Logger) VerificationUsecase {
	domain = strings.ToLower(strings.TrimSpace(domain))
	return &verificationUsecase{
		profiles:     profiles,
		identity:     identitySvc,
		emailPattern: regexp.MustCompile(`^[a-z0-9._%+\-]+@` + regexp.QuoteMeta(domain) + `$`),
		domain:       domain,
		logger:       logger.With("component", "institution_verification"),
	}
}

func (u *verificationUsecase) VerifyInstitutionEmail(ctx context.Context, callerUID string, req *dto.VerifyInstitutionEmailRequest) (*dto.VerifyInstitutionEmailResponse, error) {
	log := u.logger.With("invocation_id", uuid.New().String(), "uid", callerUID)

	resp, err := u.verify(ctx, log, callerUID, req)
	if err != nil {
		code := callable.CodeOf(err)
		metrics.Verifications.WithLabelValues(string(code)).Inc()
		log.Warn("institution email verification rejected", "code", code, "error", err)
		return nil, err
	}
	metrics.Verifications.WithLabelValues("verified").Inc()
	log.Info("institution email verified", "email", resp.Email)
	return resp, nil
}

func (u *verificationUsecase) verify(ctx context.Context, log *slog.Logger, callerUID string, req *dto.VerifyInstitutionEmailRequest) (*dto.VerifyInstitutionEmailResponse, error) {
	if callerUID == "" {
		return nil, callable.NewError(callable.Unauthenticated, "You must be signed in to verify an email address.")
	}
	if req == nil {
		req = &dto.VerifyInstitutionEmailRequest{}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !u.emailPattern.MatchString(email) {
		return nil, callable.NewError(callable.InvalidArgument, fmt.Sprintf("Please provide a valid @%s email address.", u.domain))
	}

	secondary := strings.TrimSpace(req.SecondaryIDToken)
	if secondary == "" {
		return nil, callable.NewError(callable.InvalidArgument, "A sign-in token for the email address is required.")
	}

	token, err := u.identity.VerifySessionToken(ctx, secondary)
	if err != nil {
		log.Debug("secondary token rejected", "error", err)
		return nil, callable.NewError(callable.PermissionDenied, "The email sign-in link is invalid or has expired.")
	}
	if !strings.EqualFold(strings.TrimSpace(token.Email), email) {
		return nil, callable.NewError(callable.PermissionDenied, "The email sign-in link does not belong to this email address.")
	}

	if err := u.profiles.MarkInstitutionVerified(ctx, callerUID, email); err != nil {
		log.Error("failed to persist verification", "error", err)
		return nil, callable.NewError(callable.Internal, "Could not save the verification.")
	}

	claims, err := u.identity.CustomClaims(ctx, callerUID)
	if err != nil {
		log.Error("failed to read custom claims", "error", err)
		return nil, callable.NewError(callable.Internal, "Could not update account permissions.")
	}
	if claims == nil {
		claims = make(map[string]interface{})
	}
	claims[userdomain.ClaimInstitutionVerified] = true
	if err := u.identity.SetCustomClaims(ctx, callerUID, claims); err != nil {
		log.Error("failed to write custom claims", "error", err)
		return nil, callable.NewError(callable.Internal, "Could not update account permissions.")
	}

	return &dto.VerifyInstitutionEmailResponse{Success: true, Email: email}, nil
}
