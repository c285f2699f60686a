package repository

import (
	"context"
	"fmt"
	"time"

	userdomain "rideshare-functions/internal/user/domain"
	"rideshare-functions/pkg/docstore"
)

// ProfileRepository defines the operations on users/{uid} documents
type ProfileRepository interface {
	// FindByID returns nil, nil when the profile does not exist
	FindByID(ctx context.Context, uid string) (*userdomain.Profile, error)

	// ClearPushToken removes the stored device token
	ClearPushToken(ctx context.Context, uid string) error

	// MarkInstitutionVerified merges the verified institution email onto the
	// profile, leaving unrelated fields untouched
	MarkInstitutionVerified(ctx context.Context, uid, email string) error
}

// profileRepository implements ProfileRepository on a document store
type profileRepository struct {
	store docstore.Store
}

// NewProfileRepository creates a new instance of profileRepository
func NewProfileRepository(store docstore.Store) ProfileRepository {
	return &profileRepository{store: store}
}

func (r *profileRepository) FindByID(ctx context.Context, uid string) (*userdomain.Profile, error) {
	doc, err := r.store.Get(ctx, userdomain.UsersCollection, uid)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	profile := &userdomain.Profile{ID: doc.ID}
	profile.FCMToken, _ = doc.Data[userdomain.FieldFCMToken].(string)
	profile.InstitutionEmail, _ = doc.Data[userdomain.FieldInstitutionEmail].(string)
	profile.InstitutionVerified, _ = doc.Data[userdomain.FieldInstitutionVerified].(bool)
	if at, ok := doc.Data[userdomain.FieldInstitutionVerifiedAt].(time.Time); ok {
		profile.InstitutionVerifiedAt = &at
	}
	return profile, nil
}

func (r *profileRepository) ClearPushToken(ctx context.Context, uid string) error {
	err := r.store.Update(ctx, userdomain.UsersCollection, uid, map[string]interface{}{
		userdomain.FieldFCMToken: docstore.Delete,
	})
	if err != nil {
		return fmt.Errorf("clear push token for %s: %w", uid, err)
	}
	return nil
}

func (r *profileRepository) MarkInstitutionVerified(ctx context.Context, uid, email string) error {
	err := r.store.Set(ctx, userdomain.UsersCollection, uid, map[string]interface{}{
		userdomain.FieldInstitutionEmail:      email,
		userdomain.FieldInstitutionVerified:   true,
		userdomain.FieldInstitutionVerifiedAt: docstore.ServerTimestamp,
	}, true)
	if err != nil {
		return fmt.Errorf("mark institution verified for %s: %w", uid, err)
	}
	return nil
}
