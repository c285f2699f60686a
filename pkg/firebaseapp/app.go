package firebaseapp

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// NewApp initialises the Firebase Admin SDK for a project. An empty
// credentialsFile falls back to application default credentials.
func NewApp(ctx context.Context, projectID, credentialsFile string) (*firebase.App, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	return app, nil
}

// ClientOptions returns the options used for non-Firebase Google clients
// (Pub/Sub) so they authenticate the same way as the app.
func ClientOptions(credentialsFile string) []option.ClientOption {
	if credentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}
}
