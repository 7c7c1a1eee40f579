// Package firebase builds the Firebase Auth client used to exchange Firebase
// ID tokens for local sessions.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var ErrNoCredentials = errors.New("firebase: credentials path is empty")

// NewAuthClient loads the service account at credentialsPath and returns an
// auth client. Only VerifyIDToken is used by the server.
func NewAuthClient(ctx context.Context, credentialsPath string, log *zap.Logger) (*auth.Client, error) {
	if credentialsPath == "" {
		return nil, ErrNoCredentials
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("firebase: credentials: %w", err)
	}

	app, err := fb.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("firebase: new app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: auth client: %w", err)
	}
	log.Info("firebase auth ready", zap.String("credentials", credentialsPath))
	return client, nil
}
