package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned by InitFirebase when no credentials path is set.
var ErrNotConfigured = errors.New("firebase credentials path not provided")

// TokenVerifier is the part of *auth.Client the sign-in handler needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// App holds the initialized Firebase app and auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, ErrNotConfigured
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	logrus.Info("Firebase app and auth client initialized successfully!")
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}

// EmailFromToken returns the verified email claim of an ID token.
func EmailFromToken(token *auth.Token) (string, bool) {
	if token == nil {
		return "", false
	}
	email, ok := token.Claims["email"].(string)
	if !ok || email == "" {
		return "", false
	}
	verified, _ := token.Claims["email_verified"].(bool)
	return email, verified
}
