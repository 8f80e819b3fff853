package oauth

import (
	"context"
	"fmt"
	"time"

	"flightsync-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Scopes needed to upsert calendar events and rewrite sheet rows
var Scopes = []string{calendar.CalendarEventsScope, sheets.SpreadsheetsScope}

// GoogleOAuth handles OAuth authentication with the Google APIs
type GoogleOAuth struct {
	config       *oauth2.Config
	refreshToken string
	logger       logger.Logger
}

// NewGoogleOAuth creates a new Google OAuth handler
func NewGoogleOAuth(clientID, clientSecret, refreshToken string, logger logger.Logger) *GoogleOAuth {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       Scopes,
	}

	return &GoogleOAuth{
		config:       config,
		refreshToken: refreshToken,
		logger:       logger,
	}
}

// GetTokenSource returns a token source that refreshes from the stored refresh token
func (o *GoogleOAuth) GetTokenSource(ctx context.Context) oauth2.TokenSource {
	token := &oauth2.Token{
		RefreshToken: o.refreshToken,
		Expiry:       time.Now(), // Force refresh
	}

	return o.config.TokenSource(ctx, token)
}

// ClientOptions picks the credentials for the Google clients: a service account or
// authorized user JSON file when given, otherwise the OAuth refresh token
func ClientOptions(ctx context.Context, credentialsFile, clientID, clientSecret, refreshToken string, logger logger.Logger) ([]option.ClientOption, error) {
	if credentialsFile != "" {
		logger.Info("Using Google credentials file", "path", credentialsFile)
		return []option.ClientOption{
			option.WithCredentialsFile(credentialsFile),
			option.WithScopes(Scopes...),
		}, nil
	}
	if refreshToken == "" || clientID == "" {
		return nil, fmt.Errorf("google credentials missing: set GOOGLE_CREDENTIALS_FILE or the OAuth client and refresh token")
	}
	logger.Info("Using Google OAuth refresh token")
	tokenSource := NewGoogleOAuth(clientID, clientSecret, refreshToken, logger).GetTokenSource(ctx)
	return []option.ClientOption{option.WithTokenSource(tokenSource)}, nil
}
