package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/touristique/touristique/internal/app/models"
	"github.com/touristique/touristique/internal/pkg/config"
)

const (
	googleProviderName = "google"
	googleScriptSrc    = "https://accounts.google.com/gsi/client"
	googleRevokeURL    = "https://oauth2.googleapis.com/revoke"
)

// Provider is the external identity collaborator used by the session service.
type Provider interface {
	// Init prepares the provider for sign-in. It is idempotent and safe for
	// concurrent callers; repeated calls while initialized are no-ops.
	Init(ctx context.Context) error
	Name() string
	// Revoke invalidates the provider-side session. Best effort.
	Revoke(ctx context.Context, credential string) error
	// ScriptSrc is the client-side script the sign-in pages embed.
	ScriptSrc() string
	ClientID() string
	UseFedCM() bool
}

var _ Provider = (*GoogleProvider)(nil)

// GoogleProvider wraps Google Identity Services. Initialization happens at
// most once per process; concurrent callers share one in-flight attempt
// through the singleflight group.
type GoogleProvider struct {
	logger *zap.Logger
	cfg    config.GoogleConfig
	client *http.Client

	initGroup   singleflight.Group
	initialized atomic.Bool
}

func NewGoogleProvider(cfg config.GoogleConfig, logger *zap.Logger) *GoogleProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleProvider{
		logger: logger,
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *GoogleProvider) Name() string      { return googleProviderName }
func (p *GoogleProvider) ScriptSrc() string { return googleScriptSrc }
func (p *GoogleProvider) ClientID() string  { return p.cfg.ClientID }
func (p *GoogleProvider) UseFedCM() bool    { return p.cfg.UseFedCM }

// Init validates configuration once. A missing client ID disables sign-in.
func (p *GoogleProvider) Init(ctx context.Context) error {
	if p.initialized.Load() {
		return nil
	}

	_, err, _ := p.initGroup.Do("init", func() (any, error) {
		if p.initialized.Load() {
			return nil, nil
		}
		if p.cfg.ClientID == "" {
			p.logger.Warn("Missing GOOGLE_CLIENT_ID, sign-in is disabled")
			return nil, models.ErrProviderMissing
		}
		p.logger.Info("Identity provider initialized",
			zap.String("provider", googleProviderName),
			zap.Bool("fedcm", p.cfg.UseFedCM))
		p.initialized.Store(true)
		return nil, nil
	})
	return err
}

// Revoke calls the provider's revocation endpoint with the credential.
func (p *GoogleProvider) Revoke(ctx context.Context, credential string) error {
	form := url.Values{"token": {credential}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleRevokeURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("revoke request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("revoke endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
