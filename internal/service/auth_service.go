package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zenwiki/zenwiki-backend/internal/common"
	"github.com/zenwiki/zenwiki-backend/internal/config"
	"github.com/zenwiki/zenwiki-backend/internal/domain"
	"github.com/zenwiki/zenwiki-backend/internal/repository"
	"github.com/zenwiki/zenwiki-backend/pkg/jwt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// Discord OAuth2 endpoints (x/oauth2 has no discord preset)
var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/api/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

const discordUserInfoURL = "https://discord.com/api/users/@me"

// discordUser is the portion of the Discord /users/@me response we use
type discordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// LoginResult is what a completed OAuth callback produces
type LoginResult struct {
	Token string
	User  *domain.User
}

// AuthService handles the Discord login flow, role resolution, and
// session token issuance.
type AuthService struct {
	users       repository.UserRepository
	jwtManager  *jwt.Manager
	oauth       *oauth2.Config
	userInfoURL string
	adminIDs    map[string]bool
	editorIDs   map[string]bool
}

// NewAuthService creates an AuthService from the Discord configuration
func NewAuthService(users repository.UserRepository, jwtManager *jwt.Manager, cfg config.DiscordConfig) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"identify"},
			Endpoint:     discordEndpoint,
		},
		userInfoURL: discordUserInfoURL,
		adminIDs:    toSet(cfg.AdminIDs),
		editorIDs:   toSet(cfg.EditorIDs),
	}
}

// AuthURL returns the Discord authorization URL for the given state
func (s *AuthService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, fetches the Discord
// profile, upserts the user (refreshing role and login metadata), and
// issues a session token.
func (s *AuthService) HandleCallback(ctx context.Context, code, ipAddress, userAgent string) (*LoginResult, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	role := s.resolveRole(profile.ID)
	avatarURL := ""
	if profile.Avatar != "" {
		avatarURL = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", profile.ID, profile.Avatar)
	}

	user, err := s.users.FindByDiscordID(profile.ID)
	switch {
	case err == nil:
		user.Username = profile.Username
		user.AvatarURL = avatarURL
		user.Role = role
		user.LastLogin = time.Now().UTC()
		user.IPAddress = ipAddress
		user.UserAgent = userAgent
		if err := s.users.Update(user); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &domain.User{
			DiscordID: profile.ID,
			Username:  profile.Username,
			AvatarURL: avatarURL,
			Role:      role,
			LastLogin: time.Now().UTC(),
			IPAddress: ipAddress,
			UserAgent: userAgent,
		}
		if err := s.users.Create(user); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	sessionToken, err := s.jwtManager.GenerateToken(user.ID, user.DiscordID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: sessionToken, User: user}, nil
}

// CurrentUser loads the account behind a validated session token
func (s *AuthService) CurrentUser(userID int64) (*domain.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// fetchProfile calls the Discord identity endpoint with the OAuth token
func (s *AuthService) fetchProfile(ctx context.Context, token *oauth2.Token) (*discordUser, error) {
	client := s.oauth.Client(ctx, token)

	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: calling Discord identity API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: Discord identity API returned status %d", resp.StatusCode)
	}

	var profile discordUser
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("auth: decoding Discord identity response: %w", err)
	}
	if profile.ID == "" {
		return nil, errors.New("auth: Discord returned an empty user id")
	}
	return &profile, nil
}

// resolveRole maps a Discord ID onto the three-tier role model using
// the configured ID lists; everyone else is a viewer.
func (s *AuthService) resolveRole(discordID string) domain.Role {
	switch {
	case s.adminIDs[discordID]:
		return domain.RoleAdmin
	case s.editorIDs[discordID]:
		return domain.RoleEditor
	default:
		return domain.RoleViewer
	}
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
