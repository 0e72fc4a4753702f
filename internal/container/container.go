package container

import (
	"codeassist-be/internal/config"
	"codeassist-be/internal/repository"
	"codeassist-be/internal/service"
	"codeassist-be/internal/service/auth"
	"codeassist-be/internal/service/lint"
	"codeassist-be/internal/service/session"
	"codeassist-be/internal/service/suggest"
	"codeassist-be/pkg/logger"
	"codeassist-be/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	config   *config.Config
	logger   *logger.Logger
	profiles repository.ProfileRepository
	services *service.Services
}

// New creates a dependency container. The identity provider and profile
// repository are built by the caller because they own the underlying
// clients' lifecycles; redisClient may be nil, which disables caching.
func New(
	cfg *config.Config,
	log *logger.Logger,
	identity service.IdentityProvider,
	profiles repository.ProfileRepository,
	redisClient *redis.Client,
) *Container {
	sessionService := session.NewService(cfg.JWTSecret, cfg.JWTExpiresIn, log)
	authService := auth.NewService(identity, profiles, sessionService, log)
	lintService := lint.NewService(redisClient, log)
	suggestionService := suggest.NewService(cfg, log)

	if redisClient == nil {
		log.Warn("Redis not configured, proceeding without lint caching")
	}

	return &Container{
		config:   cfg,
		logger:   log,
		profiles: profiles,
		services: &service.Services{
			Session:    sessionService,
			Auth:       authService,
			Lint:       lintService,
			Suggestion: suggestionService,
		},
	}
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.logger
}

// GetSessionService returns the session token service
func (c *Container) GetSessionService() service.SessionService {
	return c.services.Session
}

// GetAuthService returns the auth service
func (c *Container) GetAuthService() service.AuthService {
	return c.services.Auth
}

// GetLintService returns the lint service
func (c *Container) GetLintService() service.LintService {
	return c.services.Lint
}

// GetSuggestionService returns the suggestion service
func (c *Container) GetSuggestionService() service.SuggestionService {
	return c.services.Suggestion
}

// GetProfileRepository returns the profile repository
func (c *Container) GetProfileRepository() repository.ProfileRepository {
	return c.profiles
}
