package usecase

import (
	"context"
	"sync"

	"github.com/quimipool/quimipool/infrastructure/service/logger"
	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/ports"
)

// ActorResolver maps the authenticated principal to a domain actor by
// consulting the employee directory. Resolution runs at most once per
// instance and the result is cached for the instance lifetime; any failure
// degrades to an anonymous actor and is never surfaced to callers.
type ActorResolver struct {
	auth      ports.AuthProvider
	directory ports.EmployeeDirectory
	logger    logger.Logger

	once  sync.Once
	actor domain.Actor
}

// NewActorResolver creates an actor resolver. Nothing is resolved until
// the first call to Resolve.
func NewActorResolver(auth ports.AuthProvider, directory ports.EmployeeDirectory, log logger.Logger) *ActorResolver {
	return &ActorResolver{
		auth:      auth,
		directory: directory,
		logger:    log,
	}
}

// Resolve returns the cached actor, performing the single lazy resolution
// attempt on first use. It never returns an error.
func (r *ActorResolver) Resolve(ctx context.Context) domain.Actor {
	r.once.Do(func() {
		r.actor = r.resolve(ctx)
	})
	return r.actor
}

func (r *ActorResolver) resolve(ctx context.Context) domain.Actor {
	principal, err := r.auth.CurrentPrincipal(ctx)
	if err != nil {
		r.logger.Warn(ctx, "actor resolution: auth collaborator unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return domain.AnonymousActor("", "")
	}
	if principal == nil {
		return domain.AnonymousActor("", "")
	}

	if principal.Email == "" {
		return domain.AnonymousActor("", principal.ExternalID)
	}

	employee, err := r.directory.FindByEmail(ctx, principal.Email)
	if err != nil {
		if !domain.IsNotFound(err) {
			r.logger.Warn(ctx, "actor resolution: directory lookup failed", map[string]interface{}{
				"email": principal.Email,
				"error": err.Error(),
			})
		}
		return domain.AnonymousActor(principal.Email, principal.ExternalID)
	}

	return employee.Actor()
}
