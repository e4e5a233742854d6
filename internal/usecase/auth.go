package usecase

import (
	"context"
	"time"

	"github.com/quimipool/quimipool/infrastructure/service/logger"
	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/ports"
)

const employeesTable = "employees"

// LoginResult carries the issued token and the authenticated employee.
type LoginResult struct {
	Token    string           `json:"token"`
	Employee *domain.Employee `json:"employee"`
}

// AuthUseCase implements the login/logout flow that feeds the LOGIN and
// LOGOUT audit actions. Authorization beyond authentication is out of
// scope; the UI layer decides what a role may see.
type AuthUseCase struct {
	directory ports.EmployeeDirectory
	passwords ports.PasswordService
	tokens    ports.TokenService
	limiter   ports.RateLimiter
	recorder  *AuditRecorder
	logger    logger.Logger

	loginAttempts int
	loginWindow   time.Duration
}

// NewAuthUseCase wires the auth flow.
func NewAuthUseCase(
	directory ports.EmployeeDirectory,
	passwords ports.PasswordService,
	tokens ports.TokenService,
	limiter ports.RateLimiter,
	recorder *AuditRecorder,
	log logger.Logger,
	loginAttempts int,
	loginWindow time.Duration,
) *AuthUseCase {
	if loginAttempts <= 0 {
		loginAttempts = 10
	}
	if loginWindow <= 0 {
		loginWindow = 15 * time.Minute
	}
	return &AuthUseCase{
		directory:     directory,
		passwords:     passwords,
		tokens:        tokens,
		limiter:       limiter,
		recorder:      recorder,
		logger:        log,
		loginAttempts: loginAttempts,
		loginWindow:   loginWindow,
	}
}

// Login verifies an employee's credentials, issues an access token and
// writes a LOGIN audit entry. Attempts are rate limited per client IP.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if ip := domain.ClientIPFrom(ctx); ip != "" && uc.limiter != nil {
		allowed, err := uc.limiter.Allow(ctx, "login:"+ip, uc.loginAttempts, uc.loginWindow)
		if err != nil {
			// Rate limiting is advisory; a broken limiter must not lock
			// everyone out.
			uc.logger.Warn(ctx, "rate limiter unavailable", map[string]interface{}{"error": err.Error()})
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	employee, err := uc.directory.FindByEmail(ctx, email)
	if err != nil {
		uc.logFailedLogin(ctx, email, domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}
	if !employee.Active {
		uc.logFailedLogin(ctx, email, domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := uc.passwords.Verify(password, employee.PasswordHash)
	if err != nil || !ok {
		uc.logFailedLogin(ctx, email, domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.Generate(domain.Principal{ExternalID: employee.ID, Email: employee.Email})
	if err != nil {
		return nil, err
	}

	actor := employee.Actor()
	uc.recorder.Log(ctx, LogInput{
		TableName: employeesTable,
		RecordID:  employee.ID,
		Action:    domain.AuditActionLogin,
		Actor:     &actor,
		Metadata:  successMetadata("login"),
	})

	return &LoginResult{Token: token, Employee: employee}, nil
}

// Logout writes a LOGOUT audit entry for the current principal. Token
// invalidation is the client's responsibility (tokens are short lived).
func (uc *AuthUseCase) Logout(ctx context.Context) {
	var actor *domain.Actor
	var recordID string

	if p := domain.PrincipalFrom(ctx); p != nil {
		if employee, err := uc.directory.FindByEmail(ctx, p.Email); err == nil {
			a := employee.Actor()
			actor = &a
			recordID = employee.ID
		} else {
			a := domain.AnonymousActor(p.Email, p.ExternalID)
			actor = &a
		}
	}

	uc.recorder.Log(ctx, LogInput{
		TableName: employeesTable,
		RecordID:  recordID,
		Action:    domain.AuditActionLogout,
		Actor:     actor,
		Metadata:  successMetadata("logout"),
	})
}

func (uc *AuthUseCase) logFailedLogin(ctx context.Context, email string, cause error) {
	actor := domain.AnonymousActor(email, "")
	uc.recorder.Log(ctx, LogInput{
		TableName: employeesTable,
		Action:    domain.AuditActionLogin,
		Actor:     &actor,
		Metadata: map[string]interface{}{
			domain.MetaSuccess:   false,
			domain.MetaError:     cause.Error(),
			domain.MetaOperation: "login",
		},
	})
}
