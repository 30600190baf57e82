package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"quiz-hub/internal/config"
	"quiz-hub/internal/domain"
	"quiz-hub/internal/dto"
	"quiz-hub/internal/logger"
	"quiz-hub/internal/port"
	"quiz-hub/internal/util"
	"quiz-hub/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	otpDigits            = 6
	signupPendingMessage = "verification pending"
)

// AuthService gates password login behind email verification and issues bearer tokens.
type AuthService interface {
	RequestSignup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	VerifyCode(ctx context.Context, email, code string) error
	ResendCode(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*dto.LoginResponse, error)
	LoginWithFederatedIdentity(ctx context.Context, providerToken string) (*dto.LoginResponse, error)
	GoogleLoginURL(state string) (string, error)
	CompleteGoogleLogin(ctx context.Context, code string) (*dto.LoginResponse, error)
	// AuthenticateRequest returns the account id bound to a bearer token.
	AuthenticateRequest(ctx context.Context, bearerToken string) (string, error)
}

// AuthDeps are the collaborators of the auth service. Limiter and Exchanger are optional.
type AuthDeps struct {
	Accounts  domain.AccountRepository
	Hasher    PasswordHasher
	Notifier  port.NotificationSender
	Verifier  port.IdentityVerifier
	Exchanger port.OAuthCodeExchanger
	Limiter   AttemptLimiter
}

type authServiceImpl struct {
	accounts  domain.AccountRepository
	hasher    PasswordHasher
	notifier  port.NotificationSender
	verifier  port.IdentityVerifier
	exchanger port.OAuthCodeExchanger
	limiter   AttemptLimiter
	validator *validation.Validator
	jwtCfg    config.JWTConfig
	otpCfg    config.OTPConfig
	now       func() time.Time
	newCode   func() (string, error)
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(deps AuthDeps, authCfg config.AuthConfig, otpCfg config.OTPConfig) (AuthService, error) {
	if authCfg.JWT.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	if deps.Accounts == nil || deps.Hasher == nil || deps.Notifier == nil {
		return nil, errors.New("auth service requires an account repository, a password hasher and a notification sender")
	}
	if otpCfg.TTL <= 0 {
		otpCfg.TTL = 10 * time.Minute
	}
	return &authServiceImpl{
		accounts:  deps.Accounts,
		hasher:    deps.Hasher,
		notifier:  deps.Notifier,
		verifier:  deps.Verifier,
		exchanger: deps.Exchanger,
		limiter:   deps.Limiter,
		validator: validation.NewValidator(),
		jwtCfg:    authCfg.JWT,
		otpCfg:    otpCfg,
		now:       time.Now,
		newCode:   func() (string, error) { return util.NumericCode(otpDigits) },
	}, nil
}

func (s *authServiceImpl) RequestSignup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	appLogger := logger.Get()
	username := strings.TrimSpace(req.Username)
	email := validation.NormalizeEmail(req.Email)

	if errs := s.validator.ValidateSignup(username, email, req.Password); len(errs) > 0 {
		return nil, errs
	}

	existing, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewTransientError("Failed to look up account", err)
	}
	if existing != nil {
		return nil, domain.NewConflictError("User already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, domain.NewInternalError("Failed to hash password", err)
	}
	code, err := s.issueCode()
	if err != nil {
		return nil, err
	}

	account := domain.NewLocalAccount(username, email, hash, code, s.now())
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, translateCreateError(err)
	}
	appLogger.Info("Account created, verification pending", zap.String("accountID", account.ID), zap.String("email", email))

	if err := s.notifier.SendVerificationCode(ctx, email, code.Value); err != nil {
		appLogger.Error("Failed to deliver verification code", zap.String("email", email), zap.Error(err))
		return nil, domain.NewTransientError("Failed to send verification email, please request a new code", err)
	}

	return &dto.SignupResponse{Message: signupPendingMessage, Email: email}, nil
}

func (s *authServiceImpl) VerifyCode(ctx context.Context, email, code string) error {
	appLogger := logger.Get()
	email = validation.NormalizeEmail(email)
	code = strings.TrimSpace(code)

	if errs := s.validator.ValidateVerifyCode(email, code); len(errs) > 0 {
		return errs
	}
	if s.limiter != nil {
		ok, err := s.limiter.AllowVerify(ctx, email)
		if err := limitError(ok, err, "Too many verification attempts, please try again later"); err != nil {
			return err
		}
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return domain.NewTransientError("Failed to look up account", err)
	}
	if account == nil || account.OTP == nil {
		return domain.NewNotFoundError("No pending verification for this email")
	}

	now := s.now()
	if account.OTP.Expired(now) {
		account.ClearCode(now)
		if err := s.accounts.UpdateAccount(ctx, account); err != nil {
			appLogger.Warn("Failed to clear expired code", zap.String("accountID", account.ID), zap.Error(err))
		}
		return domain.NewInvalidOrExpiredCodeError()
	}
	if !account.OTP.Matches(code, now) {
		return domain.NewInvalidOrExpiredCodeError()
	}

	account.MarkVerified(now)
	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return domain.NewTransientError("Failed to verify account", err)
	}
	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			appLogger.Warn("Failed to reset verification counters", zap.String("email", email), zap.Error(err))
		}
	}

	appLogger.Info("Account verified", zap.String("accountID", account.ID))
	return nil
}

// ResendCode replaces the pending code of an unverified local account and mails it again.
func (s *authServiceImpl) ResendCode(ctx context.Context, email string) error {
	appLogger := logger.Get()
	email = validation.NormalizeEmail(email)

	if errs := s.validator.ValidateEmail(email); len(errs) > 0 {
		return errs
	}
	if s.limiter != nil {
		ok, err := s.limiter.AllowResend(ctx, email)
		if err := limitError(ok, err, "Too many code requests, please try again later"); err != nil {
			return err
		}
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return domain.NewTransientError("Failed to look up account", err)
	}
	if account == nil {
		return domain.NewNotFoundError("No account registered with this email")
	}
	if account.Verified || account.Provider != domain.ProviderLocal {
		return domain.NewConflictError("Account is already verified")
	}

	code, err := s.issueCode()
	if err != nil {
		return err
	}
	account.IssueCode(code, s.now())
	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return domain.NewTransientError("Failed to store new code", err)
	}
	if err := s.notifier.SendVerificationCode(ctx, email, code.Value); err != nil {
		appLogger.Error("Failed to deliver verification code", zap.String("email", email), zap.Error(err))
		return domain.NewTransientError("Failed to send verification email", err)
	}

	appLogger.Info("Verification code re-issued", zap.String("accountID", account.ID))
	return nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	email = validation.NormalizeEmail(email)
	if errs := s.validator.ValidateLogin(email, password); len(errs) > 0 {
		return nil, errs
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewTransientError("Failed to look up account", err)
	}
	if account == nil {
		return nil, domain.NewInvalidCredentialsError()
	}
	if !account.Verified {
		return nil, domain.NewNotVerifiedError()
	}
	if !account.HasPassword() {
		return nil, domain.NewInvalidCredentialsError()
	}
	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		if !errors.Is(err, ErrPasswordMismatch) {
			logger.Get().Warn("Password comparison failed", zap.String("accountID", account.ID), zap.Error(err))
		}
		return nil, domain.NewInvalidCredentialsError()
	}

	logger.Get().Info("User logged in", zap.String("accountID", account.ID))
	return s.loginResponse(account)
}

func (s *authServiceImpl) LoginWithFederatedIdentity(ctx context.Context, providerToken string) (*dto.LoginResponse, error) {
	if strings.TrimSpace(providerToken) == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("token")}
	}
	if s.verifier == nil {
		return nil, domain.NewInternalError("Federated login is not configured", nil)
	}

	identity, err := s.verifier.Verify(ctx, providerToken)
	if err != nil {
		return nil, translateIdentityError(err)
	}
	return s.loginFederated(ctx, identity)
}

func (s *authServiceImpl) GoogleLoginURL(state string) (string, error) {
	if s.exchanger == nil {
		return "", domain.NewInternalError("Federated login is not configured", nil)
	}
	return s.exchanger.AuthCodeURL(state), nil
}

// CompleteGoogleLogin finishes the redirect flow with the authorization code from the callback.
func (s *authServiceImpl) CompleteGoogleLogin(ctx context.Context, code string) (*dto.LoginResponse, error) {
	if s.exchanger == nil {
		return nil, domain.NewInternalError("Federated login is not configured", nil)
	}
	if code == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("code")}
	}
	identity, err := s.exchanger.ExchangeCode(ctx, code)
	if err != nil {
		return nil, translateIdentityError(err)
	}
	return s.loginFederated(ctx, identity)
}

func (s *authServiceImpl) loginFederated(ctx context.Context, identity *port.FederatedIdentity) (*dto.LoginResponse, error) {
	appLogger := logger.Get()
	email := validation.NormalizeEmail(identity.Email)
	if email == "" {
		return nil, domain.NewInvalidTokenError(errors.New("provider returned no email"))
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewTransientError("Failed to look up account", err)
	}
	if account == nil {
		account, err = s.createFederatedAccount(ctx, email, identity)
		if err != nil {
			return nil, err
		}
	}

	appLogger.Info("User logged in via federated identity", zap.String("accountID", account.ID))
	return s.loginResponse(account)
}

var errAccountVanished = errors.New("account vanished after duplicate email")

func (s *authServiceImpl) createFederatedAccount(ctx context.Context, email string, identity *port.FederatedIdentity) (*domain.Account, error) {
	username := deriveUsername(identity.DisplayName, email)
	account := domain.NewFederatedAccount(username, email, identity.DisplayName, identity.ImageURL, s.now())

	err := s.accounts.CreateAccount(ctx, account)
	if errors.Is(err, domain.ErrDuplicateUsername) {
		suffix, codeErr := util.NumericCode(4)
		if codeErr != nil {
			return nil, domain.NewInternalError("Failed to derive username", codeErr)
		}
		account.Username = username + suffix
		err = s.accounts.CreateAccount(ctx, account)
	}
	if errors.Is(err, domain.ErrDuplicateEmail) {
		// Lost a race with a concurrent first login for the same email.
		existing, lookupErr := s.accounts.GetAccountByEmail(ctx, email)
		if lookupErr != nil {
			return nil, domain.NewTransientError("Failed to look up account", lookupErr)
		}
		if existing == nil {
			return nil, domain.NewTransientError("Failed to look up account", errAccountVanished)
		}
		return existing, nil
	}
	if err != nil {
		return nil, translateCreateError(err)
	}

	logger.Get().Info("Federated account created", zap.String("accountID", account.ID), zap.String("email", email))
	return account, nil
}

func (s *authServiceImpl) AuthenticateRequest(ctx context.Context, bearerToken string) (string, error) {
	bearerToken = strings.TrimSpace(bearerToken)
	if bearerToken == "" {
		return "", domain.NewUnauthenticatedError("No token, authorization denied")
	}

	claims := &dto.AuthClaims{}
	token, err := jwt.ParseWithClaims(bearerToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtCfg.SecretKey), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", domain.NewUnauthenticatedError("Malformed token")
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", domain.NewTokenExpiredError()
		default:
			return "", domain.NewInvalidTokenError(err)
		}
	}
	if !token.Valid || claims.ID == "" {
		return "", domain.NewInvalidTokenError(errors.New("token carries no account id"))
	}

	account, err := s.accounts.GetAccountByID(ctx, claims.ID)
	if err != nil {
		return "", domain.NewTransientError("Failed to look up account", err)
	}
	if account == nil {
		return "", domain.NewNotFoundError("User not found")
	}
	return account.ID, nil
}

func (s *authServiceImpl) issueToken(accountID string) (string, error) {
	now := s.now()
	claims := dto.AuthClaims{
		ID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}

func (s *authServiceImpl) loginResponse(account *domain.Account) (*dto.LoginResponse, error) {
	token, err := s.issueToken(account.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to sign token", err)
	}
	return &dto.LoginResponse{Token: token, User: toUserResponse(account)}, nil
}

func (s *authServiceImpl) issueCode() (domain.OneTimeCode, error) {
	value, err := s.newCode()
	if err != nil {
		return domain.OneTimeCode{}, domain.NewInternalError("Failed to generate verification code", err)
	}
	return domain.OneTimeCode{Value: value, ExpiresAt: s.now().Add(s.otpCfg.TTL)}, nil
}

func limitError(allowed bool, err error, message string) error {
	if err != nil {
		return domain.NewTransientError("Failed to check request limits", err)
	}
	if !allowed {
		return domain.NewRateLimitedError(message)
	}
	return nil
}

func translateCreateError(err error) error {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return domain.NewConflictError("User already exists")
	case errors.Is(err, domain.ErrDuplicateUsername):
		return domain.NewConflictError("Username already taken")
	default:
		return domain.NewTransientError("Failed to create account", err)
	}
}

func translateIdentityError(err error) error {
	if errors.Is(err, port.ErrInvalidIdentityToken) {
		return domain.NewInvalidTokenError(err)
	}
	return domain.NewTransientError("Identity provider unavailable", err)
}

// deriveUsername lower-cases the display name and drops whitespace, falling back to the email local part.
func deriveUsername(displayName, email string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, displayName)
	if name != "" {
		return name
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}
