package userapi

import "github.com/goliatone/go-errors"

const (
	TextCodeMissingCredentials = "auth_missing_credentials"
	TextCodeWeakPassword       = "auth_weak_password"
	TextCodeDuplicateUser      = "auth_duplicate_user"
	TextCodeInvalidCredentials = "auth_invalid_credentials"
	TextCodeUnauthenticated    = "auth_unauthenticated"
	TextCodeInsufficientRole   = "auth_insufficient_role"
	TextCodeUserNotFound       = "auth_user_not_found"
	TextCodeMissingSigningKey  = "auth_missing_signing_key"
	TextCodeTokenMalformed     = "auth_token_malformed"
	TextCodeTokenExpired       = "auth_token_expired"
	TextCodeBadSignature       = "auth_token_bad_signature"
	TextCodeBadIssuer          = "auth_token_bad_issuer"
	TextCodeBadAudience        = "auth_token_bad_audience"
)

// ErrMissingCredentials is returned when username or password are blank.
var ErrMissingCredentials = errors.New("username and password are required", errors.CategoryBadInput).
	WithTextCode(TextCodeMissingCredentials).
	WithCode(errors.CodeBadRequest)

// ErrWeakPassword is returned when a password fails the complexity policy.
var ErrWeakPassword = errors.New("password does not meet the complexity requirements", errors.CategoryValidation).
	WithTextCode(TextCodeWeakPassword).
	WithCode(errors.CodeBadRequest)

// ErrDuplicateUser is returned when the username is already taken.
var ErrDuplicateUser = errors.New("user already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateUser).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials covers both unknown users and wrong passwords so
// callers cannot enumerate usernames.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is returned when a request carries no valid principal.
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrInsufficientRole is returned when the principal lacks every required role.
var ErrInsufficientRole = errors.New("insufficient role", errors.CategoryAuth).
	WithTextCode(TextCodeInsufficientRole).
	WithCode(errors.CodeForbidden)

// ErrUserNotFound is returned when a targeted user does not exist.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrMissingSigningKey means the service cannot issue or verify tokens.
// It is fatal at startup, never handled lazily per request.
var ErrMissingSigningKey = errors.New("JWT signing key not configured", errors.CategoryInternal).
	WithTextCode(TextCodeMissingSigningKey)

// ErrTokenMalformed is returned for tokens that fail structural parsing.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for tokens past their expiration instant.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenBadSignature is returned when the HMAC does not verify.
var ErrTokenBadSignature = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeBadSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenBadIssuer is returned when the iss claim does not match the configuration.
var ErrTokenBadIssuer = errors.New("token issuer is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeBadIssuer).
	WithCode(errors.CodeUnauthorized)

// ErrTokenBadAudience is returned when the aud claim does not match the configuration.
var ErrTokenBadAudience = errors.New("token audience is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeBadAudience).
	WithCode(errors.CodeUnauthorized)
