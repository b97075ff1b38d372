// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/savekeep/savekeep/internal/codes"
	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/mailer"
	"github.com/savekeep/savekeep/internal/store"
	"github.com/savekeep/savekeep/internal/utils"
	"github.com/savekeep/savekeep/models"
)

const (
	// maxEmailLength and maxPasswordLength cap inbound credential fields.
	maxEmailLength    = 254
	maxPasswordLength = 512

	// verificationDigits is the length of emailed ownership codes.
	verificationDigits = 6

	// resendThrottle is the minimum age of an existing verification
	// record before login re-sends its code.
	resendThrottle = 120 * time.Second
)

// accountService is the concrete implementation of [AccountService].
// It drives the account state machine over the credential store, with the
// exchange-code cache holding short-lived handoff and reset codes and the
// mailer delivering them.
//
// A user is in exactly one of four states: Unverified (verified=false),
// Verified, PasswordResetPending (verified=true, passwordHash=null), or
// EmailChangePending (verified=false, handoff token escrowed).
type accountService struct {
	users         store.UserRepository
	tokens        store.TokenRepository
	verifications store.VerificationRepository
	files         store.FileStore
	cache         *codes.Cache
	mailer        mailer.Mailer

	// verifyEmail gates whether registration requires proving ownership
	// of the address before a session is issued.
	verifyEmail bool
	bcryptCost  int

	logger *logger.Logger
}

// NewAccountService constructs an [AccountService] wired to the given
// storages, exchange-code cache, and mailer.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAccountService(storages *store.Storages, cache *codes.Cache, mail mailer.Mailer, cfg config.App, logger *logger.Logger) AccountService {
	return &accountService{
		users:         storages.Users,
		tokens:        storages.Tokens,
		verifications: storages.Verifications,
		files:         storages.Files,
		cache:         cache,
		mailer:        mail,
		verifyEmail:   cfg.VerifyEmail,
		bcryptCost:    cfg.BcryptCost,
		logger:        logger,
	}
}

// Register creates a new account.
//
// Email is case-folded before storage so lookups are case-insensitive.
// With verification enabled the account starts unverified, gets a numeric
// challenge emailed, and no session is issued until [VerifyEmail]
// succeeds. With verification disabled the account is born verified and a
// session token is returned immediately.
func (a *accountService) Register(ctx context.Context, email, password string) (string, string, error) {
	log := logger.FromContext(ctx)

	email, err := normalizeEmail(email)
	if err != nil {
		return "", "", err
	}
	if err := validatePassword(password); err != nil {
		return "", "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return "", "", fmt.Errorf("password hashing failed: %w", err)
	}
	hashStr := string(hash)

	user := models.User{
		ID:           utils.NewUUID(),
		Email:        email,
		PasswordHash: &hashStr,
		Verified:     !a.verifyEmail,
		CreatedAt:    time.Now(),
	}

	if _, err := a.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return "", "", ErrEmailTaken
		}
		log.Err(err).Msg("user creation ended with error")
		return "", "", fmt.Errorf("user creation ended with error: %w", err)
	}

	if !a.verifyEmail {
		token, err := a.issueToken(ctx, user.ID)
		if err != nil {
			return "", "", err
		}
		return user.ID, token, nil
	}

	if err := a.newVerification(ctx, user.ID, email); err != nil {
		return "", "", err
	}

	return user.ID, "", nil
}

// Login authenticates by email and password.
//
// A null password hash short-circuits into the reset flow: a reset code is
// minted (unless one is already live) and emailed, and the caller gets a
// [StateError] wrapping ErrPasswordResetRequired instead of a token. An
// unverified account with a correct password gets its challenge re-sent
// when the stored record is older than the resend throttle, and a
// [StateError] wrapping ErrVerificationRequired.
func (a *accountService) Login(ctx context.Context, email, password string, rotate bool) (string, error) {
	log := logger.FromContext(ctx)

	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	if err := validatePassword(password); err != nil {
		return "", err
	}

	user, err := a.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", ErrAccountNotFound
		}
		log.Err(err).Msg("user search by email failed")
		return "", fmt.Errorf("user search by email failed: %w", err)
	}

	if user.PasswordHash == nil {
		a.startPasswordReset(ctx, user)
		return "", &StateError{UserID: user.ID, State: ErrPasswordResetRequired}
	}

	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	if !user.Verified {
		a.resendVerification(ctx, user)
		return "", &StateError{UserID: user.ID, State: ErrVerificationRequired}
	}

	if rotate {
		return a.issueToken(ctx, user.ID)
	}

	token, err := a.tokens.FindTokenByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return a.issueToken(ctx, user.ID)
		}
		log.Err(err).Msg("token lookup failed")
		return "", fmt.Errorf("token lookup failed: %w", err)
	}

	return token.Token, nil
}

// ConsumeExchangeCode redeems a single-use code of either kind for the
// owning account's session token. For reset-kind codes the stored password
// hash is nulled first, forcing the account into PasswordResetPending so
// the follow-up ChangePassword needs no old password.
func (a *accountService) ConsumeExchangeCode(ctx context.Context, code string) (string, error) {
	log := logger.FromContext(ctx)

	userID, kind, ok := a.cache.Take(code)
	if !ok {
		return "", ErrInvalidCode
	}

	if kind == codes.KindPasswordReset {
		if err := a.users.UpdatePassword(ctx, userID, nil); err != nil {
			log.Err(err).Str("userID", userID).Msg("nulling password hash failed")
			return "", fmt.Errorf("nulling password hash failed: %w", err)
		}
	}

	token, err := a.tokens.FindTokenByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return a.issueToken(ctx, userID)
		}
		log.Err(err).Msg("token lookup failed")
		return "", fmt.Errorf("token lookup failed: %w", err)
	}

	return token.Token, nil
}

// RequestExchangeCode mints a session-handoff code for the session's
// owner. Minting replaces any live handoff code; with clear set the live
// code is cancelled and nothing is minted.
func (a *accountService) RequestExchangeCode(ctx context.Context, token string, clear bool) (string, error) {
	userID, err := a.ResolveSession(ctx, token)
	if err != nil {
		return "", err
	}

	if clear {
		a.cache.Cancel(userID, codes.KindSessionHandoff)
		return "", nil
	}

	return a.cache.Put(userID, codes.KindSessionHandoff), nil
}

// CheckExchangeCode reports whether code is live in either namespace,
// without consuming it.
func (a *accountService) CheckExchangeCode(ctx context.Context, code string) bool {
	_, _, ok := a.cache.Peek(code)
	return ok
}

// ChangePassword stores a new password for the session's owner. While the
// stored hash is null (reset flow) no old password is required; otherwise
// the old password must match.
func (a *accountService) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	log := logger.FromContext(ctx)

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	userID, err := a.ResolveSession(ctx, token)
	if err != nil {
		return err
	}

	user, err := a.users.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Msg("user lookup failed")
		return fmt.Errorf("user lookup failed: %w", err)
	}

	if user.PasswordHash != nil {
		if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(oldPassword)) != nil {
			return ErrInvalidCredentials
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.bcryptCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return fmt.Errorf("password hashing failed: %w", err)
	}
	hashStr := string(hash)

	if err := a.users.UpdatePassword(ctx, userID, &hashStr); err != nil {
		log.Err(err).Msg("password update failed")
		return fmt.Errorf("password update failed: %w", err)
	}

	return nil
}

// ForgotPassword mints a reset code and emails it to the account. A live
// reset code means one was already emailed within its TTL, so the call is
// a no-op rather than invalidating the emailed code.
func (a *accountService) ForgotPassword(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	user, err := a.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrAccountNotFound
		}
		logger.FromContext(ctx).Err(err).Msg("user search by email failed")
		return fmt.Errorf("user search by email failed: %w", err)
	}

	if !user.Verified {
		return &StateError{UserID: user.ID, State: ErrVerificationRequired}
	}

	a.startPasswordReset(ctx, user)
	return nil
}

// VerifyEmail redeems an emailed ownership code.
//
// On success the account becomes verified and the challenge is deleted.
// When a handoff token is escrowed, this verification completed an email
// change: the escrowed token is promoted back to the active session, so
// the caller keeps the session it held before the change. Otherwise a
// fresh session token is minted.
func (a *accountService) VerifyEmail(ctx context.Context, userID, code string) (string, error) {
	log := logger.FromContext(ctx)

	if userID == "" || code == "" {
		return "", ErrInvalidDataProvided
	}

	if _, err := a.verifications.FindByUserIDAndCode(ctx, userID, code); err != nil {
		if errors.Is(err, store.ErrVerificationNotFound) {
			return "", ErrInvalidCode
		}
		log.Err(err).Msg("verification lookup failed")
		return "", fmt.Errorf("verification lookup failed: %w", err)
	}

	if err := a.users.SetVerified(ctx, userID, true); err != nil {
		log.Err(err).Msg("marking user verified failed")
		return "", fmt.Errorf("marking user verified failed: %w", err)
	}

	if err := a.verifications.DeleteByUserID(ctx, userID); err != nil {
		log.Err(err).Msg("deleting verification failed")
		return "", fmt.Errorf("deleting verification failed: %w", err)
	}

	token, err := a.tokens.PromoteHandoff(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrHandoffNotFound) {
			return a.issueToken(ctx, userID)
		}
		log.Err(err).Msg("handoff promotion failed")
		return "", fmt.Errorf("handoff promotion failed: %w", err)
	}

	return token.Token, nil
}

// ChangeEmail moves the account to a new address.
//
// The account must be fully Verified with a live password: a pending reset
// rejects with ErrResetInProgress so the flow cannot be used to dodge
// password verification mid-reset. On success the account drops to
// unverified, a challenge goes to the new address, the current session
// token moves into escrow until verification completes, and all live
// exchange codes for the account are evicted.
func (a *accountService) ChangeEmail(ctx context.Context, token, password, newEmail string) error {
	log := logger.FromContext(ctx)

	newEmail, err := normalizeEmail(newEmail)
	if err != nil {
		return err
	}

	userID, err := a.ResolveSession(ctx, token)
	if err != nil {
		return err
	}

	user, err := a.users.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Msg("user lookup failed")
		return fmt.Errorf("user lookup failed: %w", err)
	}

	if user.PasswordHash == nil {
		return ErrResetInProgress
	}
	if !user.Verified {
		return &StateError{UserID: user.ID, State: ErrVerificationRequired}
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}

	if err := a.users.UpdateEmail(ctx, userID, newEmail); err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return ErrEmailTaken
		}
		log.Err(err).Msg("email update failed")
		return fmt.Errorf("email update failed: %w", err)
	}

	if err := a.newVerification(ctx, userID, newEmail); err != nil {
		return err
	}

	// escrow the session so it survives re-verification
	handoff := models.HandoffToken{Token: token, UserID: userID, IssuedAt: time.Now()}
	if err := a.tokens.CreateHandoff(ctx, handoff); err != nil {
		log.Err(err).Msg("token escrow failed")
		return fmt.Errorf("token escrow failed: %w", err)
	}
	if err := a.tokens.DeleteTokenByUserID(ctx, userID); err != nil {
		log.Err(err).Msg("token revocation failed")
		return fmt.Errorf("token revocation failed: %w", err)
	}

	a.cache.CancelAll(userID)

	return nil
}

// DeleteAccount erases the account: the user row (cascading tokens,
// verifications, and escrow rows) and both on-disk category trees. The
// password must match; mid-reset accounts have no password to present and
// are rejected.
func (a *accountService) DeleteAccount(ctx context.Context, token, password string) error {
	log := logger.FromContext(ctx)

	userID, err := a.ResolveSession(ctx, token)
	if err != nil {
		return err
	}

	user, err := a.users.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Msg("user lookup failed")
		return fmt.Errorf("user lookup failed: %w", err)
	}

	if user.PasswordHash == nil {
		return ErrResetInProgress
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}

	if err := a.files.DeleteUserData(ctx, userID); err != nil {
		log.Err(err).Msg("file erasure failed")
		return fmt.Errorf("file erasure failed: %w", err)
	}

	if err := a.users.DeleteUser(ctx, userID); err != nil {
		log.Err(err).Msg("account erasure failed")
		return fmt.Errorf("account erasure failed: %w", err)
	}

	a.cache.CancelAll(userID)
	log.Info().Str("userID", userID).Msg("account deleted")

	return nil
}

// ResolveSession maps a presented token to its owning user ID.
func (a *accountService) ResolveSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	userID, err := a.tokens.FindUserIDByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return "", ErrInvalidToken
		}
		logger.FromContext(ctx).Err(err).Msg("token resolution failed")
		return "", fmt.Errorf("token resolution failed: %w", err)
	}

	return userID, nil
}

// AccountInfo returns the account record and its storage usage.
func (a *accountService) AccountInfo(ctx context.Context, userID string) (models.User, int64, error) {
	log := logger.FromContext(ctx)

	user, err := a.users.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Msg("user lookup failed")
		return models.User{}, 0, fmt.Errorf("user lookup failed: %w", err)
	}

	usage, err := a.files.Usage(ctx, userID)
	if err != nil {
		log.Err(err).Msg("usage scan failed")
		return models.User{}, 0, fmt.Errorf("usage scan failed: %w", err)
	}

	return user, usage, nil
}

// issueToken mints a fresh session token and installs it as the account's
// single active session.
func (a *accountService) issueToken(ctx context.Context, userID string) (string, error) {
	token := models.SessionToken{
		Token:    utils.NewSessionToken(),
		UserID:   userID,
		IssuedAt: time.Now(),
	}

	if err := a.tokens.UpsertToken(ctx, token); err != nil {
		logger.FromContext(ctx).Err(err).Msg("token issuance failed")
		return "", fmt.Errorf("token issuance failed: %w", err)
	}

	return token.Token, nil
}

// newVerification installs a fresh challenge and emails its code.
func (a *accountService) newVerification(ctx context.Context, userID, email string) error {
	code := utils.NewNumericCode(verificationDigits)
	verification := models.Verification{
		UserID:    userID,
		Code:      code,
		Timestamp: time.Now(),
	}

	if err := a.verifications.UpsertVerification(ctx, verification); err != nil {
		logger.FromContext(ctx).Err(err).Msg("verification creation failed")
		return fmt.Errorf("verification creation failed: %w", err)
	}

	a.sendMail(ctx, func(ctx context.Context) error {
		return a.mailer.SendVerificationCode(ctx, email, code)
	})

	return nil
}

// resendVerification re-sends an unverified account's existing challenge,
// throttled against the record's timestamp. A pruned record gets a fresh
// challenge instead.
func (a *accountService) resendVerification(ctx context.Context, user models.User) {
	log := logger.FromContext(ctx)

	verification, err := a.verifications.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrVerificationNotFound) {
			if err := a.newVerification(ctx, user.ID, user.Email); err != nil {
				log.Err(err).Msg("verification refresh failed")
			}
			return
		}
		log.Err(err).Msg("verification lookup failed")
		return
	}

	if time.Since(verification.Timestamp) <= resendThrottle {
		return
	}

	if err := a.verifications.Touch(ctx, user.ID, time.Now()); err != nil {
		log.Err(err).Msg("verification touch failed")
		return
	}

	a.sendMail(ctx, func(ctx context.Context) error {
		return a.mailer.SendVerificationCode(ctx, user.Email, verification.Code)
	})
}

// startPasswordReset ensures a live reset code exists for the account,
// emailing a fresh one only when none is live.
func (a *accountService) startPasswordReset(ctx context.Context, user models.User) {
	if a.cache.Has(user.ID, codes.KindPasswordReset) {
		return
	}

	code := a.cache.Put(user.ID, codes.KindPasswordReset)
	a.sendMail(ctx, func(ctx context.Context) error {
		return a.mailer.SendPasswordResetCode(ctx, user.Email, code)
	})
}

// sendMail runs a delivery off the request path. Delivery is best effort:
// failures are logged and never surface to the caller.
func (a *accountService) sendMail(ctx context.Context, send func(context.Context) error) {
	log := logger.FromContext(ctx)
	detached := context.WithoutCancel(ctx)

	go func() {
		if err := send(detached); err != nil {
			log.Warn().Err(err).Msg("email delivery failed")
		}
	}()
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(email) > maxEmailLength || !strings.Contains(email, "@") {
		return "", ErrInvalidDataProvided
	}

	return email, nil
}

func validatePassword(password string) error {
	if password == "" || len(password) > maxPasswordLength {
		return ErrInvalidDataProvided
	}

	return nil
}
