package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/thelocaljewel/backend/internal/entity"
)

type OTPUseCase struct {
	Users  UserRepository
	Codes  OTPRepository
	Tokens TokenIssuer
	Logger *zap.Logger
}

func NewOTPUseCase(users UserRepository, codes OTPRepository, tokens TokenIssuer, logger *zap.Logger) *OTPUseCase {
	return &OTPUseCase{Users: users, Codes: codes, Tokens: tokens, Logger: logger}
}

// RequestCode issues a fresh 6-digit code for a known identifier. The raw
// code is returned to the caller for delivery (an external concern); only its
// hash is stored. One issuance per identifier per 60 seconds.
func (uc *OTPUseCase) RequestCode(ctx context.Context, identifier string) (string, error) {
	identifier = normalizeIdentifier(identifier)
	if identifier == "" {
		return "", InvalidArgument("identifier is required")
	}

	user, err := uc.Users.FindByIdentifier(ctx, identifier)
	if errors.Is(err, sql.ErrNoRows) {
		return "", NotFound("no account found with this email/phone")
	}
	if err != nil {
		return "", fmt.Errorf("look up identity: %w", err)
	}

	now := time.Now().UTC()
	recent, err := uc.Codes.IssuedSince(ctx, identifier, now.Add(-entity.OTPRateWindow))
	if err != nil {
		return "", fmt.Errorf("check otp rate limit: %w", err)
	}
	if recent {
		return "", RateLimited("please wait before requesting another code")
	}

	code, err := randomOTP()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	record := &entity.OTPCode{
		Identifier: identifier,
		OTPHash:    hashOTP(code),
		UserID:     user.UserID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(entity.OTPTTL),
		Used:       false,
	}
	if err := uc.Codes.Insert(ctx, record); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}

	uc.Logger.Info("otp issued", zap.String("identifier", identifier), zap.String("user_id", user.UserID))
	return code, nil
}

// VerifyCode matches the supplied code against the stored unused, unexpired
// records for the identifier, burns it, and issues a customer token.
func (uc *OTPUseCase) VerifyCode(ctx context.Context, identifier, code string) (*VerifyOTPOutput, error) {
	identifier = normalizeIdentifier(identifier)

	record, err := uc.Codes.FindValid(ctx, identifier, hashOTP(code), time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, InvalidArgument("invalid or expired code")
	}
	if err != nil {
		return nil, fmt.Errorf("look up otp: %w", err)
	}

	// MarkUsed is a compare-and-set; losing it means a concurrent verification
	// already burned this code.
	if err := uc.Codes.MarkUsed(ctx, record.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, InvalidArgument("invalid or expired code")
		}
		return nil, fmt.Errorf("mark otp used: %w", err)
	}

	user, err := uc.Users.FindByUserID(ctx, record.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	token, err := uc.Tokens.Issue(ctx, user.UserID, entity.TokenRoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("issue customer token: %w", err)
	}

	uc.Logger.Info("otp verified", zap.String("user_id", user.UserID))
	return &VerifyOTPOutput{Status: "verified", Token: token, User: user}, nil
}

func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

func randomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
