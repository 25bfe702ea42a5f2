package usecase

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/thelocaljewel/backend/internal/entity"
)

func newOTPFixture() (*OTPUseCase, *MockUserRepository, *MockOTPRepository, *MockTokenIssuer) {
	users := new(MockUserRepository)
	codes := new(MockOTPRepository)
	tokens := new(MockTokenIssuer)
	return NewOTPUseCase(users, codes, tokens, zap.NewNop()), users, codes, tokens
}

func TestRequestCode(t *testing.T) {
	t.Run("unknown identifier", func(t *testing.T) {
		uc, users, _, _ := newOTPFixture()
		users.On("FindByIdentifier", mock.Anything, "ghost@example.com").Return(nil, sql.ErrNoRows)

		_, err := uc.RequestCode(context.Background(), "ghost@example.com")
		assert.True(t, IsNotFound(err))
	})

	t.Run("rate limited inside the window", func(t *testing.T) {
		uc, users, codes, _ := newOTPFixture()
		users.On("FindByIdentifier", mock.Anything, "ana@example.com").
			Return(&entity.User{UserID: "user_abc"}, nil)
		codes.On("IssuedSince", mock.Anything, "ana@example.com", mock.Anything).Return(true, nil)

		_, err := uc.RequestCode(context.Background(), "ana@example.com")
		assert.True(t, IsRateLimited(err))
		codes.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("issues a six digit code and stores only the hash", func(t *testing.T) {
		uc, users, codes, _ := newOTPFixture()
		users.On("FindByIdentifier", mock.Anything, "ana@example.com").
			Return(&entity.User{UserID: "user_abc"}, nil)
		codes.On("IssuedSince", mock.Anything, "ana@example.com", mock.Anything).Return(false, nil)

		var stored *entity.OTPCode
		codes.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			stored = args.Get(1).(*entity.OTPCode)
		}).Return(nil)

		code, err := uc.RequestCode(context.Background(), "  Ana@Example.com ")
		assert.NoError(t, err)
		assert.Len(t, code, 6)
		assert.Equal(t, "ana@example.com", stored.Identifier)
		assert.Equal(t, hashOTP(code), stored.OTPHash)
		assert.NotContains(t, stored.OTPHash, code)
		assert.Equal(t, entity.OTPTTL, stored.ExpiresAt.Sub(stored.CreatedAt))
	})
}

func TestVerifyCode(t *testing.T) {
	t.Run("wrong or expired code", func(t *testing.T) {
		uc, _, codes, _ := newOTPFixture()
		codes.On("FindValid", mock.Anything, "ana@example.com", mock.Anything, mock.Anything).
			Return(nil, sql.ErrNoRows)

		_, err := uc.VerifyCode(context.Background(), "ana@example.com", "000000")
		assert.Equal(t, CodeInvalidArgument, CodeOf(err))
	})

	t.Run("burns the code and issues a customer token", func(t *testing.T) {
		uc, users, codes, tokens := newOTPFixture()
		record := &entity.OTPCode{ID: 7, Identifier: "ana@example.com", UserID: "user_abc"}

		codes.On("FindValid", mock.Anything, "ana@example.com", hashOTP("123456"), mock.Anything).
			Return(record, nil)
		codes.On("MarkUsed", mock.Anything, int64(7)).Return(nil)
		users.On("FindByUserID", mock.Anything, "user_abc").
			Return(&entity.User{UserID: "user_abc", Email: "ana@example.com"}, nil)
		tokens.On("Issue", mock.Anything, "user_abc", entity.TokenRoleCustomer).Return("tok-1", nil)

		out, err := uc.VerifyCode(context.Background(), "Ana@Example.com", "123456")
		assert.NoError(t, err)
		assert.Equal(t, "verified", out.Status)
		assert.Equal(t, "tok-1", out.Token)
		assert.Equal(t, "user_abc", out.User.UserID)
		codes.AssertCalled(t, "MarkUsed", mock.Anything, int64(7))
	})

	t.Run("losing the burn compare-and-set fails verification", func(t *testing.T) {
		uc, _, codes, tokens := newOTPFixture()
		record := &entity.OTPCode{ID: 7, Identifier: "ana@example.com", UserID: "user_abc"}

		codes.On("FindValid", mock.Anything, "ana@example.com", hashOTP("123456"), mock.Anything).
			Return(record, nil)
		codes.On("MarkUsed", mock.Anything, int64(7)).Return(sql.ErrNoRows)

		_, err := uc.VerifyCode(context.Background(), "ana@example.com", "123456")
		assert.Equal(t, CodeInvalidArgument, CodeOf(err))
		tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a code verifies at most once under interleaved reads", func(t *testing.T) {
		uc, users, codes, tokens := newOTPFixture()
		record := &entity.OTPCode{ID: 7, Identifier: "ana@example.com", UserID: "user_abc"}

		// Both verifications read the code before either write lands; the
		// conditional update lets exactly one of them burn it.
		codes.On("FindValid", mock.Anything, "ana@example.com", hashOTP("123456"), mock.Anything).
			Return(record, nil)
		codes.On("MarkUsed", mock.Anything, int64(7)).Return(nil).Once()
		codes.On("MarkUsed", mock.Anything, int64(7)).Return(sql.ErrNoRows)
		users.On("FindByUserID", mock.Anything, "user_abc").
			Return(&entity.User{UserID: "user_abc", Email: "ana@example.com"}, nil)
		tokens.On("Issue", mock.Anything, "user_abc", entity.TokenRoleCustomer).Return("tok-1", nil)

		successes := 0
		for i := 0; i < 2; i++ {
			if _, err := uc.VerifyCode(context.Background(), "ana@example.com", "123456"); err == nil {
				successes++
			}
		}
		assert.Equal(t, 1, successes)
		tokens.AssertNumberOfCalls(t, "Issue", 1)
	})
}
