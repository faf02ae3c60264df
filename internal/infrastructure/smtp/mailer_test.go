package smtp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

func TestOTPNotifier_SendsCodeAndExpiry(t *testing.T) {
	ml := &mockMailer{}
	ml.On("SendEmail", "a@example.com", "Your verification code", mock.MatchedBy(func(body string) bool {
		return assert.Contains(t, body, "Hello Ada,") &&
			assert.Contains(t, body, "123456") &&
			assert.Contains(t, body, "10 minutes")
	})).Return(nil)

	err := OTPNotifier{Mailer: ml}.SendOTP(context.Background(), "a@example.com", "Ada", "123456", 10*time.Minute)
	require.NoError(t, err)
	ml.AssertExpectations(t)
}

func TestOTPNotifier_PropagatesMailerError(t *testing.T) {
	ml := &mockMailer{}
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("550 rejected"))

	err := OTPNotifier{Mailer: ml}.SendOTP(context.Background(), "a@example.com", "", "123456", time.Minute)
	assert.ErrorContains(t, err, "550")
}

func TestOTPNotifier_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := OTPNotifier{Mailer: &mockMailer{}}.SendOTP(ctx, "a@example.com", "", "1", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOTPBody_WithoutName(t *testing.T) {
	body := otpBody("  ", "654321", 10*time.Minute)
	assert.Contains(t, body, "Hello,")
	assert.NotContains(t, body, "Hello  ,")
}
