package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialState(t *testing.T) {
	s := InitialState()

	assert.Equal(t, StepForm, s.CurrentStep)
	assert.Empty(t, s.ApplicationID)
	assert.Equal(t, Draft{}, s.FormData)
	assert.Zero(t, s.OTPResendCount)
	assert.Zero(t, s.OTPResendTimer)
	assert.False(t, s.IsLoading())
	assert.True(t, s.CanResend())
}

func TestResendAvailability(t *testing.T) {
	tests := []struct {
		name        string
		count       int
		timer       int
		canResend   bool
		maxAttempts bool
	}{
		{name: "fresh", count: 0, timer: 0, canResend: true},
		{name: "cooling down", count: 1, timer: 45, canResend: false},
		{name: "last attempt available", count: 2, timer: 0, canResend: true},
		{name: "cap reached", count: 3, timer: 0, canResend: false, maxAttempts: true},
		{name: "cap reached while cooling down", count: 3, timer: 12, canResend: false, maxAttempts: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := InitialState()
			s.OTPResendCount = tt.count
			s.OTPResendTimer = tt.timer

			assert.Equal(t, tt.canResend, s.CanResend())
			assert.Equal(t, tt.maxAttempts, s.MaxAttemptsReached())
		})
	}
}

func TestStepRank(t *testing.T) {
	assert.Less(t, StepForm.Rank(), StepOTP.Rank())
	assert.Less(t, StepOTP.Rank(), StepSuccess.Rank())
	assert.False(t, Step("done").IsValid())
}
