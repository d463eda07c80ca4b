package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		token string
		want  State
	}{
		{"", StateAll},
		{"ALL", StateAll},
		{"CURRENT", StateCurrent},
		{"PAST", StatePast},
		{"FUTURE", StateFuture},
		{"WAITING", StateWaiting},
		{"REJECTED", StateRejected},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseState(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"UNSUPPORTED_STATUS", "all", "APPROVED"} {
		t.Run(bad, func(t *testing.T) {
			_, err := ParseState(bad)
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
			assert.Equal(t, "Unknown state: "+bad, err.Error())
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusWaiting.CanTransitionTo(StatusApproved))
	assert.True(t, StatusWaiting.CanTransitionTo(StatusRejected))
	assert.False(t, StatusWaiting.IsTerminal())

	for _, terminal := range []Status{StatusApproved, StatusRejected} {
		assert.True(t, terminal.IsTerminal())
		assert.False(t, terminal.CanTransitionTo(StatusApproved))
		assert.False(t, terminal.CanTransitionTo(StatusRejected))
		assert.False(t, terminal.CanTransitionTo(StatusWaiting))
	}
}

func TestStatusChangeNotAllowedMessage(t *testing.T) {
	err := ErrStatusChangeNotAllowed(StatusApproved)
	assert.Equal(t, "status change not allowed because current status is APPROVED", err.Error())
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
