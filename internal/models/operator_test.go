package models

import (
	"testing"

	"dailydigest/internal/env"

	"github.com/stretchr/testify/require"
)

func TestOperatorTokenRoundTrip(t *testing.T) {
	env.JWT_SECRET = []byte("test-secret")

	op := Operator{Username: "alice"}
	token := op.GenToken()
	require.NotEmpty(t, token)

	var parsed Operator
	require.NoError(t, parsed.ParseToken(token))
	require.Equal(t, "alice", parsed.Username)
}

func TestOperatorTokenWrongSecret(t *testing.T) {
	env.JWT_SECRET = []byte("first")
	token := (&Operator{Username: "alice"}).GenToken()

	env.JWT_SECRET = []byte("second")
	var parsed Operator
	require.ErrorIs(t, parsed.ParseToken(token), ErrInvalidToken)
	require.Empty(t, parsed.Username)
}

func TestDigestSectionsOrder(t *testing.T) {
	d := DailyDigest{Entries: []CategorizedEntry{
		{Category: CategoryGeneral, Message: "Bump"},
		{Category: CategoryFix, Message: "Fix a"},
		{Category: CategoryFeature, Message: "Add b"},
		{Category: CategoryFix, Message: "Fix c"},
	}}

	sections := d.Sections()
	require.Len(t, sections, 3)
	require.Equal(t, CategoryFix, sections[0].Category)
	require.Equal(t, []string{"Fix a", "Fix c"}, sections[0].Entries)
	require.Equal(t, CategoryFeature, sections[1].Category)
	require.Equal(t, CategoryGeneral, sections[2].Category)
}

func TestReportStatusTerminal(t *testing.T) {
	require.False(t, ReportStatusDraft.Terminal())
	require.False(t, ReportStatusScheduled.Terminal())
	require.True(t, ReportStatusSent.Terminal())
	require.True(t, ReportStatusFailed.Terminal())
}

func TestUserDeveloperFallback(t *testing.T) {
	require.Equal(t, "Jane", UserConfig{DisplayName: "Jane", GitHubUsername: "jdoe"}.Developer())
	require.Equal(t, "jdoe", UserConfig{GitHubUsername: "jdoe"}.Developer())
}
