package trial_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/invoclear/go-extract-server/trial"
)

const (
	trialTTL   = 7 * 24 * time.Hour
	trialLimit = 3
)

func newTestCodec(t *testing.T, now *time.Time) *trial.Codec {
	t.Helper()
	codec, err := trial.NewCodec([]byte("test-secret"), trialTTL, trialLimit,
		trial.WithNowTime(func() time.Time { return *now }))
	require.NoError(t, err)
	return codec
}

func TestReadAbsentOrMalformed(t *testing.T) {
	now := time.Now()
	codec := newTestCodec(t, &now)

	require.Equal(t, 0, codec.Read(""))
	require.Equal(t, 0, codec.Read("not-a-token"))
	require.Equal(t, 0, codec.Read("aaaa.bbbb.cccc"))
}

func TestReadTamperedToken(t *testing.T) {
	now := time.Now()
	codec := newTestCodec(t, &now)

	other, err := trial.NewCodec([]byte("other-secret"), trialTTL, trialLimit)
	require.NoError(t, err)
	forged, err := other.Issue(0) // forged by a holder who knows the format but not the key
	require.NoError(t, err)

	require.Equal(t, 0, codec.Read(forged))
}

func TestReadExpiredToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, &now)

	token, err := codec.Issue(2)
	require.NoError(t, err)

	now = now.Add(trialTTL + time.Hour)
	require.Equal(t, 0, codec.Read(token))
}

func TestIssueReadRoundTrip(t *testing.T) {
	now := time.Now()
	codec := newTestCodec(t, &now)

	token, err := codec.Issue(2)
	require.NoError(t, err)
	require.Equal(t, 2, codec.Read(token))
}

func TestIncrementUntilExceeded(t *testing.T) {
	now := time.Now()
	codec := newTestCodec(t, &now)

	token := ""
	for i := 1; i <= trialLimit; i++ {
		count := codec.Read(token)
		require.False(t, codec.Exceeded(count))

		next, err := codec.Issue(count + 1)
		require.NoError(t, err)
		token = next
		require.Equal(t, i, codec.Read(token))
	}

	// Fourth check: the counter is spent.
	require.True(t, codec.Exceeded(codec.Read(token)))
}

func TestResetStartsOver(t *testing.T) {
	now := time.Now()
	codec := newTestCodec(t, &now)

	token, err := codec.Issue(trialLimit)
	require.NoError(t, err)
	require.True(t, codec.Exceeded(codec.Read(token)))

	// Clearing the carrier is the reset: an absent token reads as zero.
	require.Equal(t, 0, codec.Read(""))
	require.False(t, codec.Exceeded(0))
}
