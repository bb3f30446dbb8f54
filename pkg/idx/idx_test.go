package idx_test

import (
	"testing"
	"time"

	"github.com/keystackhq/keystack/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewProducesSortableIDs(t *testing.T) {
	t.Parallel()

	a := idx.New()
	b := idx.New()

	require.NotEqual(t, a, b)
	require.True(t, a.String() < b.String(), "ids minted later must sort later")
}

func TestParse(t *testing.T) {
	t.Parallel()

	id := idx.New()

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = idx.Parse("")
	require.ErrorIs(t, err, idx.ErrInvalid)

	_, err = idx.Parse("not-a-ulid")
	require.ErrorIs(t, err, idx.ErrInvalid)
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := idx.NewAt(at)

	require.WithinDuration(t, at, id.Time(), time.Millisecond)
	require.True(t, idx.Zero.Time().IsZero())
}
