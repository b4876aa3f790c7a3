package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckedTotalSize(t *testing.T) {
	total, err := checkedTotalSize(1, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(103), total)
}

func TestCheckedTotalSizeOverflow(t *testing.T) {
	_, err := checkedTotalSize(1, 1, maxAddressableSize)
	require.Error(t, err)
	assert.True(t, Is(err, ErrPacketTooLarge))
}
