package message

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlash_SuccessAutoDismisses(t *testing.T) {
	f := NewFlash(20 * time.Millisecond)
	f.Show(Success("Thank you!"))

	n, ok := f.Current()
	require.True(t, ok)
	assert.Equal(t, KindSuccess, n.Kind)
	assert.True(t, f.Pending())

	require.Eventually(t, func() bool {
		_, ok := f.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.False(t, f.Pending())
}

func TestFlash_ErrorStays(t *testing.T) {
	f := NewFlash(10 * time.Millisecond)
	f.Show(Error("HTTP error! status: 500"))
	assert.False(t, f.Pending())

	time.Sleep(40 * time.Millisecond)
	n, ok := f.Current()
	require.True(t, ok)
	assert.Equal(t, "HTTP error! status: 500", n.Text)
}

func TestFlash_SupersedeCancelsTimer(t *testing.T) {
	f := NewFlash(20 * time.Millisecond)
	f.Show(Success("first"))
	f.Show(Error("second"))
	assert.False(t, f.Pending())

	time.Sleep(60 * time.Millisecond)
	n, ok := f.Current()
	require.True(t, ok, "old timer must not clear the newer notice")
	assert.Equal(t, "second", n.Text)
}

func TestFlash_DismissAndClose(t *testing.T) {
	f := NewFlash(time.Hour)
	f.Show(Success("hi"))
	f.Dismiss()
	_, ok := f.Current()
	assert.False(t, ok)
	assert.False(t, f.Pending())

	f.Show(Success("again"))
	f.Close()
	assert.False(t, f.Pending())
	f.Show(Error("after close"))
	_, ok = f.Current()
	assert.False(t, ok)
}

func TestFlash_ZeroTTLNeverExpires(t *testing.T) {
	f := NewFlash(0)
	f.Show(Success("sticky"))
	assert.False(t, f.Pending())
	_, ok := f.Current()
	assert.True(t, ok)
}
