package msg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShowToast(t *testing.T) {
	got := ShowToast("Note saved", time.Second)()
	assert.Equal(t, ToastMsg{Message: "Note saved", Duration: time.Second}, got)
}

func TestShowErrorToast(t *testing.T) {
	got := ShowErrorToast("Note no longer exists", time.Second)().(ToastMsg)
	assert.True(t, got.IsError)
	assert.Equal(t, "Note no longer exists", got.Message)
}

func TestExpireToast(t *testing.T) {
	got := ExpireToast(7, time.Millisecond)()
	assert.Equal(t, ToastExpiredMsg{Seq: 7}, got)
}
