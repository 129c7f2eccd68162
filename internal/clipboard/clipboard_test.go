package clipboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/util"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteText(text string) error {
	args := m.Called(text)
	return args.Error(0)
}

func newCenter() *notify.Center {
	return notify.NewCenter(zap.NewNop(), clock.NewManual(time.Unix(0, 0)), 3*time.Second)
}

func TestCopy(t *testing.T) {
	t.Run("Success pushes confirmation", func(t *testing.T) {
		w := new(mockWriter)
		w.On("WriteText", "DE89370400440532013000").Return(nil)
		center := newCenter()

		err := Copy(w, "DE89370400440532013000", "IBAN", center)

		require.NoError(t, err)
		w.AssertExpectations(t)
		n, ok := center.Current()
		require.True(t, ok)
		assert.Equal(t, notify.SeveritySuccess, n.Severity)
		assert.Equal(t, "IBAN copied to clipboard", n.Message)
	})

	t.Run("Writer failure becomes ClipboardUnavailable", func(t *testing.T) {
		w := new(mockWriter)
		w.On("WriteText", mock.Anything).Return(errors.New("permission denied"))
		center := newCenter()

		err := Copy(w, "bc1q...", "address", center)

		assert.ErrorIs(t, err, util.ErrClipboardUnavailable)
		n, ok := center.Current()
		require.True(t, ok)
		assert.Equal(t, notify.SeverityError, n.Severity)
		assert.Equal(t, "Failed to copy address", n.Message)
	})

	t.Run("Panicking writer is contained", func(t *testing.T) {
		w := WriterFunc(func(string) error { panic("boom") })

		var err error
		assert.NotPanics(t, func() { err = Copy(w, "x", "address", nil) })
		assert.ErrorIs(t, err, util.ErrClipboardUnavailable)
	})

	t.Run("Nil writer", func(t *testing.T) {
		err := Copy(nil, "x", "address", nil)
		assert.ErrorIs(t, err, util.ErrClipboardUnavailable)
	})
}
