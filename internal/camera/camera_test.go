package camera

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/wire"
)

func TestNewSourceV4L2Defaults(t *testing.T) {
	src, err := NewSource(wire.AttachCameraRequest{Kind: KindV4L2})
	require.NoError(t, err)
	require.Equal(t, KindV4L2, src.Kind())
	require.Equal(t, "/dev/video0", src.Label())

	v4l2, ok := src.(*V4L2Source)
	require.True(t, ok)
	require.Equal(t, defaultFPS, v4l2.fps)
}

func TestNewSourceV4L2Custom(t *testing.T) {
	src, err := NewSource(wire.AttachCameraRequest{
		Kind:   KindV4L2,
		Label:  "hallway",
		Device: "/dev/video2",
		FPS:    15,
	})
	require.NoError(t, err)
	require.Equal(t, "hallway", src.Label())

	v4l2 := src.(*V4L2Source)
	require.Equal(t, "/dev/video2", v4l2.device)
	require.Equal(t, 15, v4l2.fps)
}

func TestNewSourceMJPEG(t *testing.T) {
	src, err := NewSource(wire.AttachCameraRequest{
		Kind: KindMJPEG,
		URL:  "http://cam.local/stream",
	})
	require.NoError(t, err)
	require.Equal(t, KindMJPEG, src.Kind())
	require.Equal(t, "http://cam.local/stream", src.Label())

	_, err = NewSource(wire.AttachCameraRequest{Kind: KindMJPEG})
	require.Error(t, err)
}

func TestNewSourcePush(t *testing.T) {
	src, err := NewSource(wire.AttachCameraRequest{Kind: KindPush})
	require.NoError(t, err)
	require.Equal(t, KindPush, src.Kind())
	require.Equal(t, "phone", src.Label())
}

func TestNewSourceUnknownKind(t *testing.T) {
	_, err := NewSource(wire.AttachCameraRequest{Kind: "zmq"})
	require.Error(t, err)
}

func TestCutJPEG(t *testing.T) {
	frame1 := []byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9}
	frame2 := []byte{0xFF, 0xD8, 0x03, 0xFF, 0xD9}

	t.Run("no start marker", func(t *testing.T) {
		_, _, ok := cutJPEG([]byte{0x00, 0x01, 0x02})
		require.False(t, ok)
	})

	t.Run("incomplete frame", func(t *testing.T) {
		_, _, ok := cutJPEG([]byte{0xFF, 0xD8, 0x01, 0x02})
		require.False(t, ok)
	})

	t.Run("single frame with junk around", func(t *testing.T) {
		data := append([]byte{0xAA, 0xBB}, frame1...)
		data = append(data, 0xCC)

		frame, rest, ok := cutJPEG(data)
		require.True(t, ok)
		require.Equal(t, frame1, frame)
		require.Equal(t, []byte{0xCC}, rest)
	})

	t.Run("two frames split one at a time", func(t *testing.T) {
		data := append(append([]byte(nil), frame1...), frame2...)

		frame, rest, ok := cutJPEG(data)
		require.True(t, ok)
		require.Equal(t, frame1, frame)

		frame, rest, ok = cutJPEG(rest)
		require.True(t, ok)
		require.Equal(t, frame2, frame)
		require.Empty(t, rest)
	})

	t.Run("frame survives source mutation", func(t *testing.T) {
		data := append([]byte(nil), frame1...)
		frame, _, ok := cutJPEG(data)
		require.True(t, ok)

		data[2] = 0x7F
		require.Equal(t, frame1, frame)
	})
}
